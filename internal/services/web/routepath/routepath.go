// Package routepath stores canonical HTTP paths and mux patterns for web
// modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root           = "/"
	RootPattern    = "/{$}"
	Health         = "/up"
	Login          = "/login"
	LoginToken     = "/login/{token}"
	Logout         = "/logout"
	ChangeUsername = "/change_username"

	CreateStory         = "/create_story"
	ImportStory         = "/import_story"
	SelectStoryPattern  = "/select_story/{storyID}"
	StoryPrefix         = "/story/"
	DeleteStoryPattern  = StoryPrefix + "{storyID}/delete"
	ViewStoryPattern    = StoryPrefix + "{storyID}/view"
	DownloadPDFPattern  = StoryPrefix + "{storyID}/download"
	DownloadTextPattern = StoryPrefix + "{storyID}/download_text"
	DownloadJSONPattern = StoryPrefix + "{storyID}/download_json"

	AddUnitPattern    = StoryPrefix + "{storyID}/add_unit/{unitType}"
	EditUnitPattern   = StoryPrefix + "{storyID}/edit_unit/{unitName}"
	DeleteUnitPattern = StoryPrefix + "{storyID}/delete_unit/{unitName}"

	AssignLabels           = "/assign_labels"
	AddExistingUnitPattern = "/add_existing_unit/{unitID}"
)

// Query and form keys shared by handlers and templates.
const (
	LabelIDsKey        = "label_ids"
	ExcludeLabelIDsKey = "exclude_label_ids"
	SearchQueryKey     = "search_query"
	UnitIDsKey         = "unit_ids"
	LabelNameKey       = "label_name"
	ActionKey          = "action"
	DescriptionKey     = "description"
	StoryFileKey       = "story_file"

	ActionSaveUnit      = "save_unit"
	ActionFillFeatures  = "fill_features"
	ActionAdd           = "add"
	ActionUseAsTemplate = "use_as_template"
)

// LoginLink returns the magic-link landing path for token.
func LoginLink(token string) string {
	return Login + "/" + escapeSegment(token)
}

// SelectStory returns the route that makes storyID current.
func SelectStory(storyID string) string {
	return "/select_story/" + escapeSegment(storyID)
}

// DeleteStory returns the story deletion route.
func DeleteStory(storyID string) string {
	return story(storyID) + "/delete"
}

// ViewStory returns the printable story route.
func ViewStory(storyID string) string {
	return story(storyID) + "/view"
}

// DownloadPDF returns the PDF download route.
func DownloadPDF(storyID string) string {
	return story(storyID) + "/download"
}

// DownloadText returns the generated text download route.
func DownloadText(storyID string) string {
	return story(storyID) + "/download_text"
}

// DownloadJSON returns the JSON export route.
func DownloadJSON(storyID string) string {
	return story(storyID) + "/download_json"
}

// AddUnit returns the add-unit form route.
func AddUnit(storyID, unitType string) string {
	return story(storyID) + "/add_unit/" + escapeSegment(unitType)
}

// EditUnit returns the edit-unit form route.
func EditUnit(storyID, unitName string) string {
	return story(storyID) + "/edit_unit/" + escapeSegment(unitName)
}

// DeleteUnit returns the unit deletion route.
func DeleteUnit(storyID, unitName string) string {
	return story(storyID) + "/delete_unit/" + escapeSegment(unitName)
}

// AddExistingUnit returns the unit browser copy/template route.
func AddExistingUnit(unitID string) string {
	return "/add_existing_unit/" + escapeSegment(unitID)
}

// Browse returns the index with unit browser filters applied.
func Browse(labelIDs, excludeLabelIDs []string, query string) string {
	values := url.Values{}
	if len(labelIDs) > 0 {
		values.Set(LabelIDsKey, strings.Join(labelIDs, ","))
	}
	if len(excludeLabelIDs) > 0 {
		values.Set(ExcludeLabelIDsKey, strings.Join(excludeLabelIDs, ","))
	}
	if query = strings.TrimSpace(query); query != "" {
		values.Set(SearchQueryKey, query)
	}
	if len(values) == 0 {
		return Root
	}
	return Root + "?" + values.Encode()
}

// SplitList flattens repeated and comma-separated values into trimmed,
// non-empty entries.
func SplitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// PathOf strips an optional method from a mux pattern.
func PathOf(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return strings.TrimSpace(path)
	}
	return pattern
}

func story(storyID string) string {
	return StoryPrefix + escapeSegment(storyID)
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
