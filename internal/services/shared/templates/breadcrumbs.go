package templates

import "strings"

// BreadcrumbItem represents one breadcrumb entry in a page trail.
type BreadcrumbItem struct {
	// Label is the visible breadcrumb text.
	Label string
	// URL is the optional destination for this breadcrumb entry.
	URL string
}

// Trail drops unlabeled items and strips the link from the final item, which
// names the current page. A trail with a single item is empty.
func Trail(items ...BreadcrumbItem) []BreadcrumbItem {
	out := make([]BreadcrumbItem, 0, len(items))
	for _, item := range items {
		item.Label = strings.TrimSpace(item.Label)
		if item.Label == "" {
			continue
		}
		item.URL = strings.TrimSpace(item.URL)
		out = append(out, item)
	}
	if len(out) <= 1 {
		return []BreadcrumbItem{}
	}
	out[len(out)-1].URL = ""
	return out
}

// WriteBreadcrumbs renders a trail as a nav list.
func WriteBreadcrumbs(m *Markup, items []BreadcrumbItem) {
	if len(items) == 0 {
		return
	}
	m.Open("nav", "class", "breadcrumbs", "aria-label", "Breadcrumb")
	m.Open("ul")
	for _, item := range items {
		m.Open("li")
		if item.URL != "" {
			m.Elem("a", item.Label, "href", item.URL)
		} else {
			m.Elem("span", item.Label, "aria-current", "page")
		}
		m.Close("li")
	}
	m.Close("ul")
	m.Close("nav")
}
