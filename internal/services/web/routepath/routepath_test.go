package routepath

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildersEscapeSegments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		got  string
		want string
	}{
		{SelectStory("s1"), "/select_story/s1"},
		{DeleteStory("s1"), "/story/s1/delete"},
		{ViewStory("s1"), "/story/s1/view"},
		{DownloadPDF("s1"), "/story/s1/download"},
		{DownloadText("s1"), "/story/s1/download_text"},
		{DownloadJSON("s1"), "/story/s1/download_json"},
		{AddUnit("s1", "Item"), "/story/s1/add_unit/Item"},
		{EditUnit("s1", "Old Sword"), "/story/s1/edit_unit/Old%20Sword"},
		{DeleteUnit("s1", "a/b"), "/story/s1/delete_unit/a%2Fb"},
		{AddExistingUnit("u1"), "/add_existing_unit/u1"},
		{LoginLink("abc.def"), "/login/abc.def"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestEscapedUnitNameMatchesPattern(t *testing.T) {
	t.Parallel()

	var gotName string
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+EditUnitPattern, func(_ http.ResponseWriter, r *http.Request) {
		gotName = r.PathValue("unitName")
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, EditUnit("s1", "Who? a/b"), nil))
	if gotName != "Who? a/b" {
		t.Fatalf("unitName = %q", gotName)
	}
}

func TestBrowse(t *testing.T) {
	t.Parallel()

	if got := Browse(nil, nil, " "); got != Root {
		t.Fatalf("Browse() = %q, want %q", got, Root)
	}
	got := Browse([]string{"l1", "l2"}, []string{"l3"}, "drag")
	want := "/?exclude_label_ids=l3&label_ids=l1%2Cl2&search_query=drag"
	if got != want {
		t.Fatalf("Browse() = %q, want %q", got, want)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := SplitList([]string{"u1, u2", "", " u3 ", "u4,,"})
	if diff := cmp.Diff([]string{"u1", "u2", "u3", "u4"}, got); diff != "" {
		t.Fatalf("SplitList mismatch (-want +got):\n%s", diff)
	}
}

func TestPathOf(t *testing.T) {
	t.Parallel()

	if got := PathOf("POST " + AssignLabels); got != AssignLabels {
		t.Fatalf("PathOf() = %q", got)
	}
	if got := PathOf(Logout); got != Logout {
		t.Fatalf("PathOf() = %q", got)
	}
}
