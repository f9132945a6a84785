package sheet

import (
	"testing"

	"careview/internal/core/query"
)

func TestParse(t *testing.T) {
	cases := map[string]Sheet{"": Closed, "add": Add, "link": Link, "edit": Closed, "ADD": Closed}
	for in, want := range cases {
		if got := Parse(in); got != want {
			t.Fatalf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetOpen(t *testing.T) {
	cases := []struct {
		name  string
		seed  map[string]string
		which Sheet
		open  bool
		want  string
	}{
		{"open add", nil, Add, true, "sheet=add"},
		{"close add keeps username", map[string]string{"sheet": "add", "username": "ann"}, Add, false, "username=ann"},
		{"open link clears username", map[string]string{"username": "ann"}, Link, true, "sheet=link"},
		{"close link clears username", map[string]string{"sheet": "link", "username": "ann", "page": "2"}, Link, false, "page=2"},
		{"closed always closes", map[string]string{"sheet": "add"}, Closed, true, ""},
	}
	for _, c := range cases {
		store := query.NewMemStore(c.seed)
		SetOpen(store, c.which, c.open)
		if got := store.Encode(); got != c.want {
			t.Fatalf("%s: store = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestUserCreatedOpensLinkSheet(t *testing.T) {
	store := query.NewMemStore(map[string]string{"sheet": "add", "name": "x"})
	UserCreated(store, "jdoe")
	if Current(store) != Link || Preselected(store) != "jdoe" {
		t.Fatalf("store = %q", store.Encode())
	}
	if v, _ := store.Get("name"); v != "x" {
		t.Fatalf("filters must survive")
	}
}
