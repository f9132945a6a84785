package query

import (
	"net/url"
	"testing"
)

func TestURLStore_SetMergesAndRemovesEmpty(t *testing.T) {
	var navigated []string
	s, err := Parse("/organizations/o1/users?page=3&sheet=add&name=ann", NavigatorFunc(func(u *url.URL) {
		navigated = append(navigated, u.String())
	}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	s.Set(map[string]string{ParamName: "", ParamPhoneNumber: "+14155552671"})

	if _, ok := s.Get(ParamName); ok {
		t.Fatalf("name should be removed")
	}
	if v, _ := s.Get(ParamPhoneNumber); v != "+14155552671" {
		t.Fatalf("phone_number = %q", v)
	}
	// unrelated params survive
	if v, _ := s.Get(ParamSheet); v != "add" {
		t.Fatalf("sheet = %q, want add", v)
	}
	if got := Page(s); got != 3 {
		t.Fatalf("page = %d, want 3", got)
	}
	if len(navigated) != 1 {
		t.Fatalf("expected one navigation, got %d", len(navigated))
	}
	want := "/organizations/o1/users?page=3&phone_number=%2B14155552671&sheet=add"
	if navigated[0] != want {
		t.Fatalf("navigated to %q, want %q", navigated[0], want)
	}
}

func TestURLStore_EmptySetDoesNotNavigate(t *testing.T) {
	calls := 0
	s := NewURLStore(&url.URL{Path: "/x"}, NavigatorFunc(func(*url.URL) { calls++ }))
	s.Set(nil)
	if calls != 0 {
		t.Fatalf("expected no navigation, got %d", calls)
	}
}

func TestURLStore_CopiesInput(t *testing.T) {
	u := &url.URL{Path: "/x", RawQuery: "page=2"}
	s := NewURLStore(u, nil)
	s.Set(map[string]string{ParamPage: "5"})
	if u.RawQuery != "page=2" {
		t.Fatalf("input url mutated: %q", u.RawQuery)
	}
	out := s.URL()
	out.RawQuery = ""
	if Page(s) != 5 {
		t.Fatalf("URL() must return a copy")
	}
}

func TestPage_Defaults(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"page=0", 1},
		{"page=-4", 1},
		{"page=abc", 1},
		{"page=7", 7},
	}
	for _, c := range cases {
		s := NewURLStore(&url.URL{RawQuery: c.raw}, nil)
		if got := Page(s); got != c.want {
			t.Fatalf("Page(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestSetPage_ClampsToOne(t *testing.T) {
	s := NewURLStore(&url.URL{}, nil)
	SetPage(s, -2)
	if v, _ := s.Get(ParamPage); v != "1" {
		t.Fatalf("page = %q, want 1", v)
	}
	SetPage(s, 4)
	if Page(s) != 4 {
		t.Fatalf("page = %d, want 4", Page(s))
	}
}

func TestMemStore_RecordsSets(t *testing.T) {
	m := NewMemStore(map[string]string{ParamName: "ann", ParamSheet: ""})
	if _, ok := m.Get(ParamSheet); ok {
		t.Fatalf("empty seed value should be absent")
	}
	m.Set(map[string]string{ParamName: "", ParamPage: "1"})
	if got := m.Encode(); got != "page=1" {
		t.Fatalf("Encode = %q, want page=1", got)
	}
	sets := m.Sets()
	if len(sets) != 1 || sets[0][ParamName] != "" || sets[0][ParamPage] != "1" {
		t.Fatalf("unexpected sets: %#v", sets)
	}
}
