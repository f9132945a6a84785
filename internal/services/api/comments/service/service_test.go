package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"careview/internal/adapters/careapi"
	"careview/internal/core/listcache"
	"careview/internal/core/listview"
	"careview/internal/core/mutation"
	"careview/internal/core/query"
	perr "careview/internal/platform/errors"
	"careview/internal/services/api/comments/domain"
)

// fakeCare keeps comments per resource, oldest first
type fakeCare struct {
	mu       sync.Mutex
	byRes    map[string][]careapi.Comment
	lists    int
	adds     int
	listErr  error
	addErr   error
	lastArgs [2]int
	sent     []string
}

func newFakeCare() *fakeCare { return &fakeCare{byRes: map[string][]careapi.Comment{}} }

func (f *fakeCare) seed(res string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		f.byRes[res] = append(f.byRes[res], careapi.Comment{
			ID:          res + "-" + strconv.Itoa(i),
			Comment:     "c" + strconv.Itoa(i),
			CreatedBy:   careapi.UserBase{Username: "ann", FirstName: "Ann", LastName: "Lee"},
			CreatedDate: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
		})
	}
}

func (f *fakeCare) ListResourceComments(_ context.Context, id string, limit, offset int) (careapi.Page[careapi.Comment], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	f.lastArgs = [2]int{limit, offset}
	if f.listErr != nil {
		return careapi.Page[careapi.Comment]{}, f.listErr
	}
	all := f.byRes[id]
	end := min(offset+limit, len(all))
	var out []careapi.Comment
	if offset < end {
		out = append(out, all[offset:end]...)
	}
	return careapi.Page[careapi.Comment]{Results: out, Count: len(all)}, nil
}

func (f *fakeCare) AddResourceComment(_ context.Context, id string, in careapi.NewComment) (careapi.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adds++
	f.sent = append(f.sent, in.Comment)
	if f.addErr != nil {
		return careapi.Comment{}, f.addErr
	}
	c := careapi.Comment{ID: "new", Comment: in.Comment, CreatedBy: careapi.UserBase{Username: "bob"}}
	f.byRes[id] = append(f.byRes[id], c)
	return c, nil
}

func (f *fakeCare) counts() (lists, adds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists, f.adds
}

func pageStore(p int) query.Store {
	return query.NewMemStore(map[string]string{query.ParamPage: strconv.Itoa(p)})
}

func TestSection_NewestFirstWithAuthor(t *testing.T) {
	care := newFakeCare()
	care.seed("r1", 3)
	s := New(care, listcache.New(16), Options{})

	sec, err := s.Section(context.Background(), "r1", pageStore(1))
	if err != nil {
		t.Fatalf("section: %v", err)
	}
	if sec.List.State != listview.Populated || sec.List.Count != 3 {
		t.Fatalf("list = %+v", sec.List)
	}
	if sec.List.Items[0].ID != "r1-2" || sec.List.Items[2].ID != "r1-0" {
		t.Fatalf("expected newest first, got %+v", sec.List.Items)
	}
	if sec.List.Items[0].Author.DisplayName != "Ann Lee" {
		t.Fatalf("author = %+v", sec.List.Items[0].Author)
	}
	if care.lastArgs != [2]int{DefaultLimit, 0} {
		t.Fatalf("limit/offset = %v", care.lastArgs)
	}
}

func TestSection_OffsetFromPage(t *testing.T) {
	care := newFakeCare()
	care.seed("r1", 30)
	s := New(care, listcache.New(16), Options{})

	sec, err := s.Section(context.Background(), "r1", pageStore(3))
	if err != nil {
		t.Fatalf("section: %v", err)
	}
	if care.lastArgs != [2]int{14, 28} {
		t.Fatalf("limit/offset = %v", care.lastArgs)
	}
	if len(sec.List.Items) != 2 || sec.List.Pagination.Pages != 3 || !sec.List.Pagination.Visible {
		t.Fatalf("list = %+v", sec.List)
	}
}

func TestSection_EmptyHidesPagination(t *testing.T) {
	s := New(newFakeCare(), listcache.New(16), Options{})
	sec, err := s.Section(context.Background(), "r1", pageStore(1))
	if err != nil {
		t.Fatalf("section: %v", err)
	}
	if sec.List.State != listview.Empty || sec.List.Pagination.Visible {
		t.Fatalf("list = %+v", sec.List)
	}
}

func TestSection_FetchFailureIsAState(t *testing.T) {
	care := newFakeCare()
	care.listErr = perr.Newf(perr.ErrorCodeUnavailable, "care api down")
	s := New(care, listcache.New(16), Options{})

	sec, err := s.Section(context.Background(), "r1", pageStore(1))
	if err != nil {
		t.Fatalf("failure must be rendered, not returned: %v", err)
	}
	if sec.List.State != listview.Failed || sec.List.Error == nil || sec.List.Error.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("list = %+v", sec.List)
	}
}

func TestAdd_InvalidatesCachedSection(t *testing.T) {
	care := newFakeCare()
	care.seed("r1", 1)
	s := New(care, listcache.New(16), Options{})
	ctx := context.Background()

	if _, err := s.Section(ctx, "r1", pageStore(1)); err != nil {
		t.Fatalf("section: %v", err)
	}
	if _, err := s.Section(ctx, "r1", pageStore(1)); err != nil {
		t.Fatalf("section: %v", err)
	}
	if lists, _ := care.counts(); lists != 1 {
		t.Fatalf("second read should be cached, lists=%d", lists)
	}

	rec := &mutation.Recorder{}
	c, err := s.Add(mutation.WithNotifier(ctx, rec), domain.AddInput{Resource: "r1", Comment: "hello"})
	if err != nil || c.Comment != "hello" {
		t.Fatalf("add = %+v, %v", c, err)
	}
	if n := rec.Notes(); len(n) != 1 || n[0].Message != "Comment added successfully" {
		t.Fatalf("notes = %+v", n)
	}

	sec, err := s.Section(ctx, "r1", pageStore(1))
	if err != nil {
		t.Fatalf("section: %v", err)
	}
	if lists, _ := care.counts(); lists != 2 || sec.List.Count != 2 {
		t.Fatalf("expected a refetch after add, lists=%d count=%d", lists, sec.List.Count)
	}
}

func TestAdd_BlankNeverSent(t *testing.T) {
	care := newFakeCare()
	s := New(care, listcache.New(16), Options{})
	_, err := s.Add(context.Background(), domain.AddInput{Resource: "r1", Comment: " \t\n"})
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != "comment" {
		t.Fatalf("expected validation error on comment, got %v", err)
	}
	if _, adds := care.counts(); adds != 0 {
		t.Fatalf("blank comment was sent")
	}
}

func TestAdd_InvisibleOnlyIsBlank(t *testing.T) {
	care := newFakeCare()
	s := New(care, listcache.New(16), Options{})
	ctx := context.Background()

	for _, in := range []string{"\u200b\ufeff ", "\u200d\u200c\n", "\u2060\t"} {
		if _, err := s.Add(ctx, domain.AddInput{Resource: "r1", Comment: in}); !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%q: expected validation error, got %v", in, err)
		}
	}
	if _, adds := care.counts(); adds != 0 {
		t.Fatalf("adds = %d", adds)
	}
}

func TestAdd_SendsCommentAsTyped(t *testing.T) {
	cases := []struct{ name, in string }{
		{"zwj emoji", "family \U0001F468\u200d\U0001F469\u200d\U0001F467 ok"},
		{"zwnj malayalam", "\u0d28\u0d3f\u0d28\u0d4d\u0d28\u0d4d\u200c\u0d15"},
		{"zwnj hindi", "\u0915\u094d\u200c\u0937"},
		{"indented markdown", "    indented code\nnext"},
		{"trailing space", "beds free \n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			care := newFakeCare()
			s := New(care, listcache.New(16), Options{})
			c, err := s.Add(context.Background(), domain.AddInput{Resource: "r1", Comment: tc.in})
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			care.mu.Lock()
			sent := care.sent
			care.mu.Unlock()
			if len(sent) != 1 || sent[0] != tc.in {
				t.Fatalf("sent %q, typed %q", sent, tc.in)
			}
			if c.Comment != tc.in {
				t.Fatalf("comment = %q", c.Comment)
			}
		})
	}
}

func TestAdd_TransportFailure(t *testing.T) {
	care := newFakeCare()
	care.addErr = errors.New("connection reset by peer")
	s := New(care, listcache.New(16), Options{})
	rec := &mutation.Recorder{}
	_, err := s.Add(mutation.WithNotifier(context.Background(), rec), domain.AddInput{Resource: "r1", Comment: "x"})
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if n := rec.Notes(); len(n) != 1 || n[0].Level != mutation.LevelError {
		t.Fatalf("notes = %+v", n)
	}
}

func TestNew_PanicsWithoutDeps(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(nil, listcache.New(1), Options{})
}
