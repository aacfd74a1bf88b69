package pagination

import (
	"context"
	"errors"
	"net/url"
	"testing"
)

// fakeQueryable sirve una lista fija en memoria.
type fakeQueryable struct {
	items []int
	err   error

	lastLimit  int
	lastOffset int
}

func (f *fakeQueryable) Count(_ context.Context) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.items)), nil
}

func (f *fakeQueryable) Window(_ context.Context, limit, offset int) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastLimit = limit
	f.lastOffset = offset
	if offset >= len(f.items) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.items) {
		end = len(f.items)
	}
	return f.items[offset:end], nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	return u
}

func TestPaginate_MiddlePage(t *testing.T) {
	q := &fakeQueryable{items: seq(12)}
	reqURL := mustURL(t, "http://api.example.com/car-listing?city=rosario&limit=5&page=2")

	page, err := Paginate[int](context.Background(), Request{Limit: 5, Page: 2}, q, reqURL)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}

	if got := page.Data; len(got) != 5 || got[0] != 6 || got[4] != 10 {
		t.Fatalf("unexpected window: %v", got)
	}
	if q.lastLimit != 5 || q.lastOffset != 5 {
		t.Fatalf("unexpected query window: limit=%d offset=%d", q.lastLimit, q.lastOffset)
	}

	want := Meta{ItemsPerPage: 5, TotalItems: 12, CurrentPage: 2, TotalPages: 3}
	if page.Meta != want {
		t.Fatalf("unexpected meta: %+v", page.Meta)
	}

	links := page.Links
	if links.First != "http://api.example.com/car-listing?city=rosario&limit=5&page=1" {
		t.Fatalf("unexpected first link: %s", links.First)
	}
	if links.Last != "http://api.example.com/car-listing?city=rosario&limit=5&page=3" {
		t.Fatalf("unexpected last link: %s", links.Last)
	}
	if links.Current != "http://api.example.com/car-listing?city=rosario&limit=5&page=2" {
		t.Fatalf("unexpected current link: %s", links.Current)
	}
	if links.Next != links.Last {
		t.Fatalf("next should point to page 3, got %s", links.Next)
	}
	if links.Previous != links.First {
		t.Fatalf("previous should point to page 1, got %s", links.Previous)
	}
}

func TestPaginate_FirstPagePreviousClamped(t *testing.T) {
	q := &fakeQueryable{items: seq(12)}
	reqURL := mustURL(t, "http://api.example.com/car-listing?limit=5&page=1")

	page, err := Paginate[int](context.Background(), Request{Limit: 5, Page: 1}, q, reqURL)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if page.Links.Previous != page.Links.First {
		t.Fatalf("previous must clamp to first page, got %s", page.Links.Previous)
	}
}

func TestPaginate_LastPageNextClamped(t *testing.T) {
	q := &fakeQueryable{items: seq(12)}
	reqURL := mustURL(t, "http://api.example.com/car-listing?limit=5&page=3")

	page, err := Paginate[int](context.Background(), Request{Limit: 5, Page: 3}, q, reqURL)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 items on last page, got %d", len(page.Data))
	}
	if page.Links.Next != page.Links.Last {
		t.Fatalf("next must clamp to last page, got %s", page.Links.Next)
	}
}

func TestPaginate_Defaults(t *testing.T) {
	q := &fakeQueryable{items: seq(25)}
	reqURL := mustURL(t, "http://api.example.com/car-listing")

	page, err := Paginate[int](context.Background(), Request{}, q, reqURL)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if page.Meta.ItemsPerPage != 10 || page.Meta.CurrentPage != 1 {
		t.Fatalf("defaults not applied: %+v", page.Meta)
	}
	if len(page.Data) != 10 {
		t.Fatalf("expected default window of 10, got %d", len(page.Data))
	}
	if page.Meta.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.Meta.TotalPages)
	}
}

func TestPaginate_NegativeValuesFallBack(t *testing.T) {
	q := &fakeQueryable{items: seq(3)}
	reqURL := mustURL(t, "http://api.example.com/car-listing?limit=-5&page=-2")

	page, err := Paginate[int](context.Background(), Request{Limit: -5, Page: -2}, q, reqURL)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if page.Meta.ItemsPerPage != 10 || page.Meta.CurrentPage != 1 {
		t.Fatalf("negative values must fall back to defaults: %+v", page.Meta)
	}
}

func TestPaginate_PageBeyondEnd(t *testing.T) {
	q := &fakeQueryable{items: seq(12)}
	reqURL := mustURL(t, "http://api.example.com/car-listing?limit=5&page=9")

	page, err := Paginate[int](context.Background(), Request{Limit: 5, Page: 9}, q, reqURL)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if len(page.Data) != 0 {
		t.Fatalf("expected empty window, got %v", page.Data)
	}
	if page.Meta.CurrentPage != 9 || page.Meta.TotalPages != 3 {
		t.Fatalf("meta must report the requested page: %+v", page.Meta)
	}
}

func TestPaginate_QueryError(t *testing.T) {
	q := &fakeQueryable{err: errors.New("db down")}
	reqURL := mustURL(t, "http://api.example.com/car-listing")

	if _, err := Paginate[int](context.Background(), Request{}, q, reqURL); err == nil {
		t.Fatalf("expected error to propagate")
	}
}
