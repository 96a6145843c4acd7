package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pricescope/pricescope/pkg/product"
	"github.com/pricescope/pricescope/pkg/providers"
)

type fakeProvider struct {
	name  string
	items []product.Product
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(_ context.Context, _ string) ([]product.Product, error) {
	f.calls++
	return f.items, f.err
}

type memStore struct {
	products    map[string]product.Product
	history     map[string][]string
	upsertErr   error
	appendCalls int
}

func newMemStore() *memStore {
	return &memStore{products: map[string]product.Product{}, history: map[string][]string{}}
}

func (m *memStore) UpsertProduct(_ context.Context, p product.Product, _ time.Time) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.products[p.ID] = p
	return nil
}

func (m *memStore) AppendPricePoint(_ context.Context, identity, price string, _ time.Time) error {
	m.appendCalls++
	m.history[identity] = append([]string{price}, m.history[identity]...)
	return nil
}

func (m *memStore) RecentPrices(_ context.Context, identity string, limit int) ([]string, error) {
	h := m.history[identity]
	if len(h) > limit {
		h = h[:limit]
	}
	return h, nil
}

func item(id, title, price string) product.Product {
	return product.Product{ID: id, Title: title, Price: price, Source: "test"}
}

func TestSearchFallsBackPastEmptyAndFailedProviders(t *testing.T) {
	a := &fakeProvider{name: "A"}
	b := &fakeProvider{name: "B", err: &providers.UpstreamError{Provider: "B", Kind: providers.ErrTimeout}}
	c := &fakeProvider{name: "C", items: []product.Product{item("p1", "iphone 15", "65000")}}

	s := New(newMemStore(), a, b, c)
	got, err := s.Search(context.Background(), "iphone 15")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected C's items, got %v", got)
	}
	if a.calls != 1 || b.calls != 1 || c.calls != 1 {
		t.Errorf("providers not tried in order: a=%d b=%d c=%d", a.calls, b.calls, c.calls)
	}
}

func TestSearchStopsAtFirstNonEmptyProvider(t *testing.T) {
	a := &fakeProvider{name: "A", items: []product.Product{item("p1", "iphone 15", "65000")}}
	b := &fakeProvider{name: "B", items: []product.Product{item("p2", "iphone 15", "60000")}}

	s := New(newMemStore(), a, b)
	got, err := s.Search(context.Background(), "iphone 15")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("expected only A's items, got %v", got)
	}
	if b.calls != 0 {
		t.Error("provider B should not be called when A has results")
	}
}

func TestSearchAllProvidersExhausted(t *testing.T) {
	a := &fakeProvider{name: "A"}
	b := &fakeProvider{name: "B", err: errors.New("boom")}

	s := New(newMemStore(), a, b)
	if _, err := s.Search(context.Background(), "iphone 15"); !errors.Is(err, ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestSearchPersistsEveryItem(t *testing.T) {
	a := &fakeProvider{name: "A", items: []product.Product{
		item("p1", "iphone 15", "65000"),
		item("p2", "iphone 15 plus", "72000"),
	}}
	store := newMemStore()

	s := New(store, a)
	if _, err := s.Search(context.Background(), "iphone 15"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(store.products) != 2 || store.appendCalls != 2 {
		t.Fatalf("expected both items persisted: products=%d appends=%d", len(store.products), store.appendCalls)
	}
	// Stored price keeps the raw provider string.
	if store.products["p1"].Price != "65000" {
		t.Errorf("stored price was reformatted: %q", store.products["p1"].Price)
	}
}

func TestSearchSucceedsDespitePersistenceFailure(t *testing.T) {
	a := &fakeProvider{name: "A", items: []product.Product{item("p1", "iphone 15", "65000")}}
	store := newMemStore()
	store.upsertErr = errors.New("disk full")

	s := New(store, a)
	got, err := s.Search(context.Background(), "iphone 15")
	if err != nil {
		t.Fatalf("search must survive persistence failure, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected in-memory results, got %v", got)
	}
}

func TestSearchFormatsDisplayPriceAndAttachesTrend(t *testing.T) {
	a := &fakeProvider{name: "A", items: []product.Product{item("p1", "iphone 15", "129900")}}
	store := newMemStore()
	// Enough history that classification has data to work with.
	store.history["p1"] = []string{"150000", "150000", "150000"}

	s := New(store, a)
	got, err := s.Search(context.Background(), "iphone 15")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got[0].Price != "₹1,29,900" {
		t.Errorf("display price = %q, want ₹1,29,900", got[0].Price)
	}
	if got[0].Trend == "" {
		t.Error("trend must be attached to every item")
	}
}
