package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pricescope/pricescope/internal/auth"
	"github.com/pricescope/pricescope/pkg/pipeline"
	"github.com/pricescope/pricescope/pkg/product"
	"github.com/pricescope/pricescope/pkg/storage"
)

type fakePipeline struct {
	items []product.Product
	err   error
}

func (f *fakePipeline) Search(_ context.Context, _ string) ([]product.Product, error) {
	return f.items, f.err
}

func newTestServer(t *testing.T, p Pipeline) (*Server, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, p, auth.New(db)), db
}

func TestSearchMissingQuery(t *testing.T) {
	s, _ := newTestServer(t, &fakePipeline{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/search", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSearchNoResultsIs404(t *testing.T) {
	s, _ := newTestServer(t, &fakePipeline{err: pipeline.ErrNoResults})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/search?q=iphone", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSearchReturnsRankedList(t *testing.T) {
	s, _ := newTestServer(t, &fakePipeline{items: []product.Product{
		{ID: "p1", Title: "iPhone 15", Price: "₹65,999", Source: "Flipkart", Trend: product.TrendBuy},
	}})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/search?q=iphone+15", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []product.Product
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Trend != product.TrendBuy {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	s, _ := newTestServer(t, &fakePipeline{})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"name":"A","email":"a@example.com","password":"hunter2"}`)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rec.Code)
	}

	// Duplicate registration conflicts.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/register",
		strings.NewReader(`{"name":"A","email":"a@example.com","password":"hunter2"}`)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"email":"a@example.com","password":"hunter2"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/login",
		strings.NewReader(`{"email":"a@example.com","password":"wrong"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", rec.Code)
	}
}

func TestWishlistRequiresExistingUserAndProduct(t *testing.T) {
	s, db := newTestServer(t, &fakePipeline{})
	h := s.Handler()
	ctx := context.Background()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/wishlist",
		strings.NewReader(`{"user_id":"nope","product_id":"nope"}`)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for unknown user", rec.Code)
	}

	// Seed a real user and product, then the add succeeds.
	if err := db.CreateUser(ctx, storage.User{ID: "u1", Name: "A", Email: "a@example.com", PasswordHash: []byte("x"), CreatedAt: time.Now()}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := db.UpsertProduct(ctx, product.Product{ID: "p1", Title: "iPhone 15", Source: "Flipkart"}, time.Now()); err != nil {
		t.Fatalf("UpsertProduct: %v", err)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/wishlist",
		strings.NewReader(`{"user_id":"u1","product_id":"p1"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]bool
	json.NewDecoder(rec.Body).Decode(&resp)
	if !resp["added"] {
		t.Error("first add should report added=true")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/wishlist",
		strings.NewReader(`{"user_id":"u1","product_id":"p1"}`)))
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["added"] {
		t.Error("second add should report added=false")
	}
}
