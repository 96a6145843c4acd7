package server

import (
	"context"
	"net/http"

	"github.com/pricescope/pricescope/internal/auth"
	"github.com/pricescope/pricescope/internal/utils"
	"github.com/pricescope/pricescope/pkg/product"
	"github.com/pricescope/pricescope/pkg/storage"
)

// Pipeline is what the search handlers need from the aggregation layer.
type Pipeline interface {
	Search(ctx context.Context, query string) ([]product.Product, error)
}

type Server struct {
	DB       *storage.DB
	Pipeline Pipeline
	Auth     *auth.Service
}

func New(db *storage.DB, p Pipeline, a *auth.Service) *Server {
	return &Server{DB: db, Pipeline: p, Auth: a}
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("server: listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Handler builds the route table. Split from Start for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/search-by-image", s.handleSearchByImage)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/wishlist", s.handleListWishlist)
	mux.HandleFunc("POST /api/wishlist", s.handleAddWishlist)
	mux.HandleFunc("DELETE /api/wishlist", s.handleRemoveWishlist)

	mux.HandleFunc("GET /api/cart", s.handleListCart)
	mux.HandleFunc("POST /api/cart", s.handleAddCart)
	mux.HandleFunc("DELETE /api/cart", s.handleRemoveCart)

	mux.HandleFunc("GET /api/history", s.handleHistory)

	return mux
}
