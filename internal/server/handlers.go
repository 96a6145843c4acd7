package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/pricescope/pricescope/internal/auth"
	"github.com/pricescope/pricescope/internal/imagequery"
	"github.com/pricescope/pricescope/pkg/pipeline"
	"github.com/pricescope/pricescope/pkg/storage"
)

const maxImageSize = 10 << 20 // 10 MiB upload cap

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, query string) {
	items, err := s.Pipeline.Search(r.Context(), query)
	if errors.Is(err, pipeline.ErrNoResults) {
		writeError(w, http.StatusNotFound, "no products found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	s.runSearch(w, r, query)
}

func (s *Server) handleSearchByImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read image")
		return
	}

	query := imagequery.Resolve(data, header.Filename)
	if query == "" {
		writeError(w, http.StatusBadRequest, "could not derive a query from image")
		return
	}
	s.runSearch(w, r, query)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	id, err := s.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, auth.ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"user_id": id})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	id, err := s.Auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user_id": id})
}

type listRequest struct {
	UserID        string `json:"user_id"`
	ProductID     string `json:"product_id"`
	ReminderPrice string `json:"reminder_price,omitempty"`
}

// requireUserAndProduct validates that both sides of a wishlist/cart
// mutation exist before touching the row.
func (s *Server) requireUserAndProduct(w http.ResponseWriter, r *http.Request, userID, productID string) bool {
	if userID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "user_id and product_id are required")
		return false
	}
	if _, err := s.DB.UserByID(r.Context(), userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown user")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return false
	}
	if _, err := s.DB.GetProduct(r.Context(), productID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "unknown product")
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return false
	}
	return true
}

func (s *Server) handleAddWishlist(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.requireUserAndProduct(w, r, req.UserID, req.ProductID) {
		return
	}
	added, err := s.DB.AddWishlistEntry(r.Context(), req.UserID, req.ProductID, time.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"added": added})
}

func (s *Server) handleRemoveWishlist(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "user_id and product_id are required")
		return
	}
	if err := s.DB.RemoveWishlistEntry(r.Context(), req.UserID, req.ProductID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter user_id")
		return
	}
	entries, err := s.DB.ListWishlist(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []storage.WishlistEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddCart(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !s.requireUserAndProduct(w, r, req.UserID, req.ProductID) {
		return
	}
	if err := s.DB.UpsertCartEntry(r.Context(), req.UserID, req.ProductID, req.ReminderPrice, time.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCart(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "user_id and product_id are required")
		return
	}
	if err := s.DB.RemoveCartEntry(r.Context(), req.UserID, req.ProductID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter user_id")
		return
	}
	entries, err := s.DB.ListCart(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []storage.CartEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("id")
	if identity == "" {
		writeError(w, http.StatusBadRequest, "missing query parameter id")
		return
	}
	points, err := s.DB.ListHistory(r.Context(), identity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(points) == 0 {
		writeError(w, http.StatusNotFound, "no history for product")
		return
	}
	writeJSON(w, http.StatusOK, points)
}
