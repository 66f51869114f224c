package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopcore/backend/internal/blob"
	"github.com/shopcore/backend/internal/catalog"
)

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	IsFeatured  bool    `json:"isFeatured"`
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.All(r.Context())
	if err != nil {
		s.log.Error("list products failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleFeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.Featured(r.Context())
	switch {
	case errors.Is(err, catalog.ErrNoneFeatured):
		writeMessage(w, http.StatusNotFound, "No featured products found")
		return
	case err != nil:
		s.log.Error("featured products failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	product, err := s.catalog.Create(r.Context(), catalog.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		IsFeatured:  req.IsFeatured,
	})
	switch {
	case errors.Is(err, blob.ErrEmptyImage):
		writeMessage(w, http.StatusBadRequest, "Product image is required")
		return
	case err != nil:
		s.log.Error("create product failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	err := s.catalog.Delete(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Product not found")
		return
	case err != nil:
		s.log.Error("delete product failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}
