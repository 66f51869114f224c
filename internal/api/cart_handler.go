package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopcore/backend/internal/cart"
)

type cartItemRequest struct {
	ProductID string `json:"productId"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	items, err := s.cart.Items(r.Context(), user)
	if err != nil {
		s.log.Error("get cart failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProductID == "" {
		writeMessage(w, http.StatusUnprocessableEntity, "ProductID is required")
		return
	}

	err := s.cart.Add(r.Context(), user, req.ProductID)
	switch {
	case errors.Is(err, cart.ErrUnknownProduct):
		writeMessage(w, http.StatusNotFound, "Product not found")
		return
	case err != nil:
		s.log.Error("add to cart failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user.CartItems)
}

// handleRemoveFromCart deletes one product from the cart, or empties it
// when no productId is supplied.
func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())

	var req cartItemRequest
	if r.Body != nil {
		// Body is optional; an empty or absent body clears the cart.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := s.cart.Remove(r.Context(), user, req.ProductID); err != nil {
		s.log.Error("remove from cart failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user.CartItems)
}

// handleUpdateQuantity pins the quantity of the cart entry named by the
// path; quantity 0 removes it.
func (s *Server) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFromContext(r.Context())
	productID := chi.URLParam(r, "id")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity < 0 {
		writeMessage(w, http.StatusUnprocessableEntity, "Quantity must not be negative")
		return
	}

	err := s.cart.SetQuantity(r.Context(), user, productID, req.Quantity)
	switch {
	case errors.Is(err, cart.ErrNotInCart):
		writeMessage(w, http.StatusNotFound, "Product not in cart")
		return
	case err != nil:
		s.log.Error("update cart quantity failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, user.CartItems)
}
