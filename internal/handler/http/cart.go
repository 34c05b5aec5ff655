package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/uditmishra03/carthub/internal/domain"
	"github.com/uditmishra03/carthub/internal/service"
	"github.com/uditmishra03/carthub/pkg/httputil"
	"github.com/uditmishra03/carthub/pkg/validator"
)

// maxBodyBytes caps request bodies read by the cart endpoints.
const maxBodyBytes = 64 << 10

// Envelope is the response body of every cart endpoint.
type Envelope struct {
	Success     bool                 `json:"success"`
	Cart        *domain.CartSnapshot `json:"cart,omitempty"`
	Message     string               `json:"message,omitempty"`
	Error       string               `json:"error,omitempty"`
	OrderID     string               `json:"order_id,omitempty"`
	TotalAmount string               `json:"total_amount,omitempty"`
}

// UpdateQuantityRequest is the JSON body of PUT .../items/{productID}.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CheckoutRequest is the JSON body of POST /api/v1/carts/checkout.
type CheckoutRequest struct {
	CustomerID string `json:"customer_id"`
}

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// HandleAddItem is the transport-neutral add-item entry point: it takes the
// raw request body and returns the status code and envelope to send back.
func (h *CartHandler) HandleAddItem(ctx context.Context, body []byte) (int, Envelope) {
	var req service.AddItemRequest
	if err := httputil.DecodeJSON(body, &req); err != nil {
		return h.failure(ctx, err)
	}

	res, err := h.service.AddItemToCart(ctx, req)
	if err != nil {
		return h.failure(ctx, err)
	}
	if !res.Success {
		return http.StatusBadRequest, Envelope{Error: res.ErrorMessage}
	}

	return http.StatusOK, Envelope{
		Success: true,
		Cart:    res.Cart,
		Message: "Item added to cart successfully",
	}
}

// AddItem handles POST /api/v1/carts/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}
	status, env := h.HandleAddItem(r.Context(), body)
	httputil.WriteJSON(w, status, env)
}

// GetCart handles GET /api/v1/carts/{customerID}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetCart(r.Context(), chi.URLParam(r, "customerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, snap, "Cart retrieved successfully")
}

// UpdateItemQuantity handles PUT /api/v1/carts/{customerID}/items/{productID}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := httputil.DecodeJSON(body, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, Envelope{Error: "Missing required field: quantity"})
		return
	}

	snap, err := h.service.UpdateItemQuantity(r.Context(),
		chi.URLParam(r, "customerID"), chi.URLParam(r, "productID"), *req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, snap, "Item quantity updated successfully")
}

// RemoveItem handles DELETE /api/v1/carts/{customerID}/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.RemoveItem(r.Context(), chi.URLParam(r, "customerID"), chi.URLParam(r, "productID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, snap, "Item removed from cart successfully")
}

// ClearCart handles DELETE /api/v1/carts/{customerID}
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearCart(r.Context(), chi.URLParam(r, "customerID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: "Cart cleared successfully"})
}

// Checkout handles POST /api/v1/carts/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := httputil.DecodeJSON(body, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.service.Checkout(r.Context(), req.CustomerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, Envelope{
		Success:     true,
		Message:     "Checkout completed successfully",
		OrderID:     res.OrderID,
		TotalAmount: res.TotalAmount,
	})
}

// --- Helpers ---

func (h *CartHandler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, Envelope{Error: httputil.MsgInvalidBody})
		return nil, false
	}
	return body, true
}

func (h *CartHandler) failure(ctx context.Context, err error) (int, Envelope) {
	status, msg := httputil.Classify(ctx, err, h.logger)
	return status, Envelope{Error: msg}
}

func (h *CartHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, env := h.failure(r.Context(), err)
	httputil.WriteJSON(w, status, env)
}

func (h *CartHandler) writeCart(w http.ResponseWriter, snap domain.CartSnapshot, msg string) {
	httputil.WriteJSON(w, http.StatusOK, Envelope{Success: true, Cart: &snap, Message: msg})
}
