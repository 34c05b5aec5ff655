package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/uditmishra03/carthub/internal/domain"
	"github.com/uditmishra03/carthub/pkg/validator"
)

// AddItemRequest is the input of the add-item use case. Quantity is a pointer
// so an absent field can be told apart from an explicit zero.
type AddItemRequest struct {
	CustomerID  string `json:"customer_id" validate:"required,notblank"`
	ProductID   string `json:"product_id" validate:"required,notblank"`
	ProductName string `json:"product_name" validate:"required,notblank"`
	Price       string `json:"price" validate:"required,decimal"`
	Quantity    *int   `json:"quantity" validate:"required"`
}

// AddItemResult is the outcome of AddItemToCart. Exactly one of Cart and
// ErrorMessage is set.
type AddItemResult struct {
	Success      bool                 `json:"success"`
	Cart         *domain.CartSnapshot `json:"cart,omitempty"`
	ErrorMessage string               `json:"error,omitempty"`
}

// itemFailure turns a domain invariant violation into a failed result.
func itemFailure(err error) (AddItemResult, error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return addItemFailure(verr.Message), nil
	}
	return AddItemResult{}, err
}

func addItemFailure(msg string) AddItemResult {
	validationFailuresTotal.WithLabelValues("add_item").Inc()
	return AddItemResult{Success: false, ErrorMessage: msg}
}

// AddItemToCart validates the request, merges the item into the customer's
// cart and saves it. Invalid input yields a failed result and a nil error
// without touching the repository. A non-nil error means the store failed.
func (s *CartService) AddItemToCart(ctx context.Context, req AddItemRequest) (AddItemResult, error) {
	if msg := requestFailure(req); msg != "" {
		return addItemFailure(msg), nil
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		return addItemFailure(msgInvalidPrice), nil
	}

	item, err := domain.NewCartItem(req.ProductID, req.ProductName, price, *req.Quantity)
	if err != nil {
		return itemFailure(err)
	}

	cart, err := s.loadCart(ctx, req.CustomerID)
	if err != nil {
		return AddItemResult{}, err
	}

	if err := cart.AddItem(item); err != nil {
		return itemFailure(err)
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return AddItemResult{}, fmt.Errorf("save cart: %w", err)
	}

	snap := cart.Snapshot()
	itemsAddedTotal.Inc()
	s.publishUpdated(ctx, snap)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("customer_id", req.CustomerID),
		slog.String("product_id", req.ProductID),
		slog.Int("quantity", *req.Quantity),
		slog.Int("total_items", snap.TotalItems),
	)

	return AddItemResult{Success: true, Cart: &snap}, nil
}

const (
	msgInvalidPrice = "Invalid price: must be a decimal string"
)

// requestFailure returns the caller-facing message for the first violated
// field rule, or "" when the request is well formed.
func requestFailure(req AddItemRequest) string {
	err := validator.Validate(req)
	if err == nil {
		return ""
	}

	var verr *validator.ValidationError
	if !errors.As(err, &verr) {
		return "Invalid request"
	}

	field, tag := verr.First()
	switch tag {
	case "required", "notblank":
		return missingField(field)
	case "decimal":
		return msgInvalidPrice
	default:
		return "Invalid field: " + field
	}
}

func missingField(field string) string {
	return "Missing required field: " + field
}
