package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/uditmishra03/carthub/internal/domain"
	"github.com/uditmishra03/carthub/internal/event"
	"github.com/uditmishra03/carthub/internal/repository"
	apperrors "github.com/uditmishra03/carthub/pkg/errors"
)

const msgEmptyCheckout = "Cannot checkout empty cart"

// CheckoutResult is returned by a successful checkout.
type CheckoutResult struct {
	OrderID     string `json:"order_id"`
	TotalAmount string `json:"total_amount"`
}

// CartService implements the business logic for cart operations.
type CartService struct {
	repo      repository.CartRepository
	publisher event.Publisher
	logger    *slog.Logger
}

// NewCartService creates a new cart service. A nil publisher disables
// notifications.
func NewCartService(repo repository.CartRepository, publisher event.Publisher, logger *slog.Logger) *CartService {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	return &CartService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// GetCart returns the customer's cart. A customer without a stored cart gets
// an empty one.
func (s *CartService) GetCart(ctx context.Context, customerID string) (domain.CartSnapshot, error) {
	if err := requireID("customer_id", customerID); err != nil {
		return domain.CartSnapshot{}, err
	}

	cart, err := s.loadCart(ctx, customerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return cart.Snapshot(), nil
}

// UpdateItemQuantity sets the quantity of an item already in the cart. A
// quantity of 0 removes the item.
func (s *CartService) UpdateItemQuantity(ctx context.Context, customerID, productID string, quantity int) (domain.CartSnapshot, error) {
	if err := requireID("customer_id", customerID); err != nil {
		return domain.CartSnapshot{}, err
	}
	if err := requireID("product_id", productID); err != nil {
		return domain.CartSnapshot{}, err
	}
	if quantity < 0 {
		validationFailuresTotal.WithLabelValues("update_quantity").Inc()
		return domain.CartSnapshot{}, apperrors.InvalidInput("Quantity must not be negative")
	}

	cart, err := s.loadCart(ctx, customerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}

	if err := cart.UpdateItemQuantity(productID, quantity); err != nil {
		return domain.CartSnapshot{}, err
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return domain.CartSnapshot{}, fmt.Errorf("save cart: %w", err)
	}

	snap := cart.Snapshot()
	s.publishUpdated(ctx, snap)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("customer_id", customerID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return snap, nil
}

// RemoveItem removes a product from the cart. Removing a product that is not
// in the cart leaves the store untouched.
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID string) (domain.CartSnapshot, error) {
	if err := requireID("customer_id", customerID); err != nil {
		return domain.CartSnapshot{}, err
	}
	if err := requireID("product_id", productID); err != nil {
		return domain.CartSnapshot{}, err
	}

	cart, err := s.loadCart(ctx, customerID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}

	if !cart.RemoveItem(productID) {
		return cart.Snapshot(), nil
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return domain.CartSnapshot{}, fmt.Errorf("save cart: %w", err)
	}

	snap := cart.Snapshot()
	s.publishUpdated(ctx, snap)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("customer_id", customerID),
		slog.String("product_id", productID),
	)

	return snap, nil
}

// ClearCart deletes the customer's cart.
func (s *CartService) ClearCart(ctx context.Context, customerID string) error {
	if err := requireID("customer_id", customerID); err != nil {
		return err
	}

	if err := s.repo.DeleteCart(ctx, customerID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.publisher.PublishCartCleared(ctx, customerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("customer_id", customerID),
	)

	return nil
}

// Checkout closes the cart: it issues an order ID, reports the amount due and
// deletes the cart. Payment and order persistence happen elsewhere.
func (s *CartService) Checkout(ctx context.Context, customerID string) (CheckoutResult, error) {
	if err := requireID("customer_id", customerID); err != nil {
		return CheckoutResult{}, err
	}

	cart, err := s.loadCart(ctx, customerID)
	if err != nil {
		return CheckoutResult{}, err
	}
	if cart.IsEmpty() {
		validationFailuresTotal.WithLabelValues("checkout").Inc()
		return CheckoutResult{}, apperrors.InvalidInput(msgEmptyCheckout)
	}

	result := CheckoutResult{
		OrderID:     uuid.New().String(),
		TotalAmount: domain.FormatMoney(cart.Subtotal()),
	}

	if err := s.repo.DeleteCart(ctx, customerID); err != nil {
		return CheckoutResult{}, fmt.Errorf("delete cart: %w", err)
	}

	checkoutsTotal.Inc()
	if err := s.publisher.PublishCartCheckedOut(ctx, customerID, result.OrderID, result.TotalAmount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.checked_out event",
			slog.String("customer_id", customerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart checked out",
		slog.String("customer_id", customerID),
		slog.String("order_id", result.OrderID),
		slog.String("total_amount", result.TotalAmount),
	)

	return result, nil
}

// loadCart fetches the customer's cart, starting a new one if none is stored.
func (s *CartService) loadCart(ctx context.Context, customerID string) (*domain.Cart, error) {
	cart, found, err := s.repo.GetCart(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if !found {
		return domain.NewCart(customerID), nil
	}
	return cart, nil
}

func (s *CartService) publishUpdated(ctx context.Context, snap domain.CartSnapshot) {
	if err := s.publisher.PublishCartUpdated(ctx, snap); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("customer_id", snap.CustomerID),
			slog.String("error", err.Error()),
		)
	}
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.InvalidInput(missingField(field))
	}
	return nil
}
