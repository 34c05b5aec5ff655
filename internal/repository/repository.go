package repository

import (
	"context"

	"github.com/uditmishra03/carthub/internal/domain"
)

// CartRepository defines the persistence contract for the cart aggregate.
type CartRepository interface {
	// GetCart loads the cart for a customer. A customer without a stored cart
	// yields found == false and a nil error.
	GetCart(ctx context.Context, customerID string) (cart *domain.Cart, found bool, err error)

	// SaveCart replaces the whole stored cart for cart.CustomerID(). Writes are
	// unconditional: the last writer wins.
	SaveCart(ctx context.Context, cart *domain.Cart) error

	// DeleteCart removes the stored cart. Deleting a missing cart is not an error.
	DeleteCart(ctx context.Context, customerID string) error
}
