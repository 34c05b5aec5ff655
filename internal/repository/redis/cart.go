package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/uditmishra03/carthub/internal/domain"
	"github.com/uditmishra03/carthub/pkg/database"
	apperrors "github.com/uditmishra03/carthub/pkg/errors"
)

// DefaultKeyPrefix namespaces cart keys in Redis.
const DefaultKeyPrefix = "cart:"

// cartRecord is the stored value for one customer. Prices are kept as
// decimal strings so they survive round trips exactly.
type cartRecord struct {
	CustomerID string       `json:"customer_id"`
	Items      []itemRecord `json:"items"`
}

type itemRecord struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
}

// CartRepository implements repository.CartRepository on Redis.
type CartRepository struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// NewCartRepository creates a Redis-backed cart repository. A zero ttl
// stores carts without expiry; an empty prefix falls back to DefaultKeyPrefix.
func NewCartRepository(client redis.Cmdable, keyPrefix string, ttl time.Duration) *CartRepository {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &CartRepository{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (r *CartRepository) key(customerID string) string {
	return r.keyPrefix + customerID
}

// GetCart loads the cart stored under the customer's key.
func (r *CartRepository) GetCart(ctx context.Context, customerID string) (cart *domain.Cart, found bool, err error) {
	key := r.key(customerID)
	ctx, end := database.TraceCommand(ctx, "GetCart", "GET", key)
	defer func() { end(err) }()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, apperrors.Storage("redis get cart", err)
	}

	var rec cartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, apperrors.Storage("unmarshal cart", err)
	}

	cart, err = decodeCart(customerID, rec)
	if err != nil {
		return nil, false, apperrors.Storage("decode cart", err)
	}
	return cart, true, nil
}

// SaveCart overwrites the stored cart with the full item list.
func (r *CartRepository) SaveCart(ctx context.Context, cart *domain.Cart) (err error) {
	key := r.key(cart.CustomerID())
	ctx, end := database.TraceCommand(ctx, "SaveCart", "SET", key)
	defer func() { end(err) }()

	data, err := json.Marshal(encodeCart(cart))
	if err != nil {
		return apperrors.Storage("marshal cart", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return apperrors.Storage("redis set cart", err)
	}
	return nil
}

// DeleteCart removes the customer's key.
func (r *CartRepository) DeleteCart(ctx context.Context, customerID string) (err error) {
	key := r.key(customerID)
	ctx, end := database.TraceCommand(ctx, "DeleteCart", "DEL", key)
	defer func() { end(err) }()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return apperrors.Storage("redis del cart", err)
	}
	return nil
}

func encodeCart(cart *domain.Cart) cartRecord {
	items := cart.Items()
	rec := cartRecord{
		CustomerID: cart.CustomerID(),
		Items:      make([]itemRecord, len(items)),
	}
	for i, item := range items {
		rec.Items[i] = itemRecord{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Price:       domain.FormatMoney(item.Price()),
			Quantity:    item.Quantity(),
		}
	}
	return rec
}

// decodeCart rebuilds the aggregate, re-checking every item invariant.
func decodeCart(customerID string, rec cartRecord) (*domain.Cart, error) {
	cart := domain.NewCart(customerID)
	for _, ir := range rec.Items {
		price, err := decimal.NewFromString(ir.Price)
		if err != nil {
			return nil, err
		}
		item, err := domain.NewCartItem(ir.ProductID, ir.ProductName, price, ir.Quantity)
		if err != nil {
			return nil, err
		}
		if err := cart.AddItem(item); err != nil {
			return nil, err
		}
	}
	return cart, nil
}
