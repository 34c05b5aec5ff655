package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits kept for monetary amounts.
const PriceScale = 2

// MaxQuantity is the largest quantity a single cart line may hold, including
// after merges.
const MaxQuantity = math.MaxInt32

// MaxPrice is the largest accepted unit price.
var MaxPrice = decimal.New(1, 9)

// maxPriceDigits is the number of integer digits in MaxPrice.
const maxPriceDigits = 10

// CartItem is a single product line in a cart. Its fields are only reachable
// through accessors so that price >= 0 and quantity > 0 always hold.
type CartItem struct {
	productID   string
	productName string
	price       decimal.Decimal
	quantity    int
}

// NewCartItem validates and builds a cart line. Quantity is checked before
// price.
func NewCartItem(productID, productName string, price decimal.Decimal, quantity int) (CartItem, error) {
	if err := validateQuantity(quantity); err != nil {
		return CartItem{}, err
	}
	if err := validatePrice(price); err != nil {
		return CartItem{}, err
	}
	return CartItem{
		productID:   productID,
		productName: productName,
		price:       price,
		quantity:    quantity,
	}, nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return newValidationError("quantity", MsgQuantityNotPositive)
	}
	if quantity > MaxQuantity {
		return newValidationError("quantity", MsgQuantityTooLarge)
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return newValidationError("price", MsgPriceNegative)
	}
	// Digit count first: exponent-form values must not be rescaled.
	if price.NumDigits()+int(price.Exponent()) > maxPriceDigits || price.GreaterThan(MaxPrice) {
		return newValidationError("price", MsgPriceTooLarge)
	}
	if !price.Equal(price.Truncate(PriceScale)) {
		return newValidationError("price", MsgPricePrecision)
	}
	return nil
}

func (i CartItem) ProductID() string { return i.productID }
func (i CartItem) ProductName() string { return i.productName }
func (i CartItem) Price() decimal.Decimal { return i.price }
func (i CartItem) Quantity() int { return i.quantity }

// Subtotal returns price * quantity.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.price.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// UpdateQuantity replaces the quantity. The item is unchanged on error.
func (i *CartItem) UpdateQuantity(quantity int) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	i.quantity = quantity
	return nil
}

// ItemSnapshot is the serialized form of a CartItem.
type ItemSnapshot struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	Subtotal    string `json:"subtotal"`
}

// Snapshot renders the item with money fixed to two decimal places.
func (i CartItem) Snapshot() ItemSnapshot {
	return ItemSnapshot{
		ProductID:   i.productID,
		ProductName: i.productName,
		Price:       FormatMoney(i.price),
		Quantity:    i.quantity,
		Subtotal:    FormatMoney(i.Subtotal()),
	}
}

// FormatMoney renders d with exactly two fractional digits.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(PriceScale)
}
