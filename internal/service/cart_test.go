package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/uditmishra03/carthub/internal/domain"
	apperrors "github.com/uditmishra03/carthub/pkg/errors"
	"github.com/uditmishra03/carthub/pkg/logger"
)

// --- Mock Repository ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) GetCart(ctx context.Context, customerID string) (*domain.Cart, bool, error) {
	args := m.Called(ctx, customerID)
	var cart *domain.Cart
	if c := args.Get(0); c != nil {
		cart = c.(*domain.Cart)
	}
	return cart, args.Bool(1), args.Error(2)
}

func (m *mockCartRepository) SaveCart(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) DeleteCart(ctx context.Context, customerID string) error {
	args := m.Called(ctx, customerID)
	return args.Error(0)
}

// --- Recording Publisher ---

type recordingPublisher struct {
	updated    []domain.CartSnapshot
	cleared    []string
	checkedOut []string
	err        error
}

func (p *recordingPublisher) PublishCartUpdated(_ context.Context, snap domain.CartSnapshot) error {
	p.updated = append(p.updated, snap)
	return p.err
}

func (p *recordingPublisher) PublishCartCleared(_ context.Context, customerID string) error {
	p.cleared = append(p.cleared, customerID)
	return p.err
}

func (p *recordingPublisher) PublishCartCheckedOut(_ context.Context, customerID, orderID, _ string) error {
	p.checkedOut = append(p.checkedOut, customerID+"/"+orderID)
	return p.err
}

// --- Test Helpers ---

func newTestService(repo *mockCartRepository) (*CartService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewCartService(repo, pub, logger.Discard()), pub
}

func intPtr(n int) *int { return &n }

func addRequest(customerID, productID, name, price string, qty int) AddItemRequest {
	return AddItemRequest{
		CustomerID:  customerID,
		ProductID:   productID,
		ProductName: name,
		Price:       price,
		Quantity:    intPtr(qty),
	}
}

func cartWithItem(t *testing.T, customerID, productID, price string, qty int) *domain.Cart {
	t.Helper()
	item, err := domain.NewCartItem(productID, "Test Product", decimal.RequireFromString(price), qty)
	require.NoError(t, err)
	cart := domain.NewCart(customerID)
	require.NoError(t, cart.AddItem(item))
	return cart
}

func assertRepoUntouched(t *testing.T, repo *mockCartRepository) {
	t.Helper()
	repo.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "DeleteCart", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// AddItemToCart
// ---------------------------------------------------------------------------

func TestAddItemToCart_NewCart(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "customer-1").Return(nil, false, nil)
	repo.On("SaveCart", ctx, mock.MatchedBy(func(c *domain.Cart) bool {
		return c.CustomerID() == "customer-1" && len(c.Items()) == 1
	})).Return(nil)

	res, err := svc.AddItemToCart(ctx, addRequest("customer-1", "prod-1", "Book", "10.00", 2))

	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.Cart)
	assert.Empty(t, res.ErrorMessage)
	assert.Equal(t, 2, res.Cart.TotalItems)
	assert.Equal(t, "20.00", res.Cart.Subtotal)
	require.Len(t, res.Cart.Items, 1)
	assert.Equal(t, "10.00", res.Cart.Items[0].Price)

	require.Len(t, pub.updated, 1)
	assert.Equal(t, *res.Cart, pub.updated[0])
	repo.AssertExpectations(t)
}

func TestAddItemToCart_TotalsMatchPriceTimesQuantity(t *testing.T) {
	cases := []struct {
		price    string
		qty      int
		subtotal string
	}{
		{"0", 1, "0.00"},
		{"0.01", 3, "0.03"},
		{"29.99", 7, "209.93"},
		{"1299.99", 1, "1299.99"},
		{"0.10", 10, "1.00"},
	}

	for _, tc := range cases {
		t.Run(tc.price, func(t *testing.T) {
			repo := new(mockCartRepository)
			svc, _ := newTestService(repo)
			ctx := context.Background()
			repo.On("GetCart", ctx, "c").Return(nil, false, nil)
			repo.On("SaveCart", ctx, mock.Anything).Return(nil)

			res, err := svc.AddItemToCart(ctx, addRequest("c", "p", "n", tc.price, tc.qty))

			require.NoError(t, err)
			require.True(t, res.Success)
			assert.Equal(t, tc.qty, res.Cart.TotalItems)
			assert.Equal(t, tc.subtotal, res.Cart.Subtotal)
		})
	}
}

func TestAddItemToCart_MergesExistingProduct(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "customer-1").Return(cartWithItem(t, "customer-1", "prod-1", "10.00", 2), true, nil)
	repo.On("SaveCart", ctx, mock.Anything).Return(nil)

	res, err := svc.AddItemToCart(ctx, addRequest("customer-1", "prod-1", "Renamed", "12.50", 1))

	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Cart.Items, 1)
	item := res.Cart.Items[0]
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, "12.50", item.Price)
	assert.Equal(t, "Renamed", item.ProductName)
	assert.Equal(t, "37.50", res.Cart.Subtotal)
}

func TestAddItemToCart_MissingFields(t *testing.T) {
	full := addRequest("customer-1", "prod-1", "Book", "10.00", 1)

	cases := map[string]func(r *AddItemRequest){
		"customer_id":  func(r *AddItemRequest) { r.CustomerID = "" },
		"product_id":   func(r *AddItemRequest) { r.ProductID = "" },
		"product_name": func(r *AddItemRequest) { r.ProductName = "" },
		"price":        func(r *AddItemRequest) { r.Price = "" },
		"quantity":     func(r *AddItemRequest) { r.Quantity = nil },
	}

	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			repo := new(mockCartRepository)
			svc, pub := newTestService(repo)
			req := full
			mutate(&req)

			res, err := svc.AddItemToCart(context.Background(), req)

			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Nil(t, res.Cart)
			assert.Equal(t, "Missing required field: "+field, res.ErrorMessage)
			assert.Empty(t, pub.updated)
			assertRepoUntouched(t, repo)
		})
	}
}

func TestAddItemToCart_NonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		repo := new(mockCartRepository)
		svc, _ := newTestService(repo)

		res, err := svc.AddItemToCart(context.Background(), addRequest("c", "p", "n", "5.00", qty))

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.ErrorMessage, "Quantity must be greater than 0")
		assertRepoUntouched(t, repo)
	}
}

func TestAddItemToCart_NegativePrice(t *testing.T) {
	for _, price := range []string{"-1.00", "-0.01", "-999"} {
		repo := new(mockCartRepository)
		svc, _ := newTestService(repo)

		res, err := svc.AddItemToCart(context.Background(), addRequest("c", "p", "n", price, 1))

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Contains(t, res.ErrorMessage, "Price must be greater than or equal to 0")
		assertRepoUntouched(t, repo)
	}
}

func TestAddItemToCart_QuantityCheckedBeforePrice(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)

	res, err := svc.AddItemToCart(context.Background(), addRequest("c", "p", "n", "-1.00", 0))

	require.NoError(t, err)
	assert.Equal(t, "Quantity must be greater than 0", res.ErrorMessage)
}

func TestAddItemToCart_MalformedPrice(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)

	res, err := svc.AddItemToCart(context.Background(), addRequest("c", "p", "n", "ten dollars", 1))

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid price: must be a decimal string", res.ErrorMessage)
	assertRepoUntouched(t, repo)
}

func TestAddItemToCart_TooManyDecimals(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)

	res, err := svc.AddItemToCart(context.Background(), addRequest("c", "p", "n", "1.999", 1))

	require.NoError(t, err)
	assert.Equal(t, "Price must have at most 2 decimal places", res.ErrorMessage)
	assertRepoUntouched(t, repo)
}

func TestAddItemToCart_MergePastMaxQuantity(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	existing := cartWithItem(t, "customer-1", "prod-1", "1.00", domain.MaxQuantity)
	repo.On("GetCart", mock.Anything, "customer-1").Return(existing, true, nil)

	res, err := svc.AddItemToCart(context.Background(), addRequest("customer-1", "prod-1", "Book", "1.00", 1))

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Nil(t, res.Cart)
	assert.Equal(t, domain.MsgQuantityTooLarge, res.ErrorMessage)
	assert.Empty(t, pub.updated)
	repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
}

func TestAddItemToCart_QuantityAboveMax(t *testing.T) {
	for _, qty := range []int{domain.MaxQuantity + 1, math.MaxInt} {
		repo := new(mockCartRepository)
		svc, _ := newTestService(repo)

		res, err := svc.AddItemToCart(context.Background(), addRequest("c", "p", "n", "1.00", qty))

		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, domain.MsgQuantityTooLarge, res.ErrorMessage)
		assertRepoUntouched(t, repo)
	}
}

func TestAddItemToCart_ExponentPriceRejected(t *testing.T) {
	for _, price := range []string{"1e5000000", "1e200000000", "1E2", "5e-1"} {
		t.Run(price, func(t *testing.T) {
			repo := new(mockCartRepository)
			svc, _ := newTestService(repo)

			res, err := svc.AddItemToCart(context.Background(), addRequest("c", "p", "n", price, 1))

			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, "Invalid price: must be a decimal string", res.ErrorMessage)
			assertRepoUntouched(t, repo)
		})
	}
}

func TestAddItemToCart_PriceAboveMax(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)

	res, err := svc.AddItemToCart(context.Background(), addRequest("c", "p", "n", "1000000000.01", 1))

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, domain.MsgPriceTooLarge, res.ErrorMessage)
	assertRepoUntouched(t, repo)
}

func TestAddItemToCart_BlankFields(t *testing.T) {
	full := addRequest("customer-1", "prod-1", "Book", "10.00", 1)

	cases := map[string]func(r *AddItemRequest){
		"customer_id":  func(r *AddItemRequest) { r.CustomerID = "   " },
		"product_id":   func(r *AddItemRequest) { r.ProductID = "\t" },
		"product_name": func(r *AddItemRequest) { r.ProductName = " \n " },
	}

	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			repo := new(mockCartRepository)
			svc, _ := newTestService(repo)
			req := full
			mutate(&req)

			res, err := svc.AddItemToCart(context.Background(), req)

			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, "Missing required field: "+field, res.ErrorMessage)
			assertRepoUntouched(t, repo)
		})
	}
}

func TestAddItemToCart_GetCartFails(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(nil, false, apperrors.Storage("redis get cart", errors.New("connection refused")))

	res, err := svc.AddItemToCart(ctx, addRequest("c", "p", "n", "1.00", 1))

	require.Error(t, err)
	assert.True(t, apperrors.IsStorage(err))
	assert.False(t, res.Success)
	assert.Nil(t, res.Cart)
	repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	assert.Empty(t, pub.updated)
}

func TestAddItemToCart_SaveCartFails(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(nil, false, nil)
	repo.On("SaveCart", ctx, mock.Anything).Return(apperrors.Storage("redis set cart", errors.New("READONLY")))

	res, err := svc.AddItemToCart(ctx, addRequest("c", "p", "n", "1.00", 1))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorage)
	assert.Contains(t, err.Error(), "save cart")
	assert.Nil(t, res.Cart)
	assert.Empty(t, pub.updated)
}

func TestAddItemToCart_PublishFailureIsNotSurfaced(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	pub.err = errors.New("broker unavailable")
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(nil, false, nil)
	repo.On("SaveCart", ctx, mock.Anything).Return(nil)

	res, err := svc.AddItemToCart(ctx, addRequest("c", "p", "n", "1.00", 1))

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, pub.updated, 1)
}

func TestNewCartService_NilPublisher(t *testing.T) {
	repo := new(mockCartRepository)
	svc := NewCartService(repo, nil, logger.Discard())
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(nil, false, nil)
	repo.On("SaveCart", ctx, mock.Anything).Return(nil)

	res, err := svc.AddItemToCart(ctx, addRequest("c", "p", "n", "1.00", 1))

	require.NoError(t, err)
	assert.True(t, res.Success)
}

// ---------------------------------------------------------------------------
// GetCart
// ---------------------------------------------------------------------------

func TestGetCart_UnknownCustomer(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "customer-new").Return(nil, false, nil)

	snap, err := svc.GetCart(ctx, "customer-new")

	require.NoError(t, err)
	assert.Equal(t, "customer-new", snap.CustomerID)
	assert.Zero(t, snap.TotalItems)
	assert.Equal(t, "0.00", snap.Subtotal)
	assert.NotNil(t, snap.Items)
	assert.Empty(t, snap.Items)
}

func TestGetCart_Existing(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "customer-1").Return(cartWithItem(t, "customer-1", "prod-1", "19.99", 2), true, nil)

	snap, err := svc.GetCart(ctx, "customer-1")

	require.NoError(t, err)
	assert.Equal(t, 2, snap.TotalItems)
	assert.Equal(t, "39.98", snap.Subtotal)
}

func TestGetCart_EmptyCustomerID(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)

	_, err := svc.GetCart(context.Background(), "")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assertRepoUntouched(t, repo)
}

func TestCartOperations_BlankIDs(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.GetCart(ctx, "   ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	_, err = svc.RemoveItem(ctx, "customer-1", " ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	err = svc.ClearCart(ctx, "\t")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	assertRepoUntouched(t, repo)
}

func TestGetCart_StorageError(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(nil, false, apperrors.Storage("redis get cart", errors.New("timeout")))

	_, err := svc.GetCart(ctx, "c")

	assert.True(t, apperrors.IsStorage(err))
}

// ---------------------------------------------------------------------------
// UpdateItemQuantity
// ---------------------------------------------------------------------------

func TestUpdateItemQuantity_Success(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(cartWithItem(t, "c", "prod-1", "10.00", 2), true, nil)
	repo.On("SaveCart", ctx, mock.Anything).Return(nil)

	snap, err := svc.UpdateItemQuantity(ctx, "c", "prod-1", 5)

	require.NoError(t, err)
	assert.Equal(t, 5, snap.TotalItems)
	assert.Equal(t, "50.00", snap.Subtotal)
	assert.Len(t, pub.updated, 1)
}

func TestUpdateItemQuantity_ZeroRemoves(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(cartWithItem(t, "c", "prod-1", "10.00", 2), true, nil)
	repo.On("SaveCart", ctx, mock.MatchedBy(func(c *domain.Cart) bool { return c.IsEmpty() })).Return(nil)

	snap, err := svc.UpdateItemQuantity(ctx, "c", "prod-1", 0)

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	repo.AssertExpectations(t)
}

func TestUpdateItemQuantity_Negative(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)

	_, err := svc.UpdateItemQuantity(context.Background(), "c", "prod-1", -1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assertRepoUntouched(t, repo)
}

func TestUpdateItemQuantity_UnknownProduct(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(cartWithItem(t, "c", "prod-1", "10.00", 2), true, nil)

	_, err := svc.UpdateItemQuantity(ctx, "c", "prod-404", 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
}

func TestUpdateItemQuantity_MissingProductID(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)

	_, err := svc.UpdateItemQuantity(context.Background(), "c", "", 1)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Missing required field: product_id", appErr.Message)
	assertRepoUntouched(t, repo)
}

// ---------------------------------------------------------------------------
// RemoveItem
// ---------------------------------------------------------------------------

func TestRemoveItem_Success(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(cartWithItem(t, "c", "prod-1", "10.00", 2), true, nil)
	repo.On("SaveCart", ctx, mock.Anything).Return(nil)

	snap, err := svc.RemoveItem(ctx, "c", "prod-1")

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Len(t, pub.updated, 1)
}

func TestRemoveItem_AbsentProductIsNoop(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(cartWithItem(t, "c", "prod-1", "10.00", 2), true, nil)

	snap, err := svc.RemoveItem(ctx, "c", "prod-404")

	require.NoError(t, err)
	assert.Len(t, snap.Items, 1)
	repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
	assert.Empty(t, pub.updated)
}

func TestRemoveItem_UnknownCart(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(nil, false, nil)

	snap, err := svc.RemoveItem(ctx, "c", "prod-1")

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	repo.AssertNotCalled(t, "SaveCart", mock.Anything, mock.Anything)
}

// ---------------------------------------------------------------------------
// ClearCart
// ---------------------------------------------------------------------------

func TestClearCart_Success(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("DeleteCart", ctx, "c").Return(nil)

	require.NoError(t, svc.ClearCart(ctx, "c"))
	assert.Equal(t, []string{"c"}, pub.cleared)
	repo.AssertExpectations(t)
}

func TestClearCart_StorageError(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("DeleteCart", ctx, "c").Return(apperrors.Storage("redis del cart", errors.New("down")))

	err := svc.ClearCart(ctx, "c")

	assert.True(t, apperrors.IsStorage(err))
	assert.Empty(t, pub.cleared)
}

func TestClearCart_EmptyCustomerID(t *testing.T) {
	repo := new(mockCartRepository)
	svc, _ := newTestService(repo)

	assert.ErrorIs(t, svc.ClearCart(context.Background(), ""), apperrors.ErrInvalidInput)
	assertRepoUntouched(t, repo)
}

// ---------------------------------------------------------------------------
// Checkout
// ---------------------------------------------------------------------------

func TestCheckout_Success(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(cartWithItem(t, "c", "prod-1", "24.99", 2), true, nil)
	repo.On("DeleteCart", ctx, "c").Return(nil)

	res, err := svc.Checkout(ctx, "c")

	require.NoError(t, err)
	_, parseErr := uuid.Parse(res.OrderID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "49.98", res.TotalAmount)
	require.Len(t, pub.checkedOut, 1)
	assert.Equal(t, "c/"+res.OrderID, pub.checkedOut[0])
	repo.AssertExpectations(t)
}

func TestCheckout_EmptyCart(t *testing.T) {
	for name, setup := range map[string]func(repo *mockCartRepository, ctx context.Context){
		"absent": func(repo *mockCartRepository, ctx context.Context) {
			repo.On("GetCart", ctx, "c").Return(nil, false, nil)
		},
		"stored empty": func(repo *mockCartRepository, ctx context.Context) {
			repo.On("GetCart", ctx, "c").Return(domain.NewCart("c"), true, nil)
		},
	} {
		t.Run(name, func(t *testing.T) {
			repo := new(mockCartRepository)
			svc, _ := newTestService(repo)
			ctx := context.Background()
			setup(repo, ctx)

			_, err := svc.Checkout(ctx, "c")

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "Cannot checkout empty cart", appErr.Message)
			repo.AssertNotCalled(t, "DeleteCart", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckout_DeleteFails(t *testing.T) {
	repo := new(mockCartRepository)
	svc, pub := newTestService(repo)
	ctx := context.Background()

	repo.On("GetCart", ctx, "c").Return(cartWithItem(t, "c", "prod-1", "1.00", 1), true, nil)
	repo.On("DeleteCart", ctx, "c").Return(apperrors.Storage("redis del cart", errors.New("down")))

	_, err := svc.Checkout(ctx, "c")

	assert.True(t, apperrors.IsStorage(err))
	assert.Empty(t, pub.checkedOut)
}
