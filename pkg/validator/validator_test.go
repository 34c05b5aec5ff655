package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Price      string `json:"price" validate:"required,decimal"`
	Quantity   *int   `json:"quantity" validate:"required"`
	Note       string `json:"note,omitempty" validate:"max=5"`
}

func intPtr(v int) *int { return &v }

func TestValidate_Success(t *testing.T) {
	err := Validate(testRequest{CustomerID: "c-1", Price: "29.99", Quantity: intPtr(0)})
	assert.NoError(t, err)
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	err := Validate(testRequest{Price: "1.00", Quantity: intPtr(1)})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, map[string]string{"customer_id": "is required"}, valErr.Fields())
	assert.Equal(t, "field 'customer_id' is required", valErr.Error())
}

func TestValidate_FirstFollowsDeclarationOrder(t *testing.T) {
	err := Validate(testRequest{})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	field, tag := valErr.First()
	assert.Equal(t, "customer_id", field)
	assert.Equal(t, "required", tag)
	assert.Len(t, valErr.Fields(), 3)
}

func TestValidate_NilPointerIsMissing(t *testing.T) {
	err := Validate(testRequest{CustomerID: "c-1", Price: "1.00"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	field, tag := valErr.First()
	assert.Equal(t, "quantity", field)
	assert.Equal(t, "required", tag)
}

func TestValidate_Decimal(t *testing.T) {
	tests := []struct {
		price string
		valid bool
	}{
		{"29.99", true},
		{"0", true},
		{"-5.00", true},
		{"1e2", false},
		{"1e5000000", false},
		{"1.5E3", false},
		{"+5", false},
		{".5", false},
		{"abc", false},
		{"12.3.4", false},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			err := Validate(testRequest{CustomerID: "c-1", Price: tt.price, Quantity: intPtr(1)})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, "must be a decimal string", valErr.Fields()["price"])
		})
	}
}

func TestValidate_Max(t *testing.T) {
	err := Validate(testRequest{CustomerID: "c-1", Price: "1", Quantity: intPtr(1), Note: "too long"})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at most 5 characters", valErr.Fields()["note"])
}

func TestValidate_NotBlank(t *testing.T) {
	type named struct {
		Name string `json:"name" validate:"required,notblank"`
	}

	for _, name := range []string{" ", "   ", "\t\n"} {
		err := Validate(named{Name: name})

		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr, "%q", name)
		field, tag := valErr.First()
		assert.Equal(t, "name", field)
		assert.Equal(t, "notblank", tag)
		assert.Equal(t, "must not be blank", valErr.Fields()["name"])
	}

	assert.NoError(t, Validate(named{Name: " x "}))
}
