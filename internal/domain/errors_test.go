package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/shopcart/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	stockErr := &domain.InsufficientStockError{ProductID: uuid.New(), Requested: 5, Available: 3}

	tests := []struct {
		name        string
		err         error
		wantClass   domain.ErrorClass
		wantMessage string
	}{
		{
			name:      "nil",
			err:       nil,
			wantClass: domain.ClassNone,
		},
		{
			name:        "empty cart is validation",
			err:         fmt.Errorf("place: %w", domain.ErrCartEmpty),
			wantClass:   domain.ClassValidation,
			wantMessage: "Cart is empty.",
		},
		{
			name:        "anonymous is identity",
			err:         domain.ErrNotAuthenticated,
			wantClass:   domain.ClassIdentity,
			wantMessage: "Log in to proceed.",
		},
		{
			name:        "insufficient stock is business rule",
			err:         fmt.Errorf("orders.PlaceOrder: %w", stockErr),
			wantClass:   domain.ClassBusinessRule,
			wantMessage: "Order failed: Not enough stock.",
		},
		{
			name:        "competing action is deferred",
			err:         fmt.Errorf("add: %w", domain.ErrBusy),
			wantClass:   domain.ClassDeferred,
			wantMessage: "Your cart is updating.",
		},
		{
			name:        "unloaded catalog is deferred",
			err:         domain.ErrCatalogNotReady,
			wantClass:   domain.ClassDeferred,
			wantMessage: "Products are still loading.",
		},
		{
			name:        "network failure is transient",
			err:         errors.New("connection reset by peer"),
			wantClass:   domain.ClassTransient,
			wantMessage: "Something went wrong. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantClass, domain.Classify(tt.err))
			assert.Equal(t, tt.wantMessage, domain.Message(tt.err))
		})
	}
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "deferred", domain.ClassDeferred.String())
	assert.Equal(t, "transient", domain.ClassTransient.String())
}

func TestInsufficientStockError(t *testing.T) {
	productID := uuid.New()
	err := error(&domain.InsufficientStockError{ProductID: productID, Requested: 5, Available: 3})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.EqualError(t, err, "product["+productID.String()+"] requested 5, available 3: insufficient stock")
}
