// Package mocks provides shared mock implementations for testing.
// This eliminates duplicated mock code across test files.
package mocks

import (
	"context"

	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

// MockAPIClient provides a full mock implementation of ports.APIClient.
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) PaymentMethods(ctx context.Context, amount domain.Amount) (*domain.PaymentMethods, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethods), args.Error(1)
}

func (m *MockAPIClient) SubmitPayment(ctx context.Context, req *ports.PaymentRequest) (*models.PaymentsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentsResponse), args.Error(1)
}

func (m *MockAPIClient) SubmitDetails(ctx context.Context, req *ports.DetailsRequest) (*models.PaymentsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentsResponse), args.Error(1)
}

func (m *MockAPIClient) CheckBalance(ctx context.Context, req *ports.BalanceRequest) (*models.BalanceCheckResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BalanceCheckResponse), args.Error(1)
}

func (m *MockAPIClient) CreateOrder(ctx context.Context, req *ports.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateOrderResponse), args.Error(1)
}

func (m *MockAPIClient) CancelOrder(ctx context.Context, req *ports.CancelOrderRequest) (*models.CancelOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CancelOrderResponse), args.Error(1)
}

func (m *MockAPIClient) OrderStatus(ctx context.Context, req *ports.OrderStatusRequest) (*models.OrderStatusResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderStatusResponse), args.Error(1)
}

func (m *MockAPIClient) PaymentStatus(ctx context.Context, req *ports.StatusRequest) (*models.StatusResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatusResponse), args.Error(1)
}

func (m *MockAPIClient) DeleteStoredPaymentMethod(ctx context.Context, req *ports.DeleteStoredPaymentMethodRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
