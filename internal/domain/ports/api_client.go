package ports

import (
	"context"
	"net/http"

	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
)

// HTTPClient defines the interface for making HTTP requests
// This allows us to mock HTTP calls in tests and swap implementations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PaymentRequest submits collected payment details to the gateway.
type PaymentRequest struct {
	Data      *models.PaymentComponentData
	Reference string
}

// DetailsRequest exchanges an action handler's return payload for the next
// payment state.
type DetailsRequest struct {
	Data *models.DetailsData
}

// BalanceRequest queries the available balance of a stored-value instrument
// before committing it to a payment.
type BalanceRequest struct {
	Data *models.PaymentComponentData
}

// CreateOrderRequest opens an order covering the total checkout amount.
// The reference is freshly generated per call; retries after a lost response
// may create a duplicate order (known looseness, matches upstream behavior).
type CreateOrderRequest struct {
	Amount    domain.Amount
	Reference string
}

// CancelOrderRequest cancels a running order, best effort.
type CancelOrderRequest struct {
	Order *models.OrderData
}

// OrderStatusRequest queries the open remainder of an order.
type OrderStatusRequest struct {
	OrderData string
}

// StatusRequest polls a pending payment.
type StatusRequest struct {
	PaymentData string
}

// DeleteStoredPaymentMethodRequest removes a saved instrument.
type DeleteStoredPaymentMethodRequest struct {
	StoredPaymentMethodID string
	ShopperReference      string
}

// APIClient is the gateway transport consumed by the orchestration core. All
// calls are synchronous from the caller's point of view and honor context
// cancellation; the core never issues more than one call per session at a
// time. Transport failures surface as NETWORK_ERROR checkout errors and are
// never retried inside the core.
type APIClient interface {
	PaymentMethods(ctx context.Context, amount domain.Amount) (*domain.PaymentMethods, error)
	SubmitPayment(ctx context.Context, req *PaymentRequest) (*models.PaymentsResponse, error)
	SubmitDetails(ctx context.Context, req *DetailsRequest) (*models.PaymentsResponse, error)
	CheckBalance(ctx context.Context, req *BalanceRequest) (*models.BalanceCheckResponse, error)
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.CreateOrderResponse, error)
	CancelOrder(ctx context.Context, req *CancelOrderRequest) (*models.CancelOrderResponse, error)
	OrderStatus(ctx context.Context, req *OrderStatusRequest) (*models.OrderStatusResponse, error)
	PaymentStatus(ctx context.Context, req *StatusRequest) (*models.StatusResponse, error)
	DeleteStoredPaymentMethod(ctx context.Context, req *DeleteStoredPaymentMethodRequest) error
}
