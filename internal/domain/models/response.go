package models

import (
	"encoding/json"

	"github.com/kevin07696/checkout-sdk/internal/domain"
)

// ResultCode is the terminal (or intermediate) outcome reported by the
// gateway. Codes this client version does not know pass through verbatim.
type ResultCode string

const (
	ResultCodeAuthorised ResultCode = "Authorised"
	ResultCodeReceived   ResultCode = "Received"
	ResultCodePending    ResultCode = "Pending"
	ResultCodeRefused    ResultCode = "Refused"
	ResultCodeError      ResultCode = "Error"
	ResultCodeCancelled  ResultCode = "Cancelled"
)

// OrderData is the compact order token attached to each partial submission.
type OrderData struct {
	PSPReference string `json:"pspReference"`
	OrderData    string `json:"orderData"`
}

// PartialPaymentOrder tracks a running order across sequential submissions.
// The remaining amount decreases after each successful partial payment.
type PartialPaymentOrder struct {
	PSPReference    string        `json:"pspReference"`
	OrderData       string        `json:"orderData"`
	RemainingAmount domain.Amount `json:"remainingAmount"`
}

// Compact returns the token fields carried on submissions.
func (o *PartialPaymentOrder) Compact() *OrderData {
	return &OrderData{PSPReference: o.PSPReference, OrderData: o.OrderData}
}

// IsSettled reports whether the order is fully covered.
func (o *PartialPaymentOrder) IsSettled() bool {
	return o.RemainingAmount.IsZero()
}

// PaymentsResponse is the result union of a payment or details submission.
// Exactly one of its shapes drives the next step: a follow-up action, an open
// order with a remaining amount, or a terminal result code.
type PaymentsResponse struct {
	ResultCode    ResultCode           `json:"resultCode,omitempty"`
	PSPReference  string               `json:"pspReference,omitempty"`
	RefusalReason string               `json:"refusalReason,omitempty"`
	Action        *domain.Action       `json:"action,omitempty"`
	Order         *PartialPaymentOrder `json:"order,omitempty"`
}

// UnmarshalJSON decodes the response union, failing when no known branch is
// present. Unknown sibling fields are ignored for forward compatibility.
func (r *PaymentsResponse) UnmarshalJSON(data []byte) error {
	type alias PaymentsResponse
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return domain.WrapError(domain.ErrorCodeMalformedResponse, "cannot decode payments response", err)
	}
	if decoded.Action == nil && decoded.Order == nil && decoded.ResultCode == "" {
		return domain.ErrMalformedResponse
	}
	*r = PaymentsResponse(decoded)
	return nil
}

// HasAction reports whether the gateway demands further client-side work.
func (r *PaymentsResponse) HasAction() bool {
	return r.Action != nil
}

// HasOpenOrder reports whether an order with a positive remaining amount is
// attached, meaning more payments are needed.
func (r *PaymentsResponse) HasOpenOrder() bool {
	return r.Order != nil && r.Order.RemainingAmount.Value > 0
}

// BalanceCheckResponse is the outcome of a stored-value balance query. A
// missing balance means the instrument has no usable funds.
type BalanceCheckResponse struct {
	ResultCode       ResultCode     `json:"resultCode,omitempty"`
	Balance          *domain.Amount `json:"balance,omitempty"`
	TransactionLimit *domain.Amount `json:"transactionLimit,omitempty"`
}

// CreateOrderResponse is the outcome of creating a partial payment order.
type CreateOrderResponse struct {
	ResultCode      ResultCode    `json:"resultCode,omitempty"`
	PSPReference    string        `json:"pspReference"`
	OrderData       string        `json:"orderData"`
	RemainingAmount domain.Amount `json:"remainingAmount"`
	ExpiresAt       string        `json:"expiresAt,omitempty"`
}

// Order builds the tracked order from the creation response.
func (r *CreateOrderResponse) Order() *PartialPaymentOrder {
	return &PartialPaymentOrder{
		PSPReference:    r.PSPReference,
		OrderData:       r.OrderData,
		RemainingAmount: r.RemainingAmount,
	}
}

// CancelOrderResponse is the outcome of a best-effort order cancellation.
type CancelOrderResponse struct {
	ResultCode   ResultCode `json:"resultCode"`
	PSPReference string     `json:"pspReference,omitempty"`
}

// OrderPaymentMethod is one instrument already used to partially pay an order.
type OrderPaymentMethod struct {
	Type             string         `json:"type"`
	LastFour         string         `json:"lastFour"`
	Amount           domain.Amount  `json:"amount"`
	TransactionLimit *domain.Amount `json:"transactionLimit,omitempty"`
}

// OrderStatusResponse reports how much of an order is still open and which
// instruments have been applied so far.
type OrderStatusResponse struct {
	RemainingAmount domain.Amount        `json:"remainingAmount"`
	PaymentMethods  []OrderPaymentMethod `json:"paymentMethods,omitempty"`
}

// StatusResponse is one poll of a pending payment.
type StatusResponse struct {
	ResultCode   ResultCode `json:"resultCode"`
	PSPReference string     `json:"pspReference,omitempty"`
}

// IsTerminal reports whether polling can stop.
func (r *StatusResponse) IsTerminal() bool {
	switch r.ResultCode {
	case ResultCodePending, ResultCodeReceived, "":
		return false
	default:
		return true
	}
}
