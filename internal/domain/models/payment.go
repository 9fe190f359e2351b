package models

import (
	"encoding/json"

	"github.com/kevin07696/checkout-sdk/internal/domain"
)

// PaymentComponentData is the outbound submission payload: the details a
// payment component collected, the amount, and the active order token when a
// partial payment is in flight. Created at submit time and consumed exactly
// once by the request layer.
type PaymentComponentData struct {
	PaymentMethod json.RawMessage `json:"paymentMethod"`
	Amount        domain.Amount   `json:"amount"`
	Order         *OrderData      `json:"order,omitempty"`
}

// NewPaymentComponentData builds submission data from a typed details payload.
func NewPaymentComponentData(details interface{}, amount domain.Amount) (*PaymentComponentData, error) {
	encoded, err := json.Marshal(details)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeValidation, "cannot encode payment method details", err)
	}
	return &PaymentComponentData{
		PaymentMethod: encoded,
		Amount:        amount,
	}, nil
}

// WithOrder returns a copy of the data carrying the given order token.
func (d PaymentComponentData) WithOrder(order *OrderData) *PaymentComponentData {
	d.Order = order
	return &d
}

// CardDetails is the variant payload for a card payment.
type CardDetails struct {
	Type                  string `json:"type"`
	EncryptedCardNumber   string `json:"encryptedCardNumber,omitempty"`
	EncryptedExpiry       string `json:"encryptedExpiryDate,omitempty"`
	EncryptedSecurityCode string `json:"encryptedSecurityCode,omitempty"`
	HolderName            string `json:"holderName,omitempty"`
	StoredPaymentMethodID string `json:"storedPaymentMethodId,omitempty"`
}

// GiftCardDetails is the variant payload for a stored-value instrument.
type GiftCardDetails struct {
	Type                  string `json:"type"`
	Brand                 string `json:"brand,omitempty"`
	EncryptedCardNumber   string `json:"encryptedCardNumber,omitempty"`
	EncryptedSecurityCode string `json:"encryptedSecurityCode,omitempty"`
}

// RedirectDetails is the variant payload for redirect-based methods, where
// the gateway only needs the method type to produce a redirect action.
type RedirectDetails struct {
	Type   string `json:"type"`
	Issuer string `json:"issuer,omitempty"`
}

// DetailsData is the follow-up payload exchanged after an action handler
// completed: the return payload plus the opaque payment data of the attempt.
type DetailsData struct {
	Details     json.RawMessage `json:"details"`
	PaymentData string          `json:"paymentData,omitempty"`
}
