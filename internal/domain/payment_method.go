package domain

import (
	"encoding/json"
	"errors"
)

// PaymentMethodKind classifies server-provided payment method types into the
// variants the orchestration core understands. New server-side types decode
// into KindUnknown instead of failing, so older clients keep working.
type PaymentMethodKind string

const (
	KindCard           PaymentMethodKind = "card"
	KindWalletRedirect PaymentMethodKind = "wallet_redirect"
	KindBankRedirect   PaymentMethodKind = "bank_redirect"
	KindPhoneBased     PaymentMethodKind = "phone_based"
	KindGiftCard       PaymentMethodKind = "gift_card"
	KindAlreadyPaid    PaymentMethodKind = "already_paid"
	KindUnknown        PaymentMethodKind = "unknown"
)

// kindByType maps wire-level payment method types to their variant. Types not
// listed here are surfaced as KindUnknown.
var kindByType = map[string]PaymentMethodKind{
	"scheme":        KindCard,
	"paypal":        KindWalletRedirect,
	"paywithgoogle": KindWalletRedirect,
	"ideal":         KindBankRedirect,
	"eps":           KindBankRedirect,
	"dotpay":        KindBankRedirect,
	"mbway":         KindPhoneBased,
	"qiwiwallet":    KindPhoneBased,
	"giftcard":      KindGiftCard,
}

// PaymentMethod describes one way the shopper can pay. Decoded once from the
// payment methods response and read-only thereafter. Variant-specific fields
// are optional; unknown sibling fields are preserved in raw for forward
// compatibility.
type PaymentMethod struct {
	Type string `json:"type"`
	Name string `json:"name"`

	// Variant-specific fields
	Brand            *string  `json:"brand,omitempty"`
	LastFour         *string  `json:"lastFour,omitempty"`
	TransactionLimit *Amount  `json:"transactionLimit,omitempty"`
	Issuers          []Issuer `json:"issuers,omitempty"`

	raw json.RawMessage
}

// Issuer is one selectable bank for an issuer-list redirect method.
type Issuer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Kind returns the variant this method decodes into.
func (pm *PaymentMethod) Kind() PaymentMethodKind {
	if kind, ok := kindByType[pm.Type]; ok {
		return kind
	}
	return KindUnknown
}

// DisplayName returns a human-readable name for the payment method
func (pm *PaymentMethod) DisplayName() string {
	if pm.LastFour != nil && *pm.LastFour != "" {
		return pm.Name + " •••• " + *pm.LastFour
	}
	return pm.Name
}

// UnmarshalJSON decodes a payment method, failing only on structurally
// malformed input (missing type or name).
func (pm *PaymentMethod) UnmarshalJSON(data []byte) error {
	type alias PaymentMethod
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return WrapError(ErrorCodeDecoding, "cannot decode payment method", err)
	}
	if decoded.Type == "" {
		return WrapError(ErrorCodeDecoding, "cannot decode payment method", ErrMissingMethodType)
	}
	if decoded.Name == "" {
		return WrapError(ErrorCodeDecoding, "cannot decode payment method", ErrMissingMethodName)
	}
	*pm = PaymentMethod(decoded)
	pm.raw = append([]byte(nil), data...)
	return nil
}

// MarshalJSON re-emits the originally decoded bytes so fields this client
// version does not know about survive a round trip.
func (pm PaymentMethod) MarshalJSON() ([]byte, error) {
	if pm.raw != nil {
		return pm.raw, nil
	}
	type alias PaymentMethod
	return json.Marshal(alias(pm))
}

// StoredPaymentMethod is a previously saved instrument the shopper can reuse.
type StoredPaymentMethod struct {
	ID                           string   `json:"id"`
	Type                         string   `json:"type"`
	Name                         string   `json:"name"`
	Brand                        *string  `json:"brand,omitempty"`
	LastFour                     *string  `json:"lastFour,omitempty"`
	ExpiryMonth                  *string  `json:"expiryMonth,omitempty"`
	ExpiryYear                   *string  `json:"expiryYear,omitempty"`
	SupportedShopperInteractions []string `json:"supportedShopperInteractions,omitempty"`
}

// PaymentMethods is the decoded payment methods response, preserving the
// server-specified ordering of both lists.
type PaymentMethods struct {
	Methods []PaymentMethod       `json:"paymentMethods"`
	Stored  []StoredPaymentMethod `json:"storedPaymentMethods,omitempty"`
}

// DecodePaymentMethods decodes the raw payment methods response. Unknown
// method types are kept as KindUnknown entries; only structurally malformed
// input fails.
func DecodePaymentMethods(data []byte) (*PaymentMethods, error) {
	var methods PaymentMethods
	if err := json.Unmarshal(data, &methods); err != nil {
		var checkoutErr *CheckoutError
		if errors.As(err, &checkoutErr) {
			return nil, checkoutErr
		}
		return nil, WrapError(ErrorCodeDecoding, "cannot decode payment methods response", err)
	}
	return &methods, nil
}

// MethodOfType returns the first method with the given wire type, or nil.
func (p *PaymentMethods) MethodOfType(methodType string) *PaymentMethod {
	for i := range p.Methods {
		if p.Methods[i].Type == methodType {
			return &p.Methods[i]
		}
	}
	return nil
}

// MethodOfKind returns the first method decoding into the given variant, or nil.
func (p *PaymentMethods) MethodOfKind(kind PaymentMethodKind) *PaymentMethod {
	for i := range p.Methods {
		if p.Methods[i].Kind() == kind {
			return &p.Methods[i]
		}
	}
	return nil
}
