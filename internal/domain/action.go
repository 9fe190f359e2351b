package domain

import (
	"encoding/json"
)

// ActionType is the discriminant of the action union.
type ActionType string

const (
	ActionTypeRedirect            ActionType = "redirect"
	ActionTypeThreeDS2Fingerprint ActionType = "threeDS2Fingerprint"
	ActionTypeThreeDS2Challenge   ActionType = "threeDS2Challenge"
	ActionTypeSDK                 ActionType = "sdk"
	ActionTypeAwait               ActionType = "await"
)

// Action is a server-issued instruction requiring additional client-side work
// before the payment can be finalized. It is a tagged union: decoding is
// strict on the type discriminant and tolerant of unknown sibling fields.
// Unknown action types decode successfully and are rejected at dispatch time,
// never at decode time.
type Action struct {
	Type ActionType

	raw json.RawMessage
}

// UnmarshalJSON decodes the action envelope. Only a missing discriminant is a
// decoding failure.
func (a *Action) UnmarshalJSON(data []byte) error {
	var head struct {
		Type ActionType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return WrapError(ErrorCodeDecoding, "cannot decode action", err)
	}
	if head.Type == "" {
		return WrapError(ErrorCodeDecoding, "cannot decode action", ErrMissingActionType)
	}
	a.Type = head.Type
	a.raw = append([]byte(nil), data...)
	return nil
}

// MarshalJSON re-emits the originally decoded bytes.
func (a Action) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	return json.Marshal(struct {
		Type ActionType `json:"type"`
	}{Type: a.Type})
}

// RedirectAction instructs the client to send the shopper to an external URL.
type RedirectAction struct {
	URL         string `json:"url"`
	Method      string `json:"method"`
	PaymentData string `json:"paymentData,omitempty"`
}

// ThreeDS2FingerprintAction carries the device fingerprint token for the
// first 3DS2 stage.
type ThreeDS2FingerprintAction struct {
	Token       string `json:"token"`
	PaymentData string `json:"paymentData,omitempty"`
}

// ThreeDS2ChallengeAction carries the challenge token for the second, optional
// 3DS2 stage.
type ThreeDS2ChallengeAction struct {
	Token       string `json:"token"`
	PaymentData string `json:"paymentData,omitempty"`
}

// SDKAction hands the payment off to an optional, separately packaged
// payment-method SDK, resolved by its payment method type.
type SDKAction struct {
	PaymentMethodType string          `json:"paymentMethodType"`
	SDKData           json.RawMessage `json:"sdkData,omitempty"`
	PaymentData       string          `json:"paymentData,omitempty"`
}

// AwaitAction asks the client to poll for the payment result.
type AwaitAction struct {
	PaymentMethodType string `json:"paymentMethodType,omitempty"`
	PaymentData       string `json:"paymentData,omitempty"`
}

// Redirect decodes the action as a redirect. The URL is required.
func (a *Action) Redirect() (*RedirectAction, error) {
	var body RedirectAction
	if err := a.decodeAs(&body); err != nil {
		return nil, err
	}
	if body.URL == "" {
		return nil, NewCheckoutError(ErrorCodeDecoding, "redirect action is missing its url")
	}
	if body.Method == "" {
		body.Method = "GET"
	}
	return &body, nil
}

// ThreeDS2Fingerprint decodes the action as a 3DS2 fingerprint stage.
func (a *Action) ThreeDS2Fingerprint() (*ThreeDS2FingerprintAction, error) {
	var body ThreeDS2FingerprintAction
	if err := a.decodeAs(&body); err != nil {
		return nil, err
	}
	if body.Token == "" {
		return nil, NewCheckoutError(ErrorCodeDecoding, "threeDS2Fingerprint action is missing its token")
	}
	return &body, nil
}

// ThreeDS2Challenge decodes the action as a 3DS2 challenge stage.
func (a *Action) ThreeDS2Challenge() (*ThreeDS2ChallengeAction, error) {
	var body ThreeDS2ChallengeAction
	if err := a.decodeAs(&body); err != nil {
		return nil, err
	}
	if body.Token == "" {
		return nil, NewCheckoutError(ErrorCodeDecoding, "threeDS2Challenge action is missing its token")
	}
	return &body, nil
}

// SDK decodes the action as an SDK hand-off.
func (a *Action) SDK() (*SDKAction, error) {
	var body SDKAction
	if err := a.decodeAs(&body); err != nil {
		return nil, err
	}
	if body.PaymentMethodType == "" {
		return nil, NewCheckoutError(ErrorCodeDecoding, "sdk action is missing its paymentMethodType")
	}
	return &body, nil
}

// Await decodes the action as an await/poll instruction.
func (a *Action) Await() (*AwaitAction, error) {
	var body AwaitAction
	if err := a.decodeAs(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (a *Action) decodeAs(v interface{}) error {
	if a.raw == nil {
		return NewCheckoutError(ErrorCodeDecoding, "action has no payload")
	}
	if err := json.Unmarshal(a.raw, v); err != nil {
		return WrapError(ErrorCodeDecoding, "cannot decode action payload", err)
	}
	return nil
}
