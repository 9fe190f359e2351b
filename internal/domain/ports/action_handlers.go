package ports

import (
	"context"
	"encoding/json"

	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
)

// ActionStatus is the terminal outcome of an action handler. Every handler
// reports exactly one of these.
type ActionStatus string

const (
	ActionCompleted ActionStatus = "completed"
	ActionFailed    ActionStatus = "failed"
	ActionCancelled ActionStatus = "cancelled"
)

// ActionData is what a completed handler produced: either a return payload
// still to be exchanged with the gateway, or the final response when the
// handler already performed that exchange itself.
type ActionData struct {
	Details     json.RawMessage
	PaymentData string
	Response    *models.PaymentsResponse
}

// ActionResult is the single terminal report of an action handler.
type ActionResult struct {
	Status ActionStatus
	Data   *ActionData
	Err    error
}

// Completed builds a completed action result.
func Completed(data *ActionData) *ActionResult {
	return &ActionResult{Status: ActionCompleted, Data: data}
}

// Failed builds a failed action result carrying the underlying error
// untouched.
func Failed(err error) *ActionResult {
	return &ActionResult{Status: ActionFailed, Err: err}
}

// Cancelled builds a cancelled action result. A user-initiated cancel is not
// a failure and carries no error.
func Cancelled() *ActionResult {
	return &ActionResult{Status: ActionCancelled}
}

// ReturnPayload is what a redirect collaborator observed when the shopper
// came back from the external flow.
type ReturnPayload struct {
	Details json.RawMessage
}

// RedirectHandler opens an external URL and waits, possibly for unbounded
// real time, until the shopper returns or ctx is cancelled. Cancellation must
// close any open external session before Open returns.
type RedirectHandler interface {
	Open(ctx context.Context, url, method string) (*ReturnPayload, error)
}

// ChallengeResult is the outcome of a natively executed 3DS2 challenge.
type ChallengeResult struct {
	TransactionStatus string
	Payload           string
}

// ChallengeExecutor is the platform-provided 3DS2 capability. The core owns
// protocol sequencing and token translation only; fingerprinting and
// challenge execution happen outside the process boundary of this library.
type ChallengeExecutor interface {
	CreateFingerprint(ctx context.Context) (string, error)
	HandleChallenge(ctx context.Context, token domain.ChallengeToken) (*ChallengeResult, error)
}

// SDKActionHandler handles one SDK hand-off action variant.
type SDKActionHandler interface {
	Handle(ctx context.Context, action *domain.SDKAction) (*ActionData, error)
}

// SDKActionRegistry resolves optional, separately packaged payment-method
// handlers by the action's payment method type. Absence of a handler is a
// normal, typed condition, not a lookup failure.
type SDKActionRegistry interface {
	Handler(paymentMethodType string) (SDKActionHandler, bool)
}
