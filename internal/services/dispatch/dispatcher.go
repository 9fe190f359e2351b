package dispatch

import (
	"context"
	"errors"

	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	"go.uber.org/zap"
)

// Registry is the capability table for optional SDK action handlers. Modules
// that are linked in register themselves at construction time; a missing
// entry is a normal, typed condition.
type Registry struct {
	handlers map[string]ports.SDKActionHandler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]ports.SDKActionHandler)}
}

// Register binds a handler to an SDK action's payment method type.
func (r *Registry) Register(paymentMethodType string, handler ports.SDKActionHandler) {
	r.handlers[paymentMethodType] = handler
}

// Handler implements ports.SDKActionRegistry
func (r *Registry) Handler(paymentMethodType string) (ports.SDKActionHandler, bool) {
	handler, ok := r.handlers[paymentMethodType]
	return handler, ok
}

// ThreeDSHandler is the 3DS2 state machine surface the dispatcher routes to.
type ThreeDSHandler interface {
	HandleFingerprint(ctx context.Context, action *domain.ThreeDS2FingerprintAction) *ports.ActionResult
	HandleChallenge(ctx context.Context, action *domain.ThreeDS2ChallengeAction) *ports.ActionResult
}

// AwaitHandler is the polling surface the dispatcher routes to.
type AwaitHandler interface {
	Handle(ctx context.Context, action *domain.AwaitAction) *ports.ActionResult
}

// Dispatcher maps a decoded action to its handler. The mapping is pure:
// identical actions always route the same way, and distinct action types
// never cross-dispatch.
type Dispatcher struct {
	redirect ports.RedirectHandler
	threeDS  ThreeDSHandler
	poller   AwaitHandler
	sdk      ports.SDKActionRegistry
	logger   *zap.Logger
}

// New creates a dispatcher over the given collaborators.
func New(redirect ports.RedirectHandler, threeDS ThreeDSHandler, poller AwaitHandler, sdk ports.SDKActionRegistry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		redirect: redirect,
		threeDS:  threeDS,
		poller:   poller,
		sdk:      sdk,
		logger:   logger,
	}
}

// Dispatch routes the action and reports its single terminal outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, action *domain.Action) *ports.ActionResult {
	d.logger.Info("dispatching action", zap.String("type", string(action.Type)))

	switch action.Type {
	case domain.ActionTypeRedirect:
		return d.dispatchRedirect(ctx, action)
	case domain.ActionTypeThreeDS2Fingerprint:
		body, err := action.ThreeDS2Fingerprint()
		if err != nil {
			return ports.Failed(err)
		}
		return d.threeDS.HandleFingerprint(ctx, body)
	case domain.ActionTypeThreeDS2Challenge:
		body, err := action.ThreeDS2Challenge()
		if err != nil {
			return ports.Failed(err)
		}
		return d.threeDS.HandleChallenge(ctx, body)
	case domain.ActionTypeSDK:
		return d.dispatchSDK(ctx, action)
	case domain.ActionTypeAwait:
		body, err := action.Await()
		if err != nil {
			return ports.Failed(err)
		}
		return d.poller.Handle(ctx, body)
	default:
		return ports.Failed(domain.NewCheckoutError(domain.ErrorCodeUnsupportedAction,
			"no handler registered for action").WithDetail("type", string(action.Type)))
	}
}

func (d *Dispatcher) dispatchRedirect(ctx context.Context, action *domain.Action) *ports.ActionResult {
	body, err := action.Redirect()
	if err != nil {
		return ports.Failed(err)
	}

	payload, err := d.redirect.Open(ctx, body.URL, body.Method)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return ports.Cancelled()
		}
		return ports.Failed(err)
	}

	return ports.Completed(&ports.ActionData{
		Details:     payload.Details,
		PaymentData: body.PaymentData,
	})
}

func (d *Dispatcher) dispatchSDK(ctx context.Context, action *domain.Action) *ports.ActionResult {
	body, err := action.SDK()
	if err != nil {
		return ports.Failed(err)
	}

	handler, ok := d.sdk.Handler(body.PaymentMethodType)
	if !ok {
		return ports.Failed(domain.NewCheckoutError(domain.ErrorCodeUnsupportedAction,
			"no handler registered for action").WithDetail("paymentMethodType", body.PaymentMethodType))
	}

	data, err := handler.Handle(ctx, body)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return ports.Cancelled()
		}
		return ports.Failed(err)
	}
	// Third-party handlers must hand back either details or a final response.
	if data == nil {
		return ports.Failed(domain.NewCheckoutError(domain.ErrorCodeValidation,
			"sdk action handler returned no data").WithDetail("paymentMethodType", body.PaymentMethodType))
	}
	return ports.Completed(data)
}
