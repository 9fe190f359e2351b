package checkout

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	"github.com/kevin07696/checkout-sdk/internal/services/order"
	"go.uber.org/zap"
)

// OutcomeStatus classifies what the session reports back to its caller.
type OutcomeStatus string

const (
	// OutcomeFinished means the payment reached a terminal result code.
	OutcomeFinished OutcomeStatus = "finished"
	// OutcomePendingOrder means an order is still partially open and the
	// caller should collect another instrument.
	OutcomePendingOrder OutcomeStatus = "pending_order"
	// OutcomeCancelled means the shopper backed out of a suspended step.
	OutcomeCancelled OutcomeStatus = "cancelled"
)

// Outcome is the session's report after a response has been fully routed.
type Outcome struct {
	Status       OutcomeStatus
	ResultCode   models.ResultCode
	PSPReference string
	Order        *models.PartialPaymentOrder
}

// ActionDispatcher routes one action to its handler.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, action *domain.Action) *ports.ActionResult
}

// Session orchestrates one logical checkout. It owns the session's order and
// balance state exclusively and serializes all gateway exchanges: at most one
// is outstanding at any time. Independent sessions share nothing mutable.
type Session struct {
	client     ports.APIClient
	dispatcher ActionDispatcher
	orders     *order.Orchestrator
	logger     *zap.Logger

	mu sync.Mutex
}

// NewSession creates a checkout session.
func NewSession(client ports.APIClient, dispatcher ActionDispatcher, orders *order.Orchestrator, logger *zap.Logger) *Session {
	return &Session{
		client:     client,
		dispatcher: dispatcher,
		orders:     orders,
		logger:     logger,
	}
}

// Orders exposes the session's order orchestrator.
func (s *Session) Orders() *order.Orchestrator {
	return s.orders
}

// SubmitPayment submits collected payment details and routes the response to
// a terminal outcome. When an order is running it is attached automatically.
func (s *Session) SubmitPayment(ctx context.Context, data *models.PaymentComponentData) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(ctx, data)
}

// PayWithBalanceCheck runs the stored-value flow: check the balance first,
// submit directly when it covers the amount, otherwise open an order for the
// total and submit the first partial payment against it.
func (s *Session) PayWithBalanceCheck(ctx context.Context, data *models.PaymentComponentData) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.orders.CheckBalance(ctx, data)
	if err != nil {
		return nil, err
	}

	usable := balance.UsableFor(data.Amount)
	if usable.Covers(data.Amount) {
		return s.submitLocked(ctx, data)
	}

	// The balance covers only part of the amount; the rest has to come from
	// further instruments against an order for the full total.
	if s.orders.ActiveOrder() == nil {
		if _, err := s.orders.RequestOrder(ctx, data.Amount); err != nil {
			return nil, err
		}
	}
	return s.submitLocked(ctx, data)
}

// HandleResponse routes a payments response in fixed priority: a follow-up
// action first, then an open order, otherwise a terminal result.
func (s *Session) HandleResponse(ctx context.Context, resp *models.PaymentsResponse) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handleResponseLocked(ctx, resp)
}

// Abort cancels the running order, if any. The returned error is nil or the
// non-fatal cancellation warning; there is nothing to do either way.
func (s *Session) Abort(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orders.ActiveOrder() == nil {
		return nil
	}
	return s.orders.CancelOrder(ctx)
}

func (s *Session) submitLocked(ctx context.Context, data *models.PaymentComponentData) (*Outcome, error) {
	if data.Order == nil {
		if active := s.orders.ActiveOrder(); active != nil {
			data = data.WithOrder(active.Compact())
		}
	}

	resp, err := s.client.SubmitPayment(ctx, &ports.PaymentRequest{
		Data:      data,
		Reference: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}
	return s.handleResponseLocked(ctx, resp)
}

func (s *Session) handleResponseLocked(ctx context.Context, resp *models.PaymentsResponse) (*Outcome, error) {
	if resp.HasAction() {
		return s.handleActionLocked(ctx, resp.Action)
	}

	if resp.HasOpenOrder() {
		s.orders.UpdateOrder(resp.Order)
		return &Outcome{
			Status:       OutcomePendingOrder,
			ResultCode:   resp.ResultCode,
			PSPReference: resp.PSPReference,
			Order:        resp.Order,
		}, nil
	}

	if resp.Order != nil && resp.Order.IsSettled() {
		s.orders.Settle()
	}

	s.logger.Info("payment finished",
		zap.String("result_code", string(resp.ResultCode)),
		zap.String("psp_reference", resp.PSPReference),
	)
	return &Outcome{
		Status:       OutcomeFinished,
		ResultCode:   resp.ResultCode,
		PSPReference: resp.PSPReference,
	}, nil
}

func (s *Session) handleActionLocked(ctx context.Context, action *domain.Action) (*Outcome, error) {
	result := s.dispatcher.Dispatch(ctx, action)

	switch result.Status {
	case ports.ActionCancelled:
		s.logger.Info("action cancelled by shopper", zap.String("type", string(action.Type)))
		return &Outcome{Status: OutcomeCancelled}, nil
	case ports.ActionFailed:
		// The handler's error passes through unmodified.
		return nil, result.Err
	}

	if result.Data == nil {
		return nil, domain.NewCheckoutError(domain.ErrorCodeValidation,
			"action completed without result data").WithDetail("type", string(action.Type))
	}

	// Handlers that already completed the gateway exchange hand back the
	// final response; the rest hand back a return payload still to exchange.
	if result.Data.Response != nil {
		return s.handleResponseLocked(ctx, result.Data.Response)
	}

	resp, err := s.client.SubmitDetails(ctx, &ports.DetailsRequest{
		Data: &models.DetailsData{
			Details:     result.Data.Details,
			PaymentData: result.Data.PaymentData,
		},
	})
	if err != nil {
		return nil, err
	}
	return s.handleResponseLocked(ctx, resp)
}
