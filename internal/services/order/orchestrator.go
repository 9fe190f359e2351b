package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	"go.uber.org/zap"
)

// Orchestrator owns the balance and order state of one checkout session while
// a payment is split across multiple instruments. It is driven by a single
// goroutine per session: a balance result is always observed before an order
// is created for the same submission, because the order amount is derived
// from the deficit.
type Orchestrator struct {
	client ports.APIClient
	logger *zap.Logger
	order  *models.PartialPaymentOrder
}

// New creates an orchestrator bound to one checkout session.
func New(client ports.APIClient, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		logger: logger,
	}
}

// ActiveOrder returns the running order, or nil when none is open.
func (o *Orchestrator) ActiveOrder() *models.PartialPaymentOrder {
	return o.order
}

// CheckBalance queries the usable balance of the instrument in the
// submission. A missing or zero balance surfaces as BALANCE_UNAVAILABLE.
func (o *Orchestrator) CheckBalance(ctx context.Context, data *models.PaymentComponentData) (*domain.Balance, error) {
	resp, err := o.client.CheckBalance(ctx, &ports.BalanceRequest{Data: data})
	if err != nil {
		return nil, err
	}

	if resp.Balance == nil || resp.Balance.Value <= 0 {
		o.logger.Info("balance check returned no usable balance")
		return nil, domain.ErrNoBalance
	}

	balance := &domain.Balance{
		Available:        *resp.Balance,
		TransactionLimit: resp.TransactionLimit,
	}
	o.logger.Info("balance check succeeded",
		zap.String("available", balance.Available.Formatted()),
	)
	return balance, nil
}

// RequestOrder opens an order for the total checkout amount. An order is
// created at most once per checkout. The reference is freshly generated per
// call with no dedup across retries: if a creation succeeds but its response
// is lost, a retry can open a duplicate order that expires server-side.
func (o *Orchestrator) RequestOrder(ctx context.Context, total domain.Amount) (*models.PartialPaymentOrder, error) {
	if o.order != nil {
		return nil, domain.WrapError(domain.ErrorCodeValidation, "cannot create order", domain.ErrOrderAlreadyCreated)
	}

	reference := uuid.NewString()
	resp, err := o.client.CreateOrder(ctx, &ports.CreateOrderRequest{
		Amount:    total,
		Reference: reference,
	})
	if err != nil {
		return nil, err
	}

	o.order = resp.Order()
	o.logger.Info("partial payment order created",
		zap.String("psp_reference", o.order.PSPReference),
		zap.String("remaining", o.order.RemainingAmount.Formatted()),
	)
	return o.order, nil
}

// UpdateOrder adopts the latest order state from a payments response. A
// failed partial payment never reaches this point, so the remaining amount
// only moves when the gateway confirmed a deduction.
func (o *Orchestrator) UpdateOrder(order *models.PartialPaymentOrder) {
	o.order = order
	o.logger.Info("order remaining amount updated",
		zap.String("psp_reference", order.PSPReference),
		zap.String("remaining", order.RemainingAmount.Formatted()),
	)
}

// Settle closes the bookkeeping for a fully covered order.
func (o *Orchestrator) Settle() {
	if o.order != nil {
		o.logger.Info("order fully settled", zap.String("psp_reference", o.order.PSPReference))
		o.order = nil
	}
}

// CancelOrder cancels the running order, best effort. A cancellation response
// with a result code other than Received surfaces as a warning; the order is
// not reopened either way and is left to expire server-side.
func (o *Orchestrator) CancelOrder(ctx context.Context) error {
	if o.order == nil {
		return domain.WrapError(domain.ErrorCodeValidation, "cannot cancel order", domain.ErrNoActiveOrder)
	}

	order := o.order
	resp, err := o.client.CancelOrder(ctx, &ports.CancelOrderRequest{Order: order.Compact()})
	if err != nil {
		return err
	}

	o.order = nil
	if resp.ResultCode != models.ResultCodeReceived {
		o.logger.Warn("order cancellation not acknowledged, order will expire server-side",
			zap.String("psp_reference", order.PSPReference),
			zap.String("result_code", string(resp.ResultCode)),
		)
		return domain.NewCheckoutError(domain.ErrorCodeOrderCancellationWarning,
			"order cancellation was not acknowledged").
			WithDetail("resultCode", string(resp.ResultCode))
	}

	o.logger.Info("order cancelled", zap.String("psp_reference", order.PSPReference))
	return nil
}

// Status queries how much of the running order is still open.
func (o *Orchestrator) Status(ctx context.Context) (*models.OrderStatusResponse, error) {
	if o.order == nil {
		return nil, domain.WrapError(domain.ErrorCodeValidation, "cannot query order status", domain.ErrNoActiveOrder)
	}
	return o.client.OrderStatus(ctx, &ports.OrderStatusRequest{OrderData: o.order.OrderData})
}
