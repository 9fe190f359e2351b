package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kevin07696/checkout-sdk/internal/config"
	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	pkghttp "github.com/kevin07696/checkout-sdk/pkg/http"
	"go.uber.org/zap"
)

// Client implements the APIClient port against a merchant-configured checkout
// gateway speaking JSON over HTTP. Amounts are transmitted as integer minor
// units only.
type Client struct {
	apiContext *config.APIContext
	httpClient ports.HTTPClient
	logger     *zap.Logger
}

// NewClient creates a gateway client with dependency injection.
func NewClient(apiContext *config.APIContext, httpClient ports.HTTPClient, logger *zap.Logger) *Client {
	return &Client{
		apiContext: apiContext,
		httpClient: httpClient,
		logger:     logger,
	}
}

// NewClientWithDefaults creates a gateway client with a tuned HTTP client.
func NewClientWithDefaults(apiContext *config.APIContext, logger *zap.Logger) *Client {
	timeout := apiContext.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiContext: apiContext,
		httpClient: pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), timeout),
		logger:     logger,
	}
}

type paymentRequestBody struct {
	PaymentMethod   json.RawMessage   `json:"paymentMethod"`
	Amount          domain.Amount     `json:"amount"`
	Order           *models.OrderData `json:"order,omitempty"`
	Reference       string            `json:"reference,omitempty"`
	MerchantAccount string            `json:"merchantAccount"`
	ReturnURL       string            `json:"returnUrl,omitempty"`
}

type detailsRequestBody struct {
	Details     json.RawMessage `json:"details"`
	PaymentData string          `json:"paymentData,omitempty"`
}

type balanceRequestBody struct {
	PaymentMethod   json.RawMessage `json:"paymentMethod"`
	Amount          domain.Amount   `json:"amount"`
	MerchantAccount string          `json:"merchantAccount"`
}

type createOrderBody struct {
	Amount          domain.Amount `json:"amount"`
	Reference       string        `json:"reference"`
	MerchantAccount string        `json:"merchantAccount"`
}

type cancelOrderBody struct {
	Order           *models.OrderData `json:"order"`
	MerchantAccount string            `json:"merchantAccount"`
}

type orderStatusBody struct {
	OrderData string `json:"orderData"`
}

type statusBody struct {
	PaymentData string `json:"paymentData"`
}

type paymentMethodsBody struct {
	Amount          domain.Amount `json:"amount"`
	MerchantAccount string        `json:"merchantAccount"`
}

type deleteStoredBody struct {
	StoredPaymentMethodID string `json:"storedPaymentMethodId"`
	ShopperReference      string `json:"shopperReference,omitempty"`
	MerchantAccount       string `json:"merchantAccount"`
}

// PaymentMethods fetches and decodes the available payment methods.
func (c *Client) PaymentMethods(ctx context.Context, amount domain.Amount) (*domain.PaymentMethods, error) {
	body := paymentMethodsBody{Amount: amount, MerchantAccount: c.apiContext.MerchantAccount}
	raw, err := c.makeRequestRaw(ctx, http.MethodPost, "/paymentMethods", body)
	if err != nil {
		return nil, err
	}
	return domain.DecodePaymentMethods(raw)
}

// SubmitPayment implements APIClient.SubmitPayment
func (c *Client) SubmitPayment(ctx context.Context, req *ports.PaymentRequest) (*models.PaymentsResponse, error) {
	body := paymentRequestBody{
		PaymentMethod:   req.Data.PaymentMethod,
		Amount:          req.Data.Amount,
		Order:           req.Data.Order,
		Reference:       req.Reference,
		MerchantAccount: c.apiContext.MerchantAccount,
		ReturnURL:       c.apiContext.ReturnURL,
	}
	var resp models.PaymentsResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/payments", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitDetails implements APIClient.SubmitDetails
func (c *Client) SubmitDetails(ctx context.Context, req *ports.DetailsRequest) (*models.PaymentsResponse, error) {
	body := detailsRequestBody{
		Details:     req.Data.Details,
		PaymentData: req.Data.PaymentData,
	}
	var resp models.PaymentsResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/payments/details", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckBalance implements APIClient.CheckBalance
func (c *Client) CheckBalance(ctx context.Context, req *ports.BalanceRequest) (*models.BalanceCheckResponse, error) {
	body := balanceRequestBody{
		PaymentMethod:   req.Data.PaymentMethod,
		Amount:          req.Data.Amount,
		MerchantAccount: c.apiContext.MerchantAccount,
	}
	var resp models.BalanceCheckResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/paymentMethods/balance", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrder implements APIClient.CreateOrder
func (c *Client) CreateOrder(ctx context.Context, req *ports.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	body := createOrderBody{
		Amount:          req.Amount,
		Reference:       req.Reference,
		MerchantAccount: c.apiContext.MerchantAccount,
	}
	var resp models.CreateOrderResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/orders", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelOrder implements APIClient.CancelOrder
func (c *Client) CancelOrder(ctx context.Context, req *ports.CancelOrderRequest) (*models.CancelOrderResponse, error) {
	body := cancelOrderBody{
		Order:           req.Order,
		MerchantAccount: c.apiContext.MerchantAccount,
	}
	var resp models.CancelOrderResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/orders/cancel", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrderStatus implements APIClient.OrderStatus
func (c *Client) OrderStatus(ctx context.Context, req *ports.OrderStatusRequest) (*models.OrderStatusResponse, error) {
	body := orderStatusBody{OrderData: req.OrderData}
	var resp models.OrderStatusResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/orders/status", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PaymentStatus implements APIClient.PaymentStatus
func (c *Client) PaymentStatus(ctx context.Context, req *ports.StatusRequest) (*models.StatusResponse, error) {
	body := statusBody{PaymentData: req.PaymentData}
	var resp models.StatusResponse
	if err := c.makeRequest(ctx, http.MethodPost, "/payments/status", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteStoredPaymentMethod implements APIClient.DeleteStoredPaymentMethod
func (c *Client) DeleteStoredPaymentMethod(ctx context.Context, req *ports.DeleteStoredPaymentMethodRequest) error {
	body := deleteStoredBody{
		StoredPaymentMethodID: req.StoredPaymentMethodID,
		ShopperReference:      req.ShopperReference,
		MerchantAccount:       c.apiContext.MerchantAccount,
	}
	_, err := c.makeRequestRaw(ctx, http.MethodDelete, "/storedPaymentMethods", body)
	return err
}

// makeRequest performs a gateway exchange and decodes the JSON response.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, request interface{}, response interface{}) error {
	raw, err := c.makeRequestRaw(ctx, method, endpoint, request)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, response); err != nil {
		var checkoutErr *domain.CheckoutError
		if errors.As(err, &checkoutErr) {
			return checkoutErr
		}
		return domain.WrapError(domain.ErrorCodeMalformedResponse, "cannot decode gateway response", err)
	}
	return nil
}

// makeRequestRaw performs a gateway exchange and returns the raw body.
func (c *Client) makeRequestRaw(ctx context.Context, method, endpoint string, request interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	requestURL, err := c.buildURL(endpoint)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, requestURL, bytes.NewReader(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.apiContext.Headers() {
		httpReq.Header.Set(key, value)
	}

	c.logger.Info("making request to checkout gateway",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observeRequest(endpoint, "transport_error", time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.WrapError(domain.ErrorCodeNetwork, "failed to reach checkout gateway", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		observeRequest(endpoint, "read_error", time.Since(start))
		return nil, domain.WrapError(domain.ErrorCodeNetwork, "failed to read gateway response", err)
	}

	observeRequest(endpoint, fmt.Sprintf("%d", httpResp.StatusCode), time.Since(start))

	if httpResp.StatusCode >= 400 {
		c.logger.Warn("checkout gateway returned an error status",
			zap.String("endpoint", endpoint),
			zap.Int("status", httpResp.StatusCode),
		)
		return nil, domain.NewCheckoutError(domain.ErrorCodeNetwork, "checkout gateway error").
			WithDetail("status", httpResp.StatusCode).
			WithDetail("endpoint", endpoint)
	}

	return body, nil
}

// buildURL joins the base URL, the endpoint and the client-key query
// parameter every gateway call carries.
func (c *Client) buildURL(endpoint string) (string, error) {
	parsed, err := url.Parse(c.apiContext.BaseURL + endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid gateway URL: %w", err)
	}
	query := parsed.Query()
	for key, value := range c.apiContext.QueryParameters() {
		query.Set(key, value)
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
