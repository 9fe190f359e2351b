// Command demo wires the SDK against an in-process mock gateway and walks
// through the main checkout flows: a plain card payment, a redirect, a 3DS2
// fingerprint-and-challenge, and a partial payment split across a gift card
// and a card.
package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/kevin07696/checkout-sdk/internal/adapters/checkout"
	"github.com/kevin07696/checkout-sdk/internal/config"
	"github.com/kevin07696/checkout-sdk/internal/domain"
	"github.com/kevin07696/checkout-sdk/internal/domain/models"
	"github.com/kevin07696/checkout-sdk/internal/domain/ports"
	checkoutsvc "github.com/kevin07696/checkout-sdk/internal/services/checkout"
	"github.com/kevin07696/checkout-sdk/internal/services/dispatch"
	"github.com/kevin07696/checkout-sdk/internal/services/order"
	"github.com/kevin07696/checkout-sdk/internal/services/polling"
	"github.com/kevin07696/checkout-sdk/internal/services/threeds"
	"github.com/kevin07696/checkout-sdk/pkg/observability"
	"github.com/kevin07696/checkout-sdk/pkg/shutdown"
	"go.uber.org/zap"
)

// autoRedirect plays the shopper's side of a redirect: it immediately comes
// back with a canned return payload instead of opening a browser.
type autoRedirect struct {
	logger *zap.Logger
}

func (a *autoRedirect) Open(ctx context.Context, url, method string) (*ports.ReturnPayload, error) {
	a.logger.Info("shopper redirected", zap.String("url", url), zap.String("method", method))
	return &ports.ReturnPayload{
		Details: json.RawMessage(`{"redirectResult": "demo-redirect-result"}`),
	}, nil
}

// demoExecutor plays the platform's 3DS2 side with canned results.
type demoExecutor struct{}

func (demoExecutor) CreateFingerprint(ctx context.Context) (string, error) {
	return "demo-device-fingerprint", nil
}

func (demoExecutor) HandleChallenge(ctx context.Context, token domain.ChallengeToken) (*ports.ChallengeResult, error) {
	return &ports.ChallengeResult{TransactionStatus: "Y", Payload: "demo-auth-token"}, nil
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger) error {
	shutdownManager := shutdown.NewManager(logger, 10*time.Second)
	defer shutdownManager.Shutdown()

	// In-process mock gateway on an ephemeral port.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	gatewayServer := &http.Server{Handler: newGateway(logger.Named("gateway")).router()}
	go gatewayServer.Serve(listener)
	shutdownManager.RegisterHTTPServer("mock-gateway", gatewayServer)

	baseURL := "http://" + listener.Addr().String()
	logger.Info("mock gateway listening", zap.String("url", baseURL))

	checker := observability.NewHealthChecker()
	checker.AddCheck("gateway", func(ctx context.Context) error {
		conn, err := net.Dial("tcp", listener.Addr().String())
		if err != nil {
			return err
		}
		return conn.Close()
	})
	metricsServer := observability.StartMetricsServer("127.0.0.1:9464", checker, logger)
	shutdownManager.RegisterHTTPServer("metrics-server", metricsServer)

	apiContext := &config.APIContext{
		Environment:     config.EnvironmentTest,
		BaseURL:         baseURL,
		ClientKey:       "test_demo_key",
		MerchantAccount: "DemoMerchant",
		ReturnURL:       "demoapp://checkout/return",
		Timeout:         10 * time.Second,
	}
	if err := apiContext.Validate(); err != nil {
		return err
	}

	client := checkout.NewClientWithDefaults(apiContext, logger.Named("gateway-client"))

	ctx := context.Background()

	methods, err := client.PaymentMethods(ctx, domain.NewAmount(10000, "EUR"))
	if err != nil {
		return err
	}
	for _, method := range methods.Methods {
		logger.Info("payment method available",
			zap.String("type", method.Type),
			zap.String("name", method.DisplayName()),
			zap.String("kind", string(method.Kind())),
		)
	}

	scenarios := []struct {
		name string
		run  func() (*checkoutsvc.Outcome, error)
	}{
		{"card payment", func() (*checkoutsvc.Outcome, error) {
			session := newSession(client, logger)
			data, err := models.NewPaymentComponentData(
				models.CardDetails{Type: "scheme", HolderName: "Demo Shopper"},
				domain.NewAmount(2000, "EUR"),
			)
			if err != nil {
				return nil, err
			}
			return session.SubmitPayment(ctx, data)
		}},
		{"redirect payment", func() (*checkoutsvc.Outcome, error) {
			session := newSession(client, logger)
			data, err := models.NewPaymentComponentData(
				models.RedirectDetails{Type: "ideal", Issuer: "1121"},
				domain.NewAmount(3500, "EUR"),
			)
			if err != nil {
				return nil, err
			}
			return session.SubmitPayment(ctx, data)
		}},
		{"3DS2 payment", func() (*checkoutsvc.Outcome, error) {
			session := newSession(client, logger)
			data, err := models.NewPaymentComponentData(
				models.CardDetails{Type: "scheme", HolderName: "3DS Shopper"},
				domain.NewAmount(4200, "EUR"),
			)
			if err != nil {
				return nil, err
			}
			return session.SubmitPayment(ctx, data)
		}},
	}

	for _, scenario := range scenarios {
		outcome, err := scenario.run()
		if err != nil {
			return err
		}
		logger.Info("scenario finished",
			zap.String("scenario", scenario.name),
			zap.String("status", string(outcome.Status)),
			zap.String("result_code", string(outcome.ResultCode)),
		)
	}

	return runPartialPayment(ctx, client, logger)
}

// runPartialPayment splits 100.00 EUR across a 70.00 gift card and a card.
func runPartialPayment(ctx context.Context, client ports.APIClient, logger *zap.Logger) error {
	session := newSession(client, logger)
	total := domain.NewAmount(10000, "EUR")

	giftCard, err := models.NewPaymentComponentData(
		models.GiftCardDetails{Type: "giftcard", Brand: "genericgiftcard"},
		total,
	)
	if err != nil {
		return err
	}

	first, err := session.PayWithBalanceCheck(ctx, giftCard)
	if err != nil {
		return err
	}
	logger.Info("gift card applied",
		zap.String("status", string(first.Status)),
		zap.String("remaining", first.Order.RemainingAmount.Formatted()),
	)

	status, err := session.Orders().Status(ctx)
	if err != nil {
		return err
	}
	for _, used := range status.PaymentMethods {
		logger.Info("instrument applied to order",
			zap.String("type", used.Type),
			zap.String("amount", used.Amount.Formatted()),
		)
	}

	card, err := models.NewPaymentComponentData(
		models.CardDetails{Type: "scheme", HolderName: "Demo Shopper"},
		first.Order.RemainingAmount,
	)
	if err != nil {
		return err
	}

	second, err := session.SubmitPayment(ctx, card)
	if err != nil {
		return err
	}
	logger.Info("partial payment settled",
		zap.String("status", string(second.Status)),
		zap.String("result_code", string(second.ResultCode)),
		zap.String("psp_reference", second.PSPReference),
	)
	return nil
}

// newSession builds a session with its own dispatcher, 3DS2 machine and order
// orchestrator; sessions share only the gateway client.
func newSession(client ports.APIClient, logger *zap.Logger) *checkoutsvc.Session {
	dispatcher := dispatch.New(
		&autoRedirect{logger: logger.Named("redirect")},
		threeds.New(client, demoExecutor{}, logger.Named("threeds")),
		polling.New(client, config.PollingConfig{Interval: time.Second, MaxDuration: time.Minute}, logger.Named("polling")),
		dispatch.NewRegistry(),
		logger.Named("dispatch"),
	)
	return checkoutsvc.NewSession(client, dispatcher,
		order.New(client, logger.Named("orders")), logger.Named("session"))
}
