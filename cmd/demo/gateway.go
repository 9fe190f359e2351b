package main

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kevin07696/checkout-sdk/internal/domain"
	"go.uber.org/zap"
)

// gateway is an in-process stand-in for a real checkout gateway. It implements
// just enough of the wire contract to drive every SDK flow: plain payments,
// redirects, 3DS2 fingerprint and challenge, and partial payments against an
// order. State is per-process and resets on restart.
type gateway struct {
	logger *zap.Logger

	mu     sync.Mutex
	orders map[string]int64 // orderData -> remaining minor units
}

func newGateway(logger *zap.Logger) *gateway {
	return &gateway{
		logger: logger,
		orders: make(map[string]int64),
	}
}

func (g *gateway) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(g.requireClientKey)

	r.Post("/paymentMethods", g.handlePaymentMethods)
	r.Post("/paymentMethods/balance", g.handleBalance)
	r.Post("/payments", g.handlePayments)
	r.Post("/payments/details", g.handleDetails)
	r.Post("/orders", g.handleCreateOrder)
	r.Post("/orders/cancel", g.handleCancelOrder)
	r.Post("/orders/status", g.handleOrderStatus)
	return r
}

func (g *gateway) requireClientKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("clientKey") == "" {
			http.Error(w, `{"message": "missing clientKey"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *gateway) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Error("failed to encode gateway response", zap.Error(err))
	}
}

func (g *gateway) handlePaymentMethods(w http.ResponseWriter, r *http.Request) {
	g.writeJSON(w, map[string]interface{}{
		"paymentMethods": []map[string]interface{}{
			{"type": "giftcard", "name": "Gift Card", "brand": "genericgiftcard",
				"transactionLimit": map[string]interface{}{"value": 100000, "currency": "EUR"}},
			{"type": "scheme", "name": "Cards"},
			{"type": "ideal", "name": "iDEAL",
				"issuers": []map[string]string{{"id": "1121", "name": "Demo Bank"}}},
		},
	})
}

func (g *gateway) handleBalance(w http.ResponseWriter, r *http.Request) {
	// The demo gift card always holds 70.00 EUR.
	g.writeJSON(w, map[string]interface{}{
		"resultCode": "Success",
		"balance":    map[string]interface{}{"value": 7000, "currency": "EUR"},
	})
}

type inboundPayment struct {
	PaymentMethod struct {
		Type       string `json:"type"`
		HolderName string `json:"holderName"`
	} `json:"paymentMethod"`
	Amount domain.Amount `json:"amount"`
	Order  *struct {
		PSPReference string `json:"pspReference"`
		OrderData    string `json:"orderData"`
	} `json:"order"`
}

func (g *gateway) handlePayments(w http.ResponseWriter, r *http.Request) {
	var req inboundPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message": "bad request"}`, http.StatusBadRequest)
		return
	}

	switch {
	case req.PaymentMethod.Type == "ideal":
		g.writeJSON(w, map[string]interface{}{
			"resultCode": "RedirectShopper",
			"action": map[string]string{
				"type":        "redirect",
				"url":         "https://demo-bank.example.com/auth",
				"method":      "GET",
				"paymentData": "pd-redirect",
			},
		})

	case req.PaymentMethod.Type == "scheme" && req.PaymentMethod.HolderName == "3DS Shopper":
		g.writeJSON(w, map[string]interface{}{
			"resultCode": "IdentifyShopper",
			"action": map[string]string{
				"type":        "threeDS2Fingerprint",
				"token":       g.fingerprintToken(),
				"paymentData": "pd-3ds",
			},
		})

	case req.Order != nil:
		g.handleOrderPayment(w, &req)

	default:
		g.writeJSON(w, map[string]interface{}{
			"resultCode":   "Authorised",
			"pspReference": "DEMO-PSP-1",
		})
	}
}

// handleOrderPayment deducts the submission from the order's remainder. A gift
// card pays at most its balance; any other instrument settles the rest.
func (g *gateway) handleOrderPayment(w http.ResponseWriter, req *inboundPayment) {
	g.mu.Lock()
	defer g.mu.Unlock()

	remaining, ok := g.orders[req.Order.OrderData]
	if !ok {
		http.Error(w, `{"message": "unknown order"}`, http.StatusUnprocessableEntity)
		return
	}

	paid := remaining
	if req.PaymentMethod.Type == "giftcard" && paid > 7000 {
		paid = 7000
	}
	remaining -= paid

	delete(g.orders, req.Order.OrderData)
	nextData := req.Order.OrderData + "'"
	if remaining > 0 {
		g.orders[nextData] = remaining
	}

	g.writeJSON(w, map[string]interface{}{
		"resultCode":   "Authorised",
		"pspReference": "DEMO-PSP-" + req.PaymentMethod.Type,
		"order": map[string]interface{}{
			"pspReference":    req.Order.PSPReference,
			"orderData":       nextData,
			"remainingAmount": map[string]interface{}{"value": remaining, "currency": req.Amount.Currency},
		},
	})
}

func (g *gateway) handleDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Details map[string]string `json:"details"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message": "bad request"}`, http.StatusBadRequest)
		return
	}

	if _, ok := req.Details["fingerprintResult"]; ok {
		// Demo shoppers are always challenged after fingerprinting.
		g.writeJSON(w, map[string]interface{}{
			"resultCode": "ChallengeShopper",
			"action": map[string]string{
				"type":        "threeDS2Challenge",
				"token":       g.challengeToken(),
				"paymentData": "pd-3ds",
			},
		})
		return
	}

	g.writeJSON(w, map[string]interface{}{
		"resultCode":   "Authorised",
		"pspReference": "DEMO-PSP-DETAILS",
	})
}

func (g *gateway) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount    domain.Amount `json:"amount"`
		Reference string        `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message": "bad request"}`, http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	orderData := "demo-order-" + req.Reference
	g.orders[orderData] = req.Amount.Value
	g.mu.Unlock()

	g.writeJSON(w, map[string]interface{}{
		"resultCode":      "Success",
		"pspReference":    "DEMO-ORDER-1",
		"orderData":       orderData,
		"remainingAmount": map[string]interface{}{"value": req.Amount.Value, "currency": req.Amount.Currency},
	})
}

func (g *gateway) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Order struct {
			OrderData string `json:"orderData"`
		} `json:"order"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message": "bad request"}`, http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	delete(g.orders, req.Order.OrderData)
	g.mu.Unlock()

	g.writeJSON(w, map[string]interface{}{"resultCode": "Received"})
}

func (g *gateway) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderData string `json:"orderData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"message": "bad request"}`, http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	remaining, ok := g.orders[req.OrderData]
	g.mu.Unlock()
	if !ok {
		http.Error(w, `{"message": "unknown order"}`, http.StatusUnprocessableEntity)
		return
	}

	g.writeJSON(w, map[string]interface{}{
		"remainingAmount": map[string]interface{}{"value": remaining, "currency": "EUR"},
		"paymentMethods": []map[string]interface{}{
			{"type": "giftcard", "lastFour": "0000",
				"amount": map[string]interface{}{"value": 7000, "currency": "EUR"}},
		},
	})
}

func (g *gateway) fingerprintToken() string {
	return encodeToken(map[string]string{
		"directoryServerId":        "A000000003",
		"directoryServerPublicKey": "demo-key",
		"threeDSServerTransID":     "demo-server-trans",
		"threeDSMessageVersion":    "2.2.0",
	})
}

func (g *gateway) challengeToken() string {
	return encodeToken(map[string]string{
		"acsReferenceNumber":   "DEMO-ACS",
		"acsSignedContent":     "demo-signed-content",
		"acsTransID":           "demo-acs-trans",
		"threeDSServerTransID": "demo-server-trans",
	})
}

func encodeToken(payload map[string]string) string {
	data, _ := json.Marshal(payload)
	return base64.StdEncoding.EncodeToString(data)
}
