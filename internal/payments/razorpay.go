package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"estatehub_backend/internal/models"

	razorpay "github.com/razorpay/razorpay-go"
)

// OrderCreator is the slice of the razorpay-go SDK used here; client.Order satisfies it.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type RazorpayClient struct {
	keyID     string
	keySecret string
	currency  string
	orders    OrderCreator
}

// NewRazorpayClient builds an SDK-backed client. timeout bounds every API call.
func NewRazorpayClient(keyID, keySecret, currency string, timeout time.Duration) *RazorpayClient {
	sdk := razorpay.NewClient(keyID, keySecret)
	if timeout > 0 {
		sdk.SetTimeout(int16(timeout / time.Second))
	}
	return NewRazorpayClientWithOrders(keyID, keySecret, currency, sdk.Order)
}

func NewRazorpayClientWithOrders(keyID, keySecret, currency string, orders OrderCreator) *RazorpayClient {
	if currency == "" {
		currency = "INR"
	}
	return &RazorpayClient{keyID: keyID, keySecret: keySecret, currency: currency, orders: orders}
}

func (c *RazorpayClient) Configured() bool {
	return c != nil && c.keyID != "" && c.keySecret != ""
}

// CreateOrder creates a server-side order for amount (paise), using the
// merchant transaction id as receipt.
func (c *RazorpayClient) CreateOrder(merchantTransactionID string, amount int64, notes map[string]string) (*RazorpayOrder, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": c.currency,
		"receipt":  merchantTransactionID,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	resp, err := c.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}

	orderID, _ := resp["id"].(string)
	if orderID == "" {
		return nil, &GatewayError{Gateway: models.GatewayRazorpay, Code: "NO_ORDER_ID", Message: "order response without id"}
	}
	if status, _ := resp["status"].(string); status != "" && status != "created" {
		return nil, &GatewayError{Gateway: models.GatewayRazorpay, Code: strings.ToUpper(status), Message: "unexpected order status"}
	}

	return &RazorpayOrder{
		OrderID:  orderID,
		Amount:   amount,
		Currency: c.currency,
		KeyID:    c.keyID,
	}, nil
}

var ErrMissingSignatureFields = errors.New("razorpay: order id, payment id and signature are required")

// Signature returns hex(HMAC_SHA256(orderID + "|" + paymentID, keySecret)).
func (c *RazorpayClient) Signature(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the checkout signature in constant time.
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, ErrMissingSignatureFields
	}
	return hmac.Equal([]byte(c.Signature(orderID, paymentID)), []byte(strings.ToLower(signature))), nil
}
