package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"estatehub_backend/internal/models"
	"estatehub_backend/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// phonePeGateway answers pay and status calls; status reports code and amount.
type phonePeGateway struct {
	mu     sync.Mutex
	code   string
	amount int64
	polls  int
	srv    *httptest.Server
}

func newPhonePeGateway(t *testing.T) *phonePeGateway {
	g := &phonePeGateway{code: payments.PhonePeCodePending}
	g.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()

		var body map[string]interface{}
		switch {
		case r.URL.Path == "/pg/v1/pay":
			body = map[string]interface{}{
				"success": true,
				"code":    payments.PhonePeCodePaymentInitiate,
				"data": map[string]interface{}{
					"instrumentResponse": map[string]interface{}{
						"type":         "PAY_PAGE",
						"redirectInfo": map[string]string{"url": "https://pay.example/page", "method": "GET"},
					},
				},
			}
		case strings.HasPrefix(r.URL.Path, "/pg/v1/status/"):
			g.polls++
			mtid := path.Base(r.URL.Path)
			body = map[string]interface{}{
				"success": g.code == payments.PhonePeCodeSuccess,
				"code":    g.code,
				"data": map[string]interface{}{
					"merchantTransactionId": mtid,
					"transactionId":         "T-" + mtid,
					"amount":                g.amount,
				},
			}
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(g.srv.Close)
	return g
}

func (g *phonePeGateway) answer(code string, amount int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.code, g.amount = code, amount
}

func (g *phonePeGateway) Polls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.polls
}

func newPhonePeFixture(t *testing.T) (*paymentFixture, *phonePeGateway) {
	g := newPhonePeGateway(t)
	f := newPaymentFixtureWith(payments.PhonePeConfig{
		MerchantID: "MERCHANTUAT",
		SaltKey:    "salt-key",
		SaltIndex:  "1",
		BaseURL:    g.srv.URL,
	})
	return f, g
}

func (f *paymentFixture) openPhonePe(t *testing.T) string {
	t.Helper()
	res, err := f.service.CreatePhonePePayment(context.Background(), f.owner, f.request())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/page", res.RedirectURL)
	return res.MerchantTransactionID
}

// callback builds a signed server-to-server callback body.
func (f *paymentFixture) callback(t *testing.T, code, mtid string, amount int64) (xVerify, response string) {
	t.Helper()
	raw, err := json.Marshal(payments.CallbackPayload{
		Success: code == payments.PhonePeCodeSuccess,
		Code:    code,
		Data: payments.PaymentState{
			MerchantID:            "MERCHANTUAT",
			MerchantTransactionID: mtid,
			TransactionID:         "T-" + mtid,
			Amount:                amount,
		},
	})
	require.NoError(t, err)
	response = base64.StdEncoding.EncodeToString(raw)
	return f.phonepe.CallbackChecksum(response), response
}

func (f *paymentFixture) transaction(t *testing.T, mtid string) *models.Transaction {
	t.Helper()
	tx, err := f.transactions.FindByMerchantID(context.Background(), mtid)
	require.NoError(t, err)
	return tx
}

func TestPaymentService_PhonePeCallbackSettles(t *testing.T) {
	f, _ := newPhonePeFixture(t)
	ctx := context.Background()
	mtid := f.openPhonePe(t)
	assert.Equal(t, models.TransactionStatusPending, f.transaction(t, mtid).Status)

	xVerify, body := f.callback(t, payments.PhonePeCodeSuccess, mtid, f.pkg.Price)
	require.NoError(t, f.service.HandlePhonePeCallback(ctx, xVerify, body))

	tx := f.transaction(t, mtid)
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.Equal(t, "T-"+mtid, tx.GatewayPaymentID)
	assert.Zero(t, f.transactions.Failures())

	prop, err := f.properties.FindByID(ctx, f.property.ID.Hex())
	require.NoError(t, err)
	assert.True(t, prop.Featured)
	require.NotNil(t, prop.FeaturedUntil)

	// PhonePe retries callbacks; a replay settles nothing new.
	require.NoError(t, f.service.HandlePhonePeCallback(ctx, xVerify, body))
	assert.Len(t, f.properties.Promotions(), 1)
}

func TestPaymentService_PhonePeCallbackAmountMismatch(t *testing.T) {
	f, _ := newPhonePeFixture(t)
	ctx := context.Background()
	mtid := f.openPhonePe(t)

	xVerify, body := f.callback(t, payments.PhonePeCodeSuccess, mtid, 100)
	assert.Error(t, f.service.HandlePhonePeCallback(ctx, xVerify, body))

	tx := f.transaction(t, mtid)
	assert.Equal(t, models.TransactionStatusFailed, tx.Status)
	assert.Equal(t, "AMOUNT_MISMATCH", tx.FailureReason)
	assert.Equal(t, 1, f.transactions.Failures())
	assert.Empty(t, f.properties.Promotions())
}

func TestPaymentService_PhonePeCallbackBadChecksum(t *testing.T) {
	f, _ := newPhonePeFixture(t)
	ctx := context.Background()
	mtid := f.openPhonePe(t)

	_, body := f.callback(t, payments.PhonePeCodeSuccess, mtid, f.pkg.Price)
	err := f.service.HandlePhonePeCallback(ctx, "0000###1", body)
	assert.ErrorIs(t, err, payments.ErrInvalidChecksum)

	assert.Equal(t, models.TransactionStatusPending, f.transaction(t, mtid).Status)
	assert.Equal(t, 1, f.transactions.Failures())
}

func TestPaymentService_PhonePeStatusPolls(t *testing.T) {
	f, g := newPhonePeFixture(t)
	ctx := context.Background()
	mtid := f.openPhonePe(t)

	tx, err := f.service.PhonePeStatus(ctx, f.owner, mtid)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, tx.Status)

	g.answer(payments.PhonePeCodeSuccess, f.pkg.Price)
	tx, err = f.service.PhonePeStatus(ctx, f.owner, mtid)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSuccess, tx.Status)
	assert.Len(t, f.properties.Promotions(), 1)

	// Terminal transactions are answered locally.
	_, err = f.service.PhonePeStatus(ctx, f.owner, mtid)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Polls())
}

func TestPaymentService_PhonePeStatusAmountMismatch(t *testing.T) {
	f, g := newPhonePeFixture(t)
	mtid := f.openPhonePe(t)

	g.answer(payments.PhonePeCodeSuccess, 1)
	tx, err := f.service.PhonePeStatus(context.Background(), f.owner, mtid)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, tx.Status)
	assert.Equal(t, "AMOUNT_MISMATCH", tx.FailureReason)
	assert.Empty(t, f.properties.Promotions())
}

func TestPaymentService_ReconcilePending(t *testing.T) {
	f, g := newPhonePeFixture(t)
	ctx := context.Background()
	first := f.openPhonePe(t)
	second := f.openPhonePe(t)
	razorpayOrder := f.openOrder(t)

	settled, err := f.service.ReconcilePending(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, settled, "pending answers leave transactions pending")

	g.answer(payments.PhonePeCodeDeclined, 0)
	settled, err = f.service.ReconcilePending(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, settled)

	for _, mtid := range []string{first, second} {
		tx := f.transaction(t, mtid)
		assert.Equal(t, models.TransactionStatusFailed, tx.Status)
		assert.Equal(t, payments.PhonePeCodeDeclined, tx.FailureReason)
	}
	assert.Equal(t, models.TransactionStatusPending, f.transaction(t, razorpayOrder.MerchantTransactionID).Status)
}
