package payments

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrders struct {
	got  map[string]interface{}
	resp map[string]interface{}
	err  error
}

func (f *fakeOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	f.got = data
	return f.resp, f.err
}

func TestRazorpaySignature(t *testing.T) {
	c := NewRazorpayClientWithOrders("rzp_test", "secret", "", &fakeOrders{})

	sig := c.Signature("order_1", "pay_1")
	ok, err := c.VerifySignature("order_1", "pay_1", sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.VerifySignature("order_1", "pay_1", strings.ToUpper(sig))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.VerifySignature("order_1", "pay_2", sig)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.VerifySignature("order_1", "", sig)
	assert.ErrorIs(t, err, ErrMissingSignatureFields)
}

func TestRazorpayCreateOrder(t *testing.T) {
	orders := &fakeOrders{resp: map[string]interface{}{"id": "order_9", "status": "created"}}
	c := NewRazorpayClientWithOrders("rzp_test", "secret", "", orders)

	order, err := c.CreateOrder("MT-9", 49900, map[string]string{"propertyId": "p1"})
	require.NoError(t, err)

	assert.Equal(t, "order_9", order.OrderID)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test", order.KeyID)
	assert.Equal(t, int64(49900), orders.got["amount"])
	assert.Equal(t, "MT-9", orders.got["receipt"])
}

func TestRazorpayCreateOrder_Failures(t *testing.T) {
	c := NewRazorpayClientWithOrders("k", "s", "INR", &fakeOrders{err: errors.New("boom")})
	_, err := c.CreateOrder("MT", 100, nil)
	assert.Error(t, err)

	c = NewRazorpayClientWithOrders("k", "s", "INR", &fakeOrders{resp: map[string]interface{}{}})
	_, err = c.CreateOrder("MT", 100, nil)
	var gwErr *GatewayError
	assert.ErrorAs(t, err, &gwErr)
}

func TestRazorpayConfigured(t *testing.T) {
	assert.False(t, NewRazorpayClientWithOrders("", "", "", nil).Configured())
	assert.True(t, NewRazorpayClientWithOrders("k", "s", "", nil).Configured())
}

func TestNewRazorpayClient_WithSDK(t *testing.T) {
	c := NewRazorpayClient("rzp_test_key", "secret", "", 15*time.Second)
	require.NotNil(t, c.orders)
	assert.True(t, c.Configured())
	assert.Equal(t, "INR", c.currency)

	assert.NotNil(t, NewRazorpayClient("rzp_test_key", "secret", "USD", 0).orders)
}
