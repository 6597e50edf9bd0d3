package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, msg string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	c := New("http://unused", "key", "secret")

	valid := sign("secret", "order_abc|pay_xyz")
	assert.True(t, c.VerifySignature("order_abc", "pay_xyz", valid))

	assert.False(t, c.VerifySignature("order_abc", "pay_xyz", "deadbeef"))
	assert.False(t, c.VerifySignature("order_abc", "pay_other", valid), "signature bound to payment id")
	assert.False(t, c.VerifySignature("order_other", "pay_xyz", valid), "signature bound to order id")

	wrongKey := sign("other-secret", "order_abc|pay_xyz")
	assert.False(t, c.VerifySignature("order_abc", "pay_xyz", wrongKey))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key-id", user)
		assert.Equal(t, "key-secret", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(4200), body["amount"])
		assert.Equal(t, "USD", body["currency"])
		assert.Equal(t, "ORD-000001-001", body["receipt"])

		json.NewEncoder(w).Encode(GatewayOrder{
			ID: "order_abc", AmountCents: 4200, Currency: "USD", Receipt: "ORD-000001-001",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "key-id", "key-secret")
	defer c.Close()

	got, err := c.CreateOrder(context.Background(), 4200, "USD", "ORD-000001-001")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", got.ID)
	assert.Equal(t, int64(4200), got.AmountCents)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "key-id", "wrong")
	_, err := c.CreateOrder(context.Background(), 100, "USD", "r1")
	assert.Error(t, err)
}
