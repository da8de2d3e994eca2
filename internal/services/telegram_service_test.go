package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "1,234,567 UZS", FormatPrice(decimal.RequireFromString("1234567.89"), ""))
	assert.Equal(t, "999 USD", FormatPrice(decimal.NewFromInt(999), "USD"))
	assert.Equal(t, "-1,000 UZS", FormatPrice(decimal.NewFromInt(-1000), ""))
}

func TestNotifyNewOrderPostsToAdminChat(t *testing.T) {
	var got telegramMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	telegram := NewTelegramService("token", "-100")
	telegram.apiBase = server.URL

	err := telegram.NotifyNewOrder(context.Background(), OrderNotification{
		OrderID:  "order-1",
		UserName: "Alice <A>",
		Items:    []OrderItemNotification{{Name: "Apple", Quantity: 2, Price: decimal.NewFromInt(1500)}},
		Total:    decimal.NewFromInt(3000),
		Status:   "Pending",
	})
	require.NoError(t, err)

	assert.Equal(t, "-100", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "order-1")
	assert.Contains(t, got.Text, "Alice &lt;A&gt;")
	assert.Contains(t, got.Text, "2 x 1,500 UZS = 3,000 UZS")
}

func TestNotifyNewOrderDisabledWithoutConfig(t *testing.T) {
	var telegram *TelegramService
	assert.NoError(t, telegram.NotifyNewOrder(context.Background(), OrderNotification{}))
	assert.NoError(t, NewTelegramService("", "").NotifyNewOrder(context.Background(), OrderNotification{}))
}

func TestNotifyNewOrderReportsUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	telegram := NewTelegramService("token", "-100")
	telegram.apiBase = server.URL
	assert.Error(t, telegram.NotifyNewOrder(context.Background(), OrderNotification{OrderID: "x"}))
}
