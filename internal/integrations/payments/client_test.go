package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m04kA/booking-core/internal/usecase/booking"
	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoiceSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/invoices", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(CreateInvoiceResponse{InvoiceRef: "inv-1", ExternalURL: "https://pay/inv-1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, logger.NewNop())
	ref, url, err := c.CreateInvoice(context.Background(), 1, 1000, "RUB")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", ref)
	assert.Equal(t, "https://pay/inv-1", url)
}

func TestVerifyPaymentMapsStatuses(t *testing.T) {
	status := "paid"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(VerifyPaymentResponse{Status: status})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, logger.NewNop())
	st, err := c.VerifyPayment(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, booking.PaymentPaid, st)
}

func TestVerifyPaymentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, logger.NewNop())
	_, err := c.VerifyPayment(context.Background(), "missing")
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}
