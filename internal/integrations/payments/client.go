package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/booking-core/internal/usecase/booking"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client is a thin HTTP client against the payment gateway, implementing
// booking.PaymentsClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *Client) CreateInvoice(ctx context.Context, bookingID int64, amountMinor int64, currency string) (string, string, error) {
	body, err := json.Marshal(createInvoiceRequest{BookingID: bookingID, AmountMinor: amountMinor, Currency: currency})
	if err != nil {
		return "", "", fmt.Errorf("%w: encode request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/v1/invoices", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("%w: create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("payments: create invoice for booking %d failed: %v", bookingID, err)
		return "", "", fmt.Errorf("%w: execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return "", "", fmt.Errorf("%w: unexpected status %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var out CreateInvoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", fmt.Errorf("%w: decode response: %v", ErrInvalidResponse, err)
	}
	c.log.Info("payments: invoice %s opened for booking %d", out.InvoiceRef, bookingID)
	return out.InvoiceRef, out.ExternalURL, nil
}

func (c *Client) VerifyPayment(ctx context.Context, invoiceRef string) (booking.PaymentStatus, error) {
	url := fmt.Sprintf("%s/v1/invoices/%s", c.baseURL, invoiceRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrInternal, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrInvoiceNotFound
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var out VerifyPaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrInvalidResponse, err)
	}

	switch out.Status {
	case "paid":
		return booking.PaymentPaid, nil
	case "pending":
		return booking.PaymentPending, nil
	case "failed":
		return booking.PaymentFailed, nil
	case "cancelled":
		return booking.PaymentCancelled, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidResponse, out.Status)
	}
}
