package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m04kA/booking-core/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, logger.NewNop())
	err := c.Send(context.Background(), SendRequest{Audience: "customer:1", TemplateID: "reminder", IdempotencyKey: "1:60"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/notifications", gotPath)
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second, logger.NewNop())
	err := c.Send(context.Background(), SendRequest{Audience: "customer:1", TemplateID: "reminder"})
	require.ErrorIs(t, err, ErrInvalidResponse)
}
