package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.OrdersCreated.Inc()
	m.CouponsSent.Inc()
	m.CouponsSent.Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "coursecart_orders_created_total 1")
	assert.Contains(t, string(body), "coursecart_coupons_sent_total 2")
}

func TestIsolatedRegistries(t *testing.T) {
	t.Parallel()

	// Two instances must not panic on duplicate registration.
	a := New()
	b := New()
	a.WebhooksRejected.Inc()

	_ = b
}
