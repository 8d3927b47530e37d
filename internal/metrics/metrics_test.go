package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePaymentCode(t *testing.T) {
	m := New()
	m.ObservePaymentCode("MPESA", "KENYA", "fixed-code")
	m.ObservePaymentCode("MPESA", "KENYA", "fixed-code")
	m.ObservePaymentCode("VENMO", "GHANA", "unsupported")
	m.ObservePaymentCode("CASHAPP", "PERU", "unsupported")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.paymentCodes.WithLabelValues("MPESA", "KENYA", "fixed-code")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.paymentCodes.WithLabelValues("other", "other", "unsupported")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.paymentCodes))
}

func TestObserveOperationAndCalculation(t *testing.T) {
	m := New()
	m.ObserveOperation("loyalty_tier", "SUCCESS")
	m.ObserveCalculation("SUCCESS", 3*time.Millisecond)
	m.ObserveTierLookup("hit")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("loyalty_tier", "SUCCESS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.tierLookups.WithLabelValues("hit")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.calculations))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalculation("SUCCESS", time.Second)
		m.ObserveOperation("payment_code", "FAILURE")
		m.ObservePaymentCode("MTN_MOMO", "RWANDA", "fixed-code")
		m.ObserveTierLookup("miss")
	})
	assert.NotNil(t, m.Registry())
}
