package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPriceFetch(t *testing.T) {
	before := testutil.ToFloat64(priceFetchTotal.WithLabelValues("coingecko", "ok"))

	RecordPriceFetch("coingecko", "ok", 20*time.Millisecond)

	after := testutil.ToFloat64(priceFetchTotal.WithLabelValues("coingecko", "ok"))
	assert.Equal(t, before+1, after)
}

func TestRecordCommand_EmptyLabels(t *testing.T) {
	before := testutil.ToFloat64(botCommandsTotal.WithLabelValues("unknown", "unknown"))

	RecordCommand("", "", time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(botCommandsTotal.WithLabelValues("unknown", "unknown")))
}

func TestSetMenuEntries(t *testing.T) {
	SetMenuEntries("group", 7)
	assert.Equal(t, float64(7), testutil.ToFloat64(menuEntries.WithLabelValues("group")))
}
