package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value reads the current value of a counter.
func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordLLMCall(t *testing.T) {
	before := value(t, LLMCalls.WithLabelValues("test", "error"))
	tokens := value(t, LLMTokens.WithLabelValues("test", "input"))

	RecordLLMCall("test", time.Second, 120, 0, errors.New("boom"))

	assert.InDelta(t, before+1, value(t, LLMCalls.WithLabelValues("test", "error")), 0.001)
	assert.InDelta(t, tokens+120, value(t, LLMTokens.WithLabelValues("test", "input")), 0.001)
}

func TestRecordGroupSync(t *testing.T) {
	runs := value(t, GroupSyncs.WithLabelValues("completed"))
	modules := value(t, SyncedModules)

	RecordGroupSync("completed", 3)

	assert.InDelta(t, runs+1, value(t, GroupSyncs.WithLabelValues("completed")), 0.001)
	assert.InDelta(t, modules+3, value(t, SyncedModules), 0.001)
}

func TestRecordCacheLookup(t *testing.T) {
	hits := value(t, SummaryCache.WithLabelValues("hit"))
	misses := value(t, SummaryCache.WithLabelValues("miss"))

	RecordCacheLookup(true)
	RecordCacheLookup(false)
	RecordCacheLookup(false)

	assert.InDelta(t, hits+1, value(t, SummaryCache.WithLabelValues("hit")), 0.001)
	assert.InDelta(t, misses+2, value(t, SummaryCache.WithLabelValues("miss")), 0.001)
}
