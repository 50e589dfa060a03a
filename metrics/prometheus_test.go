package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/seqvec/pipeline"
)

func TestPrometheus_ObserveStage(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheus(reg)
	require.NoError(t, err)

	p.ObserveStage(pipeline.StageEncode, 3*time.Millisecond, nil)
	p.ObserveStage(pipeline.StageRetrieve, time.Millisecond, errors.New("down"))
	p.ObserveStage(pipeline.StageRetrieve, time.Millisecond, errors.New("down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(p.failures.WithLabelValues("retrieve")))
	assert.Equal(t, 0.0, testutil.ToFloat64(p.failures.WithLabelValues("encode")))
	assert.Equal(t, 2, testutil.CollectAndCount(p.latency))

	_, err = NewPrometheus(reg)
	assert.Error(t, err, "duplicate registration")
}
