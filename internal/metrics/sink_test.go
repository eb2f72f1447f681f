package metrics

import (
	"testing"
	"time"

	"github.com/Itexoft/procvd/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestSinkRecordsStartsAndExits(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))

	s := NewSink()
	key := model.ProcessKey{Group: "core", Process: "a"}
	s.WriteEvent(model.OutputEvent{Key: key, Kind: model.EventStarting, Timestamp: time.Now()})
	code := 0
	s.WriteEvent(model.OutputEvent{Key: key, Kind: model.EventExited, Timestamp: time.Now(), ExitCode: &code})

	families, err := reg.Gather()
	require.NoError(t, err)

	require.Equal(t, float64(1), counterValue(t, families, "procvd_process_starts_total"))
	require.Equal(t, float64(1), counterValue(t, families, "procvd_process_exits_total"))
}

func counterValue(t *testing.T, families []*dto.MetricFamily, name string) float64 {
	t.Helper()
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	t.Fatalf("metric family %q not found", name)
	return 0
}
