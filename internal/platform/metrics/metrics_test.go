package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestImports_Observe(t *testing.T) {
	t.Parallel()

	m := NewImports(prometheus.NewRegistry())
	m.Observe("person", OutcomeStored, 3, time.Millisecond)
	m.Observe("person", OutcomeRejected, 5, time.Millisecond)

	if got := testutil.ToFloat64(m.total.WithLabelValues("person", OutcomeStored)); got != 1 {
		t.Fatalf("stored=%v, want 1", got)
	}
	if got := testutil.ToFloat64(m.total.WithLabelValues("person", OutcomeRejected)); got != 1 {
		t.Fatalf("rejected=%v, want 1", got)
	}
	if got := testutil.ToFloat64(m.rows.WithLabelValues("person")); got != 3 {
		t.Fatalf("rows=%v, want 3 (rejected rows are not counted)", got)
	}
}

func TestImports_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Imports
	m.Observe("person", OutcomeStored, 1, time.Second)
}
