package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersCollectorsAndObserves(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m.ObserveImport(true, 42, 5*time.Millisecond)
	if got := testutil.ToFloat64(m.BlocksImported); got != 1 {
		t.Fatalf("BlocksImported = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HeadSlot); got != 42 {
		t.Fatalf("HeadSlot = %v, want 42", got)
	}

	m.ObserveImport(false, 0, time.Millisecond)
	if got := testutil.ToFloat64(m.BlocksRejected); got != 1 {
		t.Fatalf("BlocksRejected = %v, want 1", got)
	}
}
