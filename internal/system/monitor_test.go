package system

import (
	"context"
	"testing"
	"time"
)

func TestNewMonitorClampsInterval(t *testing.T) {
	m := NewMonitor(time.Millisecond)
	if m.interval < 100*time.Millisecond {
		t.Errorf("Expected interval clamped to 100ms, got %v", m.interval)
	}
}

func TestHistoryRingIsBounded(t *testing.T) {
	m := NewMonitor(time.Second)
	ctx := context.Background()

	for i := 0; i < historySize+5; i++ {
		m.sample(ctx)
	}

	latest := m.Latest()
	if len(latest.CPUHistory) != historySize {
		t.Errorf("Expected %d history samples, got %d", historySize, len(latest.CPUHistory))
	}
}

func TestLatestCopiesHistory(t *testing.T) {
	m := NewMonitor(time.Second)
	m.sample(context.Background())

	a := m.Latest()
	if len(a.CPUHistory) == 0 {
		t.Fatal("Expected at least one history sample")
	}
	a.CPUHistory[0] = -1

	b := m.Latest()
	if b.CPUHistory[0] == -1 {
		t.Error("Expected Latest to return an isolated history copy")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	m := NewMonitor(100 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		m.Run(ctx, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Run to return after cancel")
	}
}
