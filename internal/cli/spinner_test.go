package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/modtower/pkg/observability"
)

// syncBuffer is a bytes.Buffer that tolerates the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	w := &syncBuffer{}
	s := newSpinner(context.Background(), w, "Injecting tower.gcode...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Update("Injecting tower.gcode... layer 5/10")
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := w.String()
	for _, want := range []string{"Injecting tower.gcode...", "layer 5/10"} {
		if !strings.Contains(out, want) {
			t.Errorf("spinner output %q does not contain %q", out, want)
		}
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner output %q does not end with a cleared line", out)
	}
}

func TestSpinnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Injecting...")
	s.Start()
	if s.Cancelled() {
		t.Error("Cancelled() = true before cancel")
	}

	cancel()
	s.Stop()
	if !s.Cancelled() {
		t.Error("Cancelled() = false after the parent context was cancelled")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Injecting...")
	s.Start()
	s.Stop()
	s.Stop()

	// Stopping a spinner that never started must not block.
	newSpinner(context.Background(), &syncBuffer{}, "idle").Stop()
}

func TestSpinnerStopMessages(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
		want string
	}{
		{"success", func(s *Spinner) { s.StopWithSuccess("Injected %d lines", 3) }, "Injected 3 lines"},
		{"error", func(s *Spinner) { s.StopWithError("Injection failed") }, "Injection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &syncBuffer{}
			s := newSpinner(context.Background(), w, "Injecting...")
			s.Start()
			time.Sleep(50 * time.Millisecond)
			tt.stop(s)

			if !strings.Contains(w.String(), tt.want) {
				t.Errorf("output %q does not contain %q", w.String(), tt.want)
			}
		})
	}
}

func TestSpinnerHooks(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "Injecting in.gcode...")
	h := &spinnerHooks{spinner: s, name: "in.gcode"}

	h.OnLayerCount(context.Background(), 10)
	h.OnInject(context.Background(), 5, []string{"M104 S210"})
	h.OnComplete(context.Background(), observability.InjectStats{}, 0, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	if want := "Injecting in.gcode... layer 5/10"; s.message != want {
		t.Errorf("spinner message = %q, want %q", s.message, want)
	}
}
