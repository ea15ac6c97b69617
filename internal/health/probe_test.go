package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockMetrics struct {
	mu       sync.Mutex
	ready    []bool
	latency  []float64
	failures int
}

func (m *MockMetrics) ReadySet(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = append(m.ready, ready)
}

func (m *MockMetrics) ReadinessLatencyObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency = append(m.latency, v)
}

func (m *MockMetrics) ProbeFailuresInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func TestLocalURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8501", LocalURL("8501"))
}

func TestProber_ReadyAfterRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_stcore/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	m := &MockMetrics{}
	p := NewProber(srv.URL, 10*time.Millisecond, 5*time.Second, m)

	require.NoError(t, p.Wait(context.Background()))
	assert.GreaterOrEqual(t, hits.Load(), int32(3))
	assert.Equal(t, []bool{true}, m.ready)
	assert.Len(t, m.latency, 1)
	assert.Equal(t, 2, m.failures)
}

func TestProber_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := &MockMetrics{}
	p := NewProber(srv.URL, 10*time.Millisecond, 100*time.Millisecond, m)

	err := p.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []bool{false}, m.ready)
	assert.Positive(t, m.failures)
}

func TestProber_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProber(srv.URL, 10*time.Millisecond, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	done := make(chan struct{})
	go func() {
		p.Watch(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestProber_NothingListening(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := NewProber(url, 10*time.Millisecond, 100*time.Millisecond, nil)
	assert.Error(t, p.Wait(context.Background()))
}
