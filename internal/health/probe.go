// Package health waits for the launched dashboard to start answering HTTP.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fraudguard-launcher/internal/common"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// MetricsInterface receives readiness results.
type MetricsInterface interface {
	ReadySet(ready bool)
	ReadinessLatencyObserve(v float64)
	ProbeFailuresInc()
}

type Prober struct {
	baseURL  string
	rest     *resty.Client
	interval time.Duration
	timeout  time.Duration
	metrics  MetricsInterface
}

// NewProber probes the dashboard health endpoint on baseURL every interval
// until timeout elapses.
func NewProber(baseURL string, interval, timeout time.Duration, m MetricsInterface) *Prober {
	r := resty.New()
	r.SetTimeout(2 * time.Second)
	return &Prober{
		baseURL:  baseURL,
		rest:     r,
		interval: interval,
		timeout:  timeout,
		metrics:  m,
	}
}

// LocalURL is the address the dashboard is reachable on from this host.
func LocalURL(port string) string {
	return fmt.Sprintf("http://127.0.0.1:%s", port)
}

// Wait blocks until the health endpoint returns 200, the timeout elapses or
// ctx is done. It returns nil only when the dashboard answered.
func (p *Prober) Wait(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.check(ctx); err == nil {
			p.ready(time.Since(start))
			return nil
		} else if ctx.Err() == nil {
			log.Debug().Err(err).Msg("dashboard not ready yet")
			if p.metrics != nil {
				p.metrics.ProbeFailuresInc()
			}
		}

		select {
		case <-ctx.Done():
			if p.metrics != nil {
				p.metrics.ReadySet(false)
			}
			return fmt.Errorf("dashboard not ready: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Watch is Wait shaped for use as a launch watcher: outcomes are logged, not
// returned.
func (p *Prober) Watch(ctx context.Context) {
	err := p.Wait(ctx)
	switch {
	case err == nil:
		log.Info().Str("url", p.baseURL).Msg("dashboard ready")
	case ctx.Err() != nil:
		// child exited or launcher is shutting down
	default:
		log.Warn().Err(err).Dur("timeout", p.timeout).Msg("dashboard did not become ready")
	}
}

func (p *Prober) check(ctx context.Context) error {
	resp, err := p.rest.R().SetContext(ctx).Get(p.baseURL + common.HealthPath)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("health: %s", resp.Status())
	}
	return nil
}

func (p *Prober) ready(latency time.Duration) {
	if p.metrics == nil {
		return
	}
	p.metrics.ReadySet(true)
	p.metrics.ReadinessLatencyObserve(latency.Seconds())
}
