package fleet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/urmzd/ledhub/pkg/light"
)

// ErrRefreshLimited indicates a manual refresh was refused because one ran
// too recently.
var ErrRefreshLimited = errors.New("refresh rate limited")

// Source finds the clients of one backend.
type Source struct {
	Backend light.Backend
	// Scan returns the clients that should be live. current holds the
	// clients live before the scan; first is set for the startup scan.
	Scan func(ctx context.Context, current []light.Client, first bool) ([]light.Client, error)
	// RetryOnEmpty schedules a single retry when a scan finds nothing.
	RetryOnEmpty bool
}

// ScanOptions tune the scanner timings.
type ScanOptions struct {
	RescanInterval time.Duration
	RetryDelay     time.Duration
	// RefreshEvery is the minimum gap between manual refreshes.
	RefreshEvery time.Duration
}

// DefaultScanOptions returns the production timings.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		RescanInterval: 60 * time.Minute,
		RetryDelay:     60 * time.Second,
		RefreshEvery:   5 * time.Second,
	}
}

// Scanner runs the sources into a Registry: once at startup, then every
// RescanInterval. A source that comes back empty is retried once after
// RetryDelay; the retry is dropped if a full rescan finds clients first.
type Scanner struct {
	reg     *Registry
	sources []Source
	opts    ScanOptions
	limiter *rate.Limiter

	mu      sync.Mutex
	baseCtx context.Context
	retries map[light.Backend]*time.Timer
}

// NewScanner creates a Scanner.
func NewScanner(reg *Registry, sources []Source, opts ScanOptions) *Scanner {
	if opts.RefreshEvery <= 0 {
		opts.RefreshEvery = DefaultScanOptions().RefreshEvery
	}
	return &Scanner{
		reg:     reg,
		sources: sources,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(opts.RefreshEvery), 1),
		baseCtx: context.Background(),
		retries: make(map[light.Backend]*time.Timer),
	}
}

// Run scans once and then on every rescan tick until ctx ends.
func (s *Scanner) Run(ctx context.Context) {
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	s.ScanAll(ctx, true)

	t := time.NewTicker(s.opts.RescanInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.stopRetries()
			return
		case <-t.C:
			s.ScanAll(ctx, false)
		}
	}
}

// Refresh runs a full scan on request, at most once per RefreshEvery.
func (s *Scanner) Refresh(ctx context.Context) (int, error) {
	if !s.limiter.Allow() {
		return 0, ErrRefreshLimited
	}
	return s.ScanAll(ctx, false), nil
}

// ScanAll runs every source concurrently and returns the number of live
// clients found.
func (s *Scanner) ScanAll(ctx context.Context, first bool) int {
	counts := make([]int, len(s.sources))
	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			counts[i] = s.scan(ctx, src, first)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for i, src := range s.sources {
		total += counts[i]
		if !src.RetryOnEmpty {
			continue
		}
		if counts[i] == 0 {
			s.scheduleRetry(src)
		} else {
			s.cancelRetry(src.Backend)
		}
	}
	log.Info().Int("clients", total).Msg("Light scan finished")
	return total
}

// scan runs one source and replaces its clients.
func (s *Scanner) scan(ctx context.Context, src Source, first bool) int {
	clients, err := src.Scan(ctx, s.reg.Clients(src.Backend), first)
	if err != nil {
		log.Warn().Err(err).Str("backend", string(src.Backend)).Msg("Light scan failed")
		clients = nil
	}
	s.reg.Replace(src.Backend, clients)
	log.Debug().Str("backend", string(src.Backend)).Int("clients", len(clients)).Msg("Backend scanned")
	return len(clients)
}

func (s *Scanner) scheduleRetry(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.retries[src.Backend]; ok {
		t.Stop()
	}
	ctx := s.baseCtx
	var timer *time.Timer
	timer = time.AfterFunc(s.opts.RetryDelay, func() {
		s.mu.Lock()
		if s.retries[src.Backend] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.retries, src.Backend)
		s.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		// A retry never schedules another one.
		n := s.scan(ctx, src, false)
		log.Info().Str("backend", string(src.Backend)).Int("clients", n).Msg("Retry scan finished")
	})
	s.retries[src.Backend] = timer
	log.Info().Str("backend", string(src.Backend)).Dur("in", s.opts.RetryDelay).Msg("No lights found, retry scheduled")
}

func (s *Scanner) cancelRetry(backend light.Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.retries[backend]; ok {
		t.Stop()
		delete(s.retries, backend)
	}
}

// RetryPending reports whether a retry is scheduled for backend.
func (s *Scanner) RetryPending(backend light.Backend) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.retries[backend]
	return ok
}

func (s *Scanner) stopRetries() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for b, t := range s.retries {
		t.Stop()
		delete(s.retries, b)
	}
}
