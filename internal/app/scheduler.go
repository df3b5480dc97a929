package app

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// SyncScheduler runs SyncAll periodically with saved git credentials.
// Only one sync is running at any time; ticks during a running sync are skipped.
type SyncScheduler struct {
	service  *Service
	interval time.Duration
	timeout  time.Duration
	l        logrus.FieldLogger

	// Tick source - replaced in unit tests.
	ticks <-chan time.Time

	// Func for canceling internal worker loop
	stop func()
}

// NewSyncScheduler creates new SyncScheduler instance.
func NewSyncScheduler(service *Service, interval time.Duration, timeout time.Duration, l logrus.FieldLogger) (*SyncScheduler, error) {
	if interval <= 0 {
		return nil, errors.New("sync interval must be greater than 0")
	}

	return &SyncScheduler{
		service:  service,
		interval: interval,
		timeout:  timeout,
		l:        l,
	}, nil
}

// RunScheduler runs internal scheduling goroutine.
// Doesn't block.
func (s *SyncScheduler) RunScheduler() {
	ctx, cancel := context.WithCancel(context.Background())

	ticks := s.ticks
	var ticker *time.Ticker
	if ticks == nil {
		ticker = time.NewTicker(s.interval)
		ticks = ticker.C
	}
	s.stop = func() {
		cancel()
		if ticker != nil {
			ticker.Stop()
		}
	}

	go func() {
		done := make(chan struct{}, 1)
		pending := false

		for {
			select {
			case <-ticks:
				if pending {
					s.l.Info("SyncScheduler: previous sync still running, skipping")
					continue
				}
				pending = true

				go func() {
					s.syncOnce(ctx)
					done <- struct{}{}
				}()
			case <-done:
				pending = false
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops the scheduler.
func (s *SyncScheduler) Close() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

func (s *SyncScheduler) syncOnce(ctx context.Context) {
	creds, err := s.service.GitCredentials()
	if err != nil {
		s.l.Errorf("SyncScheduler: loading git credentials: %v", err)
		return
	}
	if creds.GithubUsername == "" && creds.GitlabUsername == "" {
		s.l.Debug("SyncScheduler: no git credentials configured")
		return
	}

	if s.timeout > 0 {
		var cancel func()
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.l.Info("SyncScheduler: scheduled sync...")
	result, err := s.service.SyncAll(ctx, creds)
	if err != nil {
		s.l.Errorf("SyncScheduler: syncing: %v", err)
		return
	}
	s.l.Infof("SyncScheduler: scheduled sync done, updated %d of %d", result.Updated, result.TotalFetched)
}
