package astro

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Status strings reported by the diagnostics endpoints.
const (
	StatusUnconfigured = "unconfigured"
	StatusAvailable    = "available"
	StatusInvalid      = "invalid"
	StatusError        = "error"
)

// StatusCache keeps a periodically refreshed view of the astrology API's
// credential state so the status endpoint never probes upstream per
// request. A nil client pins the status to unconfigured.
type StatusCache struct {
	client *Client

	mu        sync.RWMutex
	status    string
	checkedAt time.Time

	cron *cron.Cron
}

func NewStatusCache(client *Client) *StatusCache {
	s := &StatusCache{
		client: client,
		status: StatusUnconfigured,
		cron:   cron.New(),
	}
	return s
}

// Start runs an immediate probe and schedules refreshes on the given
// cron expression (e.g. "*/10 * * * *"). It stops when ctx is cancelled.
func (s *StatusCache) Start(ctx context.Context, schedule string) error {
	if s.client == nil {
		log.Info("astrology api unconfigured, status refresh disabled")
		return nil
	}

	s.Refresh(ctx)

	if _, err := s.cron.AddFunc(schedule, func() { s.Refresh(context.Background()) }); err != nil {
		return err
	}
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()
	return nil
}

// Refresh revalidates credentials and updates the cached status.
func (s *StatusCache) Refresh(ctx context.Context) {
	if s.client == nil {
		return
	}

	status := StatusAvailable
	ok, err := s.client.ValidateCredentials(ctx)
	switch {
	case err != nil:
		status = StatusError
		log.Warn("astrology status probe failed", "error", err)
	case !ok:
		status = StatusInvalid
	}

	s.mu.Lock()
	s.status = status
	s.checkedAt = time.Now()
	s.mu.Unlock()
	log.Debug("astrology status refreshed", "status", status)
}

// Status returns the cached status and when it was last checked. A zero
// time means no probe has run.
func (s *StatusCache) Status() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.checkedAt
}
