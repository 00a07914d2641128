package scheduler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	defaultInterval = 15 * time.Minute
	observeTimeout  = 30 * time.Second
)

// Observer records current weather for one location.
type Observer interface {
	Observe(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically observes the configured locations.
type Scheduler struct {
	cron      *gocron.Scheduler
	observer  Observer
	locations []weather.Location
	interval  time.Duration
}

// New creates a new Scheduler. A non-positive interval means every 15 minutes.
func New(locations []weather.Location, interval time.Duration, observer Observer) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	cron := gocron.NewScheduler(time.UTC)
	// A slow run must not overlap the next one.
	cron.SingletonModeAll()
	return &Scheduler{
		cron:      cron,
		observer:  observer,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the observation job and starts the scheduler in the
// background. The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Println("INFO: scheduler: no locations configured; nothing to schedule")
		return nil
	}

	if _, err := s.cron.Every(s.interval).Do(func() { s.RunOnce() }); err != nil {
		return err
	}

	log.Printf("INFO: scheduler: observing %d location(s) every %s", len(s.locations), s.interval)
	s.cron.StartAsync()
	return nil
}

// RunOnce observes every location concurrently, waits for all of them and
// returns the number of failed observations.
func (s *Scheduler) RunOnce() int {
	start := time.Now()

	var (
		wg     sync.WaitGroup
		failed int32
	)
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), observeTimeout)
			defer cancel()

			if err := s.observer.Observe(ctx, loc); err != nil {
				atomic.AddInt32(&failed, 1)
				log.Printf("ERROR: scheduler: observation failed for %s: %v", loc.Key(), err)
			}
		}()
	}
	wg.Wait()

	n := int(atomic.LoadInt32(&failed))
	log.Printf("INFO: scheduler: observed %d/%d location(s) in %s", len(s.locations)-n, len(s.locations), time.Since(start).Round(time.Millisecond))
	return n
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
