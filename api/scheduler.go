/*
scheduler.go - Timer that drives the auto-checkout sweep

PURPOSE:
  The ledger's sweep is a pure function of (ledger, now); something has to
  call it. This scheduler runs it on a fixed interval from a background
  goroutine and logs what each pass closed.

DESIGN:
  - The interval defaults to a minute, the cadence the kiosk always used
  - Each tick passes the current wall-clock time into the sweep; the
    sweep itself never reads the clock, which keeps it testable
  - The sweep is idempotent, so an overlapping or delayed tick is
    harmless - at worst a session closes one tick late

USAGE:
  sched := NewSweepScheduler(ledger)
  sched.Start()
  // ... later
  sched.Stop()

SEE ALSO:
  - attendance/ledger.go: RunAutoCheckoutSweep
  - handlers.go: TriggerSweep endpoint (manual pass)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pharmadesk/attendance-engine/attendance"
)

// SweepScheduler runs the auto-checkout sweep on a fixed interval.
type SweepScheduler struct {
	Ledger   *attendance.Ledger
	Interval time.Duration
	Enabled  bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSweepScheduler creates a scheduler with the default one-minute tick.
func NewSweepScheduler(ledger *attendance.Ledger) *SweepScheduler {
	return &SweepScheduler{
		Ledger:   ledger,
		Interval: time.Minute,
		Enabled:  true,
		stop:     make(chan bool),
	}
}

// Start begins the scheduler.
func (s *SweepScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.Enabled {
		log.Println("[Sweep] Disabled, not starting")
		return
	}

	s.ticker = time.NewTicker(s.Interval)
	s.wg.Add(1)

	go s.run()

	log.Printf("[Sweep] Started with interval: %v", s.Interval)
}

// Stop stops the scheduler.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.wg.Wait()
		log.Println("[Sweep] Stopped")
	}
}

func (s *SweepScheduler) run() {
	defer s.wg.Done()

	// Run immediately on start
	s.sweep()

	for {
		select {
		case <-s.ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *SweepScheduler) sweep() {
	ctx := context.Background()
	result, err := s.Ledger.RunAutoCheckoutSweep(ctx, time.Now())
	if err != nil {
		log.Printf("[Sweep] Error: %v", err)
		return
	}
	if len(result.Closed) > 0 {
		log.Printf("[Sweep] Closed %d stale session(s), %d still open", len(result.Closed), result.Skipped)
	}
}

// RunNow triggers an immediate pass (for testing/admin).
func (s *SweepScheduler) RunNow() {
	s.sweep()
}
