package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blauwers/receiptd/internal/driver"
	"github.com/blauwers/receiptd/internal/ledger"
)

// Printer describes one configured device for the spooler.
type Printer struct {
	Name   string
	Driver driver.Driver
	Width  int
}

// lane is one printer's serial queue. A single goroutine consumes it, so
// commands for one device never interleave across jobs.
type lane struct {
	name  string
	drv   driver.Driver
	width int
	queue chan *Job
}

// Spooler owns the job store and one lane per printer.
type Spooler struct {
	jobs   *JobStore
	lanes  map[string]*lane
	worker *Worker
	log    *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSpooler creates the spooler with a bounded queue per printer.
func NewSpooler(printers []Printer, queueSize int, jobTTL time.Duration, led *ledger.Ledger, log *slog.Logger) *Spooler {
	s := &Spooler{
		jobs:   NewJobStore(jobTTL),
		lanes:  make(map[string]*lane, len(printers)),
		worker: NewWorker(log, led),
		log:    log,
	}
	for _, p := range printers {
		s.lanes[p.Name] = &lane{
			name:  p.Name,
			drv:   p.Driver,
			width: p.Width,
			queue: make(chan *Job, queueSize),
		}
	}
	return s
}

// Start launches one worker goroutine per lane plus the job store cleanup.
func (s *Spooler) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, ln := range s.lanes {
		s.wg.Add(1)
		go func(ln *lane) {
			defer s.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-ln.queue:
					if !ok {
						return
					}
					s.worker.Process(workerCtx, ln, job)
				}
			}
		}(ln)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				s.jobs.Cleanup()
			}
		}
	}()
}

// Stop shuts down the lanes and waits for workers to exit.
func (s *Spooler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	for _, ln := range s.lanes {
		close(ln.queue)
	}
	s.wg.Wait()
}

// Submit registers the job and queues it on its printer's lane. A full
// lane fails the job immediately.
func (s *Spooler) Submit(job *Job) error {
	ln, ok := s.lanes[job.Printer]
	if !ok {
		return fmt.Errorf("unknown printer %q", job.Printer)
	}
	s.jobs.Put(job)
	select {
	case ln.queue <- job:
		return nil
	default:
		err := fmt.Errorf("printer %q queue is full (%d)", job.Printer, cap(ln.queue))
		job.Fail("queue", err)
		return err
	}
}

// GetJob returns a job by ID, or nil.
func (s *Spooler) GetJob(id string) *Job {
	return s.jobs.Get(id)
}

// HasPrinter reports whether a lane exists for the printer.
func (s *Spooler) HasPrinter(name string) bool {
	_, ok := s.lanes[name]
	return ok
}

// QueueDepth returns the number of jobs waiting on a printer's lane.
func (s *Spooler) QueueDepth(name string) int {
	if ln, ok := s.lanes[name]; ok {
		return len(ln.queue)
	}
	return 0
}
