// Package jobs schedules the reconciler jobs and guards them so that at most
// one runs at a time.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"budget-reconciler/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var (
	// ErrRunInProgress is returned when a job is triggered while another one runs.
	ErrRunInProgress = errors.New("a job is already running")
	ErrUnknownJob    = errors.New("unknown job")
)

// Job runs once and returns the reports it produced.
type Job func(ctx context.Context) ([]*domain.RunReport, error)

// ReportSink stores run reports.
type ReportSink interface {
	Write(ctx context.Context, reports []*domain.RunReport) error
}

// Status is the last known state of a job.
type Status struct {
	Name      string              `json:"name"`
	Spec      string              `json:"spec"`
	Next      time.Time           `json:"next,omitempty"`
	StartedAt time.Time           `json:"started_at,omitempty"`
	Duration  time.Duration       `json:"duration,omitempty"`
	Error     string              `json:"error,omitempty"`
	Reports   []*domain.RunReport `json:"reports,omitempty"`
}

type entry struct {
	name string
	spec string
	job  Job
	id   cron.EntryID
}

// Runner owns the cron scheduler and the run-in-progress token.
type Runner struct {
	cron *cron.Cron
	sink ReportSink
	log  logrus.FieldLogger
	now  func() time.Time

	running atomic.Bool
	current atomic.Value

	mu      sync.Mutex
	entries []*entry
	last    map[string]Status
}

func NewRunner(sink ReportSink, log logrus.FieldLogger) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		cron: cron.New(),
		sink: sink,
		log:  log,
		now:  time.Now,
		last: map[string]Status{},
	}
}

// Register adds a job. An empty spec registers a job that only runs on demand.
func (r *Runner) Register(name, spec string, job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.name == name {
			return fmt.Errorf("job %s already registered", name)
		}
	}
	if spec != "" {
		if _, err := cron.ParseStandard(spec); err != nil {
			return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
		}
	}
	r.entries = append(r.entries, &entry{name: name, spec: spec, job: job})
	return nil
}

// Names returns the registered jobs in registration order.
func (r *Runner) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

func (r *Runner) lookup(name string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.name == name {
			return e
		}
	}
	return nil
}

// Running returns the name of the job in progress, or "".
func (r *Runner) Running() string {
	if !r.running.Load() {
		return ""
	}
	name, _ := r.current.Load().(string)
	return name
}

// Run executes the named job now and writes its reports to the sink. It fails
// with ErrRunInProgress instead of waiting for another job.
func (r *Runner) Run(ctx context.Context, name string) ([]*domain.RunReport, error) {
	e := r.lookup(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	r.current.Store(name)
	defer r.running.Store(false)

	log := r.log.WithField("job", name)
	log.Info("job started")
	started := r.now()
	reports, err := e.job(ctx)
	elapsed := r.now().Sub(started)
	reports = collect(reports...)

	if len(reports) > 0 && r.sink != nil {
		if serr := r.sink.Write(ctx, reports); serr != nil {
			log.WithError(serr).Error("could not write run reports")
		}
	}

	status := Status{Name: name, Spec: e.spec, StartedAt: started, Duration: elapsed, Reports: reports}
	if err != nil {
		status.Error = err.Error()
		log.WithError(err).Error("job failed")
	} else {
		fields := logrus.Fields{"elapsed": elapsed.Round(time.Millisecond)}
		for _, rep := range reports {
			fields[rep.Job+"_updated"] = rep.Count(domain.StatusUpdated)
			fields[rep.Job+"_failed"] = rep.Count(domain.StatusFailed)
		}
		log.WithFields(fields).Info("job finished")
	}
	r.mu.Lock()
	r.last[name] = status
	r.mu.Unlock()
	return reports, err
}

// Start schedules every job with a spec, runs each of them once in
// registration order, then starts the scheduler. Ticks use ctx.
func (r *Runner) Start(ctx context.Context) error {
	var scheduled []string
	r.mu.Lock()
	for _, e := range r.entries {
		if e.spec == "" {
			continue
		}
		name := e.name
		id, err := r.cron.AddFunc(e.spec, func() { r.tick(ctx, name) })
		if err != nil {
			r.mu.Unlock()
			return fmt.Errorf("could not schedule %s: %w", name, err)
		}
		e.id = id
		scheduled = append(scheduled, name)
	}
	r.mu.Unlock()

	for _, name := range scheduled {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.tick(ctx, name)
	}
	r.cron.Start()
	return nil
}

func (r *Runner) tick(ctx context.Context, name string) {
	if _, err := r.Run(ctx, name); errors.Is(err, ErrRunInProgress) {
		r.log.WithField("job", name).WithField("running", r.Running()).Warn("skipping tick, a job is already running")
	}
}

// Stop halts the scheduler and waits for a running job to return.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

// Statuses returns the state of every registered job.
func (r *Runner) Statuses() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		s, ok := r.last[e.name]
		if !ok {
			s = Status{Name: e.name, Spec: e.spec}
		}
		if e.id != 0 {
			s.Next = r.cron.Entry(e.id).Next
		}
		out = append(out, s)
	}
	return out
}
