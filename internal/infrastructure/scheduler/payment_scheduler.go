package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nadwivedi/hostel-sub000/internal/application/billing"
	"github.com/nadwivedi/hostel-sub000/internal/domain/shared"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/config"
	"github.com/nadwivedi/hostel-sub000/internal/infrastructure/telemetry"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Generator runs the upcoming-payment scan
type Generator interface {
	ScanAndGenerateUpcoming(ctx context.Context, leadDays int) (*billing.ScanResult, error)
}

// Reminder runs the reminder pass
type Reminder interface {
	SendDueReminders(ctx context.Context) (*billing.ReminderResult, error)
}

// Config holds PaymentScheduler settings
type Config struct {
	Enabled        bool
	GenerationCron string
	ReminderCron   string
	RunOnStartup   bool
	LeadDays       int
	JobTimeout     time.Duration
	LockTTL        time.Duration
	Location       *time.Location
}

// ConfigFrom builds the scheduler settings from application configuration
func ConfigFrom(cfg config.SchedulerConfig, loc *time.Location) Config {
	return Config{
		Enabled:        cfg.Enabled,
		GenerationCron: cfg.GenerationCron,
		ReminderCron:   cfg.ReminderCron,
		RunOnStartup:   cfg.RunOnStartup,
		LeadDays:       cfg.LeadDays,
		JobTimeout:     cfg.JobTimeout,
		LockTTL:        cfg.LockTTL,
		Location:       loc,
	}
}

// Stats is a snapshot of the scheduler state
type Stats struct {
	Enabled        bool       `json:"enabled"`
	Running        bool       `json:"running"`
	GenerationCron string     `json:"generation_cron"`
	ReminderCron   string     `json:"reminder_cron"`
	NextGeneration *time.Time `json:"next_generation,omitempty"`
	NextReminder   *time.Time `json:"next_reminder,omitempty"`
	LastGeneration *JobRun    `json:"last_generation,omitempty"`
	LastReminder   *JobRun    `json:"last_reminder,omitempty"`
	Runs           int64      `json:"runs"`
	Failures       int64      `json:"failures"`
}

// PaymentScheduler triggers the daily generation scan and reminder pass.
// A job never overlaps itself: a per-job mutex guards this process and the
// JobLocker guards replicas sharing the same lock backend.
type PaymentScheduler struct {
	cfg       Config
	generator Generator
	reminders Reminder
	locker    shared.JobLocker
	metrics   *telemetry.BillingMetrics
	logger    *zap.Logger

	jobLocks map[JobName]*sync.Mutex

	mu       sync.Mutex
	cron     *cron.Cron
	running  bool
	genEntry cron.EntryID
	remEntry cron.EntryID
	last     map[JobName]*JobRun
	runs     int64
	failures int64
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewPaymentScheduler creates a stopped scheduler. locker may be nil, in
// which case only the in-process guard applies.
func NewPaymentScheduler(
	cfg Config,
	generator Generator,
	reminders Reminder,
	locker shared.JobLocker,
	metrics *telemetry.BillingMetrics,
	logger *zap.Logger,
) *PaymentScheduler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 10 * time.Minute
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.JobTimeout + 5*time.Minute
	}
	return &PaymentScheduler{
		cfg:       cfg,
		generator: generator,
		reminders: reminders,
		locker:    locker,
		metrics:   metrics,
		logger:    logger.Named("payment_scheduler"),
		jobLocks: map[JobName]*sync.Mutex{
			JobGeneration: {},
			JobReminders:  {},
		},
		last: make(map[JobName]*JobRun),
	}
}

// Start registers both cron jobs and, if configured, runs one generation
// scan in the background. Calling Start on a running scheduler is a no-op.
func (s *PaymentScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if !s.cfg.Enabled {
		s.logger.Info("Payment scheduler is disabled")
		return nil
	}

	c := cron.New(
		cron.WithLocation(s.cfg.Location),
		cron.WithChain(cron.Recover(cronLogger{logger: s.logger.Sugar()})),
	)
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	genEntry, err := c.AddFunc(s.cfg.GenerationCron, func() { s.runGeneration(runCtx, "cron") })
	if err != nil {
		cancel()
		return fmt.Errorf("%w: generation cron %q: %v", ErrInvalidConfig, s.cfg.GenerationCron, err)
	}
	remEntry, err := c.AddFunc(s.cfg.ReminderCron, func() { s.runReminders(runCtx, "cron") })
	if err != nil {
		cancel()
		return fmt.Errorf("%w: reminder cron %q: %v", ErrInvalidConfig, s.cfg.ReminderCron, err)
	}

	s.cron = c
	s.genEntry = genEntry
	s.remEntry = remEntry
	s.cancel = cancel
	s.running = true
	c.Start()

	if s.cfg.RunOnStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runGeneration(runCtx, "startup")
		}()
	}

	s.logger.Info("Payment scheduler started",
		zap.String("generation_cron", s.cfg.GenerationCron),
		zap.String("reminder_cron", s.cfg.ReminderCron),
		zap.String("timezone", s.cfg.Location.String()),
		zap.Bool("run_on_startup", s.cfg.RunOnStartup),
	)
	return nil
}

// Stop cancels running jobs and waits for them until ctx expires
func (s *PaymentScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	cronDone := s.cron.Stop()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Payment scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("payment scheduler stop: %w", ctx.Err())
	}
}

// IsRunning reports whether the cron jobs are registered
func (s *PaymentScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunGenerationNow runs the generation scan synchronously
func (s *PaymentScheduler) RunGenerationNow(ctx context.Context) (*billing.ScanResult, error) {
	res, err := s.execute(ctx, JobGeneration, "manual", s.generate)
	if err != nil {
		return nil, err
	}
	return res.(*billing.ScanResult), nil
}

// RunRemindersNow runs the reminder pass synchronously
func (s *PaymentScheduler) RunRemindersNow(ctx context.Context) (*billing.ReminderResult, error) {
	res, err := s.execute(ctx, JobReminders, "manual", s.remind)
	if err != nil {
		return nil, err
	}
	return res.(*billing.ReminderResult), nil
}

// Stats returns a snapshot of the scheduler state
func (s *PaymentScheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Enabled:        s.cfg.Enabled,
		Running:        s.running,
		GenerationCron: s.cfg.GenerationCron,
		ReminderCron:   s.cfg.ReminderCron,
		LastGeneration: copyRun(s.last[JobGeneration]),
		LastReminder:   copyRun(s.last[JobReminders]),
		Runs:           s.runs,
		Failures:       s.failures,
	}
	if s.running {
		if next := s.cron.Entry(s.genEntry).Next; !next.IsZero() {
			st.NextGeneration = &next
		}
		if next := s.cron.Entry(s.remEntry).Next; !next.IsZero() {
			st.NextReminder = &next
		}
	}
	return st
}

func (s *PaymentScheduler) runGeneration(ctx context.Context, trigger string) {
	_, _ = s.execute(ctx, JobGeneration, trigger, s.generate)
}

func (s *PaymentScheduler) runReminders(ctx context.Context, trigger string) {
	_, _ = s.execute(ctx, JobReminders, trigger, s.remind)
}

func (s *PaymentScheduler) generate(ctx context.Context) (any, error) {
	return s.generator.ScanAndGenerateUpcoming(ctx, s.cfg.LeadDays)
}

func (s *PaymentScheduler) remind(ctx context.Context) (any, error) {
	return s.reminders.SendDueReminders(ctx)
}

// execute runs fn under both locks and the job timeout, recording the outcome
func (s *PaymentScheduler) execute(ctx context.Context, job JobName, trigger string, fn func(context.Context) (any, error)) (any, error) {
	log := s.logger.With(zap.String("job", string(job)), zap.String("trigger", trigger))

	local := s.jobLocks[job]
	if !local.TryLock() {
		log.Info("Job skipped, previous run still in progress")
		return nil, ErrJobInProgress
	}
	defer local.Unlock()

	if s.locker != nil {
		release, ok, err := s.locker.TryLock(ctx, "scheduler:"+string(job), s.cfg.LockTTL)
		switch {
		case err != nil:
			// fall back to the in-process guard
			log.Warn("Job lock unavailable, running with local guard only", zap.Error(err))
		case !ok:
			log.Info("Job skipped, held by another instance")
			s.record(&JobRun{Job: job, Trigger: trigger, Status: JobStatusSkipped, StartedAt: time.Now()})
			return nil, ErrJobInProgress
		default:
			defer release()
		}
	}

	run := &JobRun{Job: job, Trigger: trigger, Status: JobStatusRunning, StartedAt: time.Now()}
	s.record(run)

	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	log.Info("Job started")
	result, err := fn(jobCtx)

	finished := *run
	if err != nil {
		finished.finish(JobStatusFailed, nil, err)
		log.Error("Job failed", zap.Error(err), zap.Duration("duration", finished.Duration()))
	} else {
		finished.finish(JobStatusSuccess, result, nil)
		log.Info("Job finished", zap.Duration("duration", finished.Duration()), zap.Any("result", result))
	}
	s.record(&finished)
	s.metrics.JobFinished(ctx, string(job), finished.Duration(), err)
	return result, err
}

func (s *PaymentScheduler) record(run *JobRun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[run.Job] = run
	switch run.Status {
	case JobStatusSuccess:
		s.runs++
	case JobStatusFailed:
		s.runs++
		s.failures++
	}
}

func copyRun(r *JobRun) *JobRun {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}
