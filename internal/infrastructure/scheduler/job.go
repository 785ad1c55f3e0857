package scheduler

import (
	"time"
)

// JobName identifies a scheduled batch
type JobName string

const (
	JobGeneration JobName = "payment_generation"
	JobReminders  JobName = "payment_reminders"
)

// JobStatus represents the outcome of one run
type JobStatus string

const (
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
	JobStatusSkipped JobStatus = "SKIPPED"
)

// JobRun records one execution of a job
type JobRun struct {
	Job        JobName    `json:"job"`
	Trigger    string     `json:"trigger"` // cron, startup or manual
	Status     JobStatus  `json:"status"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
	Result     any        `json:"result,omitempty"`
}

func (r *JobRun) finish(status JobStatus, result any, err error) {
	now := time.Now()
	r.Status = status
	r.FinishedAt = &now
	r.Result = result
	if err != nil {
		r.Error = err.Error()
	}
}

// Duration returns how long the run took, or zero while it is running
func (r *JobRun) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
