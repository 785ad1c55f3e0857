package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// BillingMetrics counts rent generation activity. A nil *BillingMetrics is
// valid and records nothing.
type BillingMetrics struct {
	generated   *Counter
	paid        *Counter
	scanFailed  *Counter
	reminders   *Counter
	jobDuration *Histogram
}

// NewBillingMetrics registers the billing instruments on meter.
func NewBillingMetrics(meter metric.Meter) (*BillingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		bm  BillingMetrics
		err error
	)
	if bm.generated, err = NewCounter(meter, "hostel_payments_generated_total", "Monthly rent payments created", "{payments}"); err != nil {
		return nil, err
	}
	if bm.paid, err = NewCounter(meter, "hostel_payments_paid_total", "Payments settled in full", "{payments}"); err != nil {
		return nil, err
	}
	if bm.scanFailed, err = NewCounter(meter, "hostel_scan_failures_total", "Occupancies that failed during a generation scan", "{occupancies}"); err != nil {
		return nil, err
	}
	if bm.reminders, err = NewCounter(meter, "hostel_reminders_sent_total", "Rent reminders sent", "{reminders}"); err != nil {
		return nil, err
	}
	if bm.jobDuration, err = NewHistogram(meter, "hostel_job_duration_seconds", "Duration of scheduled billing jobs", "s", JobDurationBuckets...); err != nil {
		return nil, err
	}
	return &bm, nil
}

// PaymentGenerated counts one created payment from source
func (m *BillingMetrics) PaymentGenerated(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.generated.Inc(ctx, AttrSource.String(source))
}

// PaymentPaid counts one payment reaching PAID
func (m *BillingMetrics) PaymentPaid(ctx context.Context) {
	if m == nil {
		return
	}
	m.paid.Inc(ctx)
}

// ScanFailure counts one occupancy that errored during a scan
func (m *BillingMetrics) ScanFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.scanFailed.Inc(ctx)
}

// ReminderSent counts one delivered reminder
func (m *BillingMetrics) ReminderSent(ctx context.Context) {
	if m == nil {
		return
	}
	m.reminders.Inc(ctx)
}

// JobFinished records how long a scheduled job ran and whether it failed
func (m *BillingMetrics) JobFinished(ctx context.Context, job string, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.jobDuration.RecordDuration(ctx, d, AttrJob.String(job), AttrOutcome.String(outcome))
}
