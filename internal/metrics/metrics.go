package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	competitorsRegistered metric.Int64Counter
	submissionsViewed     metric.Int64Counter
	enrollmentsViewed     metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.competitorsRegistered, err = meter.Int64Counter(
		"oh_sansi.competitors.registered",
		metric.WithDescription("Total number of competitors registered"),
		metric.WithUnit("{competitor}"),
	)
	if err != nil {
		return nil, err
	}

	m.submissionsViewed, err = meter.Int64Counter(
		"oh_sansi.submissions.viewed",
		metric.WithDescription("Total number of times tutor submissions were viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.enrollmentsViewed, err = meter.Int64Counter(
		"oh_sansi.enrollments.viewed",
		metric.WithDescription("Total number of times enrollments were viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordCompetitorRegistered(ctx context.Context) {
	if m != nil && m.competitorsRegistered != nil {
		m.competitorsRegistered.Add(ctx, 1)
	}
}

func (m *Metrics) RecordSubmissionsViewed(ctx context.Context) {
	if m != nil && m.submissionsViewed != nil {
		m.submissionsViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEnrollmentsViewed(ctx context.Context) {
	if m != nil && m.enrollmentsViewed != nil {
		m.enrollmentsViewed.Add(ctx, 1)
	}
}
