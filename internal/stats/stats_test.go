package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	total     int64
	byStatus  map[string]int64
	perWindow map[string]int64
	spans     []ResolutionSpan
}

func (s *stubRepo) CountComplaints(context.Context) (int64, error) {
	return s.total, nil
}

func (s *stubRepo) CountByStatus(context.Context) (map[string]int64, error) {
	return s.byStatus, nil
}

func (s *stubRepo) CountCreatedBetween(_ context.Context, from, to time.Time) (int64, error) {
	return s.perWindow[from.Format("2006-01")], nil
}

func (s *stubRepo) ClosedResolutionSpans(context.Context) ([]ResolutionSpan, error) {
	return s.spans, nil
}

func TestOverview(t *testing.T) {
	base := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	repo := &stubRepo{
		total:    10,
		byStatus: map[string]int64{"open": 2, "under_investigation": 2, "closed": 6},
		perWindow: map[string]int64{
			"2026-08": 6,
			"2026-07": 4,
		},
		spans: []ResolutionSpan{
			{CreatedAt: base.AddDate(0, 0, -10), UpdatedAt: base.AddDate(0, 0, -7)},
			{CreatedAt: base.AddDate(0, 0, -5), UpdatedAt: base.AddDate(0, 0, -4)},
		},
	}

	svc, err := NewService(repo)
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return base }

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 10, overview.TotalComplaints)
	// (6-4)/4 * 100
	assert.Equal(t, 50.0, overview.MonthlyGrowthPercent)
	// (3 + 1) / 2 days
	assert.Equal(t, 2.0, overview.AvgResolutionDays)
	// 6 of 10 closed
	assert.Equal(t, 60.0, overview.CompletionRatePercent)
	// 0.6 * 5 = 3.0
	assert.Equal(t, 3.0, overview.SatisfactionScore)
}

func TestOverview_emptyStore(t *testing.T) {
	repo := &stubRepo{byStatus: map[string]int64{}, perWindow: map[string]int64{}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, overview.TotalComplaints)
	assert.Equal(t, 0.0, overview.MonthlyGrowthPercent)
	assert.Equal(t, 0.0, overview.AvgResolutionDays)
	assert.Equal(t, 0.0, overview.CompletionRatePercent)
	// clamp floor
	assert.Equal(t, 1.0, overview.SatisfactionScore)
}

func TestOverview_growthWithoutHistory(t *testing.T) {
	repo := &stubRepo{
		total:     3,
		byStatus:  map[string]int64{"open": 3},
		perWindow: map[string]int64{"2026-08": 3},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC) }

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, overview.MonthlyGrowthPercent)
}
