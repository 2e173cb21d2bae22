package stats

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
)

// Overview is the aggregate snapshot served to dashboards.
type Overview struct {
	TotalComplaints       int64            `json:"total_complaints"`
	StatusCounts          map[string]int64 `json:"status_counts"`
	MonthlyGrowthPercent  float64          `json:"monthly_growth_percent"`
	AvgResolutionDays     float64          `json:"avg_resolution_days"`
	CompletionRatePercent float64          `json:"completion_rate_percent"`
	SatisfactionScore     float64          `json:"satisfaction_score"`
}

// Repository defines the reads behind the statistics snapshot. Time windows
// are computed by the caller so the queries stay portable across stores.
type Repository interface {
	CountComplaints(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	ClosedResolutionSpans(ctx context.Context) ([]ResolutionSpan, error)
}

// ResolutionSpan is the open/close pair for one closed complaint.
type ResolutionSpan struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a statistics repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountComplaints(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Complaint{}).Count(&count).Error
	return count, err
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) ClosedResolutionSpans(ctx context.Context) ([]ResolutionSpan, error) {
	var spans []ResolutionSpan
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("created_at, updated_at").
		Where("status = ?", enums.ComplaintStatusClosed).
		Scan(&spans).Error
	if err != nil {
		return nil, err
	}
	return spans, nil
}

// Service computes the dashboard snapshot.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a statistics service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	total, err := s.repo.CountComplaints(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count complaints")
	}
	statusCounts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count by status")
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	current, err := s.repo.CountCreatedBetween(ctx, monthStart, now.Add(time.Second))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count current month")
	}
	previous, err := s.repo.CountCreatedBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count previous month")
	}

	growth := 0.0
	if previous > 0 {
		growth = float64(current-previous) / float64(previous) * 100
	}

	spans, err := s.repo.ClosedResolutionSpans(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load resolution spans")
	}
	avgDays := 0.0
	if len(spans) > 0 {
		var totalDays float64
		for _, span := range spans {
			totalDays += span.UpdatedAt.Sub(span.CreatedAt).Hours() / 24
		}
		avgDays = totalDays / float64(len(spans))
	}

	closed := statusCounts[string(enums.ComplaintStatusClosed)]
	denominator := total
	if denominator == 0 {
		denominator = 1
	}
	completionRate := float64(closed) / float64(denominator) * 100
	satisfaction := math.Min(5, math.Max(1, completionRate/100*5))

	return &Overview{
		TotalComplaints:       total,
		StatusCounts:          statusCounts,
		MonthlyGrowthPercent:  round(growth, 2),
		AvgResolutionDays:     round(avgDays, 1),
		CompletionRatePercent: round(completionRate, 2),
		SatisfactionScore:     round(satisfaction, 1),
	}, nil
}

func round(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
