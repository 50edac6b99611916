package progress

import (
	"context"
	"sort"
	"time"

	"github.com/liftlog/liftlog/internal/exerciselogs"
)

// Window is the trailing period progress queries aggregate over.
const Window = 30 * 24 * time.Hour

// GroupCount is how often a muscle group was trained inside the window.
type GroupCount struct {
	MuscleGroup string `json:"muscle_group"`
	Count       int    `json:"count"`
}

// Service computes training progress views over the exercise log history.
type Service struct {
	logs exerciselogs.Repository
	now  func() time.Time
}

func NewService(logs exerciselogs.Repository) *Service {
	return &Service{logs: logs, now: time.Now}
}

// window returns the inclusive [start-of-day 30 days ago, end-of-day today] range.
func (s *Service) window() (time.Time, time.Time) {
	now := s.now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	fromDay := to.AddDate(0, 0, -30)
	from := time.Date(fromDay.Year(), fromDay.Month(), fromDay.Day(), 0, 0, 0, 0, time.UTC)
	return from, to
}

// WeightProgress returns the chronological weight series for one exercise
// over the last 30 days.
func (s *Service) WeightProgress(ctx context.Context, userID, exercise string) ([]exerciselogs.WeightPoint, error) {
	from, to := s.window()
	points, err := s.logs.WeightSeries(ctx, userID, exercise, from, to)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []exerciselogs.WeightPoint{}
	}
	return points, nil
}

// MuscleGroupDistribution counts how often each muscle group appears in the
// last 30 days of logs, most-trained first.
func (s *Service) MuscleGroupDistribution(ctx context.Context, userID string) ([]GroupCount, error) {
	from, to := s.window()
	groups, err := s.logs.MuscleGroups(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, g := range groups {
		if g == "" {
			continue
		}
		counts[g]++
	}
	out := make([]GroupCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, GroupCount{MuscleGroup: g, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].MuscleGroup < out[j].MuscleGroup
	})
	return out, nil
}
