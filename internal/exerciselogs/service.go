package exerciselogs

import "context"

// Service encapsulates exercise log business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

func (s *Service) ListByWorkout(ctx context.Context, userID, workoutID string) ([]Log, error) {
	return s.repo.ListByWorkout(ctx, userID, workoutID)
}

// Create stores a new log owned by userID under the given workout.
func (s *Service) Create(ctx context.Context, userID, workoutID string, l *Log) (*Log, error) {
	l.UserID = userID
	l.WorkoutID = workoutID
	return s.repo.Create(ctx, l)
}

func (s *Service) Update(ctx context.Context, userID, id string, upd *Update) (*Log, error) {
	return s.repo.Update(ctx, userID, id, upd)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
