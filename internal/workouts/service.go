package workouts

import "context"

// Service encapsulates workout business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

func (s *Service) List(ctx context.Context, userID, from, to string) ([]Workout, error) {
	return s.repo.List(ctx, userID, from, to)
}

func (s *Service) Get(ctx context.Context, userID, id string) (*Detail, error) {
	return s.repo.Get(ctx, userID, id)
}

// Create stores a new workout owned by userID.
func (s *Service) Create(ctx context.Context, userID string, w *Workout) (*Workout, error) {
	w.UserID = userID
	return s.repo.Create(ctx, w)
}

func (s *Service) Update(ctx context.Context, userID, id string, upd *Update) (*Workout, error) {
	return s.repo.Update(ctx, userID, id, upd)
}

func (s *Service) Delete(ctx context.Context, userID, id string) (*Workout, error) {
	return s.repo.Delete(ctx, userID, id)
}
