// Package apiclient is the typed client for the workout API. It attaches the
// current bearer token to every request and transparently retries once after
// refreshing an expired session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/liftlog/liftlog/internal/exerciselogs"
	"github.com/liftlog/liftlog/internal/progress"
	"github.com/liftlog/liftlog/internal/workouts"
	"github.com/liftlog/liftlog/pkg/session"
)

// APIError is a non-2xx reply from the API.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Details)
	}
	return fmt.Sprintf("api: %s", e.Message)
}

// Client calls the workout API on behalf of the signed-in user.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client, *Transport)

// WithBaseTransport sets the transport the bearer decorator wraps.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(_ *Client, t *Transport) { t.Base = rt }
}

// WithSessionExpiredHandler installs a callback that runs after a failed
// refresh has forced a sign-out.
func WithSessionExpiredHandler(fn func()) Option {
	return func(_ *Client, t *Transport) { t.OnSessionExpired = fn }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client, _ *Transport) { c.http.Timeout = d }
}

// New builds a Client rooted at baseURL (for example "https://api.liftlog.app")
// whose requests carry tokens from store.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	transport := &Transport{
		Store:       store,
		Coordinator: NewRefreshCoordinator(),
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c, transport)
	}
	c.http.Transport = transport
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}
	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// WorkoutInput is the payload for creating or replacing a workout.
type WorkoutInput struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Notes string `json:"notes,omitempty"`
}

// LogInput is the payload for creating an exercise log.
type LogInput struct {
	ExerciseName string  `json:"exercise_name"`
	MuscleGroup  string  `json:"muscle_group,omitempty"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	Weight       float64 `json:"weight"`
}

// DeletedWorkout is the delete endpoint's acknowledgement.
type DeletedWorkout struct {
	Message string           `json:"message"`
	Deleted workouts.Workout `json:"deleted"`
}

// Workouts lists the user's workouts, optionally windowed by start and end
// dates (YYYY-MM-DD, inclusive).
func (c *Client) Workouts(ctx context.Context, startDate, endDate string) ([]workouts.Workout, error) {
	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	var list []workouts.Workout
	if err := c.do(ctx, http.MethodGet, "/workouts", query, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Workout fetches one workout with its exercise logs.
func (c *Client) Workout(ctx context.Context, id string) (*workouts.Detail, error) {
	var detail workouts.Detail
	if err := c.do(ctx, http.MethodGet, "/workouts/"+url.PathEscape(id), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) CreateWorkout(ctx context.Context, in WorkoutInput) (*workouts.Workout, error) {
	var created workouts.Workout
	if err := c.do(ctx, http.MethodPost, "/workouts", nil, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateWorkout(ctx context.Context, id string, in WorkoutInput) (*workouts.Workout, error) {
	var updated workouts.Workout
	if err := c.do(ctx, http.MethodPut, "/workouts/"+url.PathEscape(id), nil, in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteWorkout(ctx context.Context, id string) (*DeletedWorkout, error) {
	var deleted DeletedWorkout
	if err := c.do(ctx, http.MethodDelete, "/workouts/"+url.PathEscape(id), nil, nil, &deleted); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// ExerciseLogs lists the logs of one workout.
func (c *Client) ExerciseLogs(ctx context.Context, workoutID string) ([]exerciselogs.Log, error) {
	var logs []exerciselogs.Log
	if err := c.do(ctx, http.MethodGet, "/exercise_logs/workouts/"+url.PathEscape(workoutID)+"/logs", nil, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) CreateExerciseLog(ctx context.Context, workoutID string, in LogInput) (*exerciselogs.Log, error) {
	var created exerciselogs.Log
	if err := c.do(ctx, http.MethodPost, "/exercise_logs/workouts/"+url.PathEscape(workoutID)+"/logs", nil, in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateExerciseLog(ctx context.Context, id string, upd exerciselogs.Update) (*exerciselogs.Log, error) {
	var updated exerciselogs.Log
	if err := c.do(ctx, http.MethodPatch, "/exercise_logs/logs/"+url.PathEscape(id), nil, upd, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteExerciseLog(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/exercise_logs/logs/"+url.PathEscape(id), nil, nil, nil)
}

// WeightProgress returns the recent weight series for one exercise.
func (c *Client) WeightProgress(ctx context.Context, exercise string) ([]exerciselogs.WeightPoint, error) {
	query := url.Values{"exercise": {exercise}}
	var points []exerciselogs.WeightPoint
	if err := c.do(ctx, http.MethodGet, "/progress/weight", query, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// MuscleGroupDistribution returns how recent logs spread across muscle groups.
func (c *Client) MuscleGroupDistribution(ctx context.Context) ([]progress.GroupCount, error) {
	var dist []progress.GroupCount
	if err := c.do(ctx, http.MethodGet, "/progress/muscle-groups", nil, nil, &dist); err != nil {
		return nil, err
	}
	return dist, nil
}
