package services

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/exercise-tracker/apiserver/types"
	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]types.User, error)
	GetByID(ctx context.Context, id string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	AppendExercise(ctx context.Context, id string, exercise types.Exercise) (types.User, error)
}

// EventPublisher delivers domain events to a broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event types.Event) error
}

// Recorder counts domain operations.
type Recorder interface {
	UserCreated()
	ExerciseAdded()
}

type nopPublisher struct{}

func (nopPublisher) PublishEvent(context.Context, types.Event) error { return nil }

type nopRecorder struct{}

func (nopRecorder) UserCreated()   {}
func (nopRecorder) ExerciseAdded() {}

// UserService encapsulates the exercise tracker use-cases.
type UserService struct {
	repo      UserRepository
	publisher EventPublisher
	recorder  Recorder
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a UserService.
type Option func(*UserService)

func WithPublisher(p EventPublisher) Option {
	return func(s *UserService) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *UserService) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *UserService) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the source of "today" for exercises logged without a date.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewUserService(repo UserRepository, opts ...Option) *UserService {
	s := &UserService{
		repo:      repo,
		publisher: nopPublisher{},
		recorder:  nopRecorder{},
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUserInput is the payload of the new-user operation.
type CreateUserInput struct {
	Username string `json:"username" validate:"required"`
}

// AddExerciseInput is the payload of the add-exercise operation. Duration
// and Date arrive as raw text and are parsed here.
type AddExerciseInput struct {
	UserID      string `json:"userId" validate:"required"`
	Description string `json:"description"`
	Duration    string `json:"duration" validate:"required"`
	Date        string `json:"date"`
}

// LogQuery selects a view of a user's log.
type LogQuery struct {
	UserID string `json:"userId" validate:"required"`
	From   string `json:"from"`
	To     string `json:"to"`
	Limit  string `json:"limit"`
}

func (s *UserService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (types.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validateStruct(in); err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{Username: in.Username})
	if err != nil {
		return types.User{}, err
	}

	s.recorder.UserCreated()
	s.publish(ctx, types.Event{
		Type:     types.EventUserCreated,
		UserID:   user.ID,
		Username: user.Username,
	})
	return user, nil
}

// AddExercise appends an entry to the user's log. The store applies the
// append and the count update together.
func (s *UserService) AddExercise(ctx context.Context, in AddExerciseInput) (types.ExerciseAdded, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Duration = strings.TrimSpace(in.Duration)
	in.Date = strings.TrimSpace(in.Date)
	if err := validateStruct(in); err != nil {
		return types.ExerciseAdded{}, err
	}

	duration, err := parseDuration(in.Duration)
	if err != nil {
		return types.ExerciseAdded{}, invalid("duration", "duration must be an integer")
	}

	date := FormatDate(s.now())
	if in.Date != "" {
		date, err = NormalizeDate(in.Date)
		if err != nil {
			return types.ExerciseAdded{}, invalid("date", "date is invalid")
		}
	}

	entry := types.Exercise{
		Description: in.Description,
		Duration:    duration,
		Date:        date,
	}
	user, err := s.repo.AppendExercise(ctx, in.UserID, entry)
	if err != nil {
		return types.ExerciseAdded{}, err
	}

	s.recorder.ExerciseAdded()
	s.publish(ctx, types.Event{
		Type:     types.EventExerciseAdded,
		UserID:   user.ID,
		Username: user.Username,
		Exercise: &entry,
	})

	return types.ExerciseAdded{
		Description: entry.Description,
		Duration:    entry.Duration,
		Date:        entry.Date,
		UserID:      user.ID,
		Username:    user.Username,
	}, nil
}

// GetLog returns a view of the user's log: first truncated to Limit entries,
// then, when both From and To are given, narrowed to the dates strictly
// between them. The view is never written back to the store.
func (s *UserService) GetLog(ctx context.Context, q LogQuery) (types.User, error) {
	q.UserID = strings.TrimSpace(q.UserID)
	if err := validateStruct(q); err != nil {
		return types.User{}, err
	}

	limit := -1
	if raw := strings.TrimSpace(q.Limit); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return types.User{}, invalid("limit", "limit must be a non-negative integer")
		}
		limit = parsed
	}

	var from, to time.Time
	if raw := strings.TrimSpace(q.From); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			return types.User{}, invalid("from", "from is invalid")
		}
		from = parsed
	}
	if raw := strings.TrimSpace(q.To); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			return types.User{}, invalid("to", "to is invalid")
		}
		to = parsed
	}

	user, err := s.repo.GetByID(ctx, q.UserID)
	if err != nil {
		return types.User{}, err
	}

	view := user.Clone()
	if limit >= 0 {
		view.Log = LimitLog(view.Log, limit)
		view.Count = len(view.Log)
	}
	if !from.IsZero() && !to.IsZero() {
		view.Log = FilterLog(view.Log, from, to)
		view.Count = len(view.Log)
	}
	return view, nil
}

// parseDuration accepts integer text such as "30" and whole-valued numbers
// such as "30.0" or "3e1".
func parseDuration(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

func (s *UserService) publish(ctx context.Context, event types.Event) {
	event.ID = uuid.NewString()
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.log.WarnContext(ctx, "publish event failed",
			slog.String("type", event.Type),
			slog.String("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}
