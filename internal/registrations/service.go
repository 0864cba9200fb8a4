package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jornageo/registration/internal/metrics"
	"github.com/jornageo/registration/internal/models"
)

// TimeLayout is the ISO-8601 UTC format of timestamp and created_at.
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Notifier announces a persisted registration. Failures are best-effort.
type Notifier interface {
	Notify(ctx context.Context, reg *models.Registration) error
}

// Mirror copies a persisted registration to a secondary store. Failures are best-effort.
type Mirror interface {
	Write(ctx context.Context, reg *models.Registration) error
}

// Features switches behavior that used to differ between deployments.
type Features struct {
	// AtomicInsert writes with insert-if-absent so two concurrent submissions
	// for the same email cannot both succeed. When false the write is
	// last-write-wins and the pre-insert check is the only guard.
	AtomicInsert bool
}

// Outcome is the result of one best-effort step. A non-nil Err means the step
// failed, was logged and counted, and the registration went ahead anyway.
type Outcome struct {
	Step string
	Err  error
}

// Degraded reports whether the step failed.
func (o Outcome) Degraded() bool { return o.Err != nil }

// Result is a successful registration plus the outcome of every best-effort step that ran.
type Result struct {
	Registration *models.Registration
	Outcomes     []Outcome
}

// Degraded reports whether any best-effort step failed.
func (r *Result) Degraded() bool {
	for _, o := range r.Outcomes {
		if o.Degraded() {
			return true
		}
	}
	return false
}

// Service runs validate, duplicate check, store write, notify and mirror in that order.
type Service struct {
	store    Store
	notifier Notifier
	mirror   Mirror
	features Features
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the notifier. Without it no notification is sent.
func WithNotifier(n Notifier) Option { return func(s *Service) { s.notifier = n } }

// WithMirror enables the secondary store writer.
func WithMirror(m Mirror) Option { return func(s *Service) { s.mirror = m } }

// WithMetrics sets the counters for outcomes and swallowed failures.
func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithIDGenerator overrides the registration_id generator.
func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

// NewService creates a registration service over store.
func NewService(store Store, features Features, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:    store,
		features: features,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates req and persists a new registration.
// Validation, duplicate and store-write errors are returned; every later step is best-effort.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	if err := Validate(&req); err != nil {
		s.metrics.IncRegistration("invalid")
		return nil, err
	}

	res := &Result{}
	dup, err := s.CheckDuplicate(ctx, req.Email)
	if err != nil {
		s.metrics.IncRegistration("duplicate")
		return nil, err
	}
	res.Outcomes = append(res.Outcomes, dup)

	ts := s.now().UTC().Format(TimeLayout)
	reg := &models.Registration{
		Email:          req.Email,
		RegistrationID: s.newID(),
		Name:           req.Name,
		Organization:   req.Organization,
		Position:       req.Position,
		Phone:          req.Phone,
		ManagementArea: req.ManagementArea,
		AISession:      req.AISession,
		HandsOn:        bool(req.HandsOn),
		Timestamp:      ts,
		CreatedAt:      ts,
		Status:         models.StatusConfirmed,
	}

	if s.features.AtomicInsert {
		err = s.store.PutIfAbsent(ctx, reg)
	} else {
		err = s.store.Put(ctx, reg)
	}
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			s.metrics.IncRegistration("duplicate")
			return nil, ErrDuplicate
		}
		s.metrics.IncRegistration("failed")
		return nil, fmt.Errorf("%w: put registration: %w", ErrInternal, err)
	}
	res.Registration = reg

	if s.notifier != nil {
		res.Outcomes = append(res.Outcomes, s.bestEffort(ctx, metrics.StepNotify, reg, s.notifier.Notify))
	}
	if s.mirror != nil {
		res.Outcomes = append(res.Outcomes, s.bestEffort(ctx, metrics.StepMirror, reg, s.mirror.Write))
	}

	s.metrics.IncRegistration("success")
	s.logger.Info("registration created",
		zap.String("registration_id", reg.RegistrationID),
		zap.Bool("degraded", res.Degraded()),
	)
	return res, nil
}

// CheckDuplicate returns ErrDuplicate when email is already registered.
// A failed lookup is swallowed and reported as a degraded Outcome.
func (s *Service) CheckDuplicate(ctx context.Context, email string) (Outcome, error) {
	out := Outcome{Step: metrics.StepDuplicateCheck}
	existing, err := s.store.Get(ctx, email)
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrDownstream, err)
		s.metrics.IncBestEffortFailure(metrics.StepDuplicateCheck)
		s.logger.Warn("duplicate check failed, continuing", zap.Error(err))
		return out, nil
	}
	if existing != nil {
		return out, ErrDuplicate
	}
	return out, nil
}

// List returns every stored registration.
func (s *Service) List(ctx context.Context) ([]models.Registration, error) {
	list, err := s.store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: scan registrations: %w", ErrInternal, err)
	}
	return list, nil
}

func (s *Service) bestEffort(ctx context.Context, step string, reg *models.Registration, fn func(context.Context, *models.Registration) error) Outcome {
	out := Outcome{Step: step}
	if err := fn(ctx, reg); err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrDownstream, err)
		s.metrics.IncBestEffortFailure(step)
		s.logger.Warn(step+" failed, registration kept",
			zap.String("registration_id", reg.RegistrationID),
			zap.Error(err),
		)
	}
	return out
}
