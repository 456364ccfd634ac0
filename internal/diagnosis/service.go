// Package diagnosis turns submitted health metrics into a sleep disorder
// diagnosis: validation, feature encoding, prediction, solution lookup and
// persistence of the assembled record.
package diagnosis

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
	"github.com/yusufkecer/nyenyak-backend/internal/domain"
	"github.com/yusufkecer/nyenyak-backend/internal/metrics"
)

type UserStore interface {
	GetByID(ctx context.Context, uid string) (*domain.User, error)
}

type DiagnosisStore interface {
	Create(ctx context.Context, d *domain.Diagnosis) error
	ListByUser(ctx context.Context, uid string) ([]domain.Diagnosis, error)
	Get(ctx context.Context, uid, id string) (*domain.Diagnosis, error)
	Delete(ctx context.Context, uid, id string) (bool, error)
}

type SolutionStore interface {
	Get(ctx context.Context, disorder string) (*string, error)
}

type Classifier interface {
	Predict(ctx context.Context, features domain.FeatureVector) (string, error)
}

type Service struct {
	users      UserStore
	diagnoses  DiagnosisStore
	solutions  SolutionStore
	classifier Classifier
	logger     *zap.Logger
	metrics    *metrics.Metrics

	now   func() time.Time
	newID func() (string, error)
}

func NewService(
	users UserStore,
	diagnoses DiagnosisStore,
	solutions SolutionStore,
	classifier Classifier,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		users:      users,
		diagnoses:  diagnoses,
		solutions:  solutions,
		classifier: classifier,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
		newID:      NewID,
	}
}

// Create validates raw, asks the classifier for a prediction and stores the
// assembled record. Nothing is persisted unless every earlier step succeeded.
func (s *Service) Create(ctx context.Context, uid string, raw map[string]any) (*domain.Diagnosis, error) {
	input, err := Validate(raw)
	if err != nil {
		s.metrics.ObserveRejected(apperr.As(err).Code)
		return nil, err
	}

	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return nil, apperr.Downstream("failed to load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	now := s.now().UTC().Truncate(time.Second)
	age := user.Age(now)
	if age == nil {
		s.metrics.ObserveRejected(CodeProfileIncomplete)
		return nil, apperr.Validation(CodeProfileIncomplete, "birth date must be set in the profile before requesting a diagnosis")
	}

	features, category := BuildFeatures(input, user.Gender, *age)

	disorder, err := s.classifier.Predict(ctx, features)
	if err != nil {
		if apperr.Is(err, apperr.KindDownstream) {
			return nil, err
		}
		return nil, apperr.Downstream("prediction failed", err)
	}

	solution, err := s.solutions.Get(ctx, disorder)
	if err != nil {
		return nil, apperr.Downstream("failed to load solution", err)
	}

	id, err := s.newID()
	if err != nil {
		return nil, apperr.Downstream("failed to generate diagnosis id", err)
	}

	d := &domain.Diagnosis{
		ID:                    id,
		UID:                   uid,
		Date:                  now.Format(domain.DiagnosisDateLayout),
		CreatedAt:             now,
		Name:                  user.Name,
		Gender:                user.Gender,
		Age:                   *age,
		Weight:                input.Weight,
		Height:                input.Height,
		BMICategory:           category,
		SleepDuration:         input.SleepDuration,
		QualityOfSleep:        input.QualityOfSleep,
		PhysicalActivityLevel: HoursToMinutes(input.PhysicalActivityLevel),
		StressLevel:           input.StressLevel,
		BloodPressure:         input.BloodPressure,
		HeartRate:             input.HeartRate,
		DailySteps:            input.DailySteps,
		SleepDisorder:         disorder,
		Solution:              solution,
	}

	if err := s.diagnoses.Create(ctx, d); err != nil {
		return nil, apperr.Downstream("failed to save diagnosis", err)
	}

	s.metrics.ObserveDiagnosis(disorder)
	s.logger.Info("diagnosis created",
		zap.String("uid", uid),
		zap.String("diagnosis_id", id),
		zap.String("sleep_disorder", disorder),
		zap.Bool("has_solution", solution != nil),
	)
	return d, nil
}

// List returns the user's diagnoses, newest first.
func (s *Service) List(ctx context.Context, uid string) ([]domain.Diagnosis, error) {
	items, err := s.diagnoses.ListByUser(ctx, uid)
	if err != nil {
		return nil, apperr.Downstream("failed to list diagnoses", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	if items == nil {
		items = []domain.Diagnosis{}
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, uid, id string) (*domain.Diagnosis, error) {
	d, err := s.diagnoses.Get(ctx, uid, id)
	if err != nil {
		return nil, apperr.Downstream("failed to get diagnosis", err)
	}
	if d == nil {
		return nil, apperr.NotFound("diagnosis not found")
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, uid, id string) error {
	if !IsValidID(id) {
		return apperr.Validation(CodeInvalidID, "invalid diagnosis id")
	}
	deleted, err := s.diagnoses.Delete(ctx, uid, id)
	if err != nil {
		return apperr.Downstream("failed to delete diagnosis", err)
	}
	if !deleted {
		return apperr.NotFound("diagnosis not found")
	}
	s.logger.Info("diagnosis deleted", zap.String("uid", uid), zap.String("diagnosis_id", id))
	return nil
}
