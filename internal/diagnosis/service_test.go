package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
	"github.com/yusufkecer/nyenyak-backend/internal/domain"
)

type fakeUsers struct {
	users map[string]*domain.User
	err   error
}

func (f *fakeUsers) GetByID(_ context.Context, uid string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[uid], nil
}

type fakeDiagnoses struct {
	items map[string]map[string]domain.Diagnosis
	err   error
}

func newFakeDiagnoses() *fakeDiagnoses {
	return &fakeDiagnoses{items: make(map[string]map[string]domain.Diagnosis)}
}

func (f *fakeDiagnoses) Create(_ context.Context, d *domain.Diagnosis) error {
	if f.err != nil {
		return f.err
	}
	if f.items[d.UID] == nil {
		f.items[d.UID] = make(map[string]domain.Diagnosis)
	}
	f.items[d.UID][d.ID] = *d
	return nil
}

func (f *fakeDiagnoses) ListByUser(_ context.Context, uid string) ([]domain.Diagnosis, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Diagnosis
	for _, d := range f.items[uid] {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDiagnoses) Get(_ context.Context, uid, id string) (*domain.Diagnosis, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.items[uid][id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeDiagnoses) Delete(_ context.Context, uid, id string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if _, ok := f.items[uid][id]; !ok {
		return false, nil
	}
	delete(f.items[uid], id)
	return true, nil
}

type fakeSolutions map[string]string

func (f fakeSolutions) Get(_ context.Context, disorder string) (*string, error) {
	s, ok := f[disorder]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type fakeClassifier struct {
	disorder string
	err      error
	got      *domain.FeatureVector
}

func (f *fakeClassifier) Predict(_ context.Context, fv domain.FeatureVector) (string, error) {
	f.got = &fv
	return f.disorder, f.err
}

var fixedNow = time.Date(2024, 6, 15, 10, 30, 45, 123, time.UTC)

func newTestService(classifier *fakeClassifier) (*Service, *fakeDiagnoses) {
	birth := time.Date(1994, 3, 2, 0, 0, 0, 0, time.UTC)
	users := &fakeUsers{users: map[string]*domain.User{
		"user-1": {UID: "user-1", Name: "Dewi", Gender: "Female", BirthDate: &birth},
		"user-2": {UID: "user-2", Name: "Budi", Gender: "Male"},
	}}
	diagnoses := newFakeDiagnoses()
	solutions := fakeSolutions{"Insomnia": "Keep a consistent sleep schedule."}

	svc := NewService(users, diagnoses, solutions, classifier, zap.NewNop(), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, diagnoses
}

func TestCreateAssemblesAndPersistsRecord(t *testing.T) {
	classifier := &fakeClassifier{disorder: "Insomnia"}
	svc, store := newTestService(classifier)
	svc.newID = func() (string, error) { return "00112233aabbccdd", nil }

	d, err := svc.Create(context.Background(), "user-1", validBody())
	require.NoError(t, err)

	assert.Equal(t, "00112233aabbccdd", d.ID)
	assert.Equal(t, "user-1", d.UID)
	assert.Equal(t, "15-06-2024", d.Date)
	assert.Equal(t, fixedNow.Truncate(time.Second), d.CreatedAt)
	assert.Equal(t, "Dewi", d.Name)
	assert.Equal(t, 30, d.Age)
	assert.Equal(t, BMINormal, d.BMICategory)
	assert.Equal(t, 60.0, d.PhysicalActivityLevel)
	assert.Equal(t, "Insomnia", d.SleepDisorder)
	require.NotNil(t, d.Solution)
	assert.Equal(t, "Keep a consistent sleep schedule.", *d.Solution)

	require.NotNil(t, classifier.got)
	assert.Equal(t, 0, classifier.got.Gender)
	assert.Equal(t, 30, classifier.got.Age)
	assert.Equal(t, 1.0, classifier.got.PhysicalActivityLevel)
	assert.Equal(t, 1, classifier.got.BPCategory)

	stored, ok := store.items["user-1"]["00112233aabbccdd"]
	require.True(t, ok)
	assert.Equal(t, *d, stored)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _ := newTestService(&fakeClassifier{disorder: "Insomnia"})

	created, err := svc.Create(context.Background(), "user-1", validBody())
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateMissingSolutionIsNull(t *testing.T) {
	svc, _ := newTestService(&fakeClassifier{disorder: "None"})

	d, err := svc.Create(context.Background(), "user-1", validBody())
	require.NoError(t, err)
	assert.Nil(t, d.Solution)
	assert.Equal(t, "None", d.SleepDisorder)
}

func TestCreateValidationFailureSkipsCollaborators(t *testing.T) {
	classifier := &fakeClassifier{disorder: "Insomnia"}
	svc, store := newTestService(classifier)

	body := validBody()
	body["sleepDuration"] = json.Number("25")
	_, err := svc.Create(context.Background(), "user-1", body)

	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Nil(t, classifier.got)
	assert.Empty(t, store.items)
}

func TestCreateUnknownUser(t *testing.T) {
	svc, _ := newTestService(&fakeClassifier{disorder: "Insomnia"})

	_, err := svc.Create(context.Background(), "ghost", validBody())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateRequiresBirthDate(t *testing.T) {
	svc, _ := newTestService(&fakeClassifier{disorder: "Insomnia"})

	_, err := svc.Create(context.Background(), "user-2", validBody())
	require.Error(t, err)
	assert.Equal(t, CodeProfileIncomplete, apperr.As(err).Code)
}

func TestCreateClassifierFailureIsDownstreamAndNotPersisted(t *testing.T) {
	svc, store := newTestService(&fakeClassifier{err: errors.New("connection refused")})

	_, err := svc.Create(context.Background(), "user-1", validBody())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindDownstream))
	assert.Empty(t, store.items)
}

func TestCreateStoreFailureIsDownstream(t *testing.T) {
	svc, store := newTestService(&fakeClassifier{disorder: "Insomnia"})
	store.err = errors.New("disk full")

	_, err := svc.Create(context.Background(), "user-1", validBody())
	assert.True(t, apperr.Is(err, apperr.KindDownstream))
}

func TestListNewestFirst(t *testing.T) {
	svc, store := newTestService(&fakeClassifier{})
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"aaaaaaaaaaaaaaa1", "aaaaaaaaaaaaaaa2", "aaaaaaaaaaaaaaa3"} {
		require.NoError(t, store.Create(context.Background(), &domain.Diagnosis{
			ID: id, UID: "user-1", CreatedAt: base.AddDate(0, 0, i),
		}))
	}
	require.NoError(t, store.Create(context.Background(), &domain.Diagnosis{
		ID: "bbbbbbbbbbbbbbbb", UID: "user-1", CreatedAt: base.AddDate(0, 0, 2),
	}))

	items, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)

	var ids []string
	for _, d := range items {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"bbbbbbbbbbbbbbbb", "aaaaaaaaaaaaaaa3", "aaaaaaaaaaaaaaa2", "aaaaaaaaaaaaaaa1"}, ids)
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc, _ := newTestService(&fakeClassifier{})

	items, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Len(t, items, 0)
}

func TestGetMissing(t *testing.T) {
	svc, _ := newTestService(&fakeClassifier{})

	_, err := svc.Get(context.Background(), "user-1", "0000000000000000")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDelete(t *testing.T) {
	svc, store := newTestService(&fakeClassifier{disorder: "Insomnia"})
	d, err := svc.Create(context.Background(), "user-1", validBody())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "user-1", d.ID))
	assert.Empty(t, store.items["user-1"])

	err = svc.Delete(context.Background(), "user-1", d.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteRejectsMalformedID(t *testing.T) {
	svc, _ := newTestService(&fakeClassifier{})

	err := svc.Delete(context.Background(), "user-1", "not-an-id")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidID, apperr.As(err).Code)
}

func TestDeleteIsScopedToOwner(t *testing.T) {
	svc, _ := newTestService(&fakeClassifier{disorder: "Insomnia"})
	d, err := svc.Create(context.Background(), "user-1", validBody())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), "user-2", d.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
