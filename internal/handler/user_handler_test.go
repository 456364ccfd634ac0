package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/domain"
)

type fakeProfiles struct {
	users   map[string]*domain.User
	updates []map[string]any
}

func (f *fakeProfiles) GetByID(_ context.Context, uid string) (*domain.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeProfiles) Update(_ context.Context, uid string, fields map[string]any) error {
	f.updates = append(f.updates, fields)
	u := f.users[uid]
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["gender"].(string); ok {
		u.Gender = v
	}
	if v, ok := fields["birth_date"].(*time.Time); ok {
		u.BirthDate = v
	}
	return nil
}

type fakeLister struct{ accounts []domain.AccountSummary }

func (f fakeLister) List(context.Context) ([]domain.AccountSummary, error) { return f.accounts, nil }

func newUserHandler(profiles *fakeProfiles, lister fakeLister) *UserHandler {
	h := NewUserHandler(profiles, lister, zap.NewNop())
	h.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }
	return h
}

func TestMeWithoutBirthDate(t *testing.T) {
	profiles := &fakeProfiles{users: map[string]*domain.User{
		"uid-1": {UID: "uid-1", Name: "Budi", Email: "budi@example.com", Gender: "Male"},
	}}
	h := newUserHandler(profiles, fakeLister{})

	rec, env := serve(t, h.Me, asUser(newRequest(t, http.MethodGet, "/users/me", nil), "uid-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"uid":"uid-1","name":"Budi","email":"budi@example.com","gender":"Male","birthDate":null,"age":null}`, string(env.Data))
}

func TestMeMissingUser(t *testing.T) {
	h := newUserHandler(&fakeProfiles{users: map[string]*domain.User{}}, fakeLister{})

	rec, _ := serve(t, h.Me, asUser(newRequest(t, http.MethodGet, "/users/me", nil), "ghost"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMeSetsBirthDate(t *testing.T) {
	profiles := &fakeProfiles{users: map[string]*domain.User{
		"uid-1": {UID: "uid-1", Name: "Budi", Email: "budi@example.com", Gender: "Male"},
	}}
	h := newUserHandler(profiles, fakeLister{})

	rec, env := serve(t, h.UpdateMe, asUser(newRequest(t, http.MethodPut, "/users/me",
		map[string]string{"birthDate": "01-07-1990", "name": " Budi S "}), "uid-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.UserProfile
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Budi S", p.Name)
	require.NotNil(t, p.Age)
	assert.Equal(t, 33, *p.Age)

	require.Len(t, profiles.updates, 1)
	assert.NotContains(t, profiles.updates[0], "gender")
}

func TestUpdateMeValidation(t *testing.T) {
	profiles := &fakeProfiles{users: map[string]*domain.User{"uid-1": {UID: "uid-1"}}}
	h := newUserHandler(profiles, fakeLister{})

	cases := map[string]struct {
		body any
		code string
	}{
		"gender":     {map[string]string{"gender": "robot"}, "INVALID_GENDER"},
		"birth date": {map[string]string{"birthDate": "1990/07/01"}, "INVALID_BIRTHDATE"},
		"blank name": {map[string]string{"name": "   "}, "INVALID_NAME"},
		"not json":   {"{", "INVALID_BODY"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec, env := serve(t, h.UpdateMe, asUser(newRequest(t, http.MethodPut, "/users/me", tc.body), "uid-1"))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.code, env.Error)
		})
	}
	assert.Empty(t, profiles.updates)
}

func TestListUsersNeverNull(t *testing.T) {
	h := newUserHandler(&fakeProfiles{}, fakeLister{})

	rec, env := serve(t, h.List, newRequest(t, http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}
