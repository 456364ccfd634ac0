package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
	"github.com/yusufkecer/nyenyak-backend/internal/domain"
	"github.com/yusufkecer/nyenyak-backend/internal/response"
)

type ProfileStore interface {
	GetByID(ctx context.Context, uid string) (*domain.User, error)
	Update(ctx context.Context, uid string, fields map[string]any) error
}

type AccountLister interface {
	List(ctx context.Context) ([]domain.AccountSummary, error)
}

type UserHandler struct {
	users    ProfileStore
	accounts AccountLister
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserHandler(users ProfileStore, accounts AccountLister, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, accounts: accounts, logger: logger, now: time.Now}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		response.Error(w, h.logger, apperr.Downstream("failed to list users", err))
		return
	}
	if accounts == nil {
		accounts = []domain.AccountSummary{}
	}
	response.Success(w, http.StatusOK, "users retrieved", accounts)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFrom(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	user, err := h.load(r.Context(), uid)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "profile retrieved", user.Profile(h.now()))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFrom(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	var req domain.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	if err := validateStruct(req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	fields := make(map[string]any, 3)
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			response.Error(w, h.logger, apperr.Validation("INVALID_NAME", "name must not be blank"))
			return
		}
		fields["name"] = name
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.BirthDate != nil {
		bd, err := parseBirthDate(*req.BirthDate)
		if err != nil {
			response.Error(w, h.logger, apperr.Validation("INVALID_BIRTHDATE", "birthDate must be a past date in dd-MM-yyyy format"))
			return
		}
		fields["birth_date"] = &bd
	}

	if _, err := h.load(r.Context(), uid); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	if err := h.users.Update(r.Context(), uid, fields); err != nil {
		response.Error(w, h.logger, apperr.Downstream("failed to update user", err))
		return
	}

	user, err := h.load(r.Context(), uid)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "profile updated", user.Profile(h.now()))
}

func (h *UserHandler) load(ctx context.Context, uid string) (*domain.User, error) {
	user, err := h.users.GetByID(ctx, uid)
	if err != nil {
		return nil, apperr.Downstream("failed to get user", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}
