package handler

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
	"github.com/yusufkecer/nyenyak-backend/internal/domain"
	"github.com/yusufkecer/nyenyak-backend/internal/repository"
	"github.com/yusufkecer/nyenyak-backend/internal/response"
)

const (
	resetTokenTTL   = 15 * time.Minute
	resetMailBudget = 30 * time.Second
)

type AccountStore interface {
	CreateWithProfile(ctx context.Context, account repository.Account, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*repository.Account, error)
	GetByID(ctx context.Context, id string) (*repository.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type ResetTokenStore interface {
	Create(ctx context.Context, accountID, token string, expiresAt time.Time) error
	GetValidByEmailAndToken(ctx context.Context, email, token string) (*domain.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
	DeleteByAccountID(ctx context.Context, accountID string) error
}

type Mailer interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

type TokenIssuer interface {
	Generate(uid, email string) (string, time.Time, error)
}

type AuthHandler struct {
	tokens      TokenIssuer
	accounts    AccountStore
	resetTokens ResetTokenStore
	mailer      Mailer
	logger      *zap.Logger
	now         func() time.Time
}

func NewAuthHandler(
	tokens TokenIssuer,
	accounts AccountStore,
	resetTokens ResetTokenStore,
	mailer Mailer,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		tokens:      tokens,
		accounts:    accounts,
		resetTokens: resetTokens,
		mailer:      mailer,
		logger:      logger,
		now:         time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		response.Error(w, h.logger, apperr.Validation("INVALID_BIRTHDATE", "birthDate must be a past date in dd-MM-yyyy format"))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.Error(w, h.logger, apperr.Downstream("failed to hash password", err))
		return
	}

	user := &domain.User{
		UID:       uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Gender:    req.Gender,
		BirthDate: &birthDate,
	}
	account := repository.Account{ID: user.UID, Email: req.Email, PasswordHash: string(passwordHash)}

	if err := h.accounts.CreateWithProfile(r.Context(), account, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			response.Error(w, h.logger, apperr.Conflict("email already exists"))
			return
		}
		response.Error(w, h.logger, apperr.Downstream("failed to register user", err))
		return
	}

	h.logger.Info("user registered", zap.String("uid", user.UID))
	response.Success(w, http.StatusCreated, "user registered", user.Profile(h.now()))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	account, err := h.accounts.GetByEmail(r.Context(), req.Email)
	if err != nil {
		response.Error(w, h.logger, apperr.Downstream("failed to login", err))
		return
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)) != nil {
		response.Error(w, h.logger, apperr.Unauthorized("invalid email or password"))
		return
	}

	token, expiresAt, err := h.tokens.Generate(account.ID, account.Email)
	if err != nil {
		response.Error(w, h.logger, apperr.Downstream("failed to generate token", err))
		return
	}

	response.Success(w, http.StatusOK, "login successful", domain.TokenResponse{Token: token, ExpiresAt: expiresAt.UTC()})
}

// Logout only acknowledges; tokens are stateless and expire on their own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "logout successful", nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	const msg = "if the email exists, a code has been sent"

	var req domain.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Success(w, http.StatusOK, msg, nil)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		response.Success(w, http.StatusOK, msg, nil)
		return
	}

	go h.sendResetCode(req.Email)

	response.Success(w, http.StatusOK, msg, nil)
}

func (h *AuthHandler) sendResetCode(email string) {
	ctx, cancel := context.WithTimeout(context.Background(), resetMailBudget)
	defer cancel()

	log := h.logger.With(zap.String("flow", "forgot-password"))

	account, err := h.accounts.GetByEmail(ctx, email)
	if err != nil {
		log.Error("account lookup failed", zap.Error(err))
		return
	}
	if account == nil {
		return
	}

	if err := h.resetTokens.DeleteByAccountID(ctx, account.ID); err != nil {
		log.Warn("failed to delete old tokens", zap.String("uid", account.ID), zap.Error(err))
	}

	otp, err := generateOTP()
	if err != nil {
		log.Error("failed to generate code", zap.Error(err))
		return
	}

	if err := h.resetTokens.Create(ctx, account.ID, otp, h.now().Add(resetTokenTTL)); err != nil {
		log.Error("failed to save reset token", zap.String("uid", account.ID), zap.Error(err))
		return
	}

	if err := h.mailer.SendPasswordReset(ctx, account.Email, otp); err != nil {
		log.Error("failed to send reset email", zap.String("uid", account.ID), zap.Error(err))
		return
	}
	log.Info("reset email sent", zap.String("uid", account.ID))
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	resetToken, err := h.resetTokens.GetValidByEmailAndToken(r.Context(), req.Email, req.Token)
	if err != nil {
		response.Error(w, h.logger, apperr.Downstream("failed to verify token", err))
		return
	}
	if resetToken == nil {
		response.Error(w, h.logger, apperr.Unauthorized("invalid or expired token"))
		return
	}

	if err := h.setPassword(r.Context(), resetToken.AccountID, req.Password); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	if err := h.resetTokens.MarkUsed(r.Context(), resetToken.ID); err != nil {
		h.logger.Warn("failed to mark reset token used", zap.Int64("token_id", resetToken.ID), zap.Error(err))
	}

	response.Success(w, http.StatusOK, "password reset successful", nil)
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFrom(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	var req domain.UpdatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	if err := validateStruct(req); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	account, err := h.accounts.GetByID(r.Context(), uid)
	if err != nil {
		response.Error(w, h.logger, apperr.Downstream("failed to load account", err))
		return
	}
	if account == nil {
		response.Error(w, h.logger, apperr.NotFound("account not found"))
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.CurrentPassword)) != nil {
		response.Error(w, h.logger, apperr.Unauthorized("current password is incorrect"))
		return
	}

	if err := h.setPassword(r.Context(), uid, req.NewPassword); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.Success(w, http.StatusOK, "password updated", nil)
}

func (h *AuthHandler) setPassword(ctx context.Context, uid, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Downstream("failed to hash password", err)
	}
	if err := h.accounts.UpdatePassword(ctx, uid, string(hash)); err != nil {
		return apperr.Downstream("failed to update password", err)
	}
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
