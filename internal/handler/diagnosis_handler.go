package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/yusufkecer/nyenyak-backend/internal/apperr"
	"github.com/yusufkecer/nyenyak-backend/internal/domain"
	"github.com/yusufkecer/nyenyak-backend/internal/response"
)

type DiagnosisService interface {
	Create(ctx context.Context, uid string, raw map[string]any) (*domain.Diagnosis, error)
	List(ctx context.Context, uid string) ([]domain.Diagnosis, error)
	Get(ctx context.Context, uid, id string) (*domain.Diagnosis, error)
	Delete(ctx context.Context, uid, id string) error
}

type DiagnosisHandler struct {
	service DiagnosisService
	logger  *zap.Logger
}

func NewDiagnosisHandler(service DiagnosisService, logger *zap.Logger) *DiagnosisHandler {
	return &DiagnosisHandler{service: service, logger: logger}
}

func (h *DiagnosisHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFrom(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	// Numbers stay json.Number so the validator can tell "70" from 70.
	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil || raw == nil {
		response.Error(w, h.logger, apperr.Validation("INVALID_BODY", "request body must be a JSON object"))
		return
	}

	d, err := h.service.Create(r.Context(), uid, raw)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "diagnosis created", d)
}

func (h *DiagnosisHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFrom(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	items, err := h.service.List(r.Context(), uid)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "diagnoses retrieved", items)
}

func (h *DiagnosisHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFrom(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	d, err := h.service.Get(r.Context(), uid, mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "diagnosis retrieved", d)
}

func (h *DiagnosisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, err := uidFrom(r)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), uid, mux.Vars(r)["id"]); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "diagnosis deleted", nil)
}
