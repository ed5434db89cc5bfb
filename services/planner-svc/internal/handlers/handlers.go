// Package handlers exposes the planning service over HTTP with JSON
// bodies. Enum strings are parsed here; the core packages only see
// domain types.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"reconnect/pkg/apperror"
	"reconnect/pkg/domain"
	"reconnect/pkg/logger"

	"reconnect/services/planner-svc/internal/service"
)

// Handler serves the planner HTTP API.
type Handler struct {
	svc *service.PlannerService
}

// New wraps the service.
func New(svc *service.PlannerService) *Handler {
	return &Handler{svc: svc}
}

// Routes returns the API route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/plan", h.buildPlan)
	mux.HandleFunc("POST /v1/ranking", h.rankBuildings)
	mux.HandleFunc("POST /v1/graph/metrics", h.graphMetrics)
	mux.HandleFunc("GET /v1/plans", h.listPlans)
	mux.HandleFunc("GET /v1/plans/{id}", h.getPlan)
	mux.HandleFunc("DELETE /v1/plans/{id}", h.deletePlan)
	mux.HandleFunc("GET /healthz", h.health)
	return mux
}

func (h *Handler) buildPlan(w http.ResponseWriter, r *http.Request) {
	var dto planRequestDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, err)
		return
	}

	req, err := dto.toService()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.BuildPlan(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) rankBuildings(w http.ResponseWriter, r *http.Request) {
	var dto rankingRequestDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, err)
		return
	}

	buildings := make([]domain.Building, 0, len(dto.Buildings))
	for i := range dto.Buildings {
		b, err := dto.Buildings[i].toDomain()
		if err != nil {
			writeError(w, err)
			return
		}
		buildings = append(buildings, b)
	}

	ranking, err := h.svc.RankBuildings(r.Context(), buildings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ranking": ranking})
}

func (h *Handler) graphMetrics(w http.ResponseWriter, r *http.Request) {
	var dto graphMetricsRequestDTO
	if err := decodeJSON(r, &dto); err != nil {
		writeError(w, err)
		return
	}

	req, err := dto.toService()
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.GraphMetrics(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	plans, err := h.svc.ListPlans(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (h *Handler) getPlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, apperror.New(apperror.CodeInvalidArgument, "invalid plan id"))
		return
	}

	plan, err := h.svc.GetPlan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) deletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, apperror.New(apperror.CodeInvalidArgument, "invalid plan id"))
		return
	}

	if err := h.svc.DeletePlan(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

const maxBodyBytes = 16 << 20

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.Wrap(err, apperror.CodeInvalidArgument, "invalid request body")
	}
	return nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := apperror.HTTPStatusOf(err)

	var resp errorResponse
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		resp.Error.Code = string(appErr.Code)
		resp.Error.Message = appErr.Message
		resp.Error.Field = appErr.Field
	} else {
		resp.Error.Code = string(apperror.CodeInternal)
		resp.Error.Message = "internal error"
	}

	if status >= http.StatusInternalServerError {
		logger.Log.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
