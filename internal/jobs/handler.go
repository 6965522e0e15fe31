package jobs

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/huntboard/huntboard/internal/platform/httpx"
	"github.com/huntboard/huntboard/internal/shared"
)

// Handler wires the job endpoints. The router mounts it behind the
// authentication middleware, so an identity is always present.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers job routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	query := r.URL.Query()

	req := ListJobsRequest{Page: 1, Limit: 10}
	if v := query.Get("company"); v != "" {
		req.Company = &v
	}
	if v := query.Get("position"); v != "" {
		req.Position = &v
	}
	if v := query.Get("status"); v != "" {
		req.Status = &v
	}
	if v := query.Get("sort"); v != "" {
		req.Sort = strings.Split(v, ",")
	}
	if v := query.Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.Page = parsed
		}
	}
	if v := query.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}

	result, err := h.service.List(r.Context(), identity.UserID, req)
	if err != nil {
		h.logger.Error("list jobs failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	var fields []string
	if v := query.Get("fields"); v != "" {
		fields = strings.Split(v, ",")
	}
	views := make([]any, 0, len(result))
	for _, job := range result {
		views = append(views, jobView(job, fields))
	}

	httpx.JSON(w, http.StatusOK, map[string]any{"jobs": views, "count": len(views)})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())

	var req CreateJobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "company and position are required")
		return
	}

	job, err := h.service.Create(r.Context(), identity.UserID, req)
	if err != nil {
		h.logger.Error("create job failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"job": job})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	job, err := h.service.Get(r.Context(), id, identity.UserID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"job": job})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid job fields")
		return
	}

	job, err := h.service.Update(r.Context(), id, identity.UserID, req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"job": job})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := shared.IdentityFromContext(r.Context())
	id, ok := h.jobID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, identity.UserID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "job deleted"})
}

func (h *Handler) jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid job ID")
		return 0, false
	}
	return id, true
}

// jobView applies the optional field projection from the listing query.
func jobView(job Job, fields []string) any {
	if len(fields) == 0 {
		return job
	}
	view := make(map[string]any, len(fields))
	for _, field := range fields {
		switch strings.TrimSpace(field) {
		case "id":
			view["id"] = job.ID
		case "company":
			view["company"] = job.Company
		case "position":
			view["position"] = job.Position
		case "status":
			view["status"] = job.Status
		case "salary":
			view["salary"] = job.Salary
		case "createdBy":
			view["createdBy"] = job.CreatedBy
		case "createdAt":
			view["createdAt"] = job.CreatedAt
		case "updatedAt":
			view["updatedAt"] = job.UpdatedAt
		}
	}
	return view
}
