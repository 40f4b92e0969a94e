package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/chub-app/chub-backend-go/internal/domain/schedule"
	"github.com/chub-app/chub-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ScheduleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type ScheduleHandlerImpl struct {
	scheduleService schedule.Service
}

func NewScheduleHandler(scheduleService schedule.Service) ScheduleHandler {
	return &ScheduleHandlerImpl{scheduleService: scheduleService}
}

// Create implements ScheduleHandler.
func (h *ScheduleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var createReq schedule.CreateScheduleRequest

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		slog.Error("Create schedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.scheduleService.Create(r.Context(), createReq)
	if err != nil {
		slog.Error("Create schedule service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Service schedule created successfully", created)
}

// Get implements ScheduleHandler.
func (h *ScheduleHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		response.BadRequest(w, "Schedule ID is required", nil)
		return
	}

	found, err := h.scheduleService.Get(r.Context(), scheduleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, found)
}

// List implements ScheduleHandler.
func (h *ScheduleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.scheduleService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, schedules)
}

// Update implements ScheduleHandler.
func (h *ScheduleHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	updateReq := schedule.UpdateScheduleRequest{
		ID: chi.URLParam(r, "id"),
	}

	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		slog.Error("Update schedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.scheduleService.Update(r.Context(), updateReq)
	if err != nil {
		slog.Error("Update schedule service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Service schedule updated successfully", updated)
}

// Delete implements ScheduleHandler.
func (h *ScheduleHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	scheduleID := chi.URLParam(r, "id")
	if scheduleID == "" {
		response.BadRequest(w, "Schedule ID is required", nil)
		return
	}

	if err := h.scheduleService.Delete(r.Context(), scheduleID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Service schedule deleted successfully", nil)
}
