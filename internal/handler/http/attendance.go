package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/chub-app/chub-backend-go/internal/domain/absence"
	"github.com/chub-app/chub-backend-go/internal/domain/attendance"
	"github.com/chub-app/chub-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	// Check-in ingestion
	SelfCheckIn(w http.ResponseWriter, r *http.Request)
	ManualCheckIn(w http.ResponseWriter, r *http.Request)
	OnlineCheckIn(w http.ResponseWriter, r *http.Request)
	LinkCheckIn(w http.ResponseWriter, r *http.Request)

	// Links
	CreateLink(w http.ResponseWriter, r *http.Request)
	ResolveLink(w http.ResponseWriter, r *http.Request)

	// Queries
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Analytics(w http.ResponseWriter, r *http.Request)
	Absent(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.Service
	absenceDetector   absence.Detector
	defaultStreak     int
}

func NewAttendanceHandler(attendanceService attendance.Service, absenceDetector absence.Detector, defaultStreak int) AttendanceHandler {
	return &AttendanceHandlerImpl{
		attendanceService: attendanceService,
		absenceDetector:   absenceDetector,
		defaultStreak:     defaultStreak,
	}
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getStrQueryParam gets a string query parameter as a nullable filter value
func getStrQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// SelfCheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) SelfCheckIn(w http.ResponseWriter, r *http.Request) {
	var checkInReq attendance.SelfCheckInRequest

	if err := json.NewDecoder(r.Body).Decode(&checkInReq); err != nil {
		slog.Error("SelfCheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.SelfCheckIn(r.Context(), checkInReq)
	if err != nil {
		slog.Error("SelfCheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", record)
}

// ManualCheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ManualCheckIn(w http.ResponseWriter, r *http.Request) {
	var checkInReq attendance.ManualCheckInRequest

	if err := json.NewDecoder(r.Body).Decode(&checkInReq); err != nil {
		slog.Error("ManualCheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.ManualCheckIn(r.Context(), checkInReq)
	if err != nil {
		slog.Error("ManualCheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", record)
}

// OnlineCheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) OnlineCheckIn(w http.ResponseWriter, r *http.Request) {
	var checkInReq attendance.OnlineCheckInRequest

	if err := json.NewDecoder(r.Body).Decode(&checkInReq); err != nil {
		slog.Error("OnlineCheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.OnlineCheckIn(r.Context(), checkInReq)
	if err != nil {
		slog.Error("OnlineCheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Online attendance recorded successfully", record)
}

// LinkCheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) LinkCheckIn(w http.ResponseWriter, r *http.Request) {
	checkInReq := attendance.LinkCheckInRequest{
		Token: chi.URLParam(r, "token"),
	}

	// Notes body is optional
	if err := json.NewDecoder(r.Body).Decode(&checkInReq); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("LinkCheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.attendanceService.LinkCheckIn(r.Context(), checkInReq)
	if err != nil {
		slog.Error("LinkCheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance recorded successfully", record)
}

// CreateLink implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CreateLink(w http.ResponseWriter, r *http.Request) {
	var linkReq attendance.CreateLinkRequest

	if err := json.NewDecoder(r.Body).Decode(&linkReq); err != nil {
		slog.Error("CreateLink decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	link, err := h.attendanceService.CreateLink(r.Context(), linkReq)
	if err != nil {
		slog.Error("CreateLink service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance link created successfully", link)
}

// ResolveLink implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ResolveLink(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.BadRequest(w, "Token is required", nil)
		return
	}

	preview, err := h.attendanceService.ResolveLink(r.Context(), token)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, preview)
}

// GetMyAttendance implements AttendanceHandler.
func (h *AttendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := attendance.RecordFilter{
		ServiceType: getStrQueryParam(r, "service_type"),
		StartDate:   getStrQueryParam(r, "start_date"),
		EndDate:     getStrQueryParam(r, "end_date"),
		Page:        getIntQueryParam(r, "page", 1),
		Limit:       getIntQueryParam(r, "limit", 20),
		SortBy:      r.URL.Query().Get("sort_by"),
		SortOrder:   r.URL.Query().Get("sort_order"),
	}

	records, err := h.attendanceService.GetMyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// List implements AttendanceHandler.
func (h *AttendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.RecordFilter{
		UserID:      getStrQueryParam(r, "user_id"),
		ServiceType: getStrQueryParam(r, "service_type"),
		StartDate:   getStrQueryParam(r, "start_date"),
		EndDate:     getStrQueryParam(r, "end_date"),
		Page:        getIntQueryParam(r, "page", 1),
		Limit:       getIntQueryParam(r, "limit", 20),
		SortBy:      r.URL.Query().Get("sort_by"),
		SortOrder:   r.URL.Query().Get("sort_order"),
	}

	records, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Analytics implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Analytics(w http.ResponseWriter, r *http.Request) {
	filter := attendance.StatsFilter{
		StartDate:   r.URL.Query().Get("start_date"),
		EndDate:     r.URL.Query().Get("end_date"),
		ServiceType: getStrQueryParam(r, "service_type"),
	}

	stats, err := h.attendanceService.ComputeStats(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// Absent implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Absent(w http.ResponseWriter, r *http.Request) {
	consecutiveMissed := getIntQueryParam(r, "consecutive_missed", h.defaultStreak)

	members, err := h.absenceDetector.FindAbsentMembers(r.Context(), consecutiveMissed)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, members)
}
