package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/phototrack/attendance-backend-go/internal/domain/attendance"
	"github.com/phototrack/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Record(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Sessions(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Record implements AttendanceHandler.
func (h *attendanceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	var req attendance.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	view, err := h.attendanceService.Record(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, fmt.Sprintf("%s recorded successfully", view.Kind), view)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter attendance.HistoryFilter
	if v := query.Get("email"); v != "" {
		filter.Email = &v
	}
	if v := query.Get("type"); v != "" {
		kind := attendance.Kind(v)
		filter.Kind = &kind
	}
	if v := query.Get("startDate"); v != "" {
		filter.StartDate = &v
	}
	if v := query.Get("endDate"); v != "" {
		filter.EndDate = &v
	}

	views, err := h.attendanceService.History(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, views)
}

// Sessions implements AttendanceHandler.
func (h *attendanceHandlerImpl) Sessions(w http.ResponseWriter, r *http.Request) {
	views, err := h.attendanceService.Sessions(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, views)
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attendanceService.Stats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// Verify implements AttendanceHandler.
func (h *attendanceHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	var req attendance.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.VerifyIdentity(r.Context(), req.Email, req.Image)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
