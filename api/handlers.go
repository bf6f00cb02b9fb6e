/*
handlers.go - HTTP API handlers for the leave ledger

PURPOSE:
  Exposes the leave desk via REST API. Handles HTTP request/response and
  JSON serialization, and delegates everything else to the ledger.

ENDPOINTS:
  Employees:
    GET    /api/employees                     List all employees
    POST   /api/employees                     Register employee
    GET    /api/employees/{id}/history        Leave history (markdown, ?format=json)
    GET    /api/employees/{id}/audit          Audit trail

  Leaves:
    POST   /api/employees/{id}/leaves         Apply for leave
    POST   /api/employees/{id}/leaves/cancel  Cancel leave

  Health:
    GET    /health

ERROR HANDLING:
  Desk operations always answer {"message": ...}; the status code comes
  from the error the desk returned alongside the message:
  - 400: Invalid or unreadable dates, no dates, malformed body
  - 404: Unknown employee, no matching leave
  - 409: Insufficient balance
  - 500: Store failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/warp/leave-ledger/ledger"
	"github.com/warp/leave-ledger/render"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Desk   *ledger.Desk
	logger *zap.Logger
}

// NewHandler creates a handler answering through desk.
func NewHandler(desk *ledger.Desk, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.L()
	}
	return &Handler{Desk: desk, logger: logger.Named("api")}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Desk.Service().Employees(r.Context())
	if err != nil {
		h.internalError(w, r, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RegisterEmployee registers a new employee with the default entitlement.
func (h *Handler) RegisterEmployee(w http.ResponseWriter, r *http.Request) {
	var req RegisterEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.Desk.RegisterEmployee(r.Context(), req.Name)
	h.respond(w, r, http.StatusCreated, msg, err)
}

// GetHistory returns an employee's leave history. The default body is the
// markdown rendering; ?format=json returns the structured view.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	history, err := h.Desk.Service().LeaveHistory(r.Context(), id)
	if err != nil {
		if ledger.IsNotFound(err) {
			writeJSON(w, http.StatusNotFound, MessageResponse{
				Message: "Not Found: Employee with ID '" + id + "' not found.",
			})
			return
		}
		h.internalError(w, r, "Failed to load leave history", err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "json") {
		writeJSON(w, http.StatusOK, toHistoryDTO(history))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(render.History(history)))
}

// GetAudit returns the audit trail of one employee.
func (h *Handler) GetAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Desk.Service().AuditTrail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.internalError(w, r, "Failed to load audit trail", err)
		return
	}

	dtos := make([]AuditEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toAuditEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ApplyForLeave books one day of leave per requested date.
func (h *Handler) ApplyForLeave(w http.ResponseWriter, r *http.Request) {
	var req ApplyLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.Desk.ApplyForLeave(r.Context(), chi.URLParam(r, "id"), req.LeaveDates, req.Purpose)
	h.respond(w, r, http.StatusOK, msg, err)
}

// CancelLeaves removes the employee's leave on the requested dates.
func (h *Handler) CancelLeaves(w http.ResponseWriter, r *http.Request) {
	var req CancelLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	msg, err := h.Desk.CancelLeaves(r.Context(), chi.URLParam(r, "id"), req.LeaveDates)
	h.respond(w, r, http.StatusOK, msg, err)
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// respond writes the desk message with a status derived from err.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, okStatus int, msg string, err error) {
	status := statusFor(err, okStatus)
	if status >= http.StatusInternalServerError {
		h.logger.Error("ledger operation failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, status, MessageResponse{Message: msg})
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.Error(message,
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, message, err)
}

func statusFor(err error, okStatus int) int {
	switch {
	case err == nil:
		return okStatus
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusConflict
	case ledger.IsClientError(err):
		return http.StatusBadRequest
	case ledger.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
