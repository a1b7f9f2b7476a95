package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leavedesk/leave-backend-go/internal/domain/leave"
	"github.com/leavedesk/leave-backend-go/internal/handler/http/middleware"
	"github.com/leavedesk/leave-backend-go/internal/handler/http/response"
	leaveService "github.com/leavedesk/leave-backend-go/internal/service/leave"
)

const maxAttachmentSize = 10 << 20

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetRequestHistory(w http.ResponseWriter, r *http.Request)
	ListPendingApprovals(w http.ResponseWriter, r *http.Request)
	DecideRequest(w http.ResponseWriter, r *http.Request)
	RespondAlternate(w http.ResponseWriter, r *http.Request)

	GetMyQuota(w http.ResponseWriter, r *http.Request)
	SetAllocation(w http.ResponseWriter, r *http.Request)
	ResetUsed(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	requestService *leaveService.RequestService
	quotaService   *leaveService.QuotaService
}

func NewLeaveHandler(requestService *leaveService.RequestService, quotaService *leaveService.QuotaService) LeaveHandler {
	return &LeaveHandlerImpl{requestService: requestService, quotaService: quotaService}
}

// CreateRequest implements LeaveHandler. The body is multipart: a "data"
// field holding the JSON payload plus an optional "attachment" file.
func (h *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequestRequest

	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// The requester is always the authenticated user, never a body value.
	req.EmployeeID = actor.ID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	file, fileHeader, err := r.FormFile("attachment")
	if err != nil && err != http.ErrMissingFile {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	req.File = file
	req.FileHeader = fileHeader

	created, err := h.requestService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", leave.ToLeaveRequestResponse(created))
}

// GetMyRequests implements LeaveHandler.
func (h *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requests, err := h.requestService.MyRequests(r.Context(), actor.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toLeaveRequestResponses(requests))
}

// GetRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	request, err := h.requestService.GetByID(r.Context(), actor, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, leave.ToLeaveRequestResponse(request))
}

// GetRequestHistory implements LeaveHandler.
func (h *LeaveHandlerImpl) GetRequestHistory(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	entries, err := h.requestService.History(r.Context(), actor, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	history := make([]leave.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		history = append(history, leave.ToAuditEntryResponse(entry))
	}

	response.Success(w, history)
}

// ListPendingApprovals implements LeaveHandler.
func (h *LeaveHandlerImpl) ListPendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requests, err := h.requestService.PendingApprovals(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toLeaveRequestResponses(requests))
}

// DecideRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) DecideRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.DecisionRequest

	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DecideRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	decided, err := h.requestService.Decide(r.Context(), actor, requestID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Decision recorded successfully", leave.ToLeaveRequestResponse(decided))
}

// RespondAlternate implements LeaveHandler.
func (h *LeaveHandlerImpl) RespondAlternate(w http.ResponseWriter, r *http.Request) {
	var req leave.AlternateResponseRequest

	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	alternateID := chi.URLParam(r, "id")
	if alternateID == "" {
		response.BadRequest(w, "Alternate request ID is required", nil)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RespondAlternate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	alt, err := h.requestService.RespondAlternate(r.Context(), actor, alternateID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Response recorded successfully", leave.ToAlternateResponse(alt))
}

// GetMyQuota implements LeaveHandler.
func (h *LeaveHandlerImpl) GetMyQuota(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var year int
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "year must be an integer", nil)
			return
		}
	}

	quotas, err := h.quotaService.MyQuota(r.Context(), actor.ID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp := make([]leave.QuotaResponse, 0, len(quotas))
	for _, q := range quotas {
		resp = append(resp, leave.ToQuotaResponse(q))
	}
	response.Success(w, resp)
}

// SetAllocation implements LeaveHandler.
func (h *LeaveHandlerImpl) SetAllocation(w http.ResponseWriter, r *http.Request) {
	var req leave.SetAllocationRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetAllocation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.quotaService.SetAllocationForAll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Allocation updated successfully", result)
}

// ResetUsed implements LeaveHandler.
func (h *LeaveHandlerImpl) ResetUsed(w http.ResponseWriter, r *http.Request) {
	var req leave.ResetUsedRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ResetUsed decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.quotaService.ResetUsedForAll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Used counters reset successfully", result)
}

func toLeaveRequestResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	out := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, leave.ToLeaveRequestResponse(req))
	}
	return out
}
