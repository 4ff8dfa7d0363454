package http

import (
	"errors"
	"net/http"
	"strconv"

	"creative-assigner/domain/assignment"
	"creative-assigner/domain/dto"
	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
	"creative-assigner/infrastructure/logger"
	"creative-assigner/infrastructure/realtime"
	"creative-assigner/interfaces/middleware"
	"creative-assigner/usecase"

	"github.com/gin-gonic/gin"
)

type ISessionHandler interface {
	Create(ctx *gin.Context)
	Get(ctx *gin.Context)
	Close(ctx *gin.Context)
	SelectAsset(ctx *gin.Context)
	DeselectAsset(ctx *gin.Context)
	SetPlatforms(ctx *gin.Context)
	SelectPlacement(ctx *gin.Context)
	DeselectPlacement(ctx *gin.Context)
	Drop(ctx *gin.Context)
	Unassign(ctx *gin.Context)
	SetSlotText(ctx *gin.Context)
	Next(ctx *gin.Context)
	Back(ctx *gin.Context)
	Submit(ctx *gin.Context)
	EnterFixMode(ctx *gin.Context)
	ExitFixMode(ctx *gin.Context)
	Attempts(ctx *gin.Context)
	Events(ctx *gin.Context)
}

type SessionHandler struct {
	sessions usecase.ISessionUsecase
	audit    repository.ISubmissionAudit
	hub      *realtime.Hub
}

// NewSessionHandler builds the wizard endpoints. audit and hub may be nil.
func NewSessionHandler(sessions usecase.ISessionUsecase, audit repository.ISubmissionAudit, hub *realtime.Hub) ISessionHandler {
	return &SessionHandler{sessions: sessions, audit: audit, hub: hub}
}

// session resolves :id for the calling operator and writes the error response
// when it cannot.
func (h *SessionHandler) session(ctx *gin.Context) (*usecase.Session, bool) {
	s, err := h.sessions.Get(ctx.Param("id"), middleware.OperatorID(ctx))
	if err != nil {
		abortWithError(ctx, err)
		return nil, false
	}
	return s, true
}

func slotRef(ctx *gin.Context) (model.SlotRef, bool) {
	id, err := strconv.Atoi(ctx.Param("slotId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot id"})
		return model.SlotRef{}, false
	}
	return model.SlotRef{PlacementID: ctx.Param("placementId"), SlotID: id}, true
}

func (h *SessionHandler) Create(ctx *gin.Context) {
	s, err := h.sessions.Create(ctx.Request.Context(), middleware.OperatorID(ctx))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, s.Snapshot())
}

func (h *SessionHandler) Get(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) Close(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := h.sessions.Close(id, middleware.OperatorID(ctx)); err != nil {
		abortWithError(ctx, err)
		return
	}
	if h.hub != nil {
		h.hub.CloseSession(id)
	}
	ctx.Status(http.StatusNoContent)
}

func (h *SessionHandler) SelectAsset(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	var req dto.SelectAssetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	asset, err := s.SelectAsset(ctx.Request.Context(), req.Asset())
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, asset)
}

func (h *SessionHandler) DeselectAsset(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	if err := s.DeselectAsset(ctx.Param("assetId")); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *SessionHandler) SetPlatforms(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	var req dto.PlatformSelectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sel := model.Selection{
		Accounts:  make(map[model.Platform]string, len(req.Accounts)),
		Campaigns: make(map[model.Platform][]string, len(req.Campaigns)),
	}
	for _, p := range req.Platforms {
		sel.Platforms = append(sel.Platforms, model.Platform(p))
	}
	for p, acc := range req.Accounts {
		sel.Accounts[model.Platform(p)] = acc
	}
	for p, camps := range req.Campaigns {
		sel.Campaigns[model.Platform(p)] = camps
	}
	if err := s.SetPlatforms(sel); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) SelectPlacement(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	var req dto.SelectPlacementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.SelectPlacement(req.Placement()); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) DeselectPlacement(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	orphaned, err := s.DeselectPlacement(ctx.Param("placementId"))
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if orphaned == nil {
		orphaned = []string{}
	}
	ctx.JSON(http.StatusOK, gin.H{"orphaned_assets": orphaned})
}

// Drop answers 202 when the drop was ignored, so the client can show the reason
// as a notice instead of an error.
func (h *SessionHandler) Drop(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	var req dto.DropRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	res, err := s.Drop(req.AssetID, assignment.Target{PlacementID: req.PlacementID, SlotID: req.SlotID})
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	if !res.Accepted {
		ctx.JSON(http.StatusAccepted, res)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *SessionHandler) Unassign(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	ref, ok := slotRef(ctx)
	if !ok {
		return
	}
	if err := s.Unassign(ref, ctx.Param("assetId")); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (h *SessionHandler) SetSlotText(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	ref, ok := slotRef(ctx)
	if !ok {
		return
	}
	var req dto.SlotTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	slot, err := s.SetSlotText(ref, req.AdName, req.AdText)
	if err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, slot)
}

// Next answers 200 even when the step does not validate; Moved and Reason tell
// the client what happened.
func (h *SessionHandler) Next(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, s.Next())
}

func (h *SessionHandler) Back(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, s.Back())
}

func (h *SessionHandler) Submit(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	outcome, err := s.Submit(ctx.Request.Context())
	switch {
	case errors.Is(err, usecase.ErrSubmissionTransport):
		logger.GetLogger().WithField("session", s.ID()).WithField("error", err.Error()).Warn("Submission transport failed")
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "outcome": outcome})
	case err != nil:
		abortWithError(ctx, err)
	case outcome.Pending:
		ctx.JSON(http.StatusAccepted, outcome)
	default:
		ctx.JSON(http.StatusOK, outcome)
	}
}

func (h *SessionHandler) EnterFixMode(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	if err := s.EnterFixMode(); err != nil {
		abortWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, s.Snapshot())
}

func (h *SessionHandler) ExitFixMode(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	s.ExitFixMode()
	ctx.JSON(http.StatusOK, s.Snapshot())
}

// Attempts lists the audited submissions of the session.
func (h *SessionHandler) Attempts(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	if h.audit == nil {
		ctx.JSON(http.StatusOK, gin.H{"session_id": s.ID(), "attempts": []*model.SubmissionAttemptRecord{}})
		return
	}
	list, err := h.audit.ListAttempts(ctx.Request.Context(), s.ID())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []*model.SubmissionAttemptRecord{}
	}
	ctx.JSON(http.StatusOK, gin.H{"session_id": s.ID(), "attempts": list})
}

func (h *SessionHandler) Events(ctx *gin.Context) {
	s, ok := h.session(ctx)
	if !ok {
		return
	}
	if h.hub == nil {
		ctx.JSON(http.StatusNotImplemented, gin.H{"error": "event stream disabled"})
		return
	}
	h.hub.Serve(ctx, s.ID())
}
