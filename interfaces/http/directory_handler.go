package http

import (
	"net/http"
	"strconv"
	"strings"

	"creative-assigner/domain/dto"
	"creative-assigner/domain/model"
	"creative-assigner/domain/repository"
	"creative-assigner/usecase"

	"github.com/gin-gonic/gin"
)

type IDirectoryHandler interface {
	Platforms(ctx *gin.Context)
	Accounts(ctx *gin.Context)
	Campaigns(ctx *gin.Context)
	Placements(ctx *gin.Context)
	ExistingAds(ctx *gin.Context)
	Assets(ctx *gin.Context)
}

type DirectoryHandler struct {
	directory usecase.IDirectoryUsecase
	sessions  usecase.ISessionUsecase
	library   repository.IAssetLibrary
}

func NewDirectoryHandler(directory usecase.IDirectoryUsecase, sessions usecase.ISessionUsecase, library repository.IAssetLibrary) IDirectoryHandler {
	return &DirectoryHandler{directory: directory, sessions: sessions, library: library}
}

func (h *DirectoryHandler) Platforms(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"platforms": h.sessions.Platforms()})
}

// Accounts lists the accounts of every platform in ?platforms=a,b, or of all
// known platforms when the parameter is missing.
func (h *DirectoryHandler) Accounts(ctx *gin.Context) {
	var q dto.DirectoryQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return
	}
	var platforms []model.Platform
	for _, p := range strings.Split(q.Platforms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, model.Platform(p))
		}
	}
	if len(platforms) == 0 {
		for _, d := range h.sessions.Platforms() {
			platforms = append(platforms, d.Name)
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"sections": h.directory.LoadAccounts(ctx.Request.Context(), platforms)})
}

func (h *DirectoryHandler) Campaigns(ctx *gin.Context) {
	q, ok := bindDirectoryQuery(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, h.directory.LoadCampaigns(ctx.Request.Context(), model.Platform(q.Platform), q.AccountID))
}

func (h *DirectoryHandler) Placements(ctx *gin.Context) {
	q, ok := bindDirectoryQuery(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, h.directory.LoadPlacements(ctx.Request.Context(), model.Platform(q.Platform), q.AccountID, q.CampaignID))
}

func (h *DirectoryHandler) ExistingAds(ctx *gin.Context) {
	q, ok := bindDirectoryQuery(ctx)
	if !ok {
		return
	}
	if q.PlacementID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "placementId is required"})
		return
	}
	ctx.JSON(http.StatusOK, h.directory.LoadExistingAds(ctx.Request.Context(), model.Platform(q.Platform), q.AccountID, q.PlacementID))
}

// Assets browses the asset library. Without a library there is nothing to list.
func (h *DirectoryHandler) Assets(ctx *gin.Context) {
	if h.library == nil {
		ctx.JSON(http.StatusOK, gin.H{"assets": []model.Asset{}})
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	assets, err := h.library.ListAssets(ctx.Request.Context(), model.AssetKind(ctx.Query("kind")), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	ctx.JSON(http.StatusOK, gin.H{"assets": assets})
}

func bindDirectoryQuery(ctx *gin.Context) (dto.DirectoryQuery, bool) {
	var q dto.DirectoryQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid query"})
		return q, false
	}
	if q.Platform == "" || q.AccountID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "platform and accountId are required"})
		return q, false
	}
	return q, true
}
