package http

import (
	"errors"
	"net/http"

	"creative-assigner/domain/assignment"
	"creative-assigner/domain/repository"
	"creative-assigner/usecase"

	"github.com/gin-gonic/gin"
)

// statusOf maps engine errors to response codes. Invalid interactions are
// client errors the operator can recover from.
func statusOf(err error) int {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound),
		errors.Is(err, repository.ErrAssetNotFound),
		errors.Is(err, assignment.ErrSlotNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrSubmissionInFlight),
		errors.Is(err, usecase.ErrSubmitNotAllowed),
		errors.Is(err, usecase.ErrNothingToFix),
		errors.Is(err, assignment.ErrAssetInUse),
		errors.Is(err, assignment.ErrDuplicateAsset):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrSubmissionTransport):
		return http.StatusBadGateway
	case errors.Is(err, usecase.ErrNothingToSubmit),
		errors.Is(err, usecase.ErrPlatformNotChosen),
		errors.Is(err, assignment.ErrInvalidTarget),
		errors.Is(err, assignment.ErrPlacementNotSelected),
		errors.Is(err, assignment.ErrAssetNotInCatalog),
		errors.Is(err, assignment.ErrUnsupportedAssetKind),
		errors.Is(err, assignment.ErrAssetNotAssigned),
		errors.Is(err, assignment.ErrUsageUnderflow),
		errors.Is(err, assignment.ErrInvalidAsset),
		errors.Is(err, assignment.ErrUnknownPlatform):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func abortWithError(ctx *gin.Context, err error) {
	ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
}
