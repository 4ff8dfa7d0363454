package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"creative-assigner/domain/assignment"
	"creative-assigner/domain/repository"
	"creative-assigner/usecase"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{usecase.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", repository.ErrAssetNotFound), http.StatusNotFound},
		{usecase.ErrSubmissionInFlight, http.StatusConflict},
		{usecase.ErrSubmitNotAllowed, http.StatusConflict},
		{assignment.ErrAssetInUse, http.StatusConflict},
		{fmt.Errorf("%w: facebook: timeout", usecase.ErrSubmissionTransport), http.StatusBadGateway},
		{fmt.Errorf("%w: p9", assignment.ErrPlacementNotSelected), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: video on tiktok", assignment.ErrUnsupportedAssetKind), http.StatusUnprocessableEntity},
		{usecase.ErrNothingToSubmit, http.StatusUnprocessableEntity},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.err), tt.err.Error())
	}
}
