package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/damacus/bucket-search/internal/errs"
	"github.com/stretchr/testify/assert"
)

func TestHTTPError_StatusByKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errs.New(errs.ErrKindNotFound, "no such key"), http.StatusNotFound},
		{"denied", errs.New(errs.ErrKindPermissionDenied, "access denied"), http.StatusForbidden},
		{"timeout", errs.Wrap(errs.ErrKindTimeout, "list", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"connection", errs.New(errs.ErrKindConnectionFailed, "dial tcp"), http.StatusBadGateway},
		{"unclassified", errors.New("boom"), http.StatusBadGateway},
		{"wrapped", fmt.Errorf("search: %w", errs.New(errs.ErrKindNotFound, "gone")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := HTTPError(tt.err, "Failed to list files")
			assert.Equal(t, tt.want, httpErr.Code)
			assert.Equal(t, "Failed to list files", httpErr.Message)
			assert.Equal(t, tt.err, httpErr.Internal)
		})
	}
}

func TestHTTPError_InvalidInputKeepsMessage(t *testing.T) {
	httpErr := HTTPError(errs.New(errs.ErrKindInvalidInput, "unknown folder: SECRET/"), "Failed to list files")

	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, "unknown folder: SECRET/", httpErr.Message)
}
