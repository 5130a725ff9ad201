package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sleuthgame-go/internal/model"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"rule", model.ErrHandFull, http.StatusUnprocessableEntity, CodeHandFull, model.ErrHandFull.Error()},
		{"wrapped rule", fmt.Errorf("%w: Miss Marple needs a set of 3", model.ErrSetSizeMismatch), http.StatusUnprocessableEntity, CodeSetSizeMismatch, ""},
		{"not found", model.ErrSessionNotFound, http.StatusNotFound, CodeSessionNotFound, "session not found"},
		{"phase", model.ErrSessionNotInProgress, http.StatusConflict, CodeSessionNotInProgress, ""},
		{"kind only", fmt.Errorf("%w: odd", model.ErrConstraintViolation), http.StatusUnprocessableEntity, CodeConstraintViolation, ""},
		{"storage conflict", model.ErrStorageConflict, http.StatusInternalServerError, CodeStorageConflict, "Internal server error"},
		{"storage failure", fmt.Errorf("%w: dial tcp", model.ErrStorageFailure), http.StatusInternalServerError, CodeStorageFailure, "Internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError, "Internal server error"},
		{"invalid request", NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest, "bad body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error.Message)
			}
			assert.Equal(t, tt.status, StatusOf(tt.err))
		})
	}
}
