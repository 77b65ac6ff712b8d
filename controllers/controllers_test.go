package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sparkd_server/models"
	"sparkd_server/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	cases := map[error]int{
		services.ErrValidation:                http.StatusBadRequest,
		services.ErrAlreadyActed:              http.StatusConflict,
		services.ErrLimitExceeded:             http.StatusTooManyRequests,
		services.ErrNotFound:                  http.StatusNotFound,
		services.ErrForbidden:                 http.StatusForbidden,
		services.ErrConflict:                  http.StatusInternalServerError,
		errors.New("something else entirely"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, errorStatus(err), err.Error())
	}
}

func TestErrorStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("user 'a': %w", services.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, errorStatus(wrapped))
}

func TestDecodeAndValidate(t *testing.T) {
	newReq := func(body string) *http.Request {
		return httptest.NewRequest(http.MethodPost, "/api/swipes", strings.NewReader(body))
	}

	var req models.SwipeRequest
	err := decodeAndValidate(newReq(`{"fromUserId":"a","toUserId":"b","action":"like"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "a", req.FromUserID)
	assert.Equal(t, "like", req.Action)

	assert.ErrorIs(t, decodeAndValidate(newReq(`{not json`), &models.SwipeRequest{}), services.ErrValidation)
	assert.ErrorIs(t, decodeAndValidate(newReq(`{"fromUserId":"a"}`), &models.SwipeRequest{}), services.ErrValidation)
	assert.ErrorIs(t, decodeAndValidate(newReq(`{"fromUserId":"a","toUserId":"b","action":"wave"}`), &models.SwipeRequest{}), services.ErrValidation)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, fmt.Errorf("swipe: %w", services.ErrLimitExceeded))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "daily limit exceeded")
}
