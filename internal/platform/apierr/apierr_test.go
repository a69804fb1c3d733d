package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalid("x"), http.StatusBadRequest},
		{ErrNotFound("x"), http.StatusNotFound},
		{ErrConflict("x"), http.StatusConflict},
		{ErrUnprocessable("x"), http.StatusUnprocessableEntity},
		{ErrInternal("x"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ErrNotFound("book")), http.StatusNotFound},
		{errors.New("driver exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToHTTPStatus(tc.err), tc.err.Error())
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := fmt.Errorf("insert: %w", ErrConflict("open loan exists"))
	assert.ErrorIs(t, err, &APIError{Code: CodeConflict})
	assert.NotErrorIs(t, err, &APIError{Code: CodeNotFound})
}

func TestRespond_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	Respond(c, ErrNotFound("book not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"book not found"}}`, w.Body.String())
}
