package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOfUnwrapsWrappedError(t *testing.T) {
	err := fmt.Errorf("load course: %w", NotFound("course_not_found", errors.New("Course not found")))
	status, code := StatusOf(err, "internal")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "course_not_found", code)
	assert.Equal(t, "load course: Course not found", err.Error())
}

func TestStatusOfFallsBackTo500(t *testing.T) {
	status, code := StatusOf(errors.New("db down"), "load_failed")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "load_failed", code)
}

func TestErrorMessageFallbacks(t *testing.T) {
	assert.Equal(t, "bad_input", New(http.StatusBadRequest, "bad_input", nil).Error())
	assert.Equal(t, "api error (418)", New(418, "", nil).Error())
}
