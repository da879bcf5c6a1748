package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	code := "BANK_NOT_FOUND"
	notFound := NewNotFoundError("missing", true, &code)

	assert.Equal(t, http.StatusNotFound, StatusOf(notFound))
	assert.Equal(t, http.StatusNotFound, StatusOf(fmt.Errorf("lookup: %w", notFound)))
	assert.Equal(t, http.StatusBadRequest, StatusOf(NewBadRequestError("bad", false, nil, nil, nil)))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestNewBadRequestError_DefaultCode(t *testing.T) {
	err := NewBadRequestError("bad", false, nil, nil, nil)
	assert.Equal(t, "BAD_REQUEST", err.Code)

	custom := "BANK_ALREADY_EXISTS"
	err = NewBadRequestError("dup", true, &custom, nil, nil)
	assert.Equal(t, custom, err.Code)
	assert.True(t, err.Override)
}

func TestHTTPError_WithMessage(t *testing.T) {
	base := NewNotFoundError("first", false, nil)
	copied := base.WithMessage("second")

	assert.Equal(t, "first", base.Message)
	assert.Equal(t, "second", copied.Message)
	assert.Equal(t, base.Code, copied.Code)
	assert.True(t, errors.Is(copied, &HTTPError{}))
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "INTERNAL_SERVER_ERROR", MakeUpperCaseWithUnderscores("Internal Server Error"))
}
