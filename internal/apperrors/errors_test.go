package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindChecks(t *testing.T) {
	assert.True(t, IsValidation(Validationf("bad")))
	assert.True(t, IsConflict(Conflictf("taken")))
	assert.True(t, IsNotFound(NotFoundf("missing")))
	assert.True(t, IsAuthorization(Authorizationf("not yours")))

	plain := errors.New("boom")
	assert.False(t, IsValidation(plain))
	assert.False(t, IsTyped(plain))
}

func TestKindChecksSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("while saving: %w", Conflictf("taken"))
	assert.True(t, IsConflict(err))
	assert.True(t, IsTyped(err))
}

func TestStoragePassesTypedErrorsThrough(t *testing.T) {
	conflict := Conflictf("taken")
	assert.Equal(t, conflict, Storage(conflict))

	assert.Nil(t, Storage(nil))

	wrapped := Storage(errors.New("connection reset"))
	assert.False(t, IsTyped(wrapped))
	assert.Equal(t, "storage: connection reset", wrapped.Error())
}

func TestValidationKeepsCauseReachable(t *testing.T) {
	cause := errors.New("amount must be at least 1")
	err := Validation(cause)
	assert.True(t, IsValidation(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause.Error(), err.Error())
}
