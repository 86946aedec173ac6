package spool_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danpasecinic/spool"
)

func TestErrorCode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SERVICE_NOT_FOUND", spool.ErrCodeServiceNotFound.String())
	assert.Equal(t, "DISPOSE_FAILED", spool.ErrCodeDisposeFailed.String())
	assert.Equal(t, "UNKNOWN(999)", spool.ErrorCode(999).String())
}

func TestError_Format(t *testing.T) {
	t.Parallel()

	err := &spool.Error{
		Code:    spool.ErrCodeFactoryFailed,
		Message: "factory for svc returned error",
		Service: "svc",
		Cause:   errors.New("boom"),
	}

	assert.Equal(t, `[FACTORY_FAILED] service="svc": factory for svc returned error: boom`, err.Error())

	arg := &spool.Error{Code: spool.ErrCodeInvalidArgument, Message: "value cannot be nil", Param: "instance"}
	assert.Equal(t, `[INVALID_ARGUMENT] param="instance": value cannot be nil`, arg.Error())
}

func TestError_IsMatchesCode(t *testing.T) {
	t.Parallel()

	_, err := spool.Resolve[Logger](spool.NewCollection().Build())
	wrapped := fmt.Errorf("startup: %w", err)

	assert.ErrorIs(t, wrapped, &spool.Error{Code: spool.ErrCodeServiceNotFound})
	assert.NotErrorIs(t, wrapped, &spool.Error{Code: spool.ErrCodeTypeLoad})
	assert.True(t, spool.IsNotFound(wrapped))
	assert.False(t, spool.IsNotFound(nil))
	assert.False(t, spool.IsNotFound(errors.New("plain")))
}

func TestError_Predicates(t *testing.T) {
	t.Parallel()

	predicates := map[spool.ErrorCode]func(error) bool{
		spool.ErrCodeInvalidArgument:        spool.IsInvalidArgument,
		spool.ErrCodeServiceNotFound:        spool.IsNotFound,
		spool.ErrCodeAmbiguousService:       spool.IsAmbiguous,
		spool.ErrCodeTypeLoad:               spool.IsTypeLoad,
		spool.ErrCodeUnresolvableDependency: spool.IsUnresolvableDependency,
		spool.ErrCodeConstructionFailed:     spool.IsConstructionFailed,
		spool.ErrCodeFactoryFailed:          spool.IsFactoryFailed,
		spool.ErrCodeTypeMismatch:           spool.IsTypeMismatch,
		spool.ErrCodeDisposeFailed:          spool.IsDisposeFailed,
		spool.ErrCodeValidationFailed:       spool.IsValidationFailed,
	}

	for code := range predicates {
		err := &spool.Error{Code: code}
		for other, is := range predicates {
			assert.Equal(t, code == other, is(err), "%s checked against %s", code, other)
		}
	}
}
