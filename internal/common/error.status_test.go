package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestConvertMongoError(t *testing.T) {
	t.Run("nil giữ nguyên nil", func(t *testing.T) {
		assert.NoError(t, ConvertMongoError(nil))
	})

	t.Run("ErrNoDocuments thành ErrNotFound", func(t *testing.T) {
		err := ConvertMongoError(fmt.Errorf("find: %w", mongo.ErrNoDocuments))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsNotFound(err))
	})

	t.Run("lỗi hệ thống được giữ nguyên", func(t *testing.T) {
		forbidden := NewForbiddenError("Không phải chủ sở hữu")
		assert.Same(t, forbidden, ConvertMongoError(forbidden))
	})

	t.Run("duplicate key thành 409", func(t *testing.T) {
		dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
		err := ConvertMongoError(dup)
		var appErr *Error
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, StatusConflict, appErr.StatusCode)
	})

	t.Run("lỗi lạ thành 500 và giữ lỗi gốc", func(t *testing.T) {
		cause := errors.New("boom")
		err := ConvertMongoError(cause)
		var appErr *Error
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, StatusInternalServerError, appErr.StatusCode)
		assert.ErrorIs(t, err, cause)
	})
}

func TestErrorConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", NewValidationError("sai", nil), StatusBadRequest, ErrCodeValidationInput.Code},
		{"not found", NewNotFoundError("không có"), StatusNotFound, ErrCodeDatabaseQuery.Code},
		{"forbidden", NewForbiddenError("cấm"), StatusForbidden, ErrCodeAuthOwnership.Code},
		{"conflict", NewConflictError("trùng"), StatusConflict, ErrCodeBusinessConflict.Code},
		{"internal", NewInternalError("lỗi", errors.New("x")), StatusInternalServerError, ErrCodeInternalServer.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var appErr *Error
			if assert.True(t, errors.As(tc.err, &appErr)) {
				assert.Equal(t, tc.status, appErr.StatusCode)
				assert.Equal(t, tc.code, appErr.Code.Code)
			}
		})
	}
}
