package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
		ok   bool
	}{
		{"mysql duplicate phone", errors.New("Error 1062 (23000): Duplicate entry '7999' for key 'clients.idx_clients_phone'"), MsgDuplicatePhone, true},
		{"sqlite duplicate login", errors.New("UNIQUE constraint failed: employees.login"), MsgDuplicateLogin, true},
		{"postgres duplicate other", errors.New(`ERROR: duplicate key value violates unique constraint "sales_pkey"`), MsgDuplicate, true},
		{"gorm translated duplicate", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), MsgDuplicate, true},
		{"mysql foreign key", errors.New("Error 1451: Cannot delete or update a parent row: a foreign key constraint fails"), MsgMissingRelation, true},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), MsgMissingRelation, true},
		{"not null", errors.New("NOT NULL constraint failed: clients.full_name"), MsgRequiredField, true},
		{"mysql null", errors.New("Error 1048: Column 'phone' cannot be null"), MsgRequiredField, true},
		{"check", errors.New("CHECK constraint failed: principal_positive"), MsgCheckFailed, true},
		{"other integrity", errors.New("integrity error"), MsgIntegrity, true},
		{"unrelated", errors.New("connection refused"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, ok := Message(tt.err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, msg)
		})
	}
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(errors.New("UNIQUE constraint failed: loans.code")))
	assert.False(t, IsDuplicate(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsDuplicate(nil))
	assert.True(t, IsIntegrity(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsIntegrity(errors.New("timeout")))
}
