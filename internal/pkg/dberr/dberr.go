// Package dberr turns raw store errors into the small set of canonical
// messages shown to users. Raw driver diagnostics never leave this package.
package dberr

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Canonical user-facing messages
const (
	MsgDuplicatePhone  = "a client or employee with this phone already exists"
	MsgDuplicateLogin  = "an employee with this login already exists"
	MsgDuplicate       = "a record with the same unique value already exists"
	MsgMissingRelation = "operation failed: referenced data not found or still in use"
	MsgRequiredField   = "not all required fields are filled in"
	MsgCheckFailed     = "data failed constraint checks"
	MsgIntegrity       = "data integrity violation"
)

// IsDuplicate reports a unique/primary key violation (MySQL, PostgreSQL, SQLite)
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate entry") ||
		strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint")
}

// IsForeignKey reports a foreign key violation
func IsForeignKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

// IsNotNull reports a NOT NULL violation
func IsNotNull(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not null") || strings.Contains(s, "null value") || strings.Contains(s, "cannot be null")
}

// IsCheck reports a CHECK constraint violation
func IsCheck(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return errors.Is(err, gorm.ErrCheckConstraintViolated) || strings.Contains(s, "check constraint")
}

// IsIntegrity reports any store-level constraint failure
func IsIntegrity(err error) bool {
	return IsDuplicate(err) || IsForeignKey(err) || IsNotNull(err) || IsCheck(err) ||
		(err != nil && strings.Contains(strings.ToLower(err.Error()), "integrity"))
}

// Message maps a store error to a canonical message. ok is false when err is
// not a constraint failure.
func Message(err error) (msg string, ok bool) {
	if err == nil {
		return "", false
	}
	s := strings.ToLower(err.Error())

	switch {
	case IsDuplicate(err):
		switch {
		case strings.Contains(s, "phone"):
			return MsgDuplicatePhone, true
		case strings.Contains(s, "login"):
			return MsgDuplicateLogin, true
		}
		return MsgDuplicate, true
	case IsForeignKey(err):
		return MsgMissingRelation, true
	case IsCheck(err):
		return MsgCheckFailed, true
	case IsNotNull(err):
		return MsgRequiredField, true
	case strings.Contains(s, "integrity"):
		return MsgIntegrity, true
	}
	return "", false
}
