package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pawnledger/internal/core/domain"
	"pawnledger/internal/pkg/dberr"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Clock returns the current time. Services derive "today" from it so tests
// can pin the calendar.
type Clock func() time.Time

// SystemClock returns a clock reading wall time in loc
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// FixedClock always returns t
func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

func (c Clock) today() time.Time {
	if c == nil {
		return domain.CalendarDate(time.Now())
	}
	return domain.CalendarDate(c())
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs struct tag validation and reports the first failure
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError(err.Error())
	}

	fe := fieldErrs[0]
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(fmt.Sprintf("%s is required", field))
	case "oneof":
		return domain.NewValidationError(fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
	case "max":
		return domain.NewValidationError(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	case "min":
		return domain.NewValidationError(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "numeric", "e164":
		return domain.NewValidationError(fmt.Sprintf("%s is not a valid phone number", field))
	}
	return domain.NewValidationError(fmt.Sprintf("%s is invalid", field))
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseDecimal parses a non-negative decimal field
func ParseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")))
	if err != nil {
		return decimal.Zero, domain.NewValidationError(fmt.Sprintf("%s must be a valid decimal number", field))
	}
	if d.IsNegative() {
		return decimal.Zero, domain.NewValidationError(fmt.Sprintf("%s must not be negative", field))
	}
	return d, nil
}

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
	}
	return t, nil
}

// checkPrecision rejects values that do not fit a decimal(p,s) column
func checkPrecision(field string, d decimal.Decimal, precision, scale int32) error {
	if !d.Equal(d.Round(scale)) {
		return domain.NewValidationError(fmt.Sprintf("%s allows at most %d decimal places", field, scale))
	}
	limit := decimal.New(1, precision-scale)
	if d.Abs().GreaterThanOrEqual(limit) {
		return domain.NewValidationError(fmt.Sprintf("%s must be less than %s", field, limit.String()))
	}
	return nil
}

// storeError turns a failure from a unit of work into an AppError.
// Business errors pass through untouched.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if appErr := domain.GetAppError(err); appErr != nil {
		return appErr
	}
	if msg, ok := dberr.Message(err); ok {
		return domain.NewIntegrityError(msg, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewInternalError("request cancelled", err)
	}
	return domain.NewInternalError("internal error", err)
}

// notFound maps gorm.ErrRecordNotFound to target, other errors unchanged
func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
