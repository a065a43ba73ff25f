package domain

import "time"

// Role represents an employee position in the shop
type Role string

const (
	RoleAdministrator         Role = "Administrator"
	RoleMerchandiseManager    Role = "Merchandise Manager"
	RoleAppraiserMerchandiser Role = "Appraiser-Merchandiser"
	RoleSalesManager          Role = "Sales Manager"
)

// Roles lists every known role in display order
var Roles = []Role{
	RoleAdministrator,
	RoleMerchandiseManager,
	RoleAppraiserMerchandiser,
	RoleSalesManager,
}

func (r Role) String() string {
	return string(r)
}

// IsValid reports whether r is one of the fixed roles
func (r Role) IsValid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// LoanStatus represents the lifecycle state of a loan
type LoanStatus string

const (
	LoanStatusActive  LoanStatus = "Active"
	LoanStatusOverdue LoanStatus = "Overdue"
	LoanStatusPaid    LoanStatus = "Paid"
)

func (s LoanStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known loan status
func (s LoanStatus) IsValid() bool {
	return s == LoanStatusActive || s == LoanStatusOverdue || s == LoanStatusPaid
}

// MaturityDate returns origination plus the whole number of months in the term.
// Fractional months are dropped by the caller. A day past the end of the
// target month is clamped to its last day (Jan 31 + 1 month = Feb 28/29).
func MaturityDate(origination time.Time, termMonths int) time.Time {
	y, m, d := origination.Date()
	target := time.Date(y, m+time.Month(termMonths), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(target.Year(), target.Month()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, time.UTC)
}

// IsPastMaturity reports whether today is strictly after the maturity date
func IsPastMaturity(origination time.Time, termMonths int, today time.Time) bool {
	return CalendarDate(today).After(MaturityDate(origination, termMonths))
}

// DaysLeft returns the number of whole days from today until maturity.
// The result is negative once the maturity date has passed.
func DaysLeft(origination time.Time, termMonths int, today time.Time) int {
	return int(MaturityDate(origination, termMonths).Sub(CalendarDate(today)).Hours() / 24)
}

// CalendarDate returns the calendar date of t as midnight UTC.
// Dates are stored and compared in this form.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
