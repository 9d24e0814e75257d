package domain

import (
	"fmt"
	"time"
)

// EfaConfiguration stores the EFA rate applicable to a calendar year.
// Year is the natural key; the storage layer enforces its uniqueness.
type EfaConfiguration struct {
	Events

	ID        string
	Year      int
	EfaRate   float64
	UpdatedBy string
	UpdatedAt time.Time
}

// SetRate updates the rate and audit fields and raises the update event.
func (c *EfaConfiguration) SetRate(rate float64, updatedBy string, at time.Time) {
	c.EfaRate = rate
	c.UpdatedBy = updatedBy
	c.UpdatedAt = at
	c.Raise(EfaConfigurationUpdatedEvent{ConfigurationID: c.ID, Year: c.Year, EfaRate: rate})
}

// EfaConfigurationYearExists builds the Conflict failure for a duplicate year.
func EfaConfigurationYearExists(year int) *Error {
	return NewConflictError("efa_configuration.year_exists",
		fmt.Sprintf("an EFA configuration for year %d already exists", year))
}

// EfaConfigurationNotFound builds the NotFound failure for a missing configuration.
func EfaConfigurationNotFound(id string) *Error {
	return NewNotFoundError("efa_configuration.not_found",
		fmt.Sprintf("the EFA configuration with ID %q was not found", id))
}

// ErrInvalidEfaYear indicates a year outside the accepted range.
var ErrInvalidEfaYear = NewValidationError("efa_configuration.invalid_year", "the year must be between 1900 and 2100")

// ErrInvalidEfaRate indicates a negative rate.
var ErrInvalidEfaRate = NewValidationError("efa_configuration.invalid_rate", "the EFA rate must not be negative")
