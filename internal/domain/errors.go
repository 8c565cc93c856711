package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRegion is matched by every *InvalidRegionError.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrAxisNotFound is matched by every *AxisNotFoundError.
	ErrAxisNotFound = errors.New("axis not found")

	// ErrInvalidWindow is returned for negative smoothing windows.
	ErrInvalidWindow = errors.New("smoothing window must be >= 0")

	// ErrShapeMismatch is returned when data and axes disagree on size.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrTimeAxis is returned when the time axis carries no timestamps or
	// the reduced field is not one-dimensional over time.
	ErrTimeAxis = errors.New("invalid time axis")

	// ErrEmptyRegion is returned when a region box selects no grid points.
	ErrEmptyRegion = errors.New("region selects no grid points")

	// ErrDegenerateSeries is returned when a series cannot be standardized
	// because its standard deviation is zero or undefined.
	ErrDegenerateSeries = errors.New("series has zero or undefined standard deviation")
)

// InvalidRegionError reports an unrecognised index name.
type InvalidRegionError struct {
	Name  string
	Valid []string
}

func (e *InvalidRegionError) Error() string {
	return fmt.Sprintf("Nino type %s not recognised. Possible choices are %s", e.Name, strings.Join(e.Valid, ", "))
}

// Is makes errors.Is(err, ErrInvalidRegion) hold.
func (e *InvalidRegionError) Is(target error) bool {
	return target == ErrInvalidRegion
}

// AxisNotFoundError reports a mandatory axis missing from a field.
type AxisNotFoundError struct {
	Name      string
	Available []string
}

func (e *AxisNotFoundError) Error() string {
	return fmt.Sprintf("axis %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// Is makes errors.Is(err, ErrAxisNotFound) hold.
func (e *AxisNotFoundError) Is(target error) bool {
	return target == ErrAxisNotFound
}
