package plant

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Plant is one plant's care-schedule state.
type Plant struct {
	Name                  string
	WaterIntervalDays     int
	FertilizeIntervalDays int
	LastWatered           Date
	LastFertilized        Date
}

// MaxIntervalDays is the longest accepted care interval, about a century.
const MaxIntervalDays = 36500

// plantInput carries the user-supplied fields of a Plant through validation.
type plantInput struct {
	Name                  string `validate:"required"`
	WaterIntervalDays     int    `validate:"gte=1,lte=36500"`
	FertilizeIntervalDays int    `validate:"gte=1,lte=36500"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewPlant creates a plant that was watered and fertilized today.
// Returns ErrInvalidInterval if either interval is outside 1..MaxIntervalDays and
// ErrInvalidName if name is blank.
func NewPlant(name string, waterDays, fertilizeDays int, today Date) (*Plant, error) {
	return RestorePlant(name, waterDays, fertilizeDays, today, today, today)
}

// RestorePlant rebuilds a plant from stored values. A zero lastWatered or
// lastFertilized defaults to today. Validation matches NewPlant.
func RestorePlant(name string, waterDays, fertilizeDays int, lastWatered, lastFertilized, today Date) (*Plant, error) {
	name = strings.TrimSpace(name)
	if err := validateInput(plantInput{
		Name:                  name,
		WaterIntervalDays:     waterDays,
		FertilizeIntervalDays: fertilizeDays,
	}); err != nil {
		return nil, err
	}

	if lastWatered.IsZero() {
		lastWatered = today
	}
	if lastFertilized.IsZero() {
		lastFertilized = today
	}

	return &Plant{
		Name:                  name,
		WaterIntervalDays:     waterDays,
		FertilizeIntervalDays: fertilizeDays,
		LastWatered:           lastWatered,
		LastFertilized:        lastFertilized,
	}, nil
}

// validateInput runs the struct tags and maps failures onto the package's
// sentinel errors. Interval failures take precedence over name failures.
func validateInput(in plantInput) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validating plant: %w", err)
	}

	var nameErr error
	for _, fe := range ve {
		switch fe.Field() {
		case "WaterIntervalDays":
			return fmt.Errorf("%w: water interval must be between 1 and %d days, got %v", ErrInvalidInterval, MaxIntervalDays, fe.Value())
		case "FertilizeIntervalDays":
			return fmt.Errorf("%w: fertilize interval must be between 1 and %d days, got %v", ErrInvalidInterval, MaxIntervalDays, fe.Value())
		case "Name":
			nameErr = fmt.Errorf("%w: name must not be empty", ErrInvalidName)
		}
	}
	if nameErr != nil {
		return nameErr
	}
	return fmt.Errorf("validating plant: %w", err)
}

// ParseInterval parses a user-entered number of days.
// Anything that is not a whole number between 1 and MaxIntervalDays returns
// ErrInvalidInterval.
func ParseInterval(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidInterval, s)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %d is not a positive number of days", ErrInvalidInterval, n)
	}
	if n > MaxIntervalDays {
		return 0, fmt.Errorf("%w: %d days is longer than %d", ErrInvalidInterval, n, MaxIntervalDays)
	}
	return n, nil
}
