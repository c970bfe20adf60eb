package mapping

import (
	"errors"
	"fmt"

	"model-mapper/internal/diagnostic"
)

var (
	// ErrConfiguration matches every ConfigurationError.
	ErrConfiguration = errors.New("invalid mapping configuration")
	// ErrDuplicateMapping matches DuplicateMappingError.
	ErrDuplicateMapping = errors.New("duplicate entity mapping")
	// ErrTargetLocator matches LocatorError.
	ErrTargetLocator = errors.New("invalid target locator")
)

// ConfigurationError reports a specification that must not be run.
type ConfigurationError struct {
	Diagnostics *diagnostic.Diagnostics
}

func (e *ConfigurationError) Error() string {
	if e.Diagnostics == nil || e.Diagnostics.IsValid() {
		return ErrConfiguration.Error()
	}

	return fmt.Sprintf("%s: %v", ErrConfiguration, e.Diagnostics.Error())
}

// Unwrap exposes ErrConfiguration and the typed causes of each error.
func (e *ConfigurationError) Unwrap() []error {
	errs := []error{ErrConfiguration}
	if e.Diagnostics != nil {
		errs = append(errs, e.Diagnostics.Causes()...)
	}

	return errs
}

// DuplicateMappingError reports two entity mappings for one source context.
type DuplicateMappingError struct {
	SourceType string
	// First and Duplicate are indexes into entity_mappings.
	First     int
	Duplicate int
}

func (e *DuplicateMappingError) Error() string {
	return fmt.Sprintf("source context %q mapped by entity_mappings[%d] and entity_mappings[%d]",
		e.SourceType, e.First, e.Duplicate)
}

// Is reports whether target is ErrDuplicateMapping.
func (e *DuplicateMappingError) Is(target error) bool {
	return target == ErrDuplicateMapping
}

// LocatorError reports an attribute mapping with both or neither target locator.
type LocatorError struct {
	SourceType      string
	SourceAttribute string
	Both            bool
}

func (e *LocatorError) Error() string {
	if e.Both {
		return fmt.Sprintf("attribute %q of %q sets both target_attribute and target_path",
			e.SourceAttribute, e.SourceType)
	}

	return fmt.Sprintf("attribute %q of %q sets neither target_attribute nor target_path",
		e.SourceAttribute, e.SourceType)
}

// Is reports whether target is ErrTargetLocator.
func (e *LocatorError) Is(target error) bool {
	return target == ErrTargetLocator
}
