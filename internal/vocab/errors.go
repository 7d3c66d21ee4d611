package vocab

import (
	"fmt"
)

// PackNotFoundError occurs when manifest.yaml is not found in a pack directory.
type PackNotFoundError struct {
	Path string
	Err  error
}

func (e *PackNotFoundError) Error() string {
	return fmt.Sprintf("vocabulary manifest not found at '%s': %v", e.Path, e.Err)
}

func (e *PackNotFoundError) Unwrap() error {
	return e.Err
}

// PackParseError occurs when manifest.yaml cannot be parsed as valid YAML.
type PackParseError struct {
	Path string
	Err  error
}

func (e *PackParseError) Error() string {
	return fmt.Sprintf("failed to parse vocabulary manifest at '%s': %v", e.Path, e.Err)
}

func (e *PackParseError) Unwrap() error {
	return e.Err
}

// PackValidationError occurs when manifest.yaml fails validation.
type PackValidationError struct {
	Path    string
	Field   string
	Message string
}

func (e *PackValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("vocabulary manifest validation failed at '%s': %s (field: %s)",
			e.Path, e.Message, e.Field)
	}
	return fmt.Sprintf("vocabulary manifest validation failed at '%s': %s", e.Path, e.Message)
}

// PackNotFoundInRegistryError occurs when a pack is not found in the registry.
type PackNotFoundInRegistryError struct {
	PackName string
}

func (e *PackNotFoundInRegistryError) Error() string {
	return fmt.Sprintf("vocabulary pack '%s' not found", e.PackName)
}

// PackAlreadyRegisteredError occurs when attempting to register a duplicate pack.
type PackAlreadyRegisteredError struct {
	PackName string
}

func (e *PackAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("vocabulary pack '%s' is already registered", e.PackName)
}

// NoPacksFoundError occurs when no packs are found in the configured paths.
type NoPacksFoundError struct {
	Paths []string
}

func (e *NoPacksFoundError) Error() string {
	return fmt.Sprintf("no vocabulary packs found in paths: %v", e.Paths)
}
