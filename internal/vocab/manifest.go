package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the file name a pack directory must contain.
const ManifestFile = "manifest.yaml"

var functionName = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Manifest represents the pack manifest.yaml structure.
type Manifest struct {
	Name               string   `yaml:"name"`
	Version            string   `yaml:"version"`
	Description        string   `yaml:"description"`
	Author             string   `yaml:"author"`
	Functions          []string `yaml:"functions"`
	MetadataFields     []string `yaml:"metadata_fields"`
	SourceCommands     []string `yaml:"source_commands"`
	ProcessingCommands []string `yaml:"processing_commands"`

	dir string
}

// ParseManifest reads and parses manifest.yaml from a directory.
func ParseManifest(dir string) (*Manifest, error) {
	manifestPath := filepath.Join(dir, ManifestFile)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &PackNotFoundError{
			Path: manifestPath,
			Err:  err,
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &PackParseError{
			Path: manifestPath,
			Err:  err,
		}
	}

	m.dir = dir

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return &PackValidationError{
			Path:    m.Path(),
			Field:   "name",
			Message: "name is required",
		}
	}

	if m.Version == "" {
		return &PackValidationError{
			Path:    m.Path(),
			Field:   "version",
			Message: "version is required",
		}
	}

	if len(m.Functions)+len(m.MetadataFields)+len(m.SourceCommands)+len(m.ProcessingCommands) == 0 {
		return &PackValidationError{
			Path:    m.Path(),
			Message: "at least one of functions, metadata_fields, source_commands or processing_commands is required",
		}
	}

	for _, f := range m.Functions {
		if !functionName.MatchString(f) {
			return &PackValidationError{
				Path:    m.Path(),
				Field:   "functions",
				Message: fmt.Sprintf("invalid function name: %q (must be upper case letters, digits and underscores)", f),
			}
		}
	}

	for _, f := range m.MetadataFields {
		if !strings.HasPrefix(f, "_") || len(f) < 2 {
			return &PackValidationError{
				Path:    m.Path(),
				Field:   "metadata_fields",
				Message: fmt.Sprintf("invalid metadata field: %q (must start with an underscore)", f),
			}
		}
	}

	commands := []struct {
		field string
		words []string
	}{
		{"source_commands", m.SourceCommands},
		{"processing_commands", m.ProcessingCommands},
	}
	for _, c := range commands {
		for _, w := range c.words {
			if strings.TrimSpace(w) == "" || w != strings.ToUpper(w) {
				return &PackValidationError{
					Path:    m.Path(),
					Field:   c.field,
					Message: fmt.Sprintf("invalid command: %q (must be non-empty upper case)", w),
				}
			}
		}
	}

	return nil
}

// Set returns the vocabulary the manifest contributes.
func (m *Manifest) Set() Set {
	return Set{
		Functions:          m.Functions,
		MetadataFields:     m.MetadataFields,
		SourceCommands:     m.SourceCommands,
		ProcessingCommands: m.ProcessingCommands,
	}
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return filepath.Join(m.dir, ManifestFile)
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return m.dir
}
