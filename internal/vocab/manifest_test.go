package vocab

import (
	"path/filepath"
	"testing"
)

func TestParseManifest_Valid(t *testing.T) {
	dir := filepath.Join("testdata", "packs", "observability")

	manifest, err := ParseManifest(dir)
	if err != nil {
		t.Fatalf("ParseManifest() failed: %v", err)
	}

	if manifest.Name != "observability" {
		t.Errorf("expected Name 'observability', got '%s'", manifest.Name)
	}

	if manifest.Version != "1.0.0" {
		t.Errorf("expected Version '1.0.0', got '%s'", manifest.Version)
	}

	if len(manifest.Functions) != 3 {
		t.Errorf("expected 3 functions, got %d", len(manifest.Functions))
	}

	if len(manifest.MetadataFields) != 1 || manifest.MetadataFields[0] != "_tier" {
		t.Errorf("expected metadata fields [_tier], got %v", manifest.MetadataFields)
	}
}

func TestParseManifest_NotFound(t *testing.T) {
	dir := filepath.Join("testdata", "packs", "nonexistent")

	_, err := ParseManifest(dir)
	if err == nil {
		t.Fatal("ParseManifest() should fail for nonexistent directory")
	}

	_, ok := err.(*PackNotFoundError)
	if !ok {
		t.Errorf("expected PackNotFoundError, got %T", err)
	}
}

func TestParseManifest_InvalidYAML(t *testing.T) {
	dir := filepath.Join("testdata", "packs", "invalid-yaml")

	_, err := ParseManifest(dir)
	if err == nil {
		t.Fatal("ParseManifest() should fail for invalid YAML")
	}

	_, ok := err.(*PackParseError)
	if !ok {
		t.Errorf("expected PackParseError, got %T", err)
	}
}

func TestParseManifest_Validation(t *testing.T) {
	tests := []struct {
		dir   string
		field string
	}{
		{"missing-fields", "name"},
		{"bad-function", "functions"},
		{"empty-lists", ""},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			_, err := ParseManifest(filepath.Join("testdata", "packs", tt.dir))
			if err == nil {
				t.Fatal("ParseManifest() should fail validation")
			}

			validationErr, ok := err.(*PackValidationError)
			if !ok {
				t.Fatalf("expected PackValidationError, got %T", err)
			}

			if validationErr.Field != tt.field {
				t.Errorf("expected Field '%s', got '%s'", tt.field, validationErr.Field)
			}
		})
	}
}

func TestManifest_ValidateFieldRules(t *testing.T) {
	tests := []struct {
		name     string
		manifest Manifest
		field    string
	}{
		{"metadata without underscore", Manifest{Name: "a", Version: "1", MetadataFields: []string{"tier"}}, "metadata_fields"},
		{"lower case source command", Manifest{Name: "a", Version: "1", SourceCommands: []string{"from"}}, "source_commands"},
		{"blank processing command", Manifest{Name: "a", Version: "1", ProcessingCommands: []string{" "}}, "processing_commands"},
		{"missing version", Manifest{Name: "a", Functions: []string{"ABS"}}, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.manifest.Validate()
			validationErr, ok := err.(*PackValidationError)
			if !ok {
				t.Fatalf("expected PackValidationError, got %T", err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("expected Field '%s', got '%s'", tt.field, validationErr.Field)
			}
		})
	}
}

func TestManifest_Path(t *testing.T) {
	dir := filepath.Join("testdata", "packs", "observability")

	manifest, err := ParseManifest(dir)
	if err != nil {
		t.Fatalf("ParseManifest() failed: %v", err)
	}

	expectedPath := filepath.Join(dir, "manifest.yaml")
	if manifest.Path() != expectedPath {
		t.Errorf("expected Path '%s', got '%s'", expectedPath, manifest.Path())
	}

	if manifest.Dir() != dir {
		t.Errorf("expected Dir '%s', got '%s'", dir, manifest.Dir())
	}
}
