package cli

import (
	"fmt"
	"go/token"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/toyz/injector/internal/writer"
)

// DefaultConfigFile is read from the working directory when present
const DefaultConfigFile = "injector.yaml"

// DefaultMaxRounds bounds the round loop when nothing else stops it
const DefaultMaxRounds = 10

// Config holds the configuration for a generation run
type Config struct {
	// Patterns are go/packages patterns to scan, "./..." by default
	Patterns []string `yaml:"patterns" validate:"required,min=1,dive,required"`

	// Dir is the directory patterns are resolved against
	Dir string `yaml:"dir" validate:"required"`

	// OutputDir receives the generated modules
	OutputDir string `yaml:"output" validate:"required"`

	// Package is the package clause of generated modules
	Package string `yaml:"package" validate:"required,goident"`

	// FilePrefix names generated files prefix<N>.go
	FilePrefix string `yaml:"prefix" validate:"required,excludesall=/\\"`

	// TypePrefix names generated module types prefix<N>
	TypePrefix string `yaml:"type_prefix" validate:"required,goident"`

	// MaxRounds bounds the number of rounds run by the host
	MaxRounds int `yaml:"max_rounds" validate:"min=1,max=1000"`

	// BuildTags are passed to the package loader
	BuildTags []string `yaml:"build_tags" validate:"dive,required"`

	// Level is the diagnostic level: silent, error, warn, info, verbose, debug
	Level string `yaml:"level" validate:"omitempty,oneof=silent error warn info verbose debug"`

	// JSON switches diagnostics to structured JSON records
	JSON bool `yaml:"json"`

	// DryRun keeps generated modules in memory and prints them
	DryRun bool `yaml:"dry_run"`
}

// DefaultConfig returns the configuration used when no file or flag says otherwise
func DefaultConfig() Config {
	naming := writer.DefaultNaming()
	return Config{
		Patterns:   []string{"./..."},
		Dir:        ".",
		OutputDir:  naming.PackageName,
		Package:    naming.PackageName,
		FilePrefix: naming.FilePrefix,
		TypePrefix: naming.TypePrefix,
		MaxRounds:  DefaultMaxRounds,
		Level:      "info",
	}
}

// Naming returns the writer naming the config describes
func (c Config) Naming() writer.Naming {
	return writer.Naming{
		FilePrefix:  c.FilePrefix,
		TypePrefix:  c.TypePrefix,
		PackageName: c.Package,
	}
}

// LoadConfig reads a YAML config over the defaults. A missing file at the
// default location is not an error; a missing explicit file is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return token.IsIdentifier(fl.Field().String())
	})
	return v
}

// Validate checks the configuration and the naming it produces
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := c.Naming().Validate(); err != nil {
		return fmt.Errorf("invalid naming: %w", err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "goident":
		return fmt.Sprintf("%s must be a Go identifier, got %q", field, e.Value())
	case "excludesall":
		return fmt.Sprintf("%s must not contain path separators", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
