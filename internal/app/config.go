package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePaths []string `validate:"min=1,dive,required"` // description files or directories
	ImagePath     string   // source image; without it the pipeline is only built
	OutputDir     string   // terminal outputs are written here when set

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`

	GridRows int `validate:"gte=0"`
	GridCols int `validate:"gte=0"`

	Watch           bool
	Trace           bool // print evaluation spans
	EditorURL       string `validate:"omitempty,url"`
	EditorNamespace string
}

var validate = validator.New()

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, describe(fe))
			}
			return nil, errors.New(strings.Join(msgs, "; "))
		}
		return nil, err
	}
	return &cfg, nil
}

func describe(fe validator.FieldError) string {
	if strings.HasPrefix(fe.Field(), "PipelinePaths") {
		if fe.Tag() == "min" {
			return "at least one pipeline path is required"
		}
		return "pipeline path must not be empty"
	}
	switch fe.Field() {
	case "LogFormat":
		return "invalid log-format: must be 'text' or 'json'"
	case "LogLevel":
		return "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"
	case "HealthcheckPort":
		return fmt.Sprintf("invalid healthcheck-port %v: must be between 0 and 65535", fe.Value())
	case "EditorURL":
		return fmt.Sprintf("invalid editor-url %q", fe.Value())
	}
	return fmt.Sprintf("invalid %s: failed %q check", fe.Field(), fe.Tag())
}
