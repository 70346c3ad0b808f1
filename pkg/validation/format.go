// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/zus-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateFrontend checks if the front-end is one of the supported front-ends.
func ValidateFrontend(frontend string) error {
	if frontend != constants.FrontendTUI && frontend != constants.FrontendWeb {
		return fmt.Errorf("expected frontend of %s or %s, got %s",
			constants.FrontendTUI, constants.FrontendWeb, frontend)
	}
	return nil
}

// ValidateLogLevel checks a zap level name. Empty means the default.
func ValidateLogLevel(level string) error {
	switch level {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("invalid log level: %s", level)
}

// ValidateLogFormat checks a log encoder name. Empty means the default.
func ValidateLogFormat(format string) error {
	switch format {
	case "", "json", "console":
		return nil
	}
	return fmt.Errorf("invalid log format: %s", format)
}
