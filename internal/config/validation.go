// Package config provides configuration management for the jackpot engine.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	v.RegisterValidation("environment", validateEnvironment)
	v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	t := cfg.Engine.Tuning
	if t.AlphaFloor > 0 && t.AlphaCeiling > 0 && t.AlphaFloor >= t.AlphaCeiling {
		return fmt.Errorf("engine.tuning: alpha_floor (%v) must be below alpha_ceiling (%v)", t.AlphaFloor, t.AlphaCeiling)
	}
	if t.TotalMultiplierFloor > 0 && t.TotalMultiplierCeiling > 0 && t.TotalMultiplierFloor >= t.TotalMultiplierCeiling {
		return fmt.Errorf("engine.tuning: total_multiplier_floor (%v) must be below total_multiplier_ceiling (%v)", t.TotalMultiplierFloor, t.TotalMultiplierCeiling)
	}
	if t.SharpenTemperature >= 1.0 {
		return fmt.Errorf("engine.tuning: sharpen_temperature (%v) must be below 1.0; values above 1 soften instead of sharpening", t.SharpenTemperature)
	}

	for _, l := range cfg.Leagues {
		if l.MaxDraws < l.MinDraws {
			return fmt.Errorf("league %s: max_draws (%d) below min_draws (%d)", l.Code, l.MaxDraws, l.MinDraws)
		}
		if l.DrawCeiling <= l.DrawFloor {
			return fmt.Errorf("league %s: draw_ceiling (%v) must be above draw_floor (%v)", l.Code, l.DrawCeiling, l.DrawFloor)
		}
	}

	p := cfg.Tickets.Policy
	if p.DrawProbabilityThreshold < 0 || p.DrawProbabilityThreshold > 1 {
		return fmt.Errorf("tickets.policy: draw_probability_threshold (%v) outside [0,1]", p.DrawProbabilityThreshold)
	}
	if p.EntropyThreshold < 0 || p.EntropyThreshold > 1 {
		return fmt.Errorf("tickets.policy: entropy_threshold (%v) outside [0,1]", p.EntropyThreshold)
	}

	return nil
}

// formatValidationErrors converts validator errors into a readable message
func formatValidationErrors(errs validator.ValidationErrors) error {
	msg := "configuration validation failed:"
	for _, e := range errs {
		msg += fmt.Sprintf("\n  - field %s failed on the %q rule", e.Namespace(), e.Tag())
	}
	return fmt.Errorf("%s", msg)
}
