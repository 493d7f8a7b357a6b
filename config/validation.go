package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"ducweb/graph"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks cfg against its struct tags and the rules tags cannot express.
func Validate(cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return validateCustomRules(cfg)
}

func validateCustomRules(cfg any) error {
	var html *HTML
	switch c := cfg.(type) {
	case *HTML:
		html = c
	case *Serve:
		html = &c.HTML
	default:
		return nil
	}

	if html.Database != "" && html.DBDir != "" {
		return fmt.Errorf("database and dbdir cannot be used together")
	}
	if _, err := graph.ParsePalette(html.Palette); err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	return nil
}

func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
