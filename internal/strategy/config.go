package strategy

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

// fieldCodes maps config fields to the error code reported when they fail validation.
var fieldCodes = map[string]errors.ErrorCode{
	"ShortWindow": errors.ErrCodeInvalidPeriod,
	"LongWindow":  errors.ErrCodeInvalidPeriod,
	"Window":      errors.ErrCodeInvalidPeriod,
	"Amount":      errors.ErrCodeInvalidAmount,
	"NumStdDev":   errors.ErrCodeInvalidThreshold,
	"Overbought":  errors.ErrCodeInvalidThreshold,
	"Oversold":    errors.ErrCodeInvalidThreshold,
}

// validateConfig runs the struct tags of config and turns the first failing field
// into a configuration error naming the strategy, the field and its value.
func validateConfig(strategyType StrategyType, config any) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s config", strategyType)
	}

	field := fieldErrors[0]

	code, ok := fieldCodes[field.StructField()]
	if !ok {
		code = errors.ErrCodeInvalidConfiguration
	}

	constraint := field.Tag()
	if field.Param() != "" {
		constraint += "=" + field.Param()
	}

	return errors.NewConfigurationErrorf(code, "%s %s=%v must satisfy %s",
		strategyType, field.Field(), field.Value(), constraint)
}
