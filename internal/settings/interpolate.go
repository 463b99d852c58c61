package settings

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"
)

// ${VAR} or ${VAR:default}; the colon is captured so an empty default can be
// told apart from no default.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// ExpandEnvVars replaces ${VAR} and ${VAR:default} references in input. A
// variable that is unset and has no default is an error.
func ExpandEnvVars(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var missing []error
	result := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		sub := envVarPattern.FindStringSubmatch(match)
		name, hasDefault, def := sub[1], sub[2] == ":", sub[3]

		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		if hasDefault {
			return def
		}

		missing = append(missing, fmt.Errorf("environment variable not defined: %s", name))
		return match
	})

	return result, errors.Join(missing...)
}

// InterpolateStruct expands environment variables in place in every string
// and []string field tagged `env_interpolation:"yes"`, recursing into nested
// structs.
func InterpolateStruct(v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("expected pointer to struct, got %T", v)
	}
	return interpolateValue(val.Elem())
}

func interpolateValue(val reflect.Value) error {
	typ := val.Type()
	var errs []error

	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := interpolateValue(field); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", fieldType.Name, err))
			}
			continue
		}

		if !strings.EqualFold(fieldType.Tag.Get("env_interpolation"), "yes") {
			continue
		}

		switch {
		case field.Kind() == reflect.String:
			expanded, err := ExpandEnvVars(field.String())
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", fieldType.Name, err))
				continue
			}
			field.SetString(expanded)

		case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
			for j := range field.Len() {
				elem := field.Index(j)
				expanded, err := ExpandEnvVars(elem.String())
				if err != nil {
					errs = append(errs, fmt.Errorf("%s[%d]: %w", fieldType.Name, j, err))
					continue
				}
				elem.SetString(expanded)
			}
		}
	}

	return errors.Join(errs...)
}
