package validator

import (
	"errors"
	"regexp"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"gte":         "{field} must be greater than or equal to {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"eqfield":     "{field} must match {param}",
		"uuid":        "{field} must be a valid UUID",
		"datetime":    "{field} must match the format {param}",
		"mimetypes":   "{field} must be a file of type: {param}",
		"maxfilesize": "{field} may not be greater than {param} MB",
	}

	indexPattern = regexp.MustCompile(`\[(\d+)\]`)
)

func format(valErr val.FieldError) string {
	errStr := messages[valErr.Tag()]
	if errStr == "" {
		return ""
	}

	errStr = strings.ReplaceAll(errStr, "{field}", valErr.Field())
	errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

	return errStr
}

// fieldPath turns "Request.booking_details[0].room_id" into "booking_details.0.room_id".
func fieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		path = namespace
	}

	return indexPattern.ReplaceAllString(path, ".$1")
}

// Fields returns one message per failing attribute keyed by its json path.
func Fields(err error) map[string]string {
	var valErrors val.ValidationErrors

	if !errors.As(err, &valErrors) {
		return nil
	}

	fields := make(map[string]string, len(valErrors))

	for _, valErr := range valErrors {
		key := fieldPath(valErr.Namespace())
		if _, exists := fields[key]; exists {
			continue
		}

		msg := format(valErr)
		if msg == "" {
			msg = valErr.Error()
		}

		fields[key] = msg
	}

	return fields
}

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			if errStr := format(valErr); errStr != "" {
				return errStr
			}
		}

		return valErrors.Error()
	}

	return err.Error()
}
