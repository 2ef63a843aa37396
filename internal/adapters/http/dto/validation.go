package dto

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/api-integration/internal/domain/dataset"
	"github.com/jsamuelsen/api-integration/internal/domain/result"
)

// datasetIDPattern accepts 1-999 without leading zeros or signs.
var datasetIDPattern = regexp.MustCompile(`^[1-9]\d{0,2}$`)

var (
	// validate is the singleton validator instance.
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the singleton validator instance.
// It initializes the validator with custom validations on first call.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		_ = validate.RegisterValidation("notempty", validateNotEmpty)
		_ = validate.RegisterValidation("datasetid", validateDatasetID)
	})

	return validate
}

// ParseDatasetID validates a raw dataset ID path segment.
//
// An empty or whitespace-only value fails with DatasetIDRequired. Otherwise the
// value is URL-decoded and trimmed, and must be an integer in 1-999 written
// without leading zeros, or it fails with InvalidFormat.
func ParseDatasetID(raw string) result.Of[int] {
	v := Validator()

	if err := v.Var(raw, "notempty"); err != nil {
		return result.Fail[int](dataset.DatasetIDRequired)
	}

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return result.Fail[int](dataset.InvalidFormat)
	}

	trimmed := strings.TrimSpace(decoded)
	if err := v.Var(trimmed, "datasetid"); err != nil {
		return result.Fail[int](dataset.InvalidFormat)
	}

	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return result.Fail[int](dataset.InvalidFormat)
	}

	return result.Ok(id)
}

// validateNotEmpty validates that a string is not empty after trimming whitespace.
func validateNotEmpty(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateDatasetID validates the dataset ID format.
func validateDatasetID(fl validator.FieldLevel) bool {
	return datasetIDPattern.MatchString(fl.Field().String())
}
