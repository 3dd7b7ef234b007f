package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"rentals/shared/failure"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"
)

const bytesPerMB = 1 << 20

var validate = newValidate()

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)

	if err := v.RegisterValidation("maxfilesize", withinFileSize); err != nil {
		panic(err)
	}

	return v
}

// wireName reports fields by their json key so messages match what the client sent.
func wireName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}

	return name
}

// withinFileSize checks an uploaded file against a limit in megabytes, e.g. maxfilesize=10.
func withinFileSize(fl val.FieldLevel) bool {
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}

	var header *multipart.FileHeader

	switch file := fl.Field().Interface().(type) {
	case *multipart.FileHeader:
		header = file
	case multipart.FileHeader:
		header = &file
	}

	return header != nil && float64(header.Size) <= limit*bytesPerMB
}

// Validate decodes a JSON body into data and validates it.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

// ValidateStruct reports the first failing rule as a 400 Failure.
func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
