package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"rentals/shared/constant"
	"rentals/shared/failure"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Fields is the flat view of a listing request body, built from a multipart form or a JSON object.
type Fields struct {
	scalars map[string]string
	lists   map[string]StringList
}

func isListKey(key string) bool {
	return key == constant.FormAmenities || key == constant.FormRemovedPhotos
}

func FieldsFromForm(values map[string][]string) Fields {
	fields := Fields{
		scalars: map[string]string{},
		lists:   map[string]StringList{},
	}

	for key, vals := range values {
		if isListKey(key) {
			fields.lists[key] = FromFormValues(vals)

			continue
		}

		if len(vals) > 0 {
			fields.scalars[key] = vals[0]
		}
	}

	return fields
}

func FieldsFromJSON(r io.Reader) (Fields, error) {
	fields := Fields{
		scalars: map[string]string{},
		lists:   map[string]StringList{},
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return fields, failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if bytes.Equal(value, []byte("null")) {
			continue
		}

		if isListKey(key) {
			var list StringList
			if err := json.Unmarshal(value, &list); err != nil {
				log.Warn().Err(err).Str("field", key).Msg("ignoring list field")

				continue
			}

			fields.lists[key] = list

			continue
		}

		var str string
		if err := json.Unmarshal(value, &str); err == nil {
			fields.scalars[key] = str

			continue
		}

		fields.scalars[key] = string(value)
	}

	return fields, nil
}

func (f Fields) Lookup(key string) (string, bool) {
	value, ok := f.scalars[key]

	return value, ok
}

func (f Fields) Get(key string) string {
	return f.scalars[key]
}

func (f Fields) List(key string) StringList {
	return f.lists[key]
}

func (f Fields) lookupString(key string) *string {
	value, ok := f.Lookup(key)
	if !ok {
		return nil
	}

	return &value
}

func (f Fields) lookupInt(key string) *int {
	value, ok := f.Lookup(key)
	if !ok {
		return nil
	}

	n := coerceInt(key, value)

	return &n
}

func (f Fields) lookupFloat(key string) *float64 {
	value, ok := f.Lookup(key)
	if !ok {
		return nil
	}

	n := coerceFloat(key, value)

	return &n
}

// coerceFloat turns a submitted numeric string into a number. Anything unparsable becomes 0.
func coerceFloat(field, raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == constant.Empty {
		return 0
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		log.Warn().Str("field", field).Str("value", raw).Msg("non-numeric value coerced to 0")

		return 0
	}

	return n
}

// coerceInt truncates the submitted number, clamped to the range of an INTEGER column.
func coerceInt(field, raw string) int {
	n := coerceFloat(field, raw)
	if n > math.MaxInt32 || n < math.MinInt32 {
		log.Warn().Str("field", field).Str("value", raw).Msg("value out of range, clamped")

		return int(math.Max(math.MinInt32, math.Min(n, math.MaxInt32)))
	}

	return int(n)
}
