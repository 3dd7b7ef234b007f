package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

var ErrMalformedList = errors.New("malformed list value")

// ListKind tags how a list-valued field arrived.
type ListKind int

const (
	ListAbsent ListKind = iota
	// ListSequence is a native sequence: repeated form keys or a JSON array.
	ListSequence
	// ListEncodedString is a single string holding a JSON-encoded array.
	ListEncodedString
)

// StringList is a list field that clients send either as a sequence or as a JSON-encoded string.
type StringList struct {
	Kind  ListKind
	Items []string
	Raw   string
}

func Sequence(items ...string) StringList {
	return StringList{Kind: ListSequence, Items: items}
}

func EncodedString(raw string) StringList {
	return StringList{Kind: ListEncodedString, Raw: raw}
}

// FromFormValues reads a list from the values posted under one form key. A single value is the encoded form.
func FromFormValues(values []string) StringList {
	switch len(values) {
	case 0:
		return StringList{}
	case 1:
		return EncodedString(values[0])
	default:
		return Sequence(values...)
	}
}

// Present reports whether the client sent the field with any content.
func (l StringList) Present() bool {
	switch l.Kind {
	case ListSequence:
		return true
	case ListEncodedString:
		return l.Raw != ""
	default:
		return false
	}
}

// Decode returns the items, JSON-decoding the encoded form.
func (l StringList) Decode() ([]string, error) {
	switch l.Kind {
	case ListSequence:
		return slices.Clone(l.Items), nil
	case ListEncodedString:
		var items []string
		if err := json.Unmarshal([]byte(l.Raw), &items); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedList, err)
		}

		return items, nil
	default:
		return nil, nil
	}
}

// DecodeOrRaw decodes the list, keeping the raw string as the only item when it is not valid JSON.
func (l StringList) DecodeOrRaw(field string) []string {
	items, err := l.Decode()
	if err != nil {
		log.Warn().Err(err).Str("field", field).Msg("keeping raw value as a single item")

		return []string{l.Raw}
	}

	return items
}

// DecodeOrEmpty decodes the list, treating a malformed value as an empty list.
func (l StringList) DecodeOrEmpty(field string) []string {
	items, err := l.Decode()
	if err != nil {
		log.Warn().Err(err).Str("field", field).Msg("ignoring malformed list")

		return nil
	}

	return items
}

// UnmarshalJSON accepts either a JSON array or a string holding one.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = Sequence(items...)

		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: expected array or string", ErrMalformedList)
	}

	*l = EncodedString(raw)

	return nil
}
