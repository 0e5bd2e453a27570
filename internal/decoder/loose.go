package decoder

import (
	"bytes"
	"encoding/json"

	"github.com/samber/lo"
)

// loose decodes JSON value into T. Value which doesn't fit T leaves zero value instead of failing the whole response.
type loose[T any] struct {
	Value T
}

func (l *loose[T]) UnmarshalJSON(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		l.Value = *new(T)
		return nil
	}

	l.Value = value
	return nil
}

// looseList decodes JSON array into list of T, skipping elements which don't fit T.
// Single non-array value is decoded as one element list.
type looseList[T any] []T

func (l *looseList[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		raws = []json.RawMessage{data}
	}

	list := make(looseList[T], 0, len(raws))
	for _, raw := range raws {
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		list = append(list, value)
	}

	*l = list
	return nil
}

// flexStrings is list of strings which may be encoded as a single string or an array of scalars.
type flexStrings []string

func (s *flexStrings) UnmarshalJSON(data []byte) error {
	var list looseList[flexString]
	if err := list.UnmarshalJSON(data); err != nil {
		return err
	}

	*s = lo.FilterMap([]flexString(list), func(value flexString, _ int) (string, bool) {
		return value.String(), value.String() != ""
	})
	return nil
}
