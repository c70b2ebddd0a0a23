package pdfsettings

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrUnknownPath = errors.New("unknown settings path")
	ErrLineIndex   = errors.New("line index out of range")
)

// SetPath returns a copy of s with the field at a dotted JSON path such as
// "colors.accent" or "table.showUnitPrice" replaced by value. The value must
// decode into the field's type. The result is not validated.
func SetPath(s PDFSettings, path string, value json.RawMessage) (PDFSettings, error) {
	out := s.Clone()
	field, err := lookup(reflect.ValueOf(&out).Elem(), path)
	if err != nil {
		return s, err
	}
	fresh := reflect.New(field.Type())
	if err := json.Unmarshal(value, fresh.Interface()); err != nil {
		return s, fmt.Errorf("decode %s: %w", path, err)
	}
	field.Set(fresh.Elem())
	return out, nil
}

// GetPath returns the JSON encoding of the field at path.
func GetPath(s PDFSettings, path string) (json.RawMessage, error) {
	field, err := lookup(reflect.ValueOf(&s).Elem(), path)
	if err != nil {
		return nil, err
	}
	return json.Marshal(field.Interface())
}

func lookup(v reflect.Value, path string) (reflect.Value, error) {
	if path == "" {
		return reflect.Value{}, ErrUnknownPath
	}
	for _, part := range strings.Split(path, ".") {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownPath, path)
		}
		next, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnknownPath, path)
		}
		v = next
	}
	return v, nil
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// ListKind selects one of the two user-ordered line lists.
type ListKind string

const (
	ListRemarks ListKind = "remarks"
	ListTerms   ListKind = "terms"
)

func (s *PDFSettings) lines(k ListKind) (*[]string, error) {
	switch k {
	case ListRemarks:
		return &s.Remarks.Lines, nil
	case ListTerms:
		return &s.Terms.Lines, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPath, k)
}

// AddLine appends text to the list.
func AddLine(s PDFSettings, k ListKind, text string) (PDFSettings, error) {
	out := s.Clone()
	lines, err := out.lines(k)
	if err != nil {
		return s, err
	}
	*lines = append(*lines, text)
	return out, nil
}

// UpdateLine replaces the line at index i.
func UpdateLine(s PDFSettings, k ListKind, i int, text string) (PDFSettings, error) {
	out := s.Clone()
	lines, err := out.lines(k)
	if err != nil {
		return s, err
	}
	if i < 0 || i >= len(*lines) {
		return s, ErrLineIndex
	}
	(*lines)[i] = text
	return out, nil
}

// RemoveLine deletes the line at index i.
func RemoveLine(s PDFSettings, k ListKind, i int) (PDFSettings, error) {
	out := s.Clone()
	lines, err := out.lines(k)
	if err != nil {
		return s, err
	}
	if i < 0 || i >= len(*lines) {
		return s, ErrLineIndex
	}
	*lines = append((*lines)[:i], (*lines)[i+1:]...)
	return out, nil
}

// MoveLine moves the line at from so that it ends up at index to. The other
// lines keep their relative order.
func MoveLine(s PDFSettings, k ListKind, from, to int) (PDFSettings, error) {
	out := s.Clone()
	lines, err := out.lines(k)
	if err != nil {
		return s, err
	}
	n := len(*lines)
	if from < 0 || from >= n || to < 0 || to >= n {
		return s, ErrLineIndex
	}
	l := *lines
	moved := l[from]
	if from < to {
		copy(l[from:to], l[from+1:to+1])
	} else {
		copy(l[to+1:from+1], l[to:from])
	}
	l[to] = moved
	return out, nil
}
