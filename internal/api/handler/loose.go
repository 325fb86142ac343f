package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// The SPA posts multipart forms as well as JSON, and sends numbers, flags and
// the feature list as strings. These field types accept both encodings from
// the JSON decoder (json.Unmarshaler) and from Echo's form/query binder
// (echo.BindUnmarshaler). An absent or null field leaves Set false.

var jsonNull = []byte("null")

// unquote returns the string content of a JSON string literal, or the raw
// token for any other JSON value.
func unquote(data []byte) (string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	}
	return string(data), false, nil
}

type looseFloat struct {
	Value float64
	Set   bool
}

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}
	s, _, err := unquote(data)
	if err != nil {
		return err
	}
	return f.UnmarshalParam(s)
}

func (f *looseFloat) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		return nil
	}
	v, err := strconv.ParseFloat(param, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%q is not a number", param)
	}
	f.Value, f.Set = v, true
	return nil
}

func (f looseFloat) ptr() *float64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

type looseInt struct {
	Value int
	Set   bool
}

func (n *looseInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}
	s, _, err := unquote(data)
	if err != nil {
		return err
	}
	return n.UnmarshalParam(s)
}

// UnmarshalParam accepts integral values only; "5" and "5.0" are fine, "5.5" is not.
func (n *looseInt) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		return nil
	}
	v, err := strconv.ParseFloat(param, 64)
	if err != nil || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return fmt.Errorf("%q is not a whole number", param)
	}
	n.Value, n.Set = int(v), true
	return nil
}

func (n looseInt) ptr() *int {
	if !n.Set {
		return nil
	}
	v := n.Value
	return &v
}

type looseBool struct {
	Value bool
	Set   bool
}

func (b *looseBool) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}
	s, _, err := unquote(data)
	if err != nil {
		return err
	}
	return b.UnmarshalParam(s)
}

func (b *looseBool) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		return nil
	}
	v, err := strconv.ParseBool(param)
	if err != nil {
		return fmt.Errorf("%q is not a boolean", param)
	}
	b.Value, b.Set = v, true
	return nil
}

func (b looseBool) ptr() *bool {
	if !b.Set {
		return nil
	}
	v := b.Value
	return &v
}

// looseStrings is a list given either as a JSON array or as a string holding
// a serialized JSON array. Decoding never fails; an undecodable value sets
// Malformed and leaves Values empty so the caller can apply its policy.
type looseStrings struct {
	Values    []string
	Set       bool
	Malformed bool
}

func (l *looseStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	l.Set = true
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			l.Malformed = true
			return nil
		}
		return l.UnmarshalParam(s)
	}
	l.decodeArray(data)
	return nil
}

func (l *looseStrings) UnmarshalParam(param string) error {
	l.Set = true
	param = strings.TrimSpace(param)
	if param == "" {
		l.Values = []string{}
		return nil
	}
	l.decodeArray([]byte(param))
	return nil
}

func (l *looseStrings) decodeArray(data []byte) {
	var vs []string
	if err := json.Unmarshal(data, &vs); err != nil {
		l.Values, l.Malformed = nil, true
		return
	}
	if vs == nil {
		vs = []string{}
	}
	l.Values, l.Malformed = vs, false
}

func (l looseStrings) ptr() *[]string {
	if !l.Set || l.Malformed {
		return nil
	}
	vs := l.Values
	return &vs
}

// looseDate accepts a calendar date (2006-01-02) or a full RFC 3339 timestamp.
type looseDate struct {
	Value time.Time
	Set   bool
}

const dateLayout = "2006-01-02"

func (d *looseDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return nil
	}
	s, quoted, err := unquote(data)
	if err != nil {
		return err
	}
	if !quoted {
		return fmt.Errorf("date must be a string")
	}
	return d.UnmarshalParam(s)
}

func (d *looseDate) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, param); err == nil {
		d.Value, d.Set = t.UTC(), true
		return nil
	}
	t, err := time.Parse(time.RFC3339, param)
	if err != nil {
		return fmt.Errorf("%q is not a valid date (use YYYY-MM-DD or RFC 3339)", param)
	}
	d.Value, d.Set = t.UTC(), true
	return nil
}
