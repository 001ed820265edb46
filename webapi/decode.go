package webapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldError reports a field that is missing from, or has the wrong type in, a response object
type FieldError struct {
	Model  string
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s.%s: %s", e.Model, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// object is a decoded JSON object whose values are decoded lazily per field
type object struct {
	model  string
	data   []byte
	fields map[string]json.RawMessage
}

func decodeObject(model string, data []byte) (object, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return object{}, &FieldError{Model: model, Field: "*", Reason: "expected a JSON object"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return object{}, &FieldError{Model: model, Field: "*", Reason: "invalid JSON object", Err: err}
	}

	return object{model: model, data: data, fields: fields}, nil
}

// present reports whether key appears in the object at all, even with a null value
func (o object) present(key string) bool {
	_, ok := o.fields[key]
	return ok
}

func (o object) has(key string) bool {
	raw, ok := o.fields[key]
	return ok && !isNull(raw)
}

func (o object) raw(key string) (json.RawMessage, error) {
	raw, ok := o.fields[key]
	if !ok || isNull(raw) {
		return nil, &FieldError{Model: o.model, Field: key, Reason: "missing required field"}
	}
	return raw, nil
}

// field decodes the required key into dst
func (o object) field(key string, dst any) error {
	raw, err := o.raw(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &FieldError{Model: o.model, Field: key, Reason: "unexpected type", Err: err}
	}
	return nil
}

// text decodes a field that may be sent either as a string or as a number
func (o object) text(key string) (string, error) {
	raw, err := o.raw(key)
	if err != nil {
		return "", err
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", &FieldError{Model: o.model, Field: key, Reason: "unexpected type", Err: err}
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", &FieldError{Model: o.model, Field: key, Reason: "expected string or number", Err: err}
	}
	return n.String(), nil
}

// level decodes a skill value sent either as a number or as a boolean flag
func (o object) level(key string) (int, error) {
	raw, err := o.raw(key)
	if err != nil {
		return 0, err
	}

	switch string(raw) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}

	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, &FieldError{Model: o.model, Field: key, Reason: "expected integer or boolean", Err: err}
	}
	return n, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
