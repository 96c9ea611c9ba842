package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// JSON keys shared by the artifacts.
const (
	FieldID                     = "id"
	FieldFeatureID              = "featureID"
	FieldEngineID               = "engineID"
	FieldEngineIndependentFiles = "engineIndependentFiles"
	FieldEngineDependentFiles   = "engineDependentFiles"
	FieldLogFiles               = "logFiles"
)

// ErrMissingField is returned when a record lacks a key the merge needs.
var ErrMissingField = errors.New("missing field")

// Extra holds the fields of a record that the merge does not interpret.
// They are carried through untouched.
type Extra map[string]json.RawMessage

// --- Models ---

// Engine is one entry of engines.json.
type Engine struct {
	ID    string
	Extra Extra
}

// IndependentTest is one entry of tests-engine-independent.json.
type IndependentTest struct {
	FeatureID string
	Files     []string // engineIndependentFiles
	Extra     Extra
}

// DependentTest is one entry of tests-engine-dependent.json.
type DependentTest struct {
	FeatureID string
	EngineID  string
	Files     []string // engineDependentFiles
	Logs      []string // logFiles
	Extra     Extra
}

func (e *Engine) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return err
	}
	if e.ID, err = takeString(m, FieldID); err != nil {
		return err
	}
	e.Extra = m
	return nil
}

func (e Engine) MarshalJSON() ([]byte, error) {
	m := e.Extra.clone()
	if err := putValue(m, FieldID, e.ID); err != nil {
		return nil, err
	}
	return marshalObject(m)
}

func (t *IndependentTest) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return err
	}
	if t.FeatureID, err = takeString(m, FieldFeatureID); err != nil {
		return err
	}
	if t.Files, err = takeStrings(m, FieldEngineIndependentFiles); err != nil {
		return err
	}
	t.Extra = m
	return nil
}

func (t IndependentTest) MarshalJSON() ([]byte, error) {
	m := t.Extra.clone()
	if err := putValue(m, FieldFeatureID, t.FeatureID); err != nil {
		return nil, err
	}
	if err := putValue(m, FieldEngineIndependentFiles, nonNil(t.Files)); err != nil {
		return nil, err
	}
	return marshalObject(m)
}

func (t *DependentTest) UnmarshalJSON(data []byte) error {
	m, err := decodeObject(data)
	if err != nil {
		return err
	}
	if t.FeatureID, err = takeString(m, FieldFeatureID); err != nil {
		return err
	}
	if t.EngineID, err = takeString(m, FieldEngineID); err != nil {
		return err
	}
	if t.Files, err = takeStrings(m, FieldEngineDependentFiles); err != nil {
		return err
	}
	if t.Logs, err = takeStrings(m, FieldLogFiles); err != nil {
		return err
	}
	t.Extra = m
	return nil
}

func (t DependentTest) MarshalJSON() ([]byte, error) {
	m := t.Extra.clone()
	for _, kv := range []struct {
		key string
		val any
	}{
		{FieldFeatureID, t.FeatureID},
		{FieldEngineID, t.EngineID},
		{FieldEngineDependentFiles, nonNil(t.Files)},
		{FieldLogFiles, nonNil(t.Logs)},
	} {
		if err := putValue(m, kv.key, kv.val); err != nil {
			return nil, err
		}
	}
	return marshalObject(m)
}

// --- helpers ---

func (x Extra) clone() map[string]json.RawMessage {
	m := make(map[string]json.RawMessage, len(x)+4)
	for k, v := range x {
		m[k] = v
	}
	return m
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("record is null")
	}
	return m, nil
}

// takeString removes key from m and returns its string value.
func takeString(m map[string]json.RawMessage, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrMissingField, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", key, err)
	}
	delete(m, key)
	return s, nil
}

// takeStrings removes key from m and returns its string list. A null list
// decodes as empty.
func takeStrings(m map[string]json.RawMessage, key string) ([]string, error) {
	raw, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrMissingField, key)
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err != nil {
		return nil, fmt.Errorf("field %q: %w", key, err)
	}
	delete(m, key)
	return nonNil(ss), nil
}

func putValue(m map[string]json.RawMessage, key string, v any) error {
	raw, err := marshalValue(v)
	if err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	m[key] = raw
	return nil
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
