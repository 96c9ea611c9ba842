package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Kind identifies which of the four artifacts a JSON file holds.
type Kind int

const (
	KindUnknown Kind = iota
	KindEngineDependent
	KindEngineIndependent
	KindFeatureTree
	KindEngines
)

// Kinds lists the artifact kinds in the order directory mode merges them.
var Kinds = []Kind{KindEngineDependent, KindEngineIndependent, KindFeatureTree, KindEngines}

var kindFilenames = map[Kind]string{
	KindEngineDependent:   "tests-engine-dependent.json",
	KindEngineIndependent: "tests-engine-independent.json",
	KindFeatureTree:       "feature-tree.json",
	KindEngines:           "engines.json",
}

// Filename returns the canonical file name of the artifact.
func (k Kind) Filename() string {
	return kindFilenames[k]
}

func (k Kind) String() string {
	switch k {
	case KindEngineDependent:
		return "engine-dependent"
	case KindEngineIndependent:
		return "engine-independent"
	case KindFeatureTree:
		return "feature-tree"
	case KindEngines:
		return "engines"
	default:
		return "unknown"
	}
}

// HasFiles reports whether records of this kind reference files on disk.
func (k Kind) HasFiles() bool {
	return k == KindEngineDependent || k == KindEngineIndependent
}

// KindOf classifies a file by substring match of its base name against the
// canonical artifact names. merged-engines.json and orig-engines.json are
// therefore recognised as engines.
func KindOf(name string) Kind {
	for _, k := range Kinds {
		if strings.Contains(name, k.Filename()) {
			return k
		}
	}
	return KindUnknown
}

// Encode renders v as JSON with a single-space indent. HTML characters are
// not escaped so that paths and notes survive unchanged.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes v and writes it to path.
func WriteFile(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// DecodeEngines parses engines.json content.
func DecodeEngines(data []byte) ([]Engine, error) {
	return decodeArray[Engine](data, KindEngines)
}

// DecodeIndependent parses tests-engine-independent.json content.
func DecodeIndependent(data []byte) ([]IndependentTest, error) {
	return decodeArray[IndependentTest](data, KindEngineIndependent)
}

// DecodeDependent parses tests-engine-dependent.json content.
func DecodeDependent(data []byte) ([]DependentTest, error) {
	return decodeArray[DependentTest](data, KindEngineDependent)
}

// DecodeTree parses feature-tree.json content. Every node is validated
// against the level table on the way in.
func DecodeTree(data []byte) ([]*Node, error) {
	items, err := decodeItems(data, KindFeatureTree)
	if err != nil {
		return nil, err
	}
	nodes := make([]*Node, 0, len(items))
	for i, item := range items {
		n, err := decodeNode(item, LevelCatalog)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", KindFeatureTree, i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeArray[T any](data []byte, kind Kind) ([]T, error) {
	items, err := decodeItems(data, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &out[i]); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
	}
	return out, nil
}

// decodeItems splits a top-level array. Empty input is an empty collection.
func decodeItems(data []byte, kind Kind) ([]json.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return items, nil
}

func marshalValue(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func marshalObject(m map[string]json.RawMessage) ([]byte, error) {
	return marshalValue(m)
}
