package catalog

import (
	"encoding/json"
	"fmt"
)

// Level is the rank of a node in the feature tree.
type Level int

const (
	LevelCatalog Level = iota
	LevelLanguage
	LevelGroup
	LevelConstruct
	LevelFeature
)

// levelTable is the single source of truth for the tree shape: each level's
// name and the key under which its children live. Feature has no children.
var levelTable = [...]struct {
	name     string
	childKey string
}{
	LevelCatalog:   {"catalog", "languages"},
	LevelLanguage:  {"language", "groups"},
	LevelGroup:     {"group", "constructs"},
	LevelConstruct: {"construct", "features"},
	LevelFeature:   {"feature", ""},
}

func (l Level) valid() bool {
	return l >= LevelCatalog && int(l) < len(levelTable)
}

func (l Level) String() string {
	if !l.valid() {
		return "unknown"
	}
	return levelTable[l].name
}

// Next returns the level of l's children. ok is false for the terminal level.
func (l Level) Next() (next Level, ok bool) {
	if !l.valid() || levelTable[l].childKey == "" {
		return 0, false
	}
	return l + 1, true
}

// ChildKey returns the JSON key of l's child collection. ok is false for
// the terminal level.
func (l Level) ChildKey() (key string, ok bool) {
	if !l.valid() || levelTable[l].childKey == "" {
		return "", false
	}
	return levelTable[l].childKey, true
}

// Terminal reports whether nodes at l own no child collection.
func (l Level) Terminal() bool {
	_, ok := l.Next()
	return !ok
}

// Node is one element of feature-tree.json at any level.
type Node struct {
	ID       string
	Level    Level
	Children []*Node // nil for features
	Extra    Extra
}

// Walk calls fn for n and every descendant, parents first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, ch := range n.Children {
		ch.Walk(fn)
	}
}

func (n *Node) MarshalJSON() ([]byte, error) {
	m := n.Extra.clone()
	if err := putValue(m, FieldID, n.ID); err != nil {
		return nil, err
	}
	if key, ok := n.Level.ChildKey(); ok {
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		if err := putValue(m, key, children); err != nil {
			return nil, err
		}
	}
	return marshalObject(m)
}

// decodeNode decodes raw as a node at level. Non-terminal nodes must carry
// their child collection key, even when it is empty.
func decodeNode(raw json.RawMessage, level Level) (*Node, error) {
	m, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	n := &Node{Level: level}
	if n.ID, err = takeString(m, FieldID); err != nil {
		return nil, err
	}
	key, ok := level.ChildKey()
	if ok {
		rawChildren, present := m[key]
		if !present {
			return nil, fmt.Errorf("%s %q: %w %q", level, n.ID, ErrMissingField, key)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(rawChildren, &items); err != nil {
			return nil, fmt.Errorf("%s %q: field %q: %w", level, n.ID, key, err)
		}
		delete(m, key)
		next, _ := level.Next()
		n.Children = make([]*Node, 0, len(items))
		for i, item := range items {
			child, err := decodeNode(item, next)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %s[%d]: %w", level, n.ID, key, i, err)
			}
			n.Children = append(n.Children, child)
		}
	}
	n.Extra = m
	return n, nil
}
