package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_Table(t *testing.T) {
	tests := []struct {
		level    Level
		name     string
		childKey string
		next     Level
		terminal bool
	}{
		{LevelCatalog, "catalog", "languages", LevelLanguage, false},
		{LevelLanguage, "language", "groups", LevelGroup, false},
		{LevelGroup, "group", "constructs", LevelConstruct, false},
		{LevelConstruct, "construct", "features", LevelFeature, false},
		{LevelFeature, "feature", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.level.String())
			assert.Equal(t, tt.terminal, tt.level.Terminal())

			key, ok := tt.level.ChildKey()
			assert.Equal(t, !tt.terminal, ok)
			assert.Equal(t, tt.childKey, key)

			next, ok := tt.level.Next()
			assert.Equal(t, !tt.terminal, ok)
			if ok {
				assert.Equal(t, tt.next, next)
			}
		})
	}

	assert.Equal(t, "unknown", Level(42).String())
	assert.True(t, Level(-1).Terminal())
}

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		"tests-engine-dependent.json":        KindEngineDependent,
		"merged-tests-engine-dependent.json": KindEngineDependent,
		"tests-engine-independent.json":      KindEngineIndependent,
		"orig-tests-engine-independent.json": KindEngineIndependent,
		"feature-tree.json":                  KindFeatureTree,
		"engines.json":                       KindEngines,
		"merged-engines.json":                KindEngines,
		"constructs.json":                    KindUnknown,
		"engines.yaml":                       KindUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, KindOf(name), name)
	}
}

func TestDecodeEngines_KeepsExtraFields(t *testing.T) {
	in := `[{"id":"camunda__7_3_0","name":"camunda","version":"7.3.0","configuration":["a","b"]}]`

	engines, err := DecodeEngines([]byte(in))
	require.NoError(t, err)
	require.Len(t, engines, 1)
	assert.Equal(t, "camunda__7_3_0", engines[0].ID)
	assert.Contains(t, engines[0].Extra, "name")
	assert.NotContains(t, engines[0].Extra, FieldID)

	out, err := Encode(engines)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestDecodeEngines_MissingID(t *testing.T) {
	_, err := DecodeEngines([]byte(`[{"id":"a"},{"name":"b"}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.Contains(t, err.Error(), "engines[1]")
	assert.Contains(t, err.Error(), `"id"`)
}

func TestDecodeDependent_RequiresFileLists(t *testing.T) {
	_, err := DecodeDependent([]byte(`[{"featureID":"f1","engineID":"e1","engineDependentFiles":[]}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.Contains(t, err.Error(), FieldLogFiles)
}

func TestDecodeDependent_NullListIsEmpty(t *testing.T) {
	tests, err := DecodeDependent([]byte(`[{"featureID":"f1","engineID":"e1","engineDependentFiles":null,"logFiles":["x.log"]}]`))
	require.NoError(t, err)
	require.Len(t, tests, 1)
	assert.Equal(t, []string{}, tests[0].Files)
	assert.Equal(t, []string{"x.log"}, tests[0].Logs)
}

func TestDecodeIndependent_WrongType(t *testing.T) {
	_, err := DecodeIndependent([]byte(`[{"featureID":7,"engineIndependentFiles":[]}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), FieldFeatureID)
}

func TestDecode_EmptyInput(t *testing.T) {
	engines, err := DecodeEngines([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, engines)

	_, err = DecodeEngines([]byte(`{"id":"a"}`))
	require.Error(t, err)
}

func TestDecodeTree_Levels(t *testing.T) {
	in := `[{"id":"cap","name":"Conformance","languages":[
		{"id":"bpmn","groups":[
			{"id":"basics","constructs":[
				{"id":"task","features":[{"id":"task-1","description":"d"}]}
			]}
		]}
	]}]`

	nodes, err := DecodeTree([]byte(in))
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	var ids []string
	var levels []Level
	nodes[0].Walk(func(n *Node) {
		ids = append(ids, n.ID)
		levels = append(levels, n.Level)
	})
	assert.Equal(t, []string{"cap", "bpmn", "basics", "task", "task-1"}, ids)
	assert.Equal(t, []Level{LevelCatalog, LevelLanguage, LevelGroup, LevelConstruct, LevelFeature}, levels)

	feature := nodes[0].Children[0].Children[0].Children[0].Children[0]
	assert.Nil(t, feature.Children)
	assert.Contains(t, feature.Extra, "description")

	out, err := Encode(nodes)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestDecodeTree_MissingChildKey(t *testing.T) {
	in := `[{"id":"cap","languages":[{"id":"bpmn"}]}]`

	_, err := DecodeTree([]byte(in))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.Contains(t, err.Error(), `"groups"`)
	assert.Contains(t, err.Error(), `language "bpmn"`)
}

func TestDecodeTree_EmptyChildCollection(t *testing.T) {
	nodes, err := DecodeTree([]byte(`[{"id":"cap","languages":[]}]`))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.NotNil(t, nodes[0].Children)
	assert.Empty(t, nodes[0].Children)

	out, err := Encode(nodes)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"cap","languages":[]}]`, string(out))
}

func TestEncode_SingleSpaceIndentNoHTMLEscape(t *testing.T) {
	engines := []Engine{{ID: "a<b>&c"}}

	out, err := Encode(engines)
	require.NoError(t, err)
	assert.Equal(t, "[\n {\n  \"id\": \"a<b>&c\"\n }\n]\n", string(out))
}

func TestEncode_DependentFieldsPresentWhenEmpty(t *testing.T) {
	out, err := Encode([]DependentTest{{FeatureID: "f", EngineID: "e"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"featureID":"f","engineID":"e","engineDependentFiles":[],"logFiles":[]}]`, string(out))
}
