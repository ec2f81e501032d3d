package codec

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/paramframe/internal/core/domain"
)

func TestDetermineFileType(t *testing.T) {
	tests := []struct {
		path string
		want domain.FileType
	}{
		{"config.yml", domain.FileTypeStructuredText},
		{"config.yaml", domain.FileTypeStructuredText},
		{"CONFIG.YAML", domain.FileTypeStructuredText},
		{"notes.txt", domain.FileTypePlainText},
		{"model.cbor", domain.FileTypeSerializedObject},
		{"weights.bin", domain.FileTypeOpaqueBinary},
		{"README", domain.FileTypeOpaqueBinary},
		{"archive.tar.gz", domain.FileTypeOpaqueBinary},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineFileType(tt.path))
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, domain.DefaultChunkSize, c.chunkSize)
	assert.Equal(t, domain.DefaultMaxDepth, c.maxDepth)
}

func TestNew_IgnoresNonPositiveOptions(t *testing.T) {
	c := New(WithChunkSize(0), WithMaxDepth(-1))
	assert.Equal(t, domain.DefaultChunkSize, c.chunkSize)
	assert.Equal(t, domain.DefaultMaxDepth, c.maxDepth)
}

// ==================== Structured text ====================

func valuesByName(values []domain.AttributeValue) map[string]domain.AttributeValue {
	out := make(map[string]domain.AttributeValue, len(values))
	for _, v := range values {
		out[v.Name] = v
	}
	return out
}

func TestProcess_StructuredScenario(t *testing.T) {
	c := New()
	raw := []byte("a: 1\nb: [2, 3]\n")

	attrs, values, err := c.Process(domain.FileTypeStructuredText, raw, "pid")
	require.NoError(t, err)
	require.Len(t, attrs, 4)
	require.Len(t, values, 4)

	var roots []domain.ParameterAttribute
	children := make(map[string][]string)
	for _, a := range attrs {
		assert.Equal(t, "pid", a.ParameterID)
		if a.IsRoot() {
			roots = append(roots, a)
		} else {
			children[a.PreviousAttributeID] = append(children[a.PreviousAttributeID], a.AttributeID)
		}
	}
	require.Len(t, roots, 2)

	byID := make(map[string]domain.AttributeValue)
	for _, v := range values {
		byID[v.AttributeID] = v
	}
	rootsByName := make(map[string]domain.AttributeValue)
	for _, r := range roots {
		rootsByName[byID[r.AttributeID].Name] = byID[r.AttributeID]
	}

	a := rootsByName["a"]
	assert.Equal(t, domain.KindInt, a.Kind)
	assert.Equal(t, "1", a.Value)
	assert.Empty(t, children[a.AttributeID])

	b := rootsByName["b"]
	assert.Equal(t, domain.KindList, b.Kind)
	require.Len(t, children[b.AttributeID], 2)
	for _, kid := range children[b.AttributeID] {
		assert.Equal(t, domain.KindInt, byID[kid].Kind)
	}

	got, err := c.Reconstruct(domain.FileTypeStructuredText, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": []any{2, 3}}, got)
}

func TestProcess_StructuredElementsAttachToKeyNode(t *testing.T) {
	c := New()
	attrs, values, err := c.Process(domain.FileTypeStructuredText, []byte("xs: [7, 7, 7]\n"), "pid")
	require.NoError(t, err)
	require.Len(t, attrs, 4)

	byName := valuesByName(values)
	keyID := byName["xs"].AttributeID
	for _, a := range attrs {
		if a.AttributeID != keyID {
			assert.Equal(t, keyID, a.PreviousAttributeID)
		}
	}
}

func TestProcess_StructuredIdsAreDeterministic(t *testing.T) {
	c := New()
	raw := []byte("server:\n  host: localhost\n  port: 8080\n")
	a1, v1, err := c.Process(domain.FileTypeStructuredText, raw, "pid")
	require.NoError(t, err)
	a2, v2, err := c.Process(domain.FileTypeStructuredText, raw, "pid")
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.Equal(t, v1, v2)
}

func TestProcess_StructuredSameLeafUnderDifferentParents(t *testing.T) {
	c := New()
	raw := []byte("x: 1\ny:\n  x: 1\n")
	attrs, values, err := c.Process(domain.FileTypeStructuredText, raw, "pid")
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, a := range attrs {
		assert.False(t, ids[a.AttributeID], "duplicate attribute id")
		ids[a.AttributeID] = true
	}

	got, err := c.Reconstruct(domain.FileTypeStructuredText, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1, "y": map[string]any{"x": 1}}, got)
}

func TestRoundTrip_StructuredValueEqual(t *testing.T) {
	docs := []string{
		"name: demo\nversion: 1.5\nenabled: true\nnothing: null\n",
		"nested:\n  deeper:\n    deepest: [a, b, {c: d}]\n",
		"empty_list: []\nempty_map: {}\n",
		"mixed:\n  - 1\n  - two\n  - 3.0\n  - false\n  - [x, y]\n",
		"quoted: \"123\"\nplain: 123\n",
		"anchors:\n  base: &b {k: v}\n  copy: *b\n",
		"",
	}
	c := New()
	for _, doc := range docs {
		t.Run(strings.SplitN(doc, ":", 2)[0], func(t *testing.T) {
			var want map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(doc), &want))
			if want == nil {
				want = map[string]any{}
			}

			attrs, values, err := c.Process(domain.FileTypeStructuredText, []byte(doc), "pid")
			require.NoError(t, err)

			got, err := c.Reconstruct(domain.FileTypeStructuredText, values, attrs)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			file, err := c.ReconstructFile(domain.FileTypeStructuredText, values, attrs)
			require.NoError(t, err)
			var reparsed map[string]any
			require.NoError(t, yaml.Unmarshal(file, &reparsed))
			if reparsed == nil {
				reparsed = map[string]any{}
			}
			assert.Equal(t, want, reparsed)
		})
	}
}

func TestProcess_StructuredRejectsNonMapping(t *testing.T) {
	c := New()
	_, _, err := c.Process(domain.FileTypeStructuredText, []byte("- a\n- b\n"), "pid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcess_StructuredRejectsMalformed(t *testing.T) {
	c := New()
	_, _, err := c.Process(domain.FileTypeStructuredText, []byte("a: [1, 2\n"), "pid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProcess_StructuredMaxDepth(t *testing.T) {
	c := New(WithMaxDepth(3))
	_, _, err := c.Process(domain.FileTypeStructuredText, []byte("a: {b: {c: 1}}\n"), "pid")
	require.NoError(t, err)

	_, _, err = c.Process(domain.FileTypeStructuredText, []byte("a: {b: {c: {d: 1}}}\n"), "pid")
	assert.ErrorIs(t, err, domain.ErrMaxDepth)
}

func TestReconstruct_StructuredMaxDepth(t *testing.T) {
	deep := New()
	attrs, values, err := deep.Process(domain.FileTypeStructuredText, []byte("a: {b: {c: {d: 1}}}\n"), "pid")
	require.NoError(t, err)

	_, err = New(WithMaxDepth(2)).Reconstruct(domain.FileTypeStructuredText, values, attrs)
	assert.ErrorIs(t, err, domain.ErrMaxDepth)
}

func TestReconstruct_StructuredFallsBackToString(t *testing.T) {
	c := New()
	values := []domain.AttributeValue{
		{AttributeID: "1", Name: "port", Value: "eighty", Kind: domain.KindInt},
		{AttributeID: "2", Name: "ratio", Value: "n/a", Kind: domain.KindFloat},
		{AttributeID: "3", Name: "list", Value: "[1, 2", Kind: domain.KindList},
	}
	links := []domain.ParameterAttribute{
		{AttributeID: "1"}, {AttributeID: "2"}, {AttributeID: "3"},
	}
	got, err := c.Reconstruct(domain.FileTypeStructuredText, values, links)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"port": "eighty", "ratio": "n/a", "list": "[1, 2"}, got)
}

func TestReconstruct_StructuredInconsistentLinks(t *testing.T) {
	c := New()
	value := func(id, name string) domain.AttributeValue {
		return domain.AttributeValue{AttributeID: id, Name: name, Value: "v", Kind: domain.KindString}
	}

	tests := []struct {
		name   string
		values []domain.AttributeValue
		links  []domain.ParameterAttribute
	}{
		{
			name:   "missing value row",
			values: []domain.AttributeValue{value("1", "a")},
			links:  []domain.ParameterAttribute{{AttributeID: "1"}, {AttributeID: "2", PreviousAttributeID: "1"}},
		},
		{
			name:   "unknown parent",
			values: []domain.AttributeValue{value("1", "a")},
			links:  []domain.ParameterAttribute{{AttributeID: "1", PreviousAttributeID: "9"}},
		},
		{
			name:   "detached cycle",
			values: []domain.AttributeValue{value("1", "a"), value("2", "b")},
			links: []domain.ParameterAttribute{
				{AttributeID: "1", PreviousAttributeID: "2"},
				{AttributeID: "2", PreviousAttributeID: "1"},
			},
		},
		{
			name:   "two parents",
			values: []domain.AttributeValue{value("1", "a"), value("2", "b"), value("3", "c")},
			links: []domain.ParameterAttribute{
				{AttributeID: "1"},
				{AttributeID: "2"},
				{AttributeID: "3", PreviousAttributeID: "1"},
				{AttributeID: "3", PreviousAttributeID: "2"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Reconstruct(domain.FileTypeStructuredText, tt.values, tt.links)
			assert.ErrorIs(t, err, domain.ErrReconstruction)
		})
	}
}

// ==================== Chunked content ====================

func TestProcess_PlainTextScenario(t *testing.T) {
	c := New(WithChunkSize(255))
	text := strings.Repeat("abcdefghij", 60)
	require.Len(t, text, 600)

	attrs, values, err := c.Process(domain.FileTypePlainText, []byte(text), "pid")
	require.NoError(t, err)
	require.Len(t, attrs, 3)
	require.Len(t, values, 3)

	assert.Equal(t, "", attrs[0].PreviousAttributeID)
	assert.Equal(t, attrs[0].AttributeID, attrs[1].PreviousAttributeID)
	assert.Equal(t, attrs[1].AttributeID, attrs[2].PreviousAttributeID)
	for i, v := range values {
		assert.Equal(t, domain.KindChunk, v.Kind)
		assert.Equal(t, []string{"0", "1", "2"}[i], v.Name)
	}
	assert.Len(t, values[2].Value, 90)

	got, err := c.Reconstruct(domain.FileTypePlainText, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestRoundTrip_PlainTextMultibyte(t *testing.T) {
	c := New(WithChunkSize(4))
	text := "héllo wörld, 日本語のテキスト"
	attrs, values, err := c.Process(domain.FileTypePlainText, []byte(text), "pid")
	require.NoError(t, err)

	file, err := c.ReconstructFile(domain.FileTypePlainText, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, []byte(text), file)
}

func TestProcess_PlainTextRejectsInvalidUTF8(t *testing.T) {
	c := New(WithChunkSize(4))
	raw := []byte("caf\xe9 au lait \xff\xfe done")

	_, _, err := c.Process(domain.FileTypePlainText, raw, "pid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// The same bytes survive unchanged as opaque binary.
	attrs, values, err := c.Process(domain.FileTypeOpaqueBinary, raw, "pid")
	require.NoError(t, err)
	file, err := c.ReconstructFile(domain.FileTypeOpaqueBinary, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, raw, file)
}

func TestRoundTrip_PlainTextEmpty(t *testing.T) {
	c := New()
	attrs, values, err := c.Process(domain.FileTypePlainText, nil, "pid")
	require.NoError(t, err)
	assert.Empty(t, attrs)

	got, err := c.Reconstruct(domain.FileTypePlainText, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestReconstruct_ChunksOutOfOrder(t *testing.T) {
	c := New(WithChunkSize(3))
	attrs, values, err := c.Process(domain.FileTypePlainText, []byte("abcdefghijk"), "pid")
	require.NoError(t, err)

	reversed := make([]domain.AttributeValue, len(values))
	for i, v := range values {
		reversed[len(values)-1-i] = v
	}
	got, err := c.Reconstruct(domain.FileTypePlainText, reversed, attrs)
	require.NoError(t, err)
	assert.Equal(t, "abcdefghijk", got)
}

func TestReconstruct_ChunkOrdinalsMustBeContiguous(t *testing.T) {
	c := New(WithChunkSize(2))
	attrs, values, err := c.Process(domain.FileTypePlainText, []byte("abcdef"), "pid")
	require.NoError(t, err)

	_, err = c.Reconstruct(domain.FileTypePlainText, values[1:], attrs[1:])
	assert.ErrorIs(t, err, domain.ErrReconstruction)

	bad := append([]domain.AttributeValue(nil), values...)
	bad[0].Name = "zero"
	_, err = c.Reconstruct(domain.FileTypePlainText, bad, attrs)
	assert.ErrorIs(t, err, domain.ErrReconstruction)
}

func TestReconstruct_ChunkChainBroken(t *testing.T) {
	c := New(WithChunkSize(2))
	attrs, values, err := c.Process(domain.FileTypePlainText, []byte("abcdef"), "pid")
	require.NoError(t, err)

	attrs[2].PreviousAttributeID = attrs[0].AttributeID
	_, err = c.Reconstruct(domain.FileTypePlainText, values, attrs)
	assert.ErrorIs(t, err, domain.ErrReconstruction)
}

func TestRoundTrip_OpaqueBinary(t *testing.T) {
	c := New(WithChunkSize(16))
	raw := make([]byte, 300)
	for i := range raw {
		raw[i] = byte(i * 7)
	}

	attrs, values, err := c.Process(domain.FileTypeOpaqueBinary, raw, "pid")
	require.NoError(t, err)
	assert.Greater(t, len(attrs), 1)

	got, err := c.Reconstruct(domain.FileTypeOpaqueBinary, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	file, err := c.ReconstructFile(domain.FileTypeOpaqueBinary, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, raw, file)
}

// ==================== Serialized objects ====================

func TestRoundTrip_SerializedObject(t *testing.T) {
	c := New()
	payload, err := MarshalObject(map[string]any{"weights": []any{1, 2, 3}, "name": "model"})
	require.NoError(t, err)

	attrs, values, err := c.Process(domain.FileTypeSerializedObject, payload, "pid")
	require.NoError(t, err)
	require.Len(t, attrs, 1)
	require.Len(t, values, 1)
	assert.True(t, attrs[0].IsRoot())
	assert.Equal(t, domain.KindObject, values[0].Kind)

	file, err := c.ReconstructFile(domain.FileTypeSerializedObject, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, payload, file)

	got, err := c.Reconstruct(domain.FileTypeSerializedObject, values, attrs)
	require.NoError(t, err)
	obj, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "model", obj["name"])
}

func TestRoundTrip_SerializedObjectNonStringKeys(t *testing.T) {
	c := New()
	payload, err := MarshalObject(map[int]string{1: "a", 2: "b"})
	require.NoError(t, err)

	attrs, values, err := c.Process(domain.FileTypeSerializedObject, payload, "pid")
	require.NoError(t, err)

	file, err := c.ReconstructFile(domain.FileTypeSerializedObject, values, attrs)
	require.NoError(t, err)
	assert.Equal(t, payload, file)

	got, err := c.Reconstruct(domain.FileTypeSerializedObject, values, attrs)
	require.NoError(t, err)
	obj, ok := got.(map[any]any)
	require.True(t, ok, "got %T", got)
	assert.Len(t, obj, 2)
	assert.Equal(t, "a", obj[uint64(1)])
	assert.Equal(t, "b", obj[uint64(2)])
}

func TestProcess_SerializedObjectMalformed(t *testing.T) {
	c := New()
	_, _, err := c.Process(domain.FileTypeSerializedObject, []byte{0xff, 0x00}, "pid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconstruct_SerializedObjectMissingBlob(t *testing.T) {
	c := New()
	_, err := c.Reconstruct(domain.FileTypeSerializedObject, nil, nil)
	assert.ErrorIs(t, err, domain.ErrReconstruction)
}

// ==================== Dispatch ====================

func TestUnsupportedType(t *testing.T) {
	c := New()
	_, _, err := c.Process(domain.FileType("spreadsheet"), []byte("x"), "pid")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = c.Reconstruct(domain.FileType("spreadsheet"), nil, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = c.ReconstructFile(domain.FileType("spreadsheet"), nil, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	raw := []byte("a: 1\n")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	p, err := New().ProcessFile(path, "settings", "app settings")
	require.NoError(t, err)
	assert.Equal(t, ParameterID(raw), p.Parameter.ID)
	assert.Equal(t, "settings", p.Parameter.Name)
	assert.Equal(t, "app settings", p.Parameter.Description)
	assert.Equal(t, "settings.yaml", p.Parameter.SourceFileName)
	assert.Equal(t, domain.FileTypeStructuredText, p.Parameter.FileType)
	assert.Len(t, p.Attributes, 1)
}

func TestProcessFile_Missing(t *testing.T) {
	_, err := New().ProcessFile(filepath.Join(t.TempDir(), "nope.txt"), "nope", "")
	assert.Error(t, err)
}
