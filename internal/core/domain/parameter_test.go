package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		fileType FileType
		expected bool
	}{
		{"structured", FileTypeStructuredText, true},
		{"plain", FileTypePlainText, true},
		{"object", FileTypeSerializedObject, true},
		{"binary", FileTypeOpaqueBinary, true},
		{"unknown", FileType("spreadsheet"), false},
		{"empty", FileType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.fileType.IsValid())
		})
	}
}

func TestValueKind(t *testing.T) {
	for _, k := range []ValueKind{KindString, KindInt, KindFloat, KindBool, KindNull} {
		assert.True(t, k.IsScalar(), k)
		assert.False(t, k.IsContainer(), k)
	}
	for _, k := range []ValueKind{KindList, KindDict} {
		assert.True(t, k.IsContainer(), k)
		assert.False(t, k.IsScalar(), k)
	}
	assert.False(t, KindChunk.IsScalar())
	assert.False(t, KindObject.IsContainer())
}

func TestParameterAttribute_IsRoot(t *testing.T) {
	assert.True(t, ParameterAttribute{AttributeID: "a"}.IsRoot())
	assert.False(t, ParameterAttribute{AttributeID: "b", PreviousAttributeID: "a"}.IsRoot())
}

func TestParameterRecord(t *testing.T) {
	p := Parameter{ID: "id", Name: "config", Description: "d", SourceFileName: "config.yaml", FileType: FileTypeStructuredText}
	assert.Equal(t, p, ParameterFromRecord(ParameterRecord(p)))

	a := ParameterAttribute{ParameterID: "id", AttributeID: "a", PreviousAttributeID: "root"}
	assert.Equal(t, a, AttributeFromRecord(AttributeRecord(a)))

	v := AttributeValue{AttributeID: "a", Name: "key", Value: "1", Kind: KindInt}
	assert.Equal(t, v, ValueFromRecord(ValueRecord(v)))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, DefaultChunkSize, s.Codec.ChunkSize)
	assert.Equal(t, DefaultMaxDepth, s.Codec.MaxDepth)
	assert.Equal(t, ConnectorSQLite, s.Connector.Type)
	assert.Empty(t, s.Connector.Path)
	assert.True(t, s.Connector.Type.IsValid())
	assert.False(t, ConnectorType("postgres").IsValid())
}
