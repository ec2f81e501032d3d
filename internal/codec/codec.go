package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/paramframe/internal/core/domain"
	"github.com/custodia-labs/paramframe/internal/digest"
)

// ObjectExtension is the file extension classified as serialized-object.
const ObjectExtension = ".cbor"

// Codec converts file content to and from attribute rows.
// A Codec holds only configuration and is safe for concurrent use.
type Codec struct {
	chunkSize int
	maxDepth  int
}

// Option configures the codec.
type Option func(*Codec)

// WithChunkSize sets the number of units per chunk for chunked content.
func WithChunkSize(size int) Option {
	return func(c *Codec) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithMaxDepth bounds the nesting depth of structured content.
func WithMaxDepth(depth int) Option {
	return func(c *Codec) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// New creates a codec with the given options.
func New(opts ...Option) *Codec {
	c := &Codec{
		chunkSize: domain.DefaultChunkSize,
		maxDepth:  domain.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChunkSize returns the configured chunk size.
func (c *Codec) ChunkSize() int {
	return c.chunkSize
}

// DetermineFileType classifies a path by its extension.
// Unknown extensions are opaque-binary; classification never fails.
func DetermineFileType(path string) domain.FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return domain.FileTypeStructuredText
	case ".txt":
		return domain.FileTypePlainText
	case ObjectExtension:
		return domain.FileTypeSerializedObject
	default:
		return domain.FileTypeOpaqueBinary
	}
}

// ParameterID returns the identifier of raw file content.
func ParameterID(raw []byte) string {
	return digest.Of(raw)
}

// ProcessFile reads path and encodes it into a processed parameter.
func (c *Codec) ProcessFile(path, name, description string) (*domain.ProcessedParameter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	ft := DetermineFileType(path)
	param := domain.Parameter{
		ID:             ParameterID(raw),
		Name:           name,
		Description:    description,
		SourceFileName: filepath.Base(path),
		FileType:       ft,
	}
	attrs, values, err := c.Process(ft, raw, param.ID)
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", path, err)
	}
	return &domain.ProcessedParameter{
		Parameter:  param,
		Attributes: attrs,
		Values:     values,
	}, nil
}

// Process decomposes raw content of the given type into link rows and value rows.
func (c *Codec) Process(
	ft domain.FileType,
	raw []byte,
	parameterID string,
) ([]domain.ParameterAttribute, []domain.AttributeValue, error) {
	switch ft {
	case domain.FileTypeStructuredText:
		return c.encodeStructured(raw, parameterID)
	case domain.FileTypePlainText:
		if !utf8.Valid(raw) {
			return nil, nil, fmt.Errorf("%w: plain-text content is not valid UTF-8", domain.ErrInvalidInput)
		}
		attrs, values := c.encodeChunks(string(raw), parameterID)
		return attrs, values, nil
	case domain.FileTypeOpaqueBinary:
		attrs, values := c.encodeChunks(encodeBinary(raw), parameterID)
		return attrs, values, nil
	case domain.FileTypeSerializedObject:
		return encodeObject(raw, parameterID)
	default:
		return nil, nil, fmt.Errorf("%w: file type %q", domain.ErrUnsupportedType, ft)
	}
}

// Reconstruct rebuilds loaded content from rows.
//
// The result is map[string]any for structured-text, string for plain-text,
// []byte for opaque-binary and the decoded CBOR value for serialized-object.
func (c *Codec) Reconstruct(
	ft domain.FileType,
	values []domain.AttributeValue,
	links []domain.ParameterAttribute,
) (any, error) {
	switch ft {
	case domain.FileTypeStructuredText:
		return c.decodeStructured(values, links)
	case domain.FileTypePlainText:
		return decodeChunks(values, links)
	case domain.FileTypeOpaqueBinary:
		text, err := decodeChunks(values, links)
		if err != nil {
			return nil, err
		}
		return decodeBinary(text)
	case domain.FileTypeSerializedObject:
		payload, err := objectPayload(values)
		if err != nil {
			return nil, err
		}
		return decodeObject(payload)
	default:
		return nil, fmt.Errorf("%w: file type %q", domain.ErrUnsupportedType, ft)
	}
}

// ReconstructFile rebuilds file bytes from rows.
// Plain-text, binary and object content come back byte for byte;
// structured-text is re-rendered as YAML and is value-equal to the input.
func (c *Codec) ReconstructFile(
	ft domain.FileType,
	values []domain.AttributeValue,
	links []domain.ParameterAttribute,
) ([]byte, error) {
	switch ft {
	case domain.FileTypeStructuredText:
		content, err := c.decodeStructured(values, links)
		if err != nil {
			return nil, err
		}
		return renderStructured(content)
	case domain.FileTypePlainText:
		text, err := decodeChunks(values, links)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case domain.FileTypeOpaqueBinary:
		text, err := decodeChunks(values, links)
		if err != nil {
			return nil, err
		}
		return decodeBinary(text)
	case domain.FileTypeSerializedObject:
		return objectPayload(values)
	default:
		return nil, fmt.Errorf("%w: file type %q", domain.ErrUnsupportedType, ft)
	}
}
