package domain

// FileType classifies a parameter file and selects the codec path.
type FileType string

// Supported file types.
const (
	// FileTypeStructuredText is a YAML document decomposed into a node tree.
	FileTypeStructuredText FileType = "structured-text"

	// FileTypePlainText is text split into a chain of fixed-size chunks.
	FileTypePlainText FileType = "plain-text"

	// FileTypeSerializedObject is a CBOR payload stored as a single blob.
	FileTypeSerializedObject FileType = "serialized-object"

	// FileTypeOpaqueBinary is arbitrary bytes, encoded to text and chunked.
	FileTypeOpaqueBinary FileType = "opaque-binary"
)

// IsValid returns true if the file type is recognised.
func (t FileType) IsValid() bool {
	switch t {
	case FileTypeStructuredText, FileTypePlainText, FileTypeSerializedObject, FileTypeOpaqueBinary:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t FileType) String() string {
	return string(t)
}

// ValueKind tags the payload carried by an attribute node.
// The kind is decided when content is encoded and stored alongside the
// value, so decoding never has to guess a type from the payload.
type ValueKind string

// Attribute value kinds.
const (
	KindString ValueKind = "string"
	KindInt    ValueKind = "int"
	KindFloat  ValueKind = "float"
	KindBool   ValueKind = "bool"
	KindNull   ValueKind = "null"
	KindList   ValueKind = "list"
	KindDict   ValueKind = "dict"
	KindChunk  ValueKind = "chunk"
	KindObject ValueKind = "object"
)

// IsScalar returns true for leaf kinds of structured content.
func (k ValueKind) IsScalar() bool {
	switch k {
	case KindString, KindInt, KindFloat, KindBool, KindNull:
		return true
	default:
		return false
	}
}

// IsContainer returns true for list and dict kinds.
func (k ValueKind) IsContainer() bool {
	return k == KindList || k == KindDict
}

// Parameter is one processed file.
// Parameters are immutable; reprocessing a file yields a new Parameter.
type Parameter struct {
	// ID is the content hash of the file bytes.
	ID string

	// Name is the caller-supplied logical name.
	Name string

	// Description is free text supplied by the caller.
	Description string

	// SourceFileName is the base name of the file the parameter came from.
	// Reconstruction writes the file back under this name.
	SourceFileName string

	// FileType selects the codec path.
	FileType FileType
}

// ParameterAttribute links an attribute node to its parameter and parent.
// An empty PreviousAttributeID marks a root node.
type ParameterAttribute struct {
	ParameterID         string
	AttributeID         string
	PreviousAttributeID string
}

// IsRoot returns true if the node has no parent.
func (a ParameterAttribute) IsRoot() bool {
	return a.PreviousAttributeID == ""
}

// AttributeValue is the payload of one attribute node.
type AttributeValue struct {
	// AttributeID is the content hash identifying the node.
	AttributeID string

	// Name is the mapping key, sequence index or chunk ordinal.
	Name string

	// Value is the string-encoded payload.
	Value string

	// Kind tags how Value is decoded.
	Kind ValueKind
}

// ProcessedParameter is a parameter together with its codec output.
type ProcessedParameter struct {
	Parameter  Parameter
	Attributes []ParameterAttribute
	Values     []AttributeValue
}

// ParameterSet is a named, ordered, content-addressed group of parameters.
type ParameterSet struct {
	// ID is the digest of the member parameter ids concatenated in order.
	ID string

	Name        string
	Description string

	// ParameterIDs lists members in the order they were supplied.
	ParameterIDs []string
}
