// Package codec maps file content to flat, content-addressed attribute
// rows and back.
//
// Each file type has its own shape:
//
//   - structured-text (.yml, .yaml): a forest of nodes, one per mapping
//     key or sequence element, parented to the enclosing key
//   - plain-text (.txt): a linear chain of fixed-size chunks; must be UTF-8
//   - opaque-binary (anything else): base64 text, chunked like plain-text
//   - serialized-object (.cbor): a single blob node holding the payload
//
// Node ids are digests of the owning parameter id, the parent id, the
// node name and its value, so identical subtrees under different parents
// never share an id.
package codec
