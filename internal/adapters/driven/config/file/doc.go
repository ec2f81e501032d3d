// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration in the data directory, addressed by
//     dotted keys such as "codec.chunk_size" and "connector.type"
package file
