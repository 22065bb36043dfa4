// Package storage defines the file-system abstraction used for the note file
// and the settings record.
package storage

// Provider reads and writes whole files addressed by OS path.
type Provider interface {
	// Read returns the full contents of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Exists reports whether path exists. Errors other than "not exist" are returned.
	Exists(path string) (bool, error)
}
