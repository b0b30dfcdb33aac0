package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/omarchive/pkg/core"
)

// Serializer defines how to read and write a specific archive file format.
type Serializer interface {
	// Decode reads an archive from r.
	Decode(r io.Reader) (*core.Archive, error)
	// Encode converts the archive to bytes.
	Encode(archive *core.Archive) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers, keyed by file
// extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer("  "),
		".yaml": NewYAMLSerializer(2),
		".yml":  NewYAMLSerializer(2),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON archives.
type JSONSerializer struct {
	// Indent is used per nesting level. Empty produces compact output.
	Indent string
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(indent string) *JSONSerializer {
	return &JSONSerializer{Indent: indent}
}

func (s *JSONSerializer) Decode(r io.Reader) (*core.Archive, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var archive core.Archive
	if err := dec.Decode(&archive); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return &archive, nil
}

func (s *JSONSerializer) Encode(archive *core.Archive) ([]byte, error) {
	if s.Indent == "" {
		return json.Marshal(archive)
	}
	return json.MarshalIndent(archive, "", s.Indent)
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML archives.
type YAMLSerializer struct {
	Indent int
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(indent int) *YAMLSerializer {
	return &YAMLSerializer{Indent: indent}
}

func (s *YAMLSerializer) Decode(r io.Reader) (*core.Archive, error) {
	var archive core.Archive
	if err := yaml.NewDecoder(r).Decode(&archive); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return &archive, nil
}

func (s *YAMLSerializer) Encode(archive *core.Archive) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if s.Indent > 0 {
		enc.SetIndent(s.Indent)
	}
	if err := enc.Encode(archive); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
