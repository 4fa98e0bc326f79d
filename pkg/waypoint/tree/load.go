package tree

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DecodeTOML reads a TOML definition. Keys that do not map to a field are
// reported as errors.
func DecodeTOML(r io.Reader) (*Definition, error) {
	var def Definition
	md, err := toml.NewDecoder(r).Decode(&def)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tree definition: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("failed to parse tree definition: unknown keys %s", strings.Join(keys, ", "))
	}
	return &def, nil
}

// DecodeYAML reads a YAML definition. Unknown fields are reported as errors.
func DecodeYAML(r io.Reader) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTree
		}
		return nil, fmt.Errorf("failed to parse tree definition: %w", err)
	}
	return &def, nil
}

// Load reads a definition file, choosing the format by extension
// (.toml, .yaml or .yml).
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree definition: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return DecodeTOML(bytes.NewReader(data))
	case ".yaml", ".yml":
		return DecodeYAML(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadAndBuild loads the definition at path and builds it against reg.
func LoadAndBuild(path string, reg Registry) (*Tree, error) {
	def, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Build(def, reg)
}
