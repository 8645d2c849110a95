package scene

import (
	"bytes"
	"context"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tether/pkg/errors"
)

// Load reads and validates a scene file. DOT files are laid out with
// Graphviz first (see [ImportDOT]).
func Load(ctx context.Context, path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "scene file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	if format == FormatDOT {
		return ImportDOT(ctx, data)
	}
	return Parse(data, format)
}

// Parse decodes and validates a TOML or JSON scene.
func Parse(data []byte, format Format) (*Scene, error) {
	var s Scene
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse TOML scene")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse JSON scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported scene format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Marshal encodes the scene.
func (s *Scene) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode TOML scene")
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode JSON scene")
		}
		return append(data, '\n'), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot write scenes as %q", format)
	}
}
