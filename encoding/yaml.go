package encoding

import (
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"

	"github.com/illuscio-dev/spanrender-go/mimetype"
)

// RegisterYAML registers an application/yaml encoder for T.
func RegisterYAML[T any](registry *Registry) {
	Register[T](registry, mimetype.YAML, func(value T) ([]byte, error) {
		encoded, err := yaml.Marshal(value)
		if err != nil {
			return nil, xerrors.Errorf("error encoding yaml content: %w", err)
		}
		return encoded, nil
	})
}
