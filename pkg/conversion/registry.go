package conversion

import (
	"fmt"
	"sort"

	"github.com/kataras/chili-themer/pkg/vartable"
	"github.com/mitchellh/mapstructure"
)

// Factory builds a conversion of one kind from its layer tags and free-form options.
type Factory func(layerTags []string, options map[string]any, table vartable.Table) (Conversion, error)

var factories = map[string]Factory{
	KindTextVariables: newTextVariablesFromOptions,
}

// Register adds or replaces the factory of a conversion kind.
// It is meant to be called from init functions.
func Register(kind string, factory Factory) {
	factories[kind] = factory
}

// Kinds returns the registered conversion kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for kind := range factories {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// New builds a conversion of the given kind.
func New(kind string, layerTags []string, options map[string]any, table vartable.Table) (Conversion, error) {
	factory, ok := factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return factory(layerTags, options, table)
}

func newTextVariablesFromOptions(layerTags []string, options map[string]any, table vartable.Table) (Conversion, error) {
	var opts TextOptions
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("decode %s options: %w", KindTextVariables, err)
	}
	return NewTextVariables(layerTags, table, opts), nil
}
