package chilithemer

import (
	"context"
	"fmt"
	"strings"

	"github.com/kataras/chili-themer/pkg/chili"
	"github.com/kataras/chili-themer/pkg/conversion"
	"github.com/kataras/chili-themer/pkg/metadata"
	"github.com/kataras/chili-themer/pkg/theme"
	"github.com/kataras/chili-themer/pkg/vartable"
)

// Options configures a run over one document.
type Options struct {
	Document     string   // CHILI document XML
	DefaultTheme string   // name of the theme receiving untagged layers
	ThemeTags    []string // empty = every layer goes to the default theme
	// Conversions are applied to matching layers. Their state (touched
	// frames, variable tables) persists after the run; build new
	// instances per document unless sharing is intended.
	Conversions []conversion.Conversion
	Logger      Logger // nil = no logging
}

// Logger receives progress messages. A nil Logger means silent operation.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Result contains the run output.
type Result struct {
	XML        string              // the transformed document
	MetadataID string              // id of the privateData entry written
	Themes     []metadata.Theme    // what was written to privateData
	Variables  []vartable.Variable // variables declared in this document
}

// ArgumentError reports a missing required input.
type ArgumentError struct {
	Name string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q is required", e.Name)
}

func (o *Options) logInfo(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Infof(f, a...)
	}
}

func (o *Options) logWarn(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Warnf(f, a...)
	}
}

func (o *Options) logError(f string, a ...any) {
	if o.Logger != nil {
		o.Logger.Errorf(f, a...)
	}
}

// Run classifies the document's layers into themes, applies the conversions
// and records the theme structure in the document's privateData.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Document == "" {
		return nil, &ArgumentError{Name: "document"}
	}
	if opts.DefaultTheme == "" {
		return nil, &ArgumentError{Name: "default theme"}
	}

	opts.logInfo("Parsing document...")
	doc, err := chili.Load(opts.Document)
	if err != nil {
		opts.logError("%v", err)
		return nil, err
	}
	before := len(doc.Variables())

	layers := doc.Layers()
	opts.logInfo("Found %d layer(s)", len(layers))
	if len(opts.Conversions) == 0 {
		opts.logWarn("No conversions configured, only theme metadata will be written")
	}

	opts.logInfo("Classifying layers into themes...")
	themes := theme.Classify(layers, opts.DefaultTheme, opts.ThemeTags, opts.Conversions)
	for _, t := range themes {
		opts.logInfo("Theme %q: %d conversion(s)", t.Name, len(t.Bindings))
	}

	opts.logInfo("Applying conversions...")
	if err := theme.Apply(ctx, themes, doc); err != nil {
		opts.logError("%v", err)
		return nil, fmt.Errorf("apply conversions: %w", err)
	}

	opts.logInfo("Writing theme metadata...")
	entry, err := metadata.Write(themes, doc)
	if err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}

	out, err := doc.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}

	var declared []vartable.Variable
	for _, v := range doc.Variables()[before:] {
		declared = append(declared, vartable.Variable{Value: v.Value, Name: v.Name})
	}
	opts.logInfo("Declared %d variable(s)", len(declared))

	return &Result{
		XML:        out,
		MetadataID: entry.ID,
		Themes:     entry.Themes,
		Variables:  declared,
	}, nil
}

// Inspect returns every theme metadata entry recorded in a document, oldest first.
func Inspect(source string) ([]metadata.Entry, error) {
	if source == "" {
		return nil, &ArgumentError{Name: "document"}
	}

	doc, err := chili.Load(source)
	if err != nil {
		return nil, err
	}
	return metadata.Read(doc)
}

// ParseTags parses a comma-separated list of tags, dropping empty entries.
func ParseTags(tagsStr string) []string {
	parts := strings.Split(tagsStr, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
