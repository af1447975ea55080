// Package chilithemer turns a CHILI publisher document into a themed
// template: it groups the document's layers into named themes, applies
// per-layer conversions to the frames of those layers (such as turning
// static text into shared variables), and records the resulting theme
// structure as a privateData entry of the document.
//
// The CLI lives in cmd/chili-themer; this root package exposes the same
// pipeline as a Go API so that callers can embed it in their own tools.
//
// # Import
//
// The module path contains a hyphen but Go package names cannot, so the
// package is named chilithemer:
//
//	import "github.com/kataras/chili-themer" // package chilithemer
//
// # Quick start
//
//	text := conversion.NewTextVariables([]string{"text"}, nil, conversion.TextOptions{})
//	result, err := chilithemer.Run(ctx, chilithemer.Options{
//	    Document:     xml,
//	    DefaultTheme: "base",
//	    ThemeTags:    []string{"theme:"},
//	    Conversions:  []conversion.Conversion{text},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("themed.xml", []byte(result.XML), 0644)
//
// # Themes
//
// Layer names are matched case-insensitively. A layer named
// "Theme: Blue/Text" with the theme tag "theme:" belongs to the theme
// "blue": the text between the tag and the next '/' is the theme name.
// When several tags match, the last one wins. Layers matching no tag
// belong to the default theme.
//
// # Variables
//
// The text-variable conversion replaces a frame's text with "%name%" and
// declares the variable in the document. Frames with identical text share
// a variable. Pass the same [vartable.Table] to several conversions to
// share variables across documents, or nil to keep each one isolated.
//
// # Logging
//
// Pass a [Logger] implementation in [Options.Logger] to receive progress
// messages. A nil Logger silences all output.
package chilithemer
