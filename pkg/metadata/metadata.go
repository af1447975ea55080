// Package metadata records the theme and conversion structure of a run as a
// JSON privateData entry of the document, and reads such entries back.
package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/kataras/chili-themer/pkg/chili"
	"github.com/kataras/chili-themer/pkg/theme"
)

// Tag is the privateData tag of theme entries.
const Tag = "themes"

// Theme is the serialized form of a theme.
type Theme struct {
	Name        string       `json:"name"`
	Conversions []Conversion `json:"conversions"`
}

// Conversion is the serialized form of a conversion bound to a theme.
// LayerFrameIDs lists every frame the conversion touched during the run,
// across all themes it is bound to.
type Conversion struct {
	LayerTags      []string `json:"layerTags"`
	LayerID        string   `json:"layerId"`
	LayerIDs       []string `json:"layerIds"`
	FrameTypes     []string `json:"frameTypes"`
	ConversionName string   `json:"conversionName"`
	LayerFrameIDs  []string `json:"layerFrameIds"`
}

// Entry is one decoded themes entry of a document.
type Entry struct {
	ID     string  `json:"id"`
	Themes []Theme `json:"themes"`
}

// FromThemes converts classified themes to their serialized form.
func FromThemes(themes []*theme.Theme) []Theme {
	out := make([]Theme, 0, len(themes))
	for _, t := range themes {
		mt := Theme{Name: t.Name, Conversions: make([]Conversion, 0, len(t.Bindings))}
		for _, b := range t.Bindings {
			c := b.Conversion
			mt.Conversions = append(mt.Conversions, Conversion{
				LayerTags:      nonNil(c.LayerTags()),
				LayerID:        b.LayerID(),
				LayerIDs:       nonNil(b.LayerIDs),
				FrameTypes:     nonNil(c.FrameTypes()),
				ConversionName: c.Name(),
				LayerFrameIDs:  nonNil(c.FrameIDs()),
			})
		}
		out = append(out, mt)
	}
	return out
}

// Encode serializes themes to the JSON stored in the document.
func Encode(themes []Theme) (string, error) {
	b, err := json.Marshal(themes)
	if err != nil {
		return "", fmt.Errorf("encode themes: %w", err)
	}
	return string(b), nil
}

// Decode parses a value produced by Encode.
func Decode(value string) ([]Theme, error) {
	var themes []Theme
	if err := json.Unmarshal([]byte(value), &themes); err != nil {
		return nil, fmt.Errorf("decode themes: %w", err)
	}
	return themes, nil
}

// Write appends a new themes entry to the document's privateData section and
// returns what it wrote. Earlier entries are kept.
func Write(themes []*theme.Theme, doc *chili.Document) (Entry, error) {
	records := FromThemes(themes)
	value, err := Encode(records)
	if err != nil {
		return Entry{}, err
	}

	id := doc.AppendPrivateData(Tag, value)
	return Entry{ID: id, Themes: records}, nil
}

// Read decodes every themes entry of the document, oldest first.
func Read(doc *chili.Document) ([]Entry, error) {
	var entries []Entry
	for _, pd := range doc.PrivateData(Tag) {
		themes, err := Decode(pd.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", pd.ID, err)
		}
		entries = append(entries, Entry{ID: pd.ID, Themes: themes})
	}
	return entries, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
