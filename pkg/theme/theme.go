// Package theme classifies document layers into themes and dispatches the
// conversions bound to each theme over the matching frames.
package theme

import (
	"strings"

	"github.com/kataras/chili-themer/pkg/chili"
	"github.com/kataras/chili-themer/pkg/conversion"
)

// Theme is a named group of layers and the conversions bound to them.
type Theme struct {
	Name     string
	Bindings []*Binding // one per conversion, in attachment order
}

// Binding records which layers of a theme a conversion was matched against.
type Binding struct {
	Conversion conversion.Conversion
	LayerIDs   []string // document order, unique
}

// LayerID returns the most recently bound layer id.
func (b *Binding) LayerID() string {
	if len(b.LayerIDs) == 0 {
		return ""
	}
	return b.LayerIDs[len(b.LayerIDs)-1]
}

// Conversions returns the theme's conversions in attachment order.
func (t *Theme) Conversions() []conversion.Conversion {
	out := make([]conversion.Conversion, 0, len(t.Bindings))
	for _, b := range t.Bindings {
		out = append(out, b.Conversion)
	}
	return out
}

// bind attaches c for layerID. Attaching the same conversion again only
// records the extra layer.
func (t *Theme) bind(c conversion.Conversion, layerID string) {
	for _, b := range t.Bindings {
		if b.Conversion != c {
			continue
		}
		for _, id := range b.LayerIDs {
			if id == layerID {
				return
			}
		}
		b.LayerIDs = append(b.LayerIDs, layerID)
		return
	}
	t.Bindings = append(t.Bindings, &Binding{Conversion: c, LayerIDs: []string{layerID}})
}

// Classify assigns every layer to a theme and binds the conversions whose
// layer tags match it. The first returned theme is always the default theme,
// which receives the layers matching no theme tag.
//
// Every matching theme tag is applied in order, so the last one decides the
// layer's theme. A conversion binds on its first matching layer tag.
func Classify(layers []chili.Layer, defaultTheme string, themeTags []string, conversions []conversion.Conversion) []*Theme {
	themes := []*Theme{{Name: defaultTheme}}
	byName := map[string]*Theme{defaultTheme: themes[0]}

	for _, layer := range layers {
		layerName := normalize(layer.Name)
		current := themes[0]

		for _, tag := range themeTags {
			name, ok := NameFromLayer(layerName, normalize(tag))
			if !ok {
				continue
			}
			t, exists := byName[name]
			if !exists {
				t = &Theme{Name: name}
				byName[name] = t
				themes = append(themes, t)
			}
			current = t
		}

		for _, c := range conversions {
			for _, tag := range c.LayerTags() {
				if strings.Contains(layerName, normalize(tag)) {
					current.bind(c, layer.ID)
					break
				}
			}
		}
	}

	return themes
}

// NameFromLayer derives a theme name from a case-folded layer name: the
// trimmed text between the end of the first occurrence of tag and the next
// '/' (or the end of the name). ok is false when tag does not occur.
func NameFromLayer(layerName, tag string) (name string, ok bool) {
	start := strings.Index(layerName, tag)
	if start == -1 {
		return "", false
	}

	rest := layerName[start+len(tag):]
	if cut := strings.IndexByte(rest, '/'); cut != -1 {
		rest = rest[:cut]
	}
	return strings.TrimSpace(rest), true
}

func normalize(s string) string {
	return strings.ToLower(s)
}
