package theme

import (
	"context"
	"fmt"

	"github.com/kataras/chili-themer/pkg/chili"
)

// Apply runs every bound conversion over the frames of its layers, theme by
// theme, binding by binding and frame type by frame type. The first
// conversion error aborts the run.
func Apply(ctx context.Context, themes []*Theme, doc *chili.Document) error {
	for _, t := range themes {
		for _, b := range t.Bindings {
			frameName := FrameName(t.Name, b.Conversion.Name())
			for _, frameType := range b.Conversion.FrameTypes() {
				for _, frame := range doc.Frames(b.LayerIDs, frameType) {
					if err := b.Conversion.Convert(ctx, doc, frame, frameName); err != nil {
						return fmt.Errorf("theme %q: %s: %w", t.Name, b.Conversion.Name(), err)
					}
				}
			}
		}
	}
	return nil
}

// FrameName is the name given to frames converted for a theme.
func FrameName(themeName, conversionName string) string {
	return themeName + "-" + conversionName
}
