// Package conversion defines the per-layer conversions the themer applies to
// matched frames, together with the text-variable reference conversion.
package conversion

import (
	"context"

	"github.com/beevik/etree"
	"github.com/kataras/chili-themer/pkg/chili"
)

// Conversion rewrites frames of the layers it is bound to.
//
// A single Conversion may be attached to several themes; the frames it
// touches accumulate across all of them.
type Conversion interface {
	// Name is the display label used in derived frame names.
	Name() string
	// LayerTags are the substrings matched against case-folded layer names.
	LayerTags() []string
	// FrameTypes are the frame types selected for Convert, in order.
	FrameTypes() []string
	// Convert mutates frame. frameName is "{theme}-{Name()}".
	Convert(ctx context.Context, doc *chili.Document, frame *etree.Element, frameName string) error
	// FrameIDs returns the ids of every frame converted so far.
	FrameIDs() []string
}
