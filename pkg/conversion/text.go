package conversion

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"github.com/kataras/chili-themer/pkg/chili"
	"github.com/kataras/chili-themer/pkg/vartable"
)

// KindTextVariables is the registry kind of TextVariables.
const KindTextVariables = "text-variables"

const (
	defaultTextName       = "Text Variables"
	defaultTextNameLength = 8
)

// TextOptions configures a TextVariables conversion.
type TextOptions struct {
	Name       string   `mapstructure:"name"`
	FrameTypes []string `mapstructure:"frameTypes"`
	NameLength int      `mapstructure:"nameLength"` // leading frame id characters used as variable name
}

// TextVariables turns the text of matched frames into "%name%" placeholders.
// Frames with identical text share one variable; the scope of that sharing
// is the lifetime of the injected table.
type TextVariables struct {
	layerTags  []string
	frameTypes []string
	name       string
	nameLength int
	table      vartable.Table

	frameIDs []string
	declared []vartable.Variable
}

var _ Conversion = (*TextVariables)(nil)

// NewTextVariables returns a text-variable conversion matching layerTags.
// A nil table gets a fresh vartable.Memory, isolating this conversion.
func NewTextVariables(layerTags []string, table vartable.Table, opts TextOptions) *TextVariables {
	if table == nil {
		table = vartable.NewMemory()
	}
	if opts.Name == "" {
		opts.Name = defaultTextName
	}
	if len(opts.FrameTypes) == 0 {
		opts.FrameTypes = []string{"text"}
	}
	if opts.NameLength <= 0 {
		opts.NameLength = defaultTextNameLength
	}

	return &TextVariables{
		layerTags:  layerTags,
		frameTypes: opts.FrameTypes,
		name:       opts.Name,
		nameLength: opts.NameLength,
		table:      table,
	}
}

func (c *TextVariables) Name() string         { return c.name }
func (c *TextVariables) LayerTags() []string  { return c.layerTags }
func (c *TextVariables) FrameTypes() []string { return c.frameTypes }
func (c *TextVariables) FrameIDs() []string   { return c.frameIDs }

// Declared returns the variables this conversion added to documents.
func (c *TextVariables) Declared() []vartable.Variable {
	return c.declared
}

// Table returns the variable table in use.
func (c *TextVariables) Table() vartable.Table {
	return c.table
}

// Convert implements Conversion.
func (c *TextVariables) Convert(ctx context.Context, doc *chili.Document, frame *etree.Element, frameName string) error {
	id := frame.SelectAttrValue("id", "")
	if id == "" {
		return &MalformedFrameError{Reason: "frame has no id"}
	}

	c.frameIDs = append(c.frameIDs, id)

	chili.SetAttr(frame, "name", frameName)
	chili.SetAttr(frame, "tag", fmt.Sprintf("%s-%d", frameName, len(c.frameIDs)))
	chili.SetAttr(frame, "isVariable", "true")

	span := chili.TextSpan(frame)
	if span == nil {
		return &MalformedFrameError{FrameID: id, Reason: "no textFlow paragraph span"}
	}

	value := chili.InnerText(span)
	name, loaded, err := c.table.LoadOrStore(ctx, value, c.variableName(id))
	if err != nil {
		return fmt.Errorf("frame %q: %w", id, err)
	}

	chili.ReplaceText(span, "%"+name+"%")

	if !loaded {
		doc.AppendVariable(name, value)
		c.declared = append(c.declared, vartable.Variable{Value: value, Name: name})
	}

	return nil
}

func (c *TextVariables) variableName(frameID string) string {
	if len(frameID) <= c.nameLength {
		return frameID
	}
	return frameID[:c.nameLength]
}
