package chili

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

// Document wraps a parsed CHILI document XML tree. It is mutated in place by
// conversions and the metadata writer and is not safe for concurrent use.
type Document struct {
	doc  *etree.Document
	root *etree.Element // the <document> element
}

// Load parses a CHILI document XML string.
// It returns a *ParseError if the XML is malformed or has no <document> element.
func Load(source string) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(source); err != nil {
		return nil, &ParseError{Err: err}
	}

	root := doc.FindElement(documentPath)
	if root == nil {
		return nil, &ParseError{Err: ErrNoDocument}
	}

	return &Document{doc: doc, root: root}, nil
}

// Serialize writes the (possibly mutated) tree back to XML.
func (d *Document) Serialize() (string, error) {
	return d.doc.WriteToString()
}

// Root returns the <document> element.
func (d *Document) Root() *etree.Element {
	return d.root
}

// Layers returns the document layers in document order.
func (d *Document) Layers() []Layer {
	items := d.root.FindElements(layersPath)
	layers := make([]Layer, 0, len(items))
	for _, item := range items {
		layers = append(layers, Layer{
			ID:   item.SelectAttrValue("id", ""),
			Name: item.SelectAttrValue("name", ""),
		})
	}
	return layers
}

// Frames returns, in document order, every page frame whose layer attribute
// is one of layerIDs and whose type attribute equals frameType.
func (d *Document) Frames(layerIDs []string, frameType string) []*etree.Element {
	if len(layerIDs) == 0 {
		return nil
	}

	wanted := make(map[string]bool, len(layerIDs))
	for _, id := range layerIDs {
		wanted[id] = true
	}

	var frames []*etree.Element
	for _, frame := range d.doc.FindElements(framesPath) {
		if frame.SelectAttrValue("type", "") != frameType {
			continue
		}
		if !wanted[frame.SelectAttrValue("layer", "")] {
			continue
		}
		frames = append(frames, frame)
	}
	return frames
}

// Section returns the named direct child section of <document>, creating
// and appending it when it does not exist yet.
func (d *Document) Section(name string) *etree.Element {
	if section := d.root.SelectElement(name); section != nil {
		return section
	}
	return d.root.CreateElement(name)
}

// AppendVariable adds a variable declaration to the variables section and returns its id.
func (d *Document) AppendVariable(name, value string) string {
	item := d.Section(SectionVariables).CreateElement(ItemElement)
	id := NewID()
	item.CreateAttr("id", id)
	item.CreateAttr("name", name)
	item.CreateAttr("displayName", name)
	item.CreateAttr("value", value)
	item.CreateAttr("displayValue", value)
	return id
}

// Variables returns the variable declarations of the document.
func (d *Document) Variables() []Variable {
	section := d.root.SelectElement(SectionVariables)
	if section == nil {
		return nil
	}

	var vars []Variable
	for _, item := range section.SelectElements(ItemElement) {
		vars = append(vars, Variable{
			ID:    item.SelectAttrValue("id", ""),
			Name:  item.SelectAttrValue("name", ""),
			Value: item.SelectAttrValue("value", ""),
		})
	}
	return vars
}

// AppendPrivateData adds a new privateData entry and returns its id.
// Existing entries with the same tag are left untouched.
func (d *Document) AppendPrivateData(tag, value string) string {
	item := d.Section(SectionPrivateData).CreateElement(ItemElement)
	id := NewID()
	item.CreateAttr("tag", tag)
	item.CreateAttr("id", id)
	item.CreateAttr("value", value)
	return id
}

// PrivateData returns the privateData entries carrying the given tag, oldest first.
func (d *Document) PrivateData(tag string) []PrivateEntry {
	section := d.root.SelectElement(SectionPrivateData)
	if section == nil {
		return nil
	}

	var entries []PrivateEntry
	for _, item := range section.SelectElements(ItemElement) {
		if item.SelectAttrValue("tag", "") != tag {
			continue
		}
		entries = append(entries, PrivateEntry{
			ID:    item.SelectAttrValue("id", ""),
			Tag:   tag,
			Value: item.SelectAttrValue("value", ""),
		})
	}
	return entries
}

// NewID returns a fresh unique identifier in the GUID form CHILI uses.
func NewID() string {
	return uuid.NewString()
}

// SetAttr sets the attribute on el, creating it when absent.
func SetAttr(el *etree.Element, key, value string) {
	el.CreateAttr(key, value)
}

// TextSpan descends the fixed textFlow path of a text frame:
// textFlow, its flow root, the first paragraph, and that paragraph's first span.
// It returns nil if any step is missing.
func TextSpan(frame *etree.Element) *etree.Element {
	flow := frame.SelectElement(TextFlowElement)
	if flow == nil {
		return nil
	}

	el := flow
	for i := 0; i < 3; i++ {
		children := el.ChildElements()
		if len(children) == 0 {
			return nil
		}
		el = children[0]
	}
	return el
}

// InnerText concatenates the character data of el and all of its
// descendants in document order, so "Price: <b>5</b> EUR" reads as
// "Price: 5 EUR".
func InnerText(el *etree.Element) string {
	var b strings.Builder
	writeText(&b, el)
	return b.String()
}

func writeText(b *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			b.WriteString(t.Data)
		case *etree.Element:
			writeText(b, t)
		}
	}
}

// ReplaceText drops every child of el and leaves text as its only content.
func ReplaceText(el *etree.Element, text string) {
	for _, child := range append([]etree.Token(nil), el.Child...) {
		el.RemoveChild(child)
	}
	el.SetText(text)
}
