package chili

// Version is the current version of the chili-themer tool.
const Version = "0.1.0"

// Element and attribute names of a CHILI document that the themer reads or writes.
const (
	documentPath = "//document"
	layersPath   = "./layers/item"
	framesPath   = "//pages/item/frames/item"

	// SectionVariables holds the document's variable declarations.
	SectionVariables = "variables"
	// SectionPrivateData holds opaque, non-visual entries such as theme metadata.
	SectionPrivateData = "privateData"
	// ItemElement is the child element name used by every CHILI list section.
	ItemElement = "item"
	// TextFlowElement is the frame child that wraps the frame's text layout.
	TextFlowElement = "textFlow"
)

// Layer is a read-only view of a document layer.
type Layer struct {
	ID   string
	Name string
}

// Variable is a variable declaration appended to the document's variables section.
type Variable struct {
	ID    string
	Name  string
	Value string
}

// PrivateEntry is a single item of the document's privateData section.
type PrivateEntry struct {
	ID    string
	Tag   string
	Value string
}
