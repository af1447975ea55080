package chili

import (
	"errors"
	"fmt"
)

// ErrNoDocument is reported when the XML has no <document> element.
var ErrNoDocument = errors.New("no document element")

// ParseError is returned by Load when the input cannot be read as a CHILI document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse document: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
