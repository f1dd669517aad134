package render

import "errors"

var (
	// ErrNilDocument is returned when Render gets no document.
	ErrNilDocument = errors.New("nil document")

	// ErrRenderFailed is returned when the PDF backend fails to produce output.
	ErrRenderFailed = errors.New("pdf rendering failed")
)
