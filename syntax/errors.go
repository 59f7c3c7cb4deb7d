package syntax

import (
	"fmt"
	"strings"
)

// ErrorHandler renders parse-style diagnostics against a source buffer:
// a byte range is converted to a line/column location with a caret,
// exactly the role piston_meta's ParseErrorHandler plays for lib.rs.
type ErrorHandler struct {
	source string
}

// NewErrorHandler builds a handler pinned to source.
func NewErrorHandler(source string) *ErrorHandler { return &ErrorHandler{source: source} }

// WriteMsg renders msg pointing at rng within the handler's source.
func (h *ErrorHandler) WriteMsg(rng Range, msg string) string {
	return pointerAt(h.source, rng) + "\n" + msg
}

// pointerAt renders a single-line, caret-pointed location string for rng
// within src: "<line>:<col>\n<source line>\n<spaces>^".
func pointerAt(src string, rng Range) string {
	offset := rng.Offset
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			line++
			col = 1
			lineStart = i + 1
		} else {
			col++
		}
	}
	lineEnd := strings.IndexByte(src[lineStart:], '\n')
	var lineText string
	if lineEnd < 0 {
		lineText = src[lineStart:]
	} else {
		lineText = src[lineStart : lineStart+lineEnd]
	}
	caret := strings.Repeat(" ", col-1) + "^"
	return fmt.Sprintf("%d:%d\n%s\n%s", line, col, lineText, caret)
}
