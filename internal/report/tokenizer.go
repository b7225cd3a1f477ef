package report

import (
	"regexp"
	"strings"
)

var (
	// Column separator glyphs the OCR engine emits between table cells.
	separatorPattern  = regexp.MustCompile(`[|/•·—–_()\[\]{}]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Tokenize flattens raw OCR text into whitespace-delimited tokens.
//
// Scanned tables rarely survive OCR with their cells on one line, so column
// separator glyphs are turned into token boundaries and the rest of the
// structure is abandoned: the output is a flat sequence in approximate
// reading order, and row recovery is left to the assembler. Empty input
// yields no tokens.
func Tokenize(text string) []string {
	cleaned := separatorPattern.ReplaceAllString(text, " ")
	cleaned = strings.TrimSpace(whitespacePattern.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, " ")
}
