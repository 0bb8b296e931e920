// File path: internal/ncprog/block.go
package ncprog

import (
	"regexp"
	"strings"
)

var (
	gCodePattern = regexp.MustCompile(`G\d+\.?\d*`)
	mCodePattern = regexp.MustCompile(`M\d+`)
)

// Block is a single line of NC code with its extracted G and M words.
type Block struct {
	LineNumber int      `json:"line_number"`
	Content    string   `json:"content"`
	GCodes     []string `json:"g_codes,omitempty"`
	MCodes     []string `json:"m_codes,omitempty"`
	IsComment  bool     `json:"is_comment"`
}

// ParseBlock interprets one line of NC code. Comment lines, parenthesised or
// semicolon-prefixed, carry no extracted codes.
func ParseBlock(lineNumber int, content string) Block {
	content = strings.TrimSpace(content)
	block := Block{
		LineNumber: lineNumber,
		Content:    content,
		IsComment:  strings.HasPrefix(content, "(") || strings.HasPrefix(content, ";"),
	}
	if !block.IsComment {
		upper := strings.ToUpper(content)
		block.GCodes = gCodePattern.FindAllString(upper, -1)
		block.MCodes = mCodePattern.FindAllString(upper, -1)
	}
	return block
}

// Lines splits an NC program body into its lines, dropping outer whitespace.
func Lines(code string) []string {
	return strings.Split(strings.TrimSpace(code), "\n")
}

// ExtractProgramNumber returns the first program-number word (an "O" line)
// found in the code, or an empty string when the program carries none.
func ExtractProgramNumber(code string) string {
	for _, line := range Lines(code) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, programNumberMarker) {
			if fields := strings.Fields(trimmed); len(fields) > 0 {
				return fields[0]
			}
			return trimmed
		}
	}
	return ""
}
