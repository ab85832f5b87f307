// SPDX-License-Identifier: MPL-2.0

package inject

import (
	"regexp"
	"strings"
)

const (
	startLabel = "[START INJECTION]"
	endLabel   = "[END INJECTION]"
)

var (
	lineComment    = commentSyntax{start: "//"}
	hashComment    = commentSyntax{start: "#"}
	htmlComment    = commentSyntax{start: "<!--", end: "-->"}
	blockComment   = commentSyntax{start: "/*", end: "*/"}
	commentsByType = map[string]commentSyntax{
		"scss": lineComment,
		"css":  lineComment,
		"ts":   lineComment,
		"tsx":  lineComment,
		"js":   lineComment,
		"jsx":  lineComment,
		"html": htmlComment,
		"htm":  htmlComment,
		"yaml": hashComment,
		"yml":  hashComment,
		"toml": hashComment,
	}
)

// commentSyntax is the comment form used for markers in one file type. end
// is empty for line comments.
type commentSyntax struct {
	start string
	end   string
}

// commentSyntaxFor returns the marker comment form for a file extension
// without its dot. Unknown extensions use block comments.
func commentSyntaxFor(ext string) commentSyntax {
	if c, ok := commentsByType[strings.ToLower(ext)]; ok {
		return c
	}
	return blockComment
}

// markerPattern matches the injection region: either a previously spliced
// START...END block or a single sentinel comment line, plus any blank lines
// directly around it.
func markerPattern(c commentSyntax, sentinel string) *regexp.Regexp {
	start := regexp.QuoteMeta(c.start)
	sent := regexp.QuoteMeta(sentinel)

	block := `^[ \t]*` + start + `[ \t]*` + regexp.QuoteMeta(startLabel) + `[^\n]*?` + sent + `[^\n]*\n` +
		`(?s:.*?)` +
		`^[ \t]*` + start + `[ \t]*` + regexp.QuoteMeta(endLabel) + `[^\n]*?` + sent + `[^\n]*`
	line := `^[ \t]*` + start + `[^\n]*?` + sent + `[^\n]*`

	return regexp.MustCompile(`(?im)(?:^[ \t\r]*\n)*(?:` + block + `|` + line + `)(?:\n|\z)(?:[ \t\r]*\n)*`)
}

// markerLine renders one bracketing line of an injected block.
func (c commentSyntax) markerLine(label, sentinel string) string {
	return c.start + " " + label + ": " + sentinel + ":" + c.end
}

// splice replaces the first marker region in text with content bracketed by
// START and END marker lines. It reports whether a marker was found; content
// is only called when one was.
func splice(text string, c commentSyntax, sentinel string, content func() (string, error)) (string, bool, error) {
	loc := markerPattern(c, sentinel).FindStringIndex(text)
	if loc == nil {
		return text, false, nil
	}

	body, err := content()
	if err != nil {
		return "", true, err
	}

	var sb strings.Builder
	sb.Grow(len(text) + len(body) + 128)
	sb.WriteString(text[:loc[0]])
	sb.WriteString("\n")
	sb.WriteString(c.markerLine(startLabel, sentinel))
	sb.WriteString("\n\n")
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(c.markerLine(endLabel, sentinel))
	sb.WriteString("\n\n")
	sb.WriteString(text[loc[1]:])
	return sb.String(), true, nil
}
