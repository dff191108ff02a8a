package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/naga/ir"
)

// naga reports parse errors as "line N, column M: msg" and lowering errors
// as "N:M: msg", optionally followed by "(and K more errors)".
var (
	parsePos = regexp.MustCompile(`line (\d+), column (\d+): (.*)$`)
	lowerPos = regexp.MustCompile(`^(\d+):(\d+): (.*?)(?: \(and \d+ more errors\))?$`)
)

// formatError renders a naga front-end error as "file:line:col: error: msg"
// followed by the offending source line. shift is the number of bytes
// prepended to line 1 by define injection.
func formatError(src *source, shift int, err error) string {
	var sb strings.Builder
	line, col, msg, ok := errorPosition(err.Error())
	if ok {
		writeLocated(&sb, src, shift, line, col, msg)
		return sb.String()
	}
	file := ""
	if len(src.lines) > 0 {
		file = src.lines[0].file
	}
	fmt.Fprintf(&sb, "%s: error: %v", file, err)
	return sb.String()
}

// errorPosition extracts the 1-based position and message from a naga
// error text.
func errorPosition(text string) (line, col int, msg string, ok bool) {
	m := parsePos.FindStringSubmatch(text)
	if m == nil {
		m = lowerPos.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, 0, "", false
	}
	line, _ = strconv.Atoi(m[1])
	col, _ = strconv.Atoi(m[2])
	if line < 1 {
		return 0, 0, "", false
	}
	return line, col, m[3], true
}

func writeLocated(sb *strings.Builder, src *source, shift, line, col int, msg string) {
	at := src.locate(line)
	if at.file == "" {
		if len(src.lines) > 0 {
			fmt.Fprintf(sb, "%s: ", src.lines[0].file)
		}
		fmt.Fprintf(sb, "error: %s", msg)
		return
	}
	if line == 1 && col > shift {
		col -= shift
	}
	fmt.Fprintf(sb, "%s:%d:%d: error: %s", at.file, at.line, col, msg)

	text := strings.Split(src.text, "\n")
	if line-1 < len(text) {
		fmt.Fprintf(sb, "\n%5d | %s", at.line, text[line-1])
	}
}

// formatValidation renders IR validation problems. They carry no source
// position, only the function they occur in.
func formatValidation(path string, verrs []ir.ValidationError, strict bool) string {
	severity := "warning"
	if strict {
		severity = "error"
	}
	lines := make([]string, 0, len(verrs))
	for _, v := range verrs {
		lines = append(lines, fmt.Sprintf("%s: %s: %s", path, severity, v.Error()))
	}
	return strings.Join(lines, "\n")
}
