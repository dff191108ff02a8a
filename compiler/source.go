package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/technique"
)

// maxIncludeDepth bounds nested #include expansion.
const maxIncludeDepth = 16

// origin locates one line of expanded source in its file.
type origin struct {
	file string
	line int
}

// source is a shader file with includes expanded.
type source struct {
	text  string
	lines []origin
}

// locate maps a 1-based line of the expanded text back to its file.
func (s *source) locate(line int) origin {
	if line < 1 || line > len(s.lines) {
		return origin{}
	}
	return s.lines[line-1]
}

var errIncludeCycle = errors.New("include cycle")

// load reads path and expands every line of the form
//
//	#include "file"
//
// with the named file, resolved against the directory of the including file.
// The include line itself is kept as a comment so line numbers stay stable.
func (c *Compiler) load(path string) (*source, error) {
	src := &source{}
	var out []string
	if err := c.expand(path, 0, nil, &out, &src.lines); err != nil {
		return nil, err
	}
	src.text = strings.Join(out, "\n")
	return src, nil
}

func (c *Compiler) expand(path string, depth int, stack []string, out *[]string, lines *[]origin) error {
	for _, p := range stack {
		if p == path {
			return fmt.Errorf("%w: %s", errIncludeCycle, strings.Join(append(stack, path), " -> "))
		}
	}
	if depth > maxIncludeDepth {
		return fmt.Errorf("include depth exceeds %d at %q", maxIncludeDepth, path)
	}

	b, err := c.readFile(path)
	if err != nil {
		return fmt.Errorf("load shader %q: %w", path, err)
	}
	stack = append(stack, path)

	for i, ln := range strings.Split(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n") {
		name, ok, err := parseInclude(ln)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		*out = append(*out, ln)
		*lines = append(*lines, origin{file: path, line: i + 1})
		if !ok {
			continue
		}
		(*out)[len(*out)-1] = "// " + ln
		if err := c.expand(c.join(c.dir(path), name), depth+1, stack, out, lines); err != nil {
			return err
		}
	}
	return nil
}

// parseInclude recognizes `#include "file"`. ok is false for any other line.
func parseInclude(ln string) (name string, ok bool, err error) {
	rest, found := strings.CutPrefix(strings.TrimSpace(ln), "#include")
	if !found {
		return "", false, nil
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '"' {
		return "", false, errors.New("malformed #include: expected quoted file name")
	}
	name, _, found = strings.Cut(rest[1:], `"`)
	if !found {
		return "", false, errors.New("malformed #include: no final quote")
	}
	if name == "" {
		return "", false, errors.New("malformed #include: empty file name")
	}
	return name, true, nil
}

// injectDefines prefixes line 1 with one module-scope constant per define,
// leaving every other line where it was. Values must be WGSL scalar
// literals; an empty value defines true.
func injectDefines(text string, defines []technique.Define) (string, error) {
	if len(defines) == 0 {
		return text, nil
	}
	var sb strings.Builder
	seen := make(map[string]bool, len(defines))
	for _, d := range defines {
		if !isIdent(d.Name) {
			return "", fmt.Errorf("%w: invalid define name %q", technique.ErrConfiguration, d.Name)
		}
		if seen[d.Name] {
			return "", fmt.Errorf("%w: duplicate define %q", technique.ErrConfiguration, d.Name)
		}
		seen[d.Name] = true
		value := strings.TrimSpace(d.Value)
		if value == "" {
			value = "true"
		}
		if !isScalarLiteral(value) {
			return "", fmt.Errorf("%w: define %q: value %q is not a scalar literal", technique.ErrConfiguration, d.Name, value)
		}
		fmt.Fprintf(&sb, "const %s = %s; ", d.Name, value)
	}
	sb.WriteString(text)
	return sb.String(), nil
}

// isScalarLiteral accepts bool, integer and float literals with an optional
// type suffix (u, i, f, h).
func isScalarLiteral(s string) bool {
	if s == "true" || s == "false" {
		return true
	}
	num := strings.TrimPrefix(s, "-")
	if strings.HasPrefix(num, "0x") || strings.HasPrefix(num, "0X") {
		num = strings.TrimRight(num, "ui")
		_, err := strconv.ParseUint(num[2:], 16, 64)
		return len(num) > 2 && err == nil
	}
	if trimmed := strings.TrimRight(num, "uifh"); len(num)-len(trimmed) <= 1 {
		num = trimmed
	} else {
		return false
	}
	_, err := strconv.ParseFloat(num, 64)
	return num != "" && err == nil && !strings.ContainsAny(num, "+_nN")
}

func isIdent(s string) bool {
	if s == "" || s == "_" || strings.HasPrefix(s, "__") {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
