package adapters

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/types"
)

type HeaderDefinesAdapter struct{}

func NewHeaderDefinesAdapter() HeaderDefinesAdapter {
	return HeaderDefinesAdapter{}
}

func (a HeaderDefinesAdapter) Defines(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewKindError(types.ErrorKindParse, errbuilder.CodeNotFound,
			fmt.Sprintf("failed to read header %s", path), err)
	}
	return ParseDefines(string(content))
}

// ParseDefines collects "#define NAME VALUE" directives from header source.
// Comments are stripped and backslash continuations joined before lines are
// inspected; every other directive or declaration is ignored. A name that
// is defined twice keeps its last value.
func ParseDefines(source string) (map[string]string, error) {
	stripped, err := stripComments(source)
	if err != nil {
		return nil, err
	}
	defines := map[string]string{}
	for i, line := range logicalLines(stripped) {
		directive, ok := strings.CutPrefix(strings.TrimSpace(line), "#")
		if !ok {
			continue
		}
		directive = strings.TrimLeftFunc(directive, unicode.IsSpace)
		rest, ok := strings.CutPrefix(directive, "define")
		if !ok {
			continue
		}
		if rest != "" && !unicode.IsSpace(rune(rest[0])) {
			// e.g. "#defined" or "#define_x"; not a define directive
			continue
		}
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return nil, types.NewKindError(types.ErrorKindParse, errbuilder.CodeInvalidArgument,
				fmt.Sprintf("#define without a name on logical line %d", i+1), nil)
		}
		name, value := rest, ""
		if idx := strings.IndexFunc(rest, unicode.IsSpace); idx >= 0 {
			name, value = rest[:idx], rest[idx:]
		}
		defines[name] = strings.TrimSpace(value)
	}
	return defines, nil
}

// stripComments removes // and /* */ comments outside string and character
// literals. Block comments are replaced by a single space and keep their
// newlines so line numbering survives.
func stripComments(source string) (string, error) {
	var builder strings.Builder
	builder.Grow(len(source))
	runes := []rune(source)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' || r == '\'':
			end := scanLiteral(runes, i)
			builder.WriteString(string(runes[i:end]))
			i = end - 1
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			for i < len(runes) && runes[i] != '\n' {
				if runes[i] == '\\' && i+1 < len(runes) && runes[i+1] == '\n' {
					i++
				}
				i++
			}
			if i < len(runes) {
				builder.WriteRune('\n')
			}
		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			closed := false
			builder.WriteRune(' ')
			for i += 2; i < len(runes); i++ {
				if runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '/' {
					i++
					closed = true
					break
				}
				if runes[i] == '\n' {
					builder.WriteRune('\n')
				}
			}
			if !closed {
				return "", types.NewKindError(types.ErrorKindParse, errbuilder.CodeInvalidArgument,
					"unterminated block comment in header", nil)
			}
		default:
			builder.WriteRune(r)
		}
	}
	return builder.String(), nil
}

// scanLiteral returns the index just past the literal starting at start.
// Unterminated literals end at the line break.
func scanLiteral(runes []rune, start int) int {
	quote := runes[start]
	for i := start + 1; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		case '\n':
			return i
		}
	}
	return len(runes)
}

func logicalLines(source string) []string {
	physical := strings.Split(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	var lines []string
	var current strings.Builder
	for _, line := range physical {
		if trimmed, ok := strings.CutSuffix(line, "\\"); ok {
			current.WriteString(trimmed)
			current.WriteRune(' ')
			continue
		}
		current.WriteString(line)
		lines = append(lines, current.String())
		current.Reset()
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

var _ ports.HeaderDefinesPort = HeaderDefinesAdapter{}
