package tmdl

import "strings"

// line is one non-blank line of a TMDL file.
type line struct {
	depth int    // indentation level; a tab or four spaces per level
	text  string // trimmed content
}

func splitLines(content string) []line {
	var out []line
	for _, raw := range strings.Split(content, "\n") {
		raw = strings.TrimRight(raw, "\r")
		text := strings.TrimSpace(raw)
		if text == "" || strings.HasPrefix(text, "///") || strings.HasPrefix(text, "//") {
			continue
		}
		out = append(out, line{depth: indent(raw), text: text})
	}
	return out
}

func indent(raw string) int {
	depth, spaces := 0, 0
	for _, r := range raw {
		switch r {
		case '\t':
			depth++
		case ' ':
			spaces++
			if spaces == 4 {
				depth++
				spaces = 0
			}
		default:
			return depth
		}
	}
	return depth
}

// keyword splits "column 'Net Sales' = ..." into "column" and the rest.
func keyword(text string) (string, string) {
	kw, rest, _ := strings.Cut(text, " ")
	return kw, strings.TrimSpace(rest)
}

// property splits "fromColumn: Sales.Key" into key and value. Key-only
// boolean properties such as "isHidden" yield value "true".
func property(text string) (string, string) {
	if k, v, ok := strings.Cut(text, ":"); ok && !strings.ContainsAny(k, " '\"") {
		return strings.TrimSpace(k), strings.TrimSpace(v)
	}
	if k, v, ok := strings.Cut(text, "="); ok {
		return strings.TrimSpace(k), strings.TrimSpace(v)
	}
	return text, "true"
}

// unquote removes TMDL name quoting: 'Sales Data' becomes Sales Data and a
// doubled quote inside stands for one.
func unquote(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		return strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return name
}

// objectName returns the quoted or bare name at the start of s and the
// remainder of s after it.
func objectName(s string) (string, string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "'") {
		for i := 1; i < len(s); i++ {
			if s[i] != '\'' {
				continue
			}
			if i+1 < len(s) && s[i+1] == '\'' {
				i++
				continue
			}
			return unquote(s[:i+1]), s[i+1:]
		}
		return unquote(s + "'"), ""
	}
	end := strings.IndexAny(s, " .=")
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

// columnRef splits "'Sales Data'.'Product Key'" into table and column.
func columnRef(ref string) (table, column string) {
	table, rest := objectName(ref)
	rest = strings.TrimPrefix(strings.TrimSpace(rest), ".")
	column, _ = objectName(rest)
	return table, column
}
