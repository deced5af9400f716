package sfc

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reImportDecl = regexp.MustCompile(`(?m)^[ \t]*import\b([^'";]*?)['"]([^'"\n]+)['"][ \t]*;?[ \t]*$`)
	reIdent      = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// ParseStatements splits script code into import statements and the raw code
// between them. Imports it cannot model, such as type-only imports, stay raw.
func ParseStatements(code string) []Stmt {
	var out []Stmt
	last := 0
	for _, loc := range reImportDecl.FindAllStringSubmatchIndex(code, -1) {
		imp := parseImport(code[loc[2]:loc[3]], code[loc[4]:loc[5]])
		if imp == nil {
			continue
		}
		out = appendRaw(out, code[last:loc[0]])
		out = append(out, imp)
		last = loc[1]
	}
	return appendRaw(out, code[last:])
}

func appendRaw(out []Stmt, code string) []Stmt {
	code = strings.Trim(code, "\r\n")
	if strings.TrimSpace(code) == "" {
		return out
	}
	return append(out, &RawStmt{Code: code})
}

func parseImport(clause, spec string) *ImportStmt {
	c := strings.TrimSpace(clause)
	if c == "" {
		return &ImportStmt{Specifier: spec}
	}
	if !strings.HasSuffix(c, "from") {
		return nil
	}
	c = strings.TrimSpace(strings.TrimSuffix(c, "from"))
	if strings.HasPrefix(c, "type ") || strings.HasPrefix(c, "typeof ") {
		return nil
	}

	imp := &ImportStmt{Specifier: spec}
	head := c
	switch {
	case strings.Contains(c, "{"):
		open, closing := strings.Index(c, "{"), strings.LastIndex(c, "}")
		if closing < open {
			return nil
		}
		for _, part := range strings.Split(c[open+1:closing], ",") {
			fields := strings.Fields(part)
			switch {
			case len(fields) == 0:
				continue
			case len(fields) == 1 && reIdent.MatchString(fields[0]):
				imp.Named = append(imp.Named, ImportSpec{Name: fields[0]})
			case len(fields) == 3 && fields[1] == "as" && reIdent.MatchString(fields[2]):
				imp.Named = append(imp.Named, ImportSpec{Name: fields[0], Local: fields[2]})
			default:
				return nil
			}
		}
		head = c[:open]
	case strings.Contains(c, "*"):
		star := strings.Index(c, "*")
		fields := strings.Fields(c[star+1:])
		if len(fields) != 2 || fields[0] != "as" || !reIdent.MatchString(fields[1]) {
			return nil
		}
		imp.Namespace = fields[1]
		head = c[:star]
	default:
		head = c + ","
	}

	head = strings.TrimSpace(head)
	if head != "" {
		if !strings.HasSuffix(head, ",") {
			return nil
		}
		name := strings.TrimSpace(strings.TrimSuffix(head, ","))
		if !reIdent.MatchString(name) {
			return nil
		}
		imp.Default = name
	}
	return imp
}

func (s *ImportStmt) String() string {
	var parts []string
	if s.Default != "" {
		parts = append(parts, s.Default)
	}
	if s.Namespace != "" {
		parts = append(parts, "* as "+s.Namespace)
	}
	if len(s.Named) > 0 {
		names := make([]string, len(s.Named))
		for i, n := range s.Named {
			names[i] = n.Name
			if n.Local != "" && n.Local != n.Name {
				names[i] += " as " + n.Local
			}
		}
		parts = append(parts, "{ "+strings.Join(names, ", ")+" }")
	}
	if len(parts) == 0 {
		return "import " + strconv.Quote(s.Specifier)
	}
	return "import " + strings.Join(parts, ", ") + " from " + strconv.Quote(s.Specifier)
}

func (s *ConstStmt) String() string {
	return "const " + s.Name + " = " + s.Value
}

func (s *RawStmt) String() string {
	return s.Code
}
