package starlark

import (
	"fmt"
	"regexp"
	"strings"
)

// NamespaceExport is the synthetic export every module carries, bound by
// `import * as ns from "..."`.
const NamespaceExport = "module_exports"

// DefaultGlobal holds the value of `export default`.
const DefaultGlobal = "__default__"

var (
	reImportMixed     = regexp.MustCompile(`(?m)^[ \t]*import\s+([A-Za-z_]\w*)\s*,\s*\{([^}]*)\}\s*from\s*['"]([^'"]+)['"][ \t]*;?`)
	reImportNamed     = regexp.MustCompile(`(?m)^[ \t]*import\s*\{([^}]*)\}\s*from\s*['"]([^'"]+)['"][ \t]*;?`)
	reImportNamespace = regexp.MustCompile(`(?m)^[ \t]*import\s*\*\s*as\s+([A-Za-z_]\w*)\s+from\s*['"]([^'"]+)['"][ \t]*;?`)
	reImportDefault   = regexp.MustCompile(`(?m)^[ \t]*import\s+([A-Za-z_]\w*)\s+from\s*['"]([^'"]+)['"][ \t]*;?`)
	reImportBare      = regexp.MustCompile(`(?m)^[ \t]*import\s*['"]([^'"]+)['"][ \t]*;?`)
	reExportDefault   = regexp.MustCompile(`(?m)^([ \t]*)export\s+default\s+`)
	reExportDecl      = regexp.MustCompile(`(?m)^([ \t]*)export\s+(?:const|let|var)\s+`)
	reLineComment     = regexp.MustCompile(`(?m)^([ \t]*)//`)
)

// RewriteImports turns module-style import and export statements into
// Starlark load statements and assignments. The rewrite is textual and keeps
// line numbers stable so that errors point at the original source.
func RewriteImports(src string) string {
	out := reLineComment.ReplaceAllString(src, "$1#")

	out = replaceKeepingLines(out, reImportMixed, func(m []string) string {
		bindings := append([]string{fmt.Sprintf("%s=%q", m[1], "default")}, namedBindings(m[2])...)
		return loadStmt(m[3], bindings)
	})
	out = replaceKeepingLines(out, reImportNamed, func(m []string) string {
		return loadStmt(m[2], namedBindings(m[1]))
	})
	out = replaceKeepingLines(out, reImportNamespace, func(m []string) string {
		return loadStmt(m[2], []string{fmt.Sprintf("%s=%q", m[1], NamespaceExport)})
	})
	out = replaceKeepingLines(out, reImportDefault, func(m []string) string {
		return loadStmt(m[2], []string{fmt.Sprintf("%s=%q", m[1], "default")})
	})

	bare := 0
	out = replaceKeepingLines(out, reImportBare, func(m []string) string {
		bare++
		return loadStmt(m[1], []string{fmt.Sprintf("_import_%d=%q", bare, NamespaceExport)})
	})

	out = reExportDefault.ReplaceAllString(out, "${1}"+DefaultGlobal+" = ")
	out = reExportDecl.ReplaceAllString(out, "$1")
	return out
}

func replaceKeepingLines(src string, re *regexp.Regexp, fn func([]string) string) string {
	return re.ReplaceAllStringFunc(src, func(match string) string {
		m := re.FindStringSubmatch(match)
		lead := match[:len(match)-len(strings.TrimLeft(match, " \t"))]
		return lead + fn(m) + strings.Repeat("\n", strings.Count(match, "\n"))
	})
}

func namedBindings(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.Join(strings.Fields(part), " ")
		if part == "" {
			continue
		}
		if name, alias, ok := strings.Cut(part, " as "); ok {
			out = append(out, fmt.Sprintf("%s=%q", strings.TrimSpace(alias), strings.TrimSpace(name)))
			continue
		}
		out = append(out, fmt.Sprintf("%q", part))
	}
	return out
}

func loadStmt(spec string, bindings []string) string {
	return fmt.Sprintf("load(%q, %s)", spec, strings.Join(bindings, ", "))
}
