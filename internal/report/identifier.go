package report

import "strings"

// SplitID decomposes a dotted test identifier such as
// "pkg.module.ClassName.test_method" into a classname ("pkg.module:ClassName")
// and a bare test name ("test_method").
//
// Identifiers with fewer segments degrade: "Case.test" yields ("Case", "test")
// and "test" yields ("", "test").
func SplitID(id string) (classname, name string) {
	prefix, leaf, ok := cutLast(id, ".")
	if !ok {
		return "", id
	}

	module, parent, ok := cutLast(prefix, ".")
	if !ok {
		return prefix, leaf
	}

	return module + ":" + parent, leaf
}

func cutLast(s, sep string) (before, after string, found bool) {
	idx := strings.LastIndex(s, sep)
	if idx < 0 {
		return s, "", false
	}

	return s[:idx], s[idx+len(sep):], true
}
