package dom

import "strings"

// styleProperty returns the value of prop in an inline style declaration list.
func styleProperty(style, prop string) string {
	value := ""
	for _, decl := range strings.Split(style, ";") {
		name, val, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), prop) {
			value = strings.TrimSpace(val)
		}
	}
	return value
}

// setStyleProperty returns style with prop set to value, keeping other declarations.
func setStyleProperty(style, prop, value string) string {
	var decls []string
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, _, _ := strings.Cut(decl, ":")
		if strings.EqualFold(strings.TrimSpace(name), prop) {
			continue
		}
		decls = append(decls, decl)
	}
	decls = append(decls, prop+": "+value)
	return strings.Join(decls, "; ")
}
