package catalog

import "regexp"

var tokenPattern = regexp.MustCompile(`%([A-Za-z0-9]+)%`)

// Substitute replaces every %KEY% in template with tokens[KEY].
// Tokens whose key is not in the map are left as they are.
func Substitute(template string, tokens map[string]string) string {
	if len(tokens) == 0 {
		return template
	}
	return tokenPattern.ReplaceAllStringFunc(template, func(token string) string {
		if value, ok := tokens[token[1:len(token)-1]]; ok {
			return value
		}
		return token
	})
}
