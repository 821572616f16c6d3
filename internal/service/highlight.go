package service

import (
	"html/template"
	"regexp"
	"strings"
)

// Highlight escapes text and wraps every case-insensitive occurrence of
// phrase in <mark class="search">.
func Highlight(text, phrase string) template.HTML {
	if phrase == "" {
		return template.HTML(template.HTMLEscapeString(text))
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(phrase))

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		b.WriteString(template.HTMLEscapeString(text[last:loc[0]]))
		b.WriteString(`<mark class="search">`)
		b.WriteString(template.HTMLEscapeString(text[loc[0]:loc[1]]))
		b.WriteString(`</mark>`)
		last = loc[1]
	}
	b.WriteString(template.HTMLEscapeString(text[last:]))

	return template.HTML(b.String())
}
