package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// Post identifies a single post template on disk.
type Post struct {
	// TemplateName is the file name without extension, in on-disk casing.
	TemplateName string
	// Category is the directory below the templates root that holds the post.
	Category string
	// Path is the absolute path of the template file.
	Path string
}

// Slug returns the normalized identifier of the post.
func (p Post) Slug() string {
	return NormalizeSlug(p.TemplateName)
}

// NormalizeSlug lowercases a template name and strips any directory prefix
// and template extension, so "Tech/0001_Intro.html" becomes "0001_intro".
func NormalizeSlug(name string) string {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(name), "/"))
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, TemplateExt)
}

// UniquePosts drops every post whose slug was already seen, so the first of
// two same-named templates in different categories wins.
func UniquePosts(posts []Post) []Post {
	seen := make(map[string]struct{}, len(posts))
	unique := posts[:0:0]
	for _, p := range posts {
		if _, ok := seen[p.Slug()]; ok {
			continue
		}
		seen[p.Slug()] = struct{}{}
		unique = append(unique, p)
	}
	return unique
}

var slugNumberPrefix = regexp.MustCompile(`^\d+[_-]`)

// TitleFromSlug derives a human readable label from a slug:
// "0001_getting_started" becomes "Getting Started".
func TitleFromSlug(slug string) string {
	s := slugNumberPrefix.ReplaceAllString(slug, "")
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	if len(words) == 0 {
		return slug
	}
	return strings.Join(words, " ")
}
