package parser

import (
	stdhtml "html"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"go.trai.ch/knowgraph/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var repeatedSpace = regexp.MustCompile(`\s+`)

// Extractor turns post HTML into classified links.
type Extractor struct {
	pattern      *regexp.Regexp
	siteHosts    map[string]bool
	contextChars int
	policyPool   sync.Pool
}

// NewExtractor creates an Extractor. pattern must have one capture group
// holding the target slug.
func NewExtractor(pattern *regexp.Regexp, siteHosts []string, contextChars int) *Extractor {
	if pattern == nil {
		pattern = regexp.MustCompile(domain.DefaultInternalLinkPattern)
	}
	if contextChars <= 0 {
		contextChars = domain.DefaultContextChars
	}

	hosts := make(map[string]bool, len(siteHosts))
	for _, h := range siteHosts {
		hosts[strings.ToLower(h)] = true
	}

	return &Extractor{
		pattern:      pattern,
		siteHosts:    hosts,
		contextChars: contextChars,
		policyPool: sync.Pool{
			New: func() any {
				return bluemonday.StrictPolicy()
			},
		},
	}
}

// Extract parses src and returns the links of the post identified by slug.
func (e *Extractor) Extract(slug, src string) (domain.ParseResult, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return domain.ParseResult{}, zerr.Wrap(err, domain.ErrHTMLParseFailed.Error())
	}
	strip(doc)

	res := domain.NewParseResult(slug)
	res.Title = e.title(doc)

	for n := range doc.Descendants() {
		if n.Type != html.ElementNode || n.DataAtom != atom.A {
			continue
		}
		link, ok := e.link(n)
		if !ok {
			continue
		}
		if link.Type == domain.LinkInternal {
			res.InternalLinks = append(res.InternalLinks, link)
		} else {
			res.ExternalLinks = append(res.ExternalLinks, link)
		}
	}

	return res, nil
}

// strip removes scripts, styles and comments.
func strip(doc *html.Node) {
	var doomed []*html.Node
	for n := range doc.Descendants() {
		switch {
		case n.Type == html.CommentNode:
			doomed = append(doomed, n)
		case n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style):
			doomed = append(doomed, n)
		}
	}
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func (e *Extractor) title(doc *html.Node) string {
	var h1 string
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.DataAtom {
		case atom.Title:
			if t := e.text(n); t != "" {
				return t
			}
		case atom.H1:
			if h1 == "" {
				h1 = e.text(n)
			}
		}
	}
	return h1
}

func (e *Extractor) link(a *html.Node) (domain.Link, bool) {
	href := strings.TrimSpace(attr(a, "href"))
	if href == "" || strings.HasPrefix(href, "#") {
		return domain.Link{}, false
	}

	u, err := url.Parse(href)
	if err != nil {
		return domain.Link{}, false
	}

	link := domain.Link{Href: href}
	switch target := e.internal(href, u); {
	case target != "":
		link.Type = domain.LinkInternal
		link.Target = target
	case u.Scheme != "" && u.Host != "":
		link.Type = domain.LinkExternal
		link.Target = href
		link.Domain = strings.ToLower(u.Host)
	default:
		return domain.Link{}, false
	}

	link.Text = e.text(a)

	parent := a.Parent
	if parent == nil || parent.Type != html.ElementNode {
		parent = a
	}
	link.Context = e.context(e.text(parent), link.Text)

	return link, true
}

// internal returns the normalized target slug when href points at a post of
// this site, or "".
func (e *Extractor) internal(href string, u *url.URL) string {
	candidate := href
	if u.Host != "" {
		if !e.siteHosts[strings.ToLower(u.Hostname())] {
			return ""
		}
		candidate = u.EscapedPath()
	}

	m := e.pattern.FindStringSubmatch(candidate)
	if len(m) < 2 {
		return ""
	}
	return domain.NormalizeSlug(m[1])
}

// text flattens the content of n to plain text with whitespace collapsed.
func (e *Extractor) text(n *html.Node) string {
	var sb strings.Builder
	for c := range n.ChildNodes() {
		if err := html.Render(&sb, c); err != nil {
			return ""
		}
	}

	policy, _ := e.policyPool.Get().(*bluemonday.Policy)
	defer e.policyPool.Put(policy)

	flat := stdhtml.UnescapeString(policy.Sanitize(sb.String()))
	return strings.TrimSpace(repeatedSpace.ReplaceAllString(flat, " "))
}

// context cuts up to contextChars runes on each side of anchor out of text.
func (e *Extractor) context(text, anchor string) string {
	runes := []rune(text)
	start, end := 0, min(len(runes), 2*e.contextChars)

	if idx := strings.Index(text, anchor); anchor != "" && idx >= 0 {
		pos := utf8.RuneCountInString(text[:idx])
		start = max(0, pos-e.contextChars)
		end = min(len(runes), pos+utf8.RuneCountInString(anchor)+e.contextChars)
	}

	return strings.TrimSpace(string(runes[start:end]))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
