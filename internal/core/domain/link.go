package domain

// LinkType classifies a hyperlink.
type LinkType string

const (
	// LinkInternal is a link to another post of the same site.
	LinkInternal LinkType = "internal"
	// LinkExternal is a link to an absolute URL on another host.
	LinkExternal LinkType = "external"
)

// Link is a single hyperlink found in a post.
type Link struct {
	// Target is the normalized slug for internal links and the absolute URL for external ones.
	Target  string   `json:"target"`
	Text    string   `json:"text"`
	Context string   `json:"context"`
	Href    string   `json:"href"`
	Type    LinkType `json:"type"`
	// Domain is the host of an external link.
	Domain string `json:"domain,omitempty"`
}

// ParseResult is the outcome of extracting the links of one post.
type ParseResult struct {
	SourcePost    string   `json:"source_post"`
	Category      string   `json:"category,omitempty"`
	Title         string   `json:"title,omitempty"`
	InternalLinks []Link   `json:"internal_links"`
	ExternalLinks []Link   `json:"external_links"`
	ParseErrors   []string `json:"parse_errors"`
}

// NewParseResult returns an empty result for the given slug with non-nil lists.
func NewParseResult(slug string) ParseResult {
	return ParseResult{
		SourcePost:    slug,
		InternalLinks: []Link{},
		ExternalLinks: []Link{},
		ParseErrors:   []string{},
	}
}

// FailedParseResult returns the degraded result recorded when a post cannot be parsed.
func FailedParseResult(slug string, err error) ParseResult {
	r := NewParseResult(slug)
	r.ParseErrors = append(r.ParseErrors, err.Error())
	return r
}

// Failed reports whether the post could not be parsed at all.
func (r *ParseResult) Failed() bool {
	return len(r.ParseErrors) > 0
}

// LinkCount returns the number of links of the post.
func (r *ParseResult) LinkCount() int {
	return len(r.InternalLinks) + len(r.ExternalLinks)
}
