package builder

import (
	"cmp"
	"fmt"
	"math"
	"net/url"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/knowgraph/internal/core/domain"
)

const (
	externalIDPrefix = "external_"
	externalIDLength = 12
	labelPathLength  = 30
)

// graphAccumulator collects nodes and edges keyed by id.
type graphAccumulator struct {
	nodes      []domain.Node
	index      map[string]int
	edges      []domain.Edge
	categories map[string]string
	urlUsage   map[string]int
	urlDomain  map[string]string
}

// BuildGraphStructure assembles parsed posts into a graph with metrics.
// categories maps post slugs to their category and may be nil; a category
// set on a result takes precedence.
func BuildGraphStructure(results []domain.ParseResult, categories map[string]string) *domain.Graph {
	acc := &graphAccumulator{
		index:      make(map[string]int),
		categories: categories,
		urlUsage:   make(map[string]int),
		urlDomain:  make(map[string]string),
	}

	for _, res := range results {
		source := acc.ensurePost(res.SourcePost, res.Category)
		if res.Title != "" && acc.nodes[source].Label == domain.TitleFromSlug(res.SourcePost) {
			acc.nodes[source].Label = res.Title
		}

		for _, link := range res.InternalLinks {
			target := acc.ensurePost(link.Target, "")
			acc.link(source, target, link)
		}

		for _, link := range res.ExternalLinks {
			target := acc.ensureExternal(link)
			acc.link(source, target, link)
			acc.urlUsage[link.Target]++
		}
	}

	for i := range acc.nodes {
		acc.nodes[i].TotalLinks = acc.nodes[i].Degree()
	}

	return &domain.Graph{
		Nodes:      acc.nodes,
		Edges:      acc.edges,
		Metrics:    acc.metrics(),
		Categories: acc.categoryInfo(),
	}
}

func (a *graphAccumulator) ensurePost(slug, category string) int {
	if i, ok := a.index[slug]; ok {
		if a.nodes[i].Category == "" {
			a.nodes[i].Category = a.category(slug, category)
		}
		return i
	}

	a.nodes = append(a.nodes, domain.Node{
		ID:       slug,
		Label:    domain.TitleFromSlug(slug),
		Type:     domain.NodePost,
		Category: a.category(slug, category),
	})
	a.index[slug] = len(a.nodes) - 1
	return len(a.nodes) - 1
}

func (a *graphAccumulator) category(slug, category string) string {
	if category != "" {
		return category
	}
	return a.categories[slug]
}

func (a *graphAccumulator) ensureExternal(link domain.Link) int {
	id := ExternalNodeID(link.Target)
	if i, ok := a.index[id]; ok {
		return i
	}

	a.nodes = append(a.nodes, domain.Node{
		ID:     id,
		Label:  externalLabel(link),
		Type:   domain.NodeExternal,
		Domain: link.Domain,
		URL:    link.Target,
	})
	a.index[id] = len(a.nodes) - 1
	a.urlDomain[link.Target] = link.Domain
	return len(a.nodes) - 1
}

func (a *graphAccumulator) link(source, target int, link domain.Link) {
	a.edges = append(a.edges, domain.Edge{
		Source:  a.nodes[source].ID,
		Target:  a.nodes[target].ID,
		Type:    link.Type,
		Text:    link.Text,
		Context: link.Context,
		Href:    link.Href,
	})
	a.nodes[source].OutDegree++
	a.nodes[target].InDegree++
}

// ExternalNodeID derives the node id of an external URL.
func ExternalNodeID(rawURL string) string {
	return externalIDPrefix + fmt.Sprintf("%016x", xxhash.Sum64String(rawURL))[:externalIDLength]
}

func externalLabel(link domain.Link) string {
	u, err := url.Parse(link.Target)
	if err != nil {
		return link.Domain
	}

	path := strings.TrimSuffix(u.Path, "/")
	if path == "" {
		return link.Domain
	}
	if r := []rune(path); len(r) > labelPathLength {
		path = string(r[:labelPathLength]) + "..."
	}
	return link.Domain + path
}

func (a *graphAccumulator) metrics() *domain.Metrics {
	m := &domain.Metrics{
		MostLinkedPosts:    []domain.PostRank{},
		OrphanPosts:        []string{},
		TopExternalDomains: []domain.DomainCount{},
	}

	var posts []domain.Node
	for _, n := range a.nodes {
		if n.Type == domain.NodePost {
			posts = append(posts, n)
		}
	}
	for _, e := range a.edges {
		if e.Type == domain.LinkInternal {
			m.TotalInternalLinks++
		}
	}
	for _, n := range a.urlUsage {
		m.TotalExternalLinks += n
	}

	m.TotalPosts = len(posts)
	if m.TotalPosts > 0 {
		avg := float64(len(a.edges)) / float64(m.TotalPosts)
		m.AverageLinksPerPost = math.Round(avg*100) / 100
	}

	slices.SortStableFunc(posts, func(x, y domain.Node) int {
		return cmp.Or(cmp.Compare(y.Degree(), x.Degree()), cmp.Compare(x.ID, y.ID))
	})
	for _, n := range posts[:min(len(posts), domain.TopRankedLimit)] {
		m.MostLinkedPosts = append(m.MostLinkedPosts, domain.PostRank{
			ID:          n.ID,
			Label:       n.Label,
			InDegree:    n.InDegree,
			OutDegree:   n.OutDegree,
			Connections: n.Degree(),
		})
	}

	for _, n := range posts {
		if n.Degree() == 0 {
			m.OrphanPosts = append(m.OrphanPosts, n.ID)
		}
	}
	slices.Sort(m.OrphanPosts)

	byDomain := make(map[string]int)
	for u, n := range a.urlUsage {
		byDomain[a.urlDomain[u]] += n
	}
	for d, n := range byDomain {
		m.TopExternalDomains = append(m.TopExternalDomains, domain.DomainCount{Domain: d, Count: n})
	}
	slices.SortFunc(m.TopExternalDomains, func(x, y domain.DomainCount) int {
		return cmp.Or(cmp.Compare(y.Count, x.Count), cmp.Compare(x.Domain, y.Domain))
	})
	m.TopExternalDomains = m.TopExternalDomains[:min(len(m.TopExternalDomains), domain.TopRankedLimit)]

	return m
}

func (a *graphAccumulator) categoryInfo() map[string]*domain.CategoryInfo {
	var info map[string]*domain.CategoryInfo
	for _, n := range a.nodes {
		if n.Type != domain.NodePost || n.Category == "" {
			continue
		}
		if info == nil {
			info = make(map[string]*domain.CategoryInfo)
		}
		c, ok := info[n.Category]
		if !ok {
			c = &domain.CategoryInfo{Name: n.Category, Posts: []domain.CategoryPost{}}
			info[n.Category] = c
		}
		c.Posts = append(c.Posts, domain.CategoryPost{ID: n.ID, Label: n.Label})
		c.Count++
	}
	for _, c := range info {
		slices.SortFunc(c.Posts, func(x, y domain.CategoryPost) int {
			return cmp.Compare(x.ID, y.ID)
		})
	}
	return info
}
