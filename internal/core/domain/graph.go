package domain

import "encoding/json"

// NodeType distinguishes post nodes from external URL nodes.
type NodeType string

const (
	// NodePost is a node representing a blog post.
	NodePost NodeType = "blog_post"
	// NodeExternal is a node representing an external URL.
	NodeExternal NodeType = "external"
)

// Node is a vertex of the knowledge graph.
type Node struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Type       NodeType `json:"type"`
	Category   string   `json:"category,omitempty"`
	Domain     string   `json:"domain,omitempty"`
	URL        string   `json:"url,omitempty"`
	InDegree   int      `json:"in_degree"`
	OutDegree  int      `json:"out_degree"`
	TotalLinks int      `json:"total_links"`
}

// Degree returns the sum of incoming and outgoing edges.
func (n *Node) Degree() int {
	return n.InDegree + n.OutDegree
}

// Edge is a directed link between two nodes.
type Edge struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Type    LinkType `json:"type"`
	Text    string   `json:"text"`
	Context string   `json:"context"`
	Href    string   `json:"href"`
}

// CategoryPost is the per-post entry of a category listing.
type CategoryPost struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CategoryInfo lists the posts of one category.
type CategoryInfo struct {
	Name  string         `json:"name"`
	Count int            `json:"count"`
	Posts []CategoryPost `json:"posts"`
}

// Graph is the assembled knowledge graph.
// A nil Metrics marks a graph that could not be built; it serializes as {}.
type Graph struct {
	Nodes      []Node                   `json:"nodes"`
	Edges      []Edge                   `json:"edges"`
	Metrics    *Metrics                 `json:"metrics"`
	Categories map[string]*CategoryInfo `json:"categories,omitempty"`
	Errors     []string                 `json:"errors,omitempty"`
}

// EmptyGraph returns the degraded graph reported when a build fails.
func EmptyGraph(errs ...error) *Graph {
	g := &Graph{
		Nodes:  []Node{},
		Edges:  []Edge{},
		Errors: make([]string, 0, len(errs)),
	}
	for _, err := range errs {
		g.Errors = append(g.Errors, err.Error())
	}
	return g
}

// HasErrors reports whether the build recorded any error.
func (g *Graph) HasErrors() bool {
	return len(g.Errors) > 0
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// MarshalJSON keeps nodes and edges as arrays and metrics as an object
// even when the graph is empty.
func (g Graph) MarshalJSON() ([]byte, error) {
	type plain Graph
	out := struct {
		plain
		Metrics any `json:"metrics"`
	}{plain: plain(g), Metrics: g.Metrics}

	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	if g.Metrics == nil {
		out.Metrics = struct{}{}
	}
	return json.Marshal(out)
}
