package domain

// Metrics aggregates graph statistics.
type Metrics struct {
	TotalPosts          int           `json:"total_posts"`
	TotalInternalLinks  int           `json:"total_internal_links"`
	TotalExternalLinks  int           `json:"total_external_links"`
	AverageLinksPerPost float64       `json:"average_links_per_post"`
	MostLinkedPosts     []PostRank    `json:"most_linked_posts"`
	OrphanPosts         []string      `json:"orphan_posts"`
	TopExternalDomains  []DomainCount `json:"top_external_domains"`
}

// PostRank is an entry of the most linked posts ranking.
type PostRank struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	InDegree    int    `json:"in_degree"`
	OutDegree   int    `json:"out_degree"`
	Connections int    `json:"total_connections"`
}

// DomainCount is the usage count of an external domain.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// TopRankedLimit bounds the rankings reported in Metrics.
const TopRankedLimit = 5
