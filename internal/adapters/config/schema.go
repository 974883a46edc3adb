package config

// File represents the structure of the knowgraph.yaml configuration file.
type File struct {
	Version             string   `yaml:"version"`
	TemplatesDir        string   `yaml:"templates_dir"`
	InternalLinkPattern string   `yaml:"internal_link_pattern"`
	SiteHosts           []string `yaml:"site_hosts"`
	ContextChars        int      `yaml:"context_chars"`
	Workers             int      `yaml:"workers"`
	MaxDepth            int      `yaml:"max_depth"`
	Cache               CacheDTO `yaml:"cache"`
	HTTP                HTTPDTO  `yaml:"http"`
}

// CacheDTO represents the cache section. TTLs are Go duration strings.
type CacheDTO struct {
	Backend       string   `yaml:"backend"`
	Dir           string   `yaml:"dir"`
	KeyPrefix     string   `yaml:"key_prefix"`
	PostTTL       string   `yaml:"post_ttl"`
	GraphTTL      string   `yaml:"graph_ttl"`
	SubgraphTTL   string   `yaml:"subgraph_ttl"`
	PruneInterval string   `yaml:"prune_interval"`
	Redis         RedisDTO `yaml:"redis"`
}

// RedisDTO represents the Redis connection settings.
type RedisDTO struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// HTTPDTO represents the HTTP server settings.
type HTTPDTO struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}
