package ratelimit

import (
	"net/http"
	"strings"
)

// catalogRoutes are read-only GET routes that are never limited.
var catalogRoutes = map[string]bool{
	"/health":    true,
	"/templates": true,
	"/formats":   true,
}

// MatchEndpoint returns the configuration that applies to a request, or nil.
// An exact path wins; otherwise the longest prefix entry (a path ending in
// "/") wins, so "/score/" covers "/score/upload". Method "*" matches any
// method. Catalog routes get an unlimited configuration.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && catalogRoutes[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method && c.Method != "*" {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if prefix == nil || len(c.Path) > len(prefix.Path) {
				prefix = c
			}
		}
	}
	return prefix
}
