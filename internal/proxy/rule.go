// Package proxy forwards inbound gateway requests to the correct upstream
// service based on a static, startup-validated rule set.
package proxy

import (
	"fmt"
	"net/url"
	"strings"
)

// Rule maps an inbound path prefix to one upstream. Rules are enumerated at
// startup and validated once; nothing about them changes per request.
type Rule struct {
	// Name identifies the upstream in error bodies and logs,
	// e.g. "product-service".
	Name string
	// PathPrefix matches inbound request paths, e.g. "/api/products".
	PathPrefix string
	// BaseURL is the upstream root the matched request is forwarded to.
	BaseURL string
	// RewriteExact replaces specific inbound paths before forwarding. Used
	// for the order collection route, which the order upstream mounts with a
	// trailing slash.
	RewriteExact map[string]string

	target *url.URL
}

// Validate parses the target URL and checks the prefix shape. Called once
// when the router is built.
func (r *Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("proxy rule: name is required")
	}
	if !strings.HasPrefix(r.PathPrefix, "/") {
		return fmt.Errorf("proxy rule %s: path prefix %q must start with /", r.Name, r.PathPrefix)
	}
	u, err := url.Parse(r.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("proxy rule %s: invalid base URL %q", r.Name, r.BaseURL)
	}
	r.target = u
	return nil
}

// rewrite returns the upstream path for an inbound path.
func (r *Rule) rewrite(path string) string {
	if to, ok := r.RewriteExact[path]; ok {
		return to
	}
	return path
}
