package proxy

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httputil"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Router matches inbound paths against the rule set by longest prefix and
// relays the request to the owning upstream. Each rule gets its own
// ReverseProxy built once at startup; the Router itself holds no mutable
// state across requests.
type Router struct {
	rules    []*Rule
	proxies  map[string]*httputil.ReverseProxy
	notFound http.Handler
	log      *zap.Logger
}

// NewRouter validates every rule and prepares one reverse proxy per rule.
// timeout bounds each forwarded call so a dead upstream cannot hang the
// client; notFound serves paths no rule claims.
func NewRouter(rules []Rule, timeout time.Duration, notFound http.Handler, log *zap.Logger) (*Router, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if notFound == nil {
		notFound = http.NotFoundHandler()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ResponseHeaderTimeout: timeout,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   32,
	}

	rt := &Router{
		notFound: notFound,
		proxies:  make(map[string]*httputil.ReverseProxy, len(rules)),
		log:      log,
	}
	for i := range rules {
		rule := rules[i]
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		rt.rules = append(rt.rules, &rule)
		rt.proxies[rule.Name] = rt.buildProxy(&rule, transport)
	}
	// longest prefix wins; prefixes are disjoint in practice but the order
	// keeps matching deterministic either way
	sort.Slice(rt.rules, func(i, j int) bool {
		return len(rt.rules[i].PathPrefix) > len(rt.rules[j].PathPrefix)
	})
	return rt, nil
}

// Match returns the rule owning path, if any.
func (rt *Router) Match(path string) (*Rule, bool) {
	for _, r := range rt.rules {
		if strings.HasPrefix(path, r.PathPrefix) {
			return r, true
		}
	}
	return nil, false
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rule, ok := rt.Match(r.URL.Path)
	if !ok {
		rt.notFound.ServeHTTP(w, r)
		return
	}
	rt.proxies[rule.Name].ServeHTTP(w, r)
}

func (rt *Router) buildProxy(rule *Rule, transport http.RoundTripper) *httputil.ReverseProxy {
	target := rule.target
	director := func(req *http.Request) {
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		basePath := strings.TrimSuffix(target.Path, "/")
		upPath := basePath + rule.rewrite(req.URL.Path)
		req.URL.Path = upPath
		req.URL.RawPath = upPath
		req.Host = target.Host
	}
	return &httputil.ReverseProxy{
		Director:  director,
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			// a ceiling-wrapped request body erroring mid-stream is the
			// client's fault, not an outage of the upstream
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				rt.log.Warn("request body over ceiling",
					zap.String("service", rule.Name),
					zap.String("path", r.URL.Path),
					zap.Int64("limit", tooLarge.Limit))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "Payload Too Large",
					"message": "Request body exceeds the allowed size",
				})
				return
			}
			rt.log.Error("upstream unreachable",
				zap.String("service", rule.Name),
				zap.String("path", r.URL.Path),
				zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":   "Service Unavailable",
				"message": rule.Name + " is currently unavailable",
				"service": rule.Name,
			})
		},
	}
}
