package ratelimit

import (
	"net/http"
	"strings"
	"time"
)

// Rule limits one group of endpoints. A Path ending in "/" matches every path below it.
// Requests matching the same rule share a bucket per client.
type Rule struct {
	Method string
	Path   string
	Limit  int           // requests per Window; zero means unlimited
	Window time.Duration
	Burst  int // bucket capacity; defaults to Limit
}

func (r Rule) capacity() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

func (r Rule) key() string {
	return r.Method + " " + r.Path
}

var unlimited = Rule{Path: "/health"}

// DefaultRules returns the built-in limits. Endpoints that call the language model are
// the strictest; profile writes and imports are moderate; reads fall through to the default.
func DefaultRules() []Rule {
	return []Rule{
		// Generation-backed
		{Method: http.MethodPost, Path: "/advisor/", Limit: 30, Window: time.Hour, Burst: 5},
		{Method: http.MethodPost, Path: "/interviews/", Limit: 120, Window: time.Hour, Burst: 10},
		{Method: http.MethodPost, Path: "/profiles/extract", Limit: 20, Window: time.Hour, Burst: 3},

		// Uploads and writes
		{Method: http.MethodPost, Path: "/readiness", Limit: 30, Window: time.Minute, Burst: 5},
		{Method: http.MethodPost, Path: "/profiles/import", Limit: 10, Window: time.Minute, Burst: 2},
		{Method: http.MethodPost, Path: "/profiles", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: http.MethodPut, Path: "/profiles/", Limit: 60, Window: time.Minute, Burst: 10},
		{Method: http.MethodDelete, Path: "/profiles/", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

// Match returns the rule governing method and path, or false when none applies.
// Exact paths win over prefixes; among prefixes the longest wins.
func Match(rules []Rule, method, path string) (Rule, bool) {
	if path == unlimited.Path {
		return unlimited, true
	}

	var (
		best  Rule
		found bool
	)
	for _, r := range rules {
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return r, true
		}
		if strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) && len(r.Path) > len(best.Path) {
			best, found = r, true
		}
	}
	return best, found
}

// ParseClientList parses a comma-separated list of client IDs into a set.
func ParseClientList(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
