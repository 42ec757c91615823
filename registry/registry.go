// Package registry holds the pharmacy targets a comparison fans out to.
// Adding a vendor is a data change (a registry entry), never a code change.
package registry

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/andybalholm/cascadia"
)

// queryToken is the single substitution point in a target's URL template.
const queryToken = "{query}"

// Target is one pharmacy to query: a stable id, a search URL template with
// one {query} substitution point, and a CSS selector locating the price
// text on the rendered results page.
type Target struct {
	ID          string `json:"id"`
	URLTemplate string `json:"url_template"`
	Selector    string `json:"selector"`
}

// URL instantiates the target's URL template with the URL-escaped query.
func (t Target) URL(query string) string {
	return strings.ReplaceAll(t.URLTemplate, queryToken, url.QueryEscape(query))
}

// Registry is an immutable, ordered set of targets. The order is the
// canonical ordering for every SearchResult produced from it.
type Registry struct {
	targets []Target
}

// defaults is the built-in target set. Selectors match the price-bearing
// element on each site's search results page as of early 2026; sites ship
// hashed CSS classes, hence the attribute-prefix selectors.
var defaults = []Target{
	{
		ID:          "Apollo",
		URLTemplate: "https://www.apollopharmacy.in/search-medicines/" + queryToken,
		Selector:    "div[class*='aV_']",
	},
	{
		ID:          "PharmEasy",
		URLTemplate: "https://pharmeasy.in/search/all?name=" + queryToken,
		Selector:    "div[class*='ProductCard_ourPrice']",
	},
	{
		ID:          "NetMeds",
		URLTemplate: "https://www.netmeds.com/products?q=" + queryToken,
		Selector:    "span.priceDisplay",
	},
}

// Default returns the built-in Apollo/PharmEasy/NetMeds registry.
func Default() *Registry {
	r, err := New(defaults)
	if err != nil {
		// The built-in set is validated by tests; this cannot fire at runtime.
		panic(err)
	}
	return r
}

// New validates the given targets and builds a Registry from them.
func New(targets []Target) (*Registry, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("registry: no targets defined")
	}

	seen := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if strings.TrimSpace(t.ID) == "" {
			return nil, fmt.Errorf("registry: target with empty id")
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate target id %q", t.ID)
		}
		seen[t.ID] = struct{}{}

		if !strings.Contains(t.URLTemplate, queryToken) {
			return nil, fmt.Errorf("registry: target %q: url_template missing %s token", t.ID, queryToken)
		}
		if _, err := url.Parse(t.URL("probe")); err != nil {
			return nil, fmt.Errorf("registry: target %q: bad url_template: %w", t.ID, err)
		}
		if _, err := cascadia.Parse(t.Selector); err != nil {
			return nil, fmt.Errorf("registry: target %q: bad selector %q: %w", t.ID, t.Selector, err)
		}
	}

	cp := make([]Target, len(targets))
	copy(cp, targets)
	return &Registry{targets: cp}, nil
}

// Load builds a registry from the JSON file at path, or the built-in set
// when path is empty. The file holds an array of Target objects.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}

	var targets []Target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("registry: parse %s: %w", path, err)
	}
	return New(targets)
}

// Targets returns the targets in their canonical order. The returned slice
// is a copy; the registry itself never changes after construction.
func (r *Registry) Targets() []Target {
	cp := make([]Target, len(r.targets))
	copy(cp, r.targets)
	return cp
}

// Len returns the number of targets.
func (r *Registry) Len() int {
	return len(r.targets)
}
