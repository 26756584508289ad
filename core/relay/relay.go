// ABOUTME: Relay transforms rewrite an upstream URL to route it through a cross-origin relay
// ABOUTME: Relays are tried in a fixed order; none is assumed to be reliable

package relay

import (
	"fmt"
	"net/url"
	"strings"
)

// Relay rewrites a target URL into the URL actually requested.
// Implementations are stateless and safe for concurrent use.
type Relay interface {
	// Name identifies the relay in configuration and logs
	Name() string

	// Rewrite maps the target URL to the relayed URL
	Rewrite(target string) string
}

// Template is a relay that appends the query-escaped target to a fixed prefix
type Template struct {
	name   string
	prefix string
}

// NewTemplate creates a relay named name that requests prefix+escape(target)
func NewTemplate(name, prefix string) Template {
	return Template{name: name, prefix: prefix}
}

// Name returns the relay name
func (t Template) Name() string {
	return t.name
}

// Rewrite returns the relayed URL
func (t Template) Rewrite(target string) string {
	return t.prefix + url.QueryEscape(target)
}

// direct requests the target unchanged. Only usable where no origin policy applies.
type direct struct{}

func (direct) Name() string                 { return "direct" }
func (direct) Rewrite(target string) string { return target }

var (
	// AllOrigins routes through api.allorigins.win
	AllOrigins Relay = NewTemplate("allorigins", "https://api.allorigins.win/raw?url=")

	// CorsProxy routes through corsproxy.io
	CorsProxy Relay = NewTemplate("corsproxy", "https://corsproxy.io/?")

	// Direct fetches the upstream feed without a relay
	Direct Relay = direct{}
)

// Default returns the relay order used by the reading widget
func Default() []Relay {
	return []Relay{AllOrigins, CorsProxy}
}

// builtin maps names to relays for configuration lookup
var builtin = map[string]Relay{
	AllOrigins.Name(): AllOrigins,
	CorsProxy.Name():  CorsProxy,
	Direct.Name():     Direct,
}

// ByNames resolves an ordered list of relay names. Unknown names are an error;
// an empty list resolves to Default.
func ByNames(names []string) ([]Relay, error) {
	if len(names) == 0 {
		return Default(), nil
	}

	relays := make([]Relay, 0, len(names))
	for _, name := range names {
		r, ok := builtin[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown relay %q", name)
		}
		relays = append(relays, r)
	}
	return relays, nil
}

// Names returns the names of relays in order
func Names(relays []Relay) []string {
	names := make([]string, len(relays))
	for i, r := range relays {
		names[i] = r.Name()
	}
	return names
}
