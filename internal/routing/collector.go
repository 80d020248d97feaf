package routing

import (
	"net/http"
	"strings"
)

// NamedGroup pairs a handler group with its component name.
type NamedGroup struct {
	Name  string
	Group Group
}

// NormalizePrefix inserts a leading slash into a non-empty prefix.
func NormalizePrefix(prefix string) string {
	if prefix == "" || strings.HasPrefix(prefix, "/") {
		return prefix
	}
	return "/" + prefix
}

// Collect flattens groups into one route table in declaration order.
// Malformed descriptors are skipped. Paths are prefix + path verbatim.
func Collect(prefix string, groups ...NamedGroup) []Route {
	prefix = NormalizePrefix(prefix)

	var routes []Route
	for _, g := range groups {
		if g.Group == nil {
			continue
		}
		for _, d := range g.Group.Routes() {
			method, ok := d.normalize()
			if !ok {
				continue
			}
			d.Method = method
			routes = append(routes, Route{
				FullPath: prefix + d.Path,
				Handler:  bind(d),
				Method:   method,
				Group:    g.Name,
			})
		}
	}
	return routes
}

func bind(d Descriptor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Handler(w, r.WithContext(WithDescriptor(r.Context(), d)))
	}
}
