// Package routing flattens handler-group descriptors into a route table.
package routing

import (
	"context"
	"net/http"
	"strings"
)

// Descriptor is one route declared by a handler group. Method defaults to GET.
type Descriptor struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Group is implemented by every handler group.
type Group interface {
	Routes() []Descriptor
}

// Route is a bound entry of the route table. Method is upper case.
type Route struct {
	FullPath string
	Handler  http.HandlerFunc
	Method   string
	Group    string
}

var allowedMethods = map[string]string{
	"get":     http.MethodGet,
	"head":    http.MethodHead,
	"post":    http.MethodPost,
	"put":     http.MethodPut,
	"delete":  http.MethodDelete,
	"options": http.MethodOptions,
	"patch":   http.MethodPatch,
}

// normalize returns the canonical method and whether d can be bound.
func (d Descriptor) normalize() (string, bool) {
	m := strings.ToLower(strings.TrimSpace(d.Method))
	if m == "" {
		m = "get"
	}
	method, ok := allowedMethods[m]
	if !ok {
		return "", false
	}
	if !strings.HasPrefix(d.Path, "/") || d.Handler == nil {
		return "", false
	}
	return method, true
}

type descriptorKey struct{}

// WithDescriptor stores the route descriptor on the request context.
func WithDescriptor(ctx context.Context, d Descriptor) context.Context {
	return context.WithValue(ctx, descriptorKey{}, d)
}

// DescriptorFrom returns the descriptor of the route serving ctx.
func DescriptorFrom(ctx context.Context) (Descriptor, bool) {
	d, ok := ctx.Value(descriptorKey{}).(Descriptor)
	return d, ok
}
