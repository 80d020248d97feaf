package wiring

// Requirement is the ordered set of capability names a component needs.
// It is declared next to the component and never executed.
type Requirement []string

// BuildFunc constructs a component from the providers its requirement names.
type BuildFunc func(p Providers) (any, error)

// Component is one node of the wiring graph. Its built instance is
// published to the next layer under Name.
type Component struct {
	Name     string
	Requires Requirement
	Build    BuildFunc
}

// Kind names a layer in reports.
type Kind string

const (
	KindRepository   Kind = "repository"
	KindService      Kind = "service"
	KindHandlerGroup Kind = "handlerGroup"
)

// Layer is an ordered group of components resolved against the same pools.
type Layer struct {
	Kind       Kind
	Components []Component
}
