package wiring

import (
	"time"

	corelog "gatehouse/internal/core/log"
)

// Named is a built component with its declared name.
type Named struct {
	Name     string
	Instance any
}

// LayerResult holds what one layer produced.
type LayerResult struct {
	Kind  Kind
	Pool  *Pool
	Order []string
}

// Instances returns the layer's components in declaration order.
func (lr LayerResult) Instances() []Named {
	out := make([]Named, 0, len(lr.Order))
	for _, name := range lr.Order {
		v, _ := lr.Pool.Lookup(name)
		out = append(out, Named{Name: name, Instance: v})
	}
	return out
}

// Result is the output of a successful assembly.
type Result struct {
	Layers []LayerResult
}

// Layer returns the result for kind.
func (r *Result) Layer(kind Kind) (LayerResult, bool) {
	for _, l := range r.Layers {
		if l.Kind == kind {
			return l, true
		}
	}
	return LayerResult{}, false
}

// Assembler resolves ordered layers against the core pool.
type Assembler struct {
	core    *Pool
	logger  corelog.Logger
	metrics *Metrics
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger; defaults to the package default.
func WithLogger(l corelog.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// WithMetrics records assembly outcomes.
func WithMetrics(m *Metrics) Option {
	return func(a *Assembler) { a.metrics = m }
}

// NewAssembler creates an assembler whose core pool shadows every layer.
func NewAssembler(core *Pool, opts ...Option) *Assembler {
	a := &Assembler{core: core}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = corelog.Default()
	}
	return a
}

// Core returns the core pool.
func (a *Assembler) Core() *Pool { return a.core }

// Assemble runs every layer in order, seeding the first with seed. The
// first unmet requirement switches the rest of the run to inspect-only
// but evaluation continues, so the returned *Report lists every problem
// in the graph. On failure no layer output is returned.
func (a *Assembler) Assemble(seed *Pool, layers ...Layer) (*Result, error) {
	start := time.Now()
	input := seed
	failed := false
	var errs []*WiringError
	result := &Result{Layers: make([]LayerResult, 0, len(layers))}

	for _, layer := range layers {
		providers := NewProviders(a.core, input)
		out := make(map[string]any, len(layer.Components))
		order := make([]string, 0, len(layer.Components))

		for _, c := range layer.Components {
			outcome, err := Resolve(c, providers, !failed)
			var werr *WiringError
			switch {
			case err != nil:
				werr = &WiringError{Component: c.Name, Layer: layer.Kind, Cause: err}
			case !outcome.Ready():
				werr = &WiringError{Component: c.Name, Layer: layer.Kind, Missing: outcome.Missing}
			}
			if werr != nil {
				a.logger.WithField("layer", string(layer.Kind)).Error(werr.Error())
				errs = append(errs, werr)
				failed = true
				continue
			}

			// Inspected components publish their name with a nil instance.
			out[c.Name] = outcome.Instance
			order = append(order, c.Name)
		}

		pool := NewPool(string(layer.Kind), out)
		result.Layers = append(result.Layers, LayerResult{Kind: layer.Kind, Pool: pool, Order: order})
		input = pool
	}

	if len(errs) > 0 {
		report := &Report{Errors: errs}
		a.logger.Error(FailureMessage)
		a.metrics.observe(report, layers, time.Since(start))
		return nil, report
	}

	a.metrics.observe(nil, layers, time.Since(start))
	return result, nil
}
