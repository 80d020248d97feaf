package wiring

// Outcome is the result of resolving one component: either Ready with an
// instance or Unsatisfied with the missing names, never both.
type Outcome struct {
	Instance any
	Missing  []string
	ready    bool
	built    bool
}

// Ready reports whether every required name was found.
func (o Outcome) Ready() bool { return o.ready }

// Built reports whether the constructor ran.
func (o Outcome) Built() bool { return o.built }

func ready(instance any, built bool) Outcome {
	return Outcome{Instance: instance, ready: true, built: built}
}

func unsatisfied(missing []string) Outcome {
	return Outcome{Missing: missing}
}

// Resolve checks c's requirement against providers. Missing names are
// reported in requirement order and the constructor is not invoked. With
// constructNow false a satisfied component is only inspected. A
// constructor failure is returned as err alongside an Unsatisfied outcome
// with no missing names.
func Resolve(c Component, providers Providers, constructNow bool) (Outcome, error) {
	var missing []string
	seen := make(map[string]struct{}, len(c.Requires))
	for _, name := range c.Requires {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if !providers.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return unsatisfied(missing), nil
	}
	if !constructNow || c.Build == nil {
		return ready(nil, false), nil
	}

	instance, err := c.Build(providers)
	if err != nil {
		return Outcome{}, err
	}
	return ready(instance, true), nil
}
