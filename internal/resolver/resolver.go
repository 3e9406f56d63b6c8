// Package resolver expands configured service entries into concrete per-host
// service instances by matching entry names against the unit names discovered
// on a host.
package resolver

import (
	"sort"

	"github.com/svcdash/svcdash/internal/config"
	"github.com/svcdash/svcdash/internal/inventory"
	"github.com/svcdash/svcdash/internal/logger"
)

// Instance is a concrete unit on a concrete host, carrying the files and
// commands inherited from the spec that matched it. Instances are rebuilt
// from scratch every cycle; they have no identity beyond unit+host within one.
type Instance struct {
	// Unit is the concrete unit name (for a literal spec that matched
	// nothing on the host, this is the configured name itself, so the
	// missing service still shows up as a row).
	Unit string

	// Spec is the entry that produced this instance.
	Spec config.ServiceSpec
}

// Resolver expands spec lists against discovered unit sets.
type Resolver struct {
	log logger.Logger
}

// New creates a Resolver logging through log.
func New(log logger.Logger) *Resolver {
	if log == nil {
		log = logger.Noop()
	}
	return &Resolver{log: log}
}

// Resolve walks specs in configuration order and returns the instances that
// apply to host given its discovered units. Deterministic: the same inputs
// always produce the same ordered result.
//
// Rules:
//   - A literal spec resolves to its own name whether or not the unit was
//     discovered; an offline or unknown service is reported, not dropped.
//   - A glob spec resolves to every discovered unit it matches; zero matches
//     produce nothing.
//   - Each unit is claimed by the first spec that matches it. Later specs
//     never re-claim a unit, regardless of specificity.
func (r *Resolver) Resolve(specs []config.ServiceSpec, host inventory.Host, discovered []string) []Instance {
	units := append([]string(nil), discovered...)
	sort.Strings(units)

	var out []Instance
	claimed := make(map[string]bool)

	for _, spec := range specs {
		if !spec.AppliesTo(host.Group) {
			continue
		}

		pat, err := Compile(spec.Name)
		if err != nil {
			r.log.Warn("skipping unparseable pattern %q: %v", spec.Name, err)
			continue
		}

		if pat.IsLiteral() {
			if claimed[spec.Name] {
				r.log.Debug("unit %q on %s already claimed by an earlier entry", spec.Name, host.Address)
				continue
			}
			claimed[spec.Name] = true
			out = append(out, Instance{Unit: spec.Name, Spec: spec})
			continue
		}

		matches := 0
		for _, unit := range units {
			if !pat.Match(unit) {
				continue
			}
			matches++
			if claimed[unit] {
				r.log.Debug("unit %q on %s matched %q but is claimed by an earlier entry", unit, host.Address, spec.Name)
				continue
			}
			claimed[unit] = true
			out = append(out, Instance{Unit: unit, Spec: spec})
		}
		r.log.Debug("pattern %q matched %d unit(s) on %s", spec.Name, matches, host.Address)
	}

	return out
}
