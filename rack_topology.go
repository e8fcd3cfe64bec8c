// rack_topology.go - Topological scheduling of the rack's module graph

/*
███  █  █  █████  █  █  ███  █████  ███  ████  █  █      ███    ██   ████  █  █
 █   ██ █    █    █  █   █     █     █   █  █  ██ █      █  █  █  █  █     █ █
 █   █ ██    █    █  █   █     █     █   █  █  █ ██      ███   ████  █     ██
 █   █  █    █    █  █   █     █     █   █  █  █  █      █ █   █  █  █     █ █
███  █  █    █    ████  ███    █    ███  ████  █  █      █  █  █  █  ████  █  █

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionRack
License: GPLv3 or later
*/

package main

import "sort"

// BuildTopology computes the module-level execution order with Kahn's
// algorithm over the wire set and caches it on the rack. It must run after
// the last Connect and before the first render tick; the order is never
// recomputed mid-render.
//
// Edges are module-level: a wire from any output of A to any input of B with
// A != B is a dependency of B on A. Self-loops carry no dependency; at
// evaluation time they read the module's scratch slot for the current frame,
// which for a not-yet-evaluated module is the previous frame's value.
//
// Ties break in ascending handle order so the order is deterministic for a
// given construction sequence.
//
// A cycle cannot be ordered. BuildTopology then degrades to ascending handle
// order and returns a non-fatal *RackError so the operator can be warned:
// under the fallback order a module can read one-sample-stale values from
// modules evaluated after it. Acceptable only because feedback patches are
// not a supported feature of this engine.
func (r *Rack) BuildTopology() error {
	n := len(r.modules)
	indeg := make([]int, n)
	for _, w := range r.wires {
		if w.FromModule != w.ToModule {
			indeg[w.ToModule]++
		}
	}

	queue := make([]int, 0, n)
	for m := 0; m < n; m++ {
		if indeg[m] == 0 {
			queue = append(queue, m)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		order = append(order, m)

		ready := []int(nil)
		for _, w := range r.wires {
			if w.FromModule != m || w.ToModule == m {
				continue
			}
			indeg[w.ToModule]--
			if indeg[w.ToModule] == 0 {
				ready = append(ready, w.ToModule)
			}
		}
		sort.Ints(ready)
		queue = append(queue, ready...)
	}

	r.topoBuilt = true
	if len(order) != n {
		// Cycle somewhere in the graph. Fall back to creation order.
		order = order[:0]
		for m := 0; m < n; m++ {
			order = append(order, m)
		}
		r.topoOrder = order
		r.fallback = true
		return &RackError{
			Operation: "topology build",
			Details:   "cycle detected; using module creation order, feedback will read one-sample-stale values",
		}
	}
	r.topoOrder = order
	r.fallback = false
	return nil
}
