// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

// Package metrics adapts a small set of engine counters to Prometheus's
// exposition format: a registry wrapping prometheus/client_golang directly
// rather than an intermediate metrics abstraction.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the counters every engine package reports into. A nil
// *Registry is valid and silently discards observations, so engines can
// take a *Registry field that defaults to nothing-configured.
type Registry struct {
	once sync.Once

	NodesAllocated  *prometheus.CounterVec
	NodesReleased   *prometheus.CounterVec
	PathCopies      *prometheus.CounterVec
	TransientInPlaceMutations *prometheus.CounterVec
}

// New registers a fresh set of collectors against reg (use
// prometheus.NewRegistry() for an isolated registry in tests, or
// prometheus.DefaultRegisterer for a process-wide one).
func New(reg prometheus.Registerer) *Registry {
	m := &Registry{
		NodesAllocated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "persist",
			Name:      "nodes_allocated_total",
			Help:      "Node cells allocated, by engine and variant.",
		}, []string{"engine", "variant"}),
		NodesReleased: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "persist",
			Name:      "nodes_released_total",
			Help:      "Node cells released, by engine.",
		}, []string{"engine"}),
		PathCopies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "persist",
			Name:      "path_copies_total",
			Help:      "Path-copy operations performed, by engine and op.",
		}, []string{"engine", "op"}),
		TransientInPlaceMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "persist",
			Name:      "transient_inplace_mutations_total",
			Help:      "Mutations a transient performed in place instead of via path-copy.",
		}, []string{"engine"}),
	}
	reg.MustRegister(m.NodesAllocated, m.NodesReleased, m.PathCopies, m.TransientInPlaceMutations)
	return m
}

// NodeAllocated records one allocation of the given variant ("leaf",
// "inner", "bitmap", "collision") in engine ("rbt", "champ").
func (m *Registry) NodeAllocated(engine, variant string) {
	if m == nil {
		return
	}
	m.NodesAllocated.WithLabelValues(engine, variant).Inc()
}

// NodeReleased records one node release in engine.
func (m *Registry) NodeReleased(engine string) {
	if m == nil {
		return
	}
	m.NodesReleased.WithLabelValues(engine).Inc()
}

// PathCopy records one path-copy walk for op ("push_back", "set",
// "concat", ...) in engine.
func (m *Registry) PathCopy(engine, op string) {
	if m == nil {
		return
	}
	m.PathCopies.WithLabelValues(engine, op).Inc()
}

// TransientInPlace records one in-place mutation a transient performed
// instead of a path-copy, in engine.
func (m *Registry) TransientInPlace(engine string) {
	if m == nil {
		return
	}
	m.TransientInPlaceMutations.WithLabelValues(engine).Inc()
}

// Handler returns an http.Handler exposing reg's collectors in Prometheus
// text format, for embedding in a host process's own mux.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
