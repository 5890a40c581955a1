package evaluators

import (
	"github.com/bitcast-network/bitcast/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "evaluators")

// ErrAlreadyRegistered is returned when two evaluators claim the same name.
var ErrAlreadyRegistered = errors.New("evaluator already registered for platform")

// Registry maps platform names to evaluators. Selection walks an ordered
// priority list first, then the remaining evaluators in registration order.
// Priority order is data, reorderable at startup.
type Registry struct {
	order      []string
	evaluators map[string]PlatformEvaluator
	priority   []string
}

// NewRegistry builds an empty registry with the given priority list.
func NewRegistry(priority ...string) *Registry {
	return &Registry{
		evaluators: make(map[string]PlatformEvaluator),
		priority:   priority,
	}
}

// Register adds an evaluator under its platform name.
func (r *Registry) Register(e PlatformEvaluator) error {
	name := e.Name()
	if _, ok := r.evaluators[name]; ok {
		return errors.Wrap(ErrAlreadyRegistered, name)
	}
	r.evaluators[name] = e
	r.order = append(r.order, name)
	log.WithField("platform", name).Debug("Registered platform evaluator")
	return nil
}

// Select returns the first evaluator that recognizes the response, walking
// the priority list and then the remaining registrations in insertion order.
// The boolean is false when no evaluator matches.
func (r *Registry) Select(resp *types.MinerResponse) (PlatformEvaluator, bool) {
	inPriority := make(map[string]bool, len(r.priority))
	for _, name := range r.priority {
		inPriority[name] = true
		if e, ok := r.evaluators[name]; ok && e.CanEvaluate(resp) {
			return e, true
		}
	}
	for _, name := range r.order {
		if inPriority[name] {
			continue
		}
		if e := r.evaluators[name]; e.CanEvaluate(resp) {
			return e, true
		}
	}
	return nil, false
}

// Platforms returns the registered platform names in registration order.
func (r *Registry) Platforms() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
