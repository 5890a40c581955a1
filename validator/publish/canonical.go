// Package publish emits the engine's two telemetry streams, per-account
// results and the weight-corrections batch, as signed envelopes posted to
// the external authority. Publication is best-effort: nothing in this
// package propagates failure to the orchestrator.
package publish

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// CanonicalJSON renders v as a deterministic JSON string: object keys sorted,
// no insignificant whitespace. The envelope signature covers exactly these
// bytes, so the payload embedded in the envelope must be these bytes too.
func CanonicalJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "could not marshal payload")
	}
	// Round-trip through a generic value: encoding/json sorts map keys on
	// output, which yields the canonical ordering regardless of how v
	// declares its fields. UseNumber keeps numeric literals byte-stable.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, errors.Wrap(err, "could not canonicalize payload")
	}
	out, err := json.Marshal(generic)
	if err != nil {
		return nil, errors.Wrap(err, "could not re-marshal canonical payload")
	}
	return out, nil
}
