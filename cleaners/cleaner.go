// Package cleaners removes provider-internal noise from structured payloads.
// Every cleaner is a pure function: normalize empties, strip the provider's
// deny-list, apply its semantic reductions, then normalize again because
// reductions can leave new empty fields behind.
package cleaners

import (
	"github.com/ottie-ai/ottie-app-1-sub003/jsonval"
)

// ReduceFunc rewrites a single record in place after deny-list stripping.
type ReduceFunc func(record map[string]any)

// clean runs the shared pipeline for one provider. A nil payload passes
// through unchanged; cleaners never fail on missing optional fields.
func clean(v any, deny map[string]struct{}, reduce ReduceFunc) any {
	if v == nil {
		return v
	}

	normalized, ok := jsonval.Normalize(v)
	if !ok {
		return map[string]any{}
	}

	stripped := jsonval.StripKeys(normalized, deny)

	// Decide the wrapping once, then map the reduction over every record.
	payload := jsonval.DetectShape(stripped)
	if payload.Shape == jsonval.ShapeNone {
		out, ok := jsonval.Normalize(stripped)
		if !ok {
			return map[string]any{}
		}
		return out
	}
	for _, rec := range payload.Records {
		reduce(rec)
	}

	out, ok := jsonval.Normalize(payload.Reassemble(payload.Records))
	if !ok {
		return map[string]any{}
	}
	return out
}

// ForProvider returns the cleaner for a provider id, or nil when the provider
// has no structured cleaner.
func ForProvider(id string) func(any) any {
	switch id {
	case "zillow":
		return Zillow
	case "realtor":
		return Realtor
	}
	return nil
}
