package jsonval

// Shape classifies how a provider payload wraps its records. The decision is
// made once, right after the payload is decoded, so cleaners downstream work
// on a known layout instead of re-sniffing the tree.
type Shape int

const (
	ShapeNone Shape = iota // not a record at all
	ShapeRecord
	ShapeList
	ShapeWrapped // single container field holding a record or list
)

// Container field names seen across Apify actor outputs.
var wrapperFields = []string{"data", "apifyData", "results", "items", "listings"}

// Payload is a provider payload with its wrapping decided.
type Payload struct {
	Shape   Shape
	Records []map[string]any
	Wrapper string // set when Shape == ShapeWrapped
	wrapped Shape  // layout inside the wrapper
}

// DetectShape classifies a decoded payload. Unrecognized values yield
// ShapeNone with no records.
func DetectShape(v any) Payload {
	switch val := v.(type) {
	case map[string]any:
		for _, field := range wrapperFields {
			inner, ok := val[field]
			if !ok || len(val) != 1 {
				continue
			}
			p := DetectShape(inner)
			if p.Shape == ShapeRecord || p.Shape == ShapeList {
				return Payload{Shape: ShapeWrapped, Records: p.Records, Wrapper: field, wrapped: p.Shape}
			}
		}
		return Payload{Shape: ShapeRecord, Records: []map[string]any{val}}
	case []any:
		records := make([]map[string]any, 0, len(val))
		for _, item := range val {
			rec, ok := item.(map[string]any)
			if !ok {
				return Payload{Shape: ShapeNone}
			}
			records = append(records, rec)
		}
		return Payload{Shape: ShapeList, Records: records}
	default:
		return Payload{Shape: ShapeNone}
	}
}

// Reassemble rebuilds a value with the payload's original wrapping around the
// given records.
func (p Payload) Reassemble(records []map[string]any) any {
	inner := p.Shape
	if p.Shape == ShapeWrapped {
		inner = p.wrapped
	}

	var body any
	switch inner {
	case ShapeRecord:
		if len(records) == 0 {
			body = map[string]any{}
		} else {
			body = records[0]
		}
	case ShapeList:
		list := make([]any, 0, len(records))
		for _, r := range records {
			list = append(list, r)
		}
		body = list
	default:
		return nil
	}

	if p.Shape == ShapeWrapped {
		return map[string]any{p.Wrapper: body}
	}
	return body
}
