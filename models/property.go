package models

// PropertyRecord holds normalized property facts pulled out of a listing
// page. Numeric fields are pointers: nil means "not found", never zero. The
// extractor only fills a field when a selector or regex actually matched, so
// every non-nil value is traceable to a source fragment.
type PropertyRecord struct {
	Title        string         `json:"title,omitempty"`
	Address      string         `json:"address,omitempty"`
	Price        *int           `json:"price,omitempty"`
	PropertyType string         `json:"property_type,omitempty"`
	Beds         *int           `json:"beds,omitempty"`
	Baths        *float64       `json:"baths,omitempty"`
	SqFt         *int           `json:"sqft,omitempty"`
	LotSqFt      *int           `json:"lot_sqft,omitempty"`
	YearBuilt    *int           `json:"year_built,omitempty"`
	Description  string         `json:"description,omitempty"`
	Images       []string       `json:"images,omitempty"`
	Features     []string       `json:"features,omitempty"`
	Location     Location       `json:"location"`
	Extras       map[string]any `json:"extras,omitempty"`
}

// Location is the structured portion of an address.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

// IsEmpty reports whether extraction found nothing usable at all. Callers
// check this instead of catching an error: a sparse record is valid output.
func (r *PropertyRecord) IsEmpty() bool {
	if r == nil {
		return true
	}
	return r.Title == "" && r.Address == "" && r.Price == nil &&
		r.Beds == nil && r.Baths == nil && r.SqFt == nil &&
		r.Description == "" && len(r.Images) == 0 && len(r.Features) == 0
}
