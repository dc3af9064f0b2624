package services

import "testing"

func TestRecordFromStructuredZillowShape(t *testing.T) {
	cleaned := map[string]any{
		"price":      float64(450000),
		"bedrooms":   float64(3),
		"bathrooms":  float64(2.5),
		"livingArea": float64(1850),
		"yearBuilt":  float64(1948),
		"homeType":   "SINGLE_FAMILY",
		"address": map[string]any{
			"streetAddress": "456 Oakwood Dr",
			"city":          "Austin",
			"state":         "TX",
			"zipcode":       "78704",
		},
		"photos":    []any{"https://photos.example/a.jpg", "https://photos.example/b.jpg"},
		"latitude":  float64(30.25),
		"longitude": float64(-97.75),
	}

	record := RecordFromStructured(cleaned)
	if record.Price == nil || *record.Price != 450000 {
		t.Errorf("price = %v", record.Price)
	}
	if record.Baths == nil || *record.Baths != 2.5 {
		t.Errorf("baths = %v", record.Baths)
	}
	if record.Address != "456 Oakwood Dr" || record.Location.City != "Austin" {
		t.Errorf("address = %q, city = %q", record.Address, record.Location.City)
	}
	if len(record.Images) != 2 {
		t.Errorf("images = %v", record.Images)
	}
	if record.Extras["latitude"] != float64(30.25) {
		t.Errorf("extras = %v", record.Extras)
	}
}

func TestRecordFromStructuredListAndWrapper(t *testing.T) {
	inner := map[string]any{"list_price": float64(325000), "beds": float64(2)}

	for name, cleaned := range map[string]any{
		"list":    []any{inner},
		"wrapped": map[string]any{"data": []any{inner}},
	} {
		record := RecordFromStructured(cleaned)
		if record.Price == nil || *record.Price != 325000 {
			t.Errorf("%s: price = %v", name, record.Price)
		}
		if record.Beds == nil || *record.Beds != 2 {
			t.Errorf("%s: beds = %v", name, record.Beds)
		}
	}
}

func TestRecordFromStructuredEmptyInput(t *testing.T) {
	for name, cleaned := range map[string]any{
		"nil":        nil,
		"empty list": []any{},
		"scalar":     "oops",
	} {
		record := RecordFromStructured(cleaned)
		if !record.IsEmpty() {
			t.Errorf("%s: record not empty: %+v", name, record)
		}
	}
}
