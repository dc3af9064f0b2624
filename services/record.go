package services

import (
	"strings"

	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

// RecordFromStructured maps a cleaned provider payload onto the common
// property record. Cleaned payloads arrive as a single record, a list of
// records, or nil when the cleaner stripped everything.
func RecordFromStructured(cleaned any) *models.PropertyRecord {
	record := &models.PropertyRecord{}

	m := firstRecord(cleaned)
	if m == nil {
		return record
	}

	record.Title = strField(m, "title", "name", "headline")
	record.Price = numField(m, "price", "list_price", "listPrice", "unformattedPrice")
	record.Beds = numField(m, "bedrooms", "beds")
	record.Baths = floatField(m, "bathrooms", "baths")
	record.SqFt = numField(m, "livingArea", "sqft", "living_area")
	record.LotSqFt = numField(m, "lotSize", "lot_sqft", "lotAreaValue")
	record.YearBuilt = numField(m, "yearBuilt", "year_built")
	record.PropertyType = strField(m, "homeType", "propertyType", "type")
	record.Description = strField(m, "description", "text", "homeDescription")
	record.Images = strSlice(m, "photos", "responsivePhotos", "images")
	record.Features = strSlice(m, "features", "amenities")

	// Zillow nests the address; the realtor cleaner flattens it.
	if addr, ok := m["address"].(map[string]any); ok {
		record.Address = strField(addr, "streetAddress", "line")
		record.Location.City = strField(addr, "city")
		record.Location.State = strField(addr, "state", "state_code")
		record.Location.Zip = strField(addr, "zipcode", "postal_code")
	} else {
		record.Address = strField(m, "address", "streetAddress", "line")
		record.Location.City = strField(m, "city")
		record.Location.State = strField(m, "state", "state_code")
		record.Location.Zip = strField(m, "zipcode", "postal_code")
	}
	record.Location.Country = strField(m, "country")

	extras := map[string]any{}
	for _, key := range []string{"latitude", "longitude", "daysOnZillow", "hoa_fee", "monthlyHoaFee"} {
		if v, ok := m[key]; ok {
			extras[key] = v
		}
	}
	if len(extras) > 0 {
		record.Extras = extras
	}

	return record
}

func firstRecord(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		// A single-key wrapper holds the records one level down.
		if len(t) == 1 {
			for _, inner := range t {
				if m := firstRecord(inner); m != nil {
					return m
				}
			}
		}
		return t
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

func strField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func numField(m map[string]any, keys ...string) *int {
	for _, key := range keys {
		if f, ok := m[key].(float64); ok {
			n := int(f)
			return &n
		}
	}
	return nil
}

func floatField(m map[string]any, keys ...string) *float64 {
	for _, key := range keys {
		if f, ok := m[key].(float64); ok {
			v := f
			return &v
		}
	}
	return nil
}

func strSlice(m map[string]any, keys ...string) []string {
	for _, key := range keys {
		items, ok := m[key].([]any)
		if !ok {
			continue
		}
		var out []string
		for _, item := range items {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
