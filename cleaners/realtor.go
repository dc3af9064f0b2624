package cleaners

import "github.com/ottie-ai/ottie-app-1-sub003/jsonval"

// Realtor.com actor noise fields. The actor dumps most of the site's GraphQL
// response, so the list runs long.
var realtorDenyList = []string{
	"property_id",
	"listing_id",
	"permalink",
	"search_promotions",
	"branding",
	"source",
	"lead_attributes",
	"flags",
	"matterport",
	"photo_count",
	"primary_photo",
	"tracking_params",
	"tracking",
	"mpr_id",
	"consumer_advertisers",
	"advertisers",
	"products",
	"suppression_flags",
	"buyers",
	"last_update_date",
	"list_date",
	"price_reduced_date",
	"status_change_date",
	"open_houses",
	"tax_record",
	"local",
	"estimate",
	"current_estimates",
	"estimates",
	"nearby_schools",
	"schools",
	"monthly_fees",
	"one_time_fees",
	"units",
	"community",
	"hoa",
	"popularity",
	"property_history",
	"sold_history",
	"mortgage",
	"listing_provider",
	"provider_url",
	"lead_forms",
	"photo_tags",
	"search_flags",
	"pet_policy",
	"assigned_schools",
	"terms",
	"rent_to_own",
	"ready_to_build",
	"deliverable_event_types",
	"page_no",
	"rank",
	"list_tracking",
	"data_source_name",
	"detail_tracking",
}

var realtorDeny = jsonval.DenySet(realtorDenyList)

// Realtor cleans one payload from the Realtor.com actor.
func Realtor(v any) any {
	return clean(v, realtorDeny, reduceRealtor)
}

func reduceRealtor(record map[string]any) {
	collapseRealtorPhotos(record)
	flattenRealtorLocation(record)
}

// collapseRealtorPhotos reduces photo objects to their href strings; the
// actor repeats per-size variants the renderer never uses.
func collapseRealtorPhotos(record map[string]any) {
	photos, ok := record["photos"].([]any)
	if !ok {
		return
	}
	hrefs := make([]any, 0, len(photos))
	for _, raw := range photos {
		switch p := raw.(type) {
		case string:
			// already collapsed
			if p != "" {
				hrefs = append(hrefs, p)
			}
		case map[string]any:
			if href, ok := p["href"].(string); ok && href != "" {
				hrefs = append(hrefs, href)
			}
		}
	}
	record["photos"] = hrefs
}

// flattenRealtorLocation lifts the nested location.address block to the top
// level and keeps coordinates as plain latitude/longitude fields.
func flattenRealtorLocation(record map[string]any) {
	location, ok := record["location"].(map[string]any)
	if !ok {
		return
	}
	if address, ok := location["address"].(map[string]any); ok {
		if coord, ok := address["coordinate"].(map[string]any); ok {
			if lat, ok := coord["lat"].(float64); ok {
				record["latitude"] = lat
			}
			if lng, ok := coord["lon"].(float64); ok {
				record["longitude"] = lng
			}
			delete(address, "coordinate")
		}
		record["address"] = address
	}
	delete(record, "location")
}
