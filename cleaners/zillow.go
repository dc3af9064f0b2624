package cleaners

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ottie-ai/ottie-app-1-sub003/jsonval"
)

// Fields the Zillow detail actor emits that are session, tracking, or
// app-internal plumbing. Kept as data so adding names never touches cleaner
// logic.
var zillowDenyList = []string{
	"zpid",
	"ssid",
	"submitFlow",
	"searchPageSeoObject",
	"adTargets",
	"abTestInfo",
	"analyticsPayload",
	"gaPage",
	"pageViewCount",
	"favoriteCount",
	"viewCount",
	"trackingParams",
	"requestId",
	"sessionId",
	"clientId",
	"guid",
	"csrfToken",
	"zestimateDeepDiveData",
	"onsiteMessage",
	"tourEligibility",
	"contactFormRenderData",
	"formattedChip",
	"staticMapUrlParams",
	"hiResImageLink",
	"mediumImageLink",
	"desktopWebHdpImageLink",
	"postingContact",
	"postingUrl",
	"brokerIdDimension",
	"brokerageName2",
	"listingMetadata",
	"listingSubType",
	"vrModel",
	"thirdPartyVirtualTour",
	"richMedia",
	"richMediaVideos",
	"homeInsights",
	"selfTour",
	"tourViewCount",
	"zoResaleStartAnOfferEnabled",
	"zoMarketName",
	"timeZone",
	"pals",
	"nearbyCities",
	"nearbyNeighborhoods",
	"nearbyZipcodes",
	"nearbyRegions",
	"nearbyHomes",
	"comps",
	"collections",
	"foreclosureTypes",
	"countyFIPS",
	"parcelId",
	"taxHistory",
	"priceHistory",
	"datePostedString",
	"dateSoldString",
	"isListedByOwner",
	"isZillowOwned",
	"isPremierBuilder",
	"isFeatured",
	"isShowcaseListing",
	"listing_sub_type",
	"tvCollectionImageLink",
	"tvHighResImageLink",
	"tvImageLink",
	"streetViewMetadataUrlMapLightboxAddress",
	"streetViewMetadataUrlMediaWallAddress",
	"streetViewMetadataUrlMediaWallLatLong",
	"streetViewServiceUrl",
	"streetViewTileImageUrlMediumAddress",
	"streetViewTileImageUrlMediumLatLong",
}

var zillowDeny = jsonval.DenySet(zillowDenyList)

// Zillow cleans one payload from the Zillow detail actor. Accepts a bare
// record, an array of records, or a wrapped container.
func Zillow(v any) any {
	return clean(v, zillowDeny, reduceZillow)
}

func reduceZillow(record map[string]any) {
	collapsePhotoVariants(record, "photos")
	collapsePhotoVariants(record, "responsivePhotos")
	extractStaticMapCoords(record)

	// Room-level sub-records repeat the parent's noise fields; the deny-list
	// already ran recursively, so only the photo maps remain to reduce.
	if rooms, ok := record["rooms"].([]any); ok {
		for _, r := range rooms {
			if room, ok := r.(map[string]any); ok {
				collapsePhotoVariants(room, "photos")
			}
		}
	}
}

// collapsePhotoVariants reduces a format → size-variant map ("jpeg" →
// [{width, url}, ...]) so each format keeps only its largest variant.
func collapsePhotoVariants(record map[string]any, key string) {
	formats, ok := record[key].(map[string]any)
	if !ok {
		return
	}
	for format, raw := range formats {
		variants, ok := raw.([]any)
		if !ok {
			continue
		}
		best := largestByWidth(variants)
		if best == nil {
			continue
		}
		formats[format] = []any{best}
	}
}

func largestByWidth(variants []any) map[string]any {
	var best map[string]any
	bestWidth := -1.0
	for _, raw := range variants {
		v, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		width := numberField(v, "width")
		if width > bestWidth {
			bestWidth = width
			best = v
		}
	}
	return best
}

func numberField(m map[string]any, key string) float64 {
	switch n := m[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

// extractStaticMapCoords recovers {latitude, longitude} from the embedded
// map-tile image URL and drops the URL itself.
func extractStaticMapCoords(record map[string]any) {
	raw, ok := record["staticMap"]
	if !ok {
		return
	}
	defer delete(record, "staticMap")

	mapURL := ""
	switch m := raw.(type) {
	case string:
		mapURL = m
	case map[string]any:
		if s, ok := m["url"].(string); ok {
			mapURL = s
		} else if sources, ok := m["sources"].([]any); ok && len(sources) > 0 {
			if src, ok := sources[0].(map[string]any); ok {
				mapURL, _ = src["url"].(string)
			}
		}
	}
	if mapURL == "" {
		return
	}

	u, err := url.Parse(mapURL)
	if err != nil {
		return
	}
	center := u.Query().Get("center")
	parts := strings.Split(center, ",")
	if len(parts) != 2 {
		return
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return
	}

	if _, exists := record["latitude"]; !exists {
		record["latitude"] = lat
	}
	if _, exists := record["longitude"]; !exists {
		record["longitude"] = lng
	}
}
