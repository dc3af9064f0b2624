package cleaners

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad test JSON: %v", err)
	}
	return v
}

func TestZillowRemovesTechnicalFieldsAndCollapsesPhotos(t *testing.T) {
	in := decode(t, `{
		"submitFlow": {"step": "contact", "token": "xyz"},
		"price": 450000,
		"zpid": "123",
		"photos": {
			"jpeg": [{"width": 100, "url": "a"}, {"width": 800, "url": "b"}],
			"webp": [{"width": 400, "url": "c"}]
		}
	}`)

	out := Zillow(in).(map[string]any)

	if _, ok := out["submitFlow"]; ok {
		t.Errorf("submitFlow survived cleaning")
	}
	if _, ok := out["zpid"]; ok {
		t.Errorf("zpid survived cleaning")
	}
	if out["price"] != float64(450000) {
		t.Errorf("price = %v", out["price"])
	}

	photos := out["photos"].(map[string]any)
	jpeg := photos["jpeg"].([]any)
	if len(jpeg) != 1 {
		t.Fatalf("expected 1 jpeg variant, got %d", len(jpeg))
	}
	if jpeg[0].(map[string]any)["width"] != float64(800) {
		t.Errorf("kept wrong variant: %v", jpeg[0])
	}
	webp := photos["webp"].([]any)
	if len(webp) != 1 || webp[0].(map[string]any)["url"] != "c" {
		t.Errorf("webp variant lost: %v", webp)
	}
}

func TestZillowStaticMapCoordinates(t *testing.T) {
	in := decode(t, `{
		"price": 1,
		"staticMap": "https://maps.googleapis.com/maps/api/staticmap?center=42.33104,-82.908614&zoom=15"
	}`)
	out := Zillow(in).(map[string]any)
	if _, ok := out["staticMap"]; ok {
		t.Errorf("staticMap URL should be discarded")
	}
	if out["latitude"] != 42.33104 || out["longitude"] != -82.908614 {
		t.Errorf("coordinates not recovered: lat=%v lng=%v", out["latitude"], out["longitude"])
	}
}

func TestZillowShapes(t *testing.T) {
	bare := decode(t, `{"zpid": "1", "price": 5}`)
	if out := Zillow(bare).(map[string]any); out["price"] != float64(5) {
		t.Errorf("bare record: %v", out)
	}

	list := decode(t, `[{"zpid": "1", "price": 5}, {"zpid": "2", "price": 6}]`)
	outList := Zillow(list).([]any)
	if len(outList) != 2 {
		t.Fatalf("list length changed: %d", len(outList))
	}
	if _, ok := outList[0].(map[string]any)["zpid"]; ok {
		t.Errorf("deny-list not applied inside list")
	}

	wrapped := decode(t, `{"apifyData": [{"zpid": "1", "price": 5}]}`)
	outWrapped := Zillow(wrapped).(map[string]any)
	inner, ok := outWrapped["apifyData"].([]any)
	if !ok || len(inner) != 1 {
		t.Fatalf("wrapping not preserved: %v", outWrapped)
	}
	if inner[0].(map[string]any)["price"] != float64(5) {
		t.Errorf("wrapped record mangled: %v", inner[0])
	}
}

func TestZillowNilPassesThrough(t *testing.T) {
	if out := Zillow(nil); out != nil {
		t.Errorf("nil input should pass through, got %v", out)
	}
}

func TestZillowIdempotentOnOwnOutput(t *testing.T) {
	in := decode(t, `{
		"price": 450000,
		"zpid": "123",
		"empty": "",
		"photos": {"jpeg": [{"width": 100, "url": "a"}, {"width": 800, "url": "b"}]},
		"staticMap": "https://maps.example.com/tile?center=1.5,-2.5"
	}`)
	once := Zillow(in)
	twice := Zillow(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("cleaner not idempotent on its own output:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestRealtorCleaner(t *testing.T) {
	in := decode(t, `{
		"mpr_id": "998",
		"tracking": "tkn",
		"list_price": 625000,
		"photos": [{"href": "https://img/1.jpg", "tags": ["kitchen"]}, {"href": "https://img/2.jpg"}],
		"location": {
			"address": {
				"line": "456 Oak Ave",
				"city": "Austin",
				"coordinate": {"lat": 30.26, "lon": -97.74}
			}
		}
	}`)
	out := Realtor(in).(map[string]any)

	if _, ok := out["mpr_id"]; ok {
		t.Errorf("mpr_id survived")
	}
	if _, ok := out["location"]; ok {
		t.Errorf("location should be flattened away")
	}
	addr := out["address"].(map[string]any)
	if addr["city"] != "Austin" {
		t.Errorf("address lost: %v", addr)
	}
	if out["latitude"] != 30.26 || out["longitude"] != -97.74 {
		t.Errorf("coordinates lost: %v %v", out["latitude"], out["longitude"])
	}
	photos := out["photos"].([]any)
	if len(photos) != 2 || photos[0] != "https://img/1.jpg" {
		t.Errorf("photos not collapsed to hrefs: %v", photos)
	}
}

func TestRealtorIdempotentOnOwnOutput(t *testing.T) {
	in := decode(t, `{
		"list_price": 625000,
		"photos": [{"href": "https://img/1.jpg"}],
		"location": {"address": {"line": "1 St", "coordinate": {"lat": 1.0, "lon": 2.0}}}
	}`)
	once := Realtor(in)
	twice := Realtor(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("cleaner not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestForProvider(t *testing.T) {
	if ForProvider("zillow") == nil || ForProvider("realtor") == nil {
		t.Fatalf("known providers must have cleaners")
	}
	if ForProvider("craigslist") != nil {
		t.Fatalf("unknown provider should return nil")
	}
}
