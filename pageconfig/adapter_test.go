package pageconfig

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestToCurrentDetectsV2(t *testing.T) {
	raw := []byte(`{
		"_version": 2,
		"siteSettings": {"theme": "modern", "loader": {"type": "spinner"}},
		"sectionSettings": [{"id": "a", "type": "hero", "variant": "v1", "colorScheme": "dark"}],
		"siteContent": {"a": {"title": "Home"}}
	}`)
	cfg := ToCurrent(raw)
	if cfg.SiteSettings.Theme != "modern" {
		t.Errorf("theme = %q", cfg.SiteSettings.Theme)
	}
	if len(cfg.SectionSettings) != 1 || cfg.SectionSettings[0].ID != "a" {
		t.Fatalf("sections = %+v", cfg.SectionSettings)
	}
	if cfg.SiteContent["a"]["title"] != "Home" {
		t.Errorf("content = %+v", cfg.SiteContent)
	}
}

func TestToCurrentDetectsV1(t *testing.T) {
	raw := []byte(`{
		"theme": "bold",
		"loader": {"type": "bar"},
		"sections": [
			{"id": "hero-1", "type": "hero", "variant": "centered", "colorScheme": "light", "data": {"headline": "x"}},
			{"id": "gal-1", "type": "gallery", "variant": "grid", "colorScheme": "dark", "data": {"images": []}}
		]
	}`)
	cfg := ToCurrent(raw)
	if cfg.Version != CurrentVersion {
		t.Errorf("version = %d", cfg.Version)
	}
	if cfg.SiteSettings.Theme != "bold" || cfg.SiteSettings.Loader.Type != "bar" {
		t.Errorf("settings = %+v", cfg.SiteSettings)
	}
	if len(cfg.SectionSettings) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(cfg.SectionSettings))
	}
	if cfg.SectionSettings[0].ID != "hero-1" || cfg.SectionSettings[1].ID != "gal-1" {
		t.Errorf("section order not preserved: %+v", cfg.SectionSettings)
	}
	if cfg.SiteContent["hero-1"]["headline"] != "x" {
		t.Errorf("content not carried over: %+v", cfg.SiteContent)
	}
}

func TestToCurrentMalformedBlobDegrades(t *testing.T) {
	for _, raw := range []string{`{"foo": "bar"}`, `[]`, `"nope"`, `{broken`, ``} {
		cfg := ToCurrent([]byte(raw))
		if cfg == nil {
			t.Fatalf("ToCurrent(%q) returned nil", raw)
		}
		if cfg.Version != CurrentVersion {
			t.Errorf("ToCurrent(%q) version = %d", raw, cfg.Version)
		}
		if cfg.SiteSettings.Theme != DefaultTheme {
			t.Errorf("ToCurrent(%q) theme = %q", raw, cfg.SiteSettings.Theme)
		}
		if cfg.SiteSettings.Loader.Type != "none" {
			t.Errorf("ToCurrent(%q) loader = %+v", raw, cfg.SiteSettings.Loader)
		}
		if len(cfg.SectionSettings) != 0 || len(cfg.SiteContent) != 0 {
			t.Errorf("ToCurrent(%q) not empty: %+v", raw, cfg)
		}
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	v1 := &V1Config{
		Theme:  "warm",
		Loader: Loader{Type: "fade", Color: "#fff"},
		Sections: []V1Section{
			{ID: "s1", Type: "hero", Variant: "split", ColorScheme: "dark", Data: map[string]any{"title": "123 Main St"}},
			{ID: "s2", Type: "highlights", Variant: "cards", ColorScheme: "light", Data: map[string]any{"items": []any{"3 beds"}}},
			{ID: "s3", Type: "contact", Variant: "simple", ColorScheme: "light", Data: map[string]any{}},
		},
	}

	raw, err := json.Marshal(v1)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := ToLegacyView(ToCurrent(raw))

	if got.Theme != v1.Theme || got.Loader != v1.Loader {
		t.Errorf("settings changed: %+v", got)
	}
	if len(got.Sections) != len(v1.Sections) {
		t.Fatalf("section count changed: %d", len(got.Sections))
	}
	for i := range v1.Sections {
		want, have := v1.Sections[i], got.Sections[i]
		if have.ID != want.ID || have.Type != want.Type ||
			have.Variant != want.Variant || have.ColorScheme != want.ColorScheme {
			t.Errorf("section %d changed: %+v vs %+v", i, have, want)
		}
		if !reflect.DeepEqual(have.Data, want.Data) {
			t.Errorf("section %d data changed: %v vs %v", i, have.Data, want.Data)
		}
	}
}

func TestToLegacyViewMissingContentKeepsSection(t *testing.T) {
	v2 := Empty()
	v2.SectionSettings = []SectionSetting{{ID: "orphan", Type: "hero", Variant: "v", ColorScheme: "light"}}
	v1 := ToLegacyView(v2)
	if len(v1.Sections) != 1 {
		t.Fatalf("orphan section dropped")
	}
	if v1.Sections[0].Data == nil || len(v1.Sections[0].Data) != 0 {
		t.Errorf("expected empty data, got %v", v1.Sections[0].Data)
	}
}
