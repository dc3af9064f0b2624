package pageconfig

import "encoding/json"

// ToCurrent normalizes any persisted blob into the v2 shape. It never fails:
// a blob matching neither shape degrades to the empty default so a corrupt
// configuration cannot block the rest of the page.
func ToCurrent(raw json.RawMessage) *V2Config {
	if len(raw) == 0 {
		return Empty()
	}

	var probe struct {
		Version  int               `json:"_version"`
		Sections []json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Empty()
	}

	if probe.Version == CurrentVersion {
		var v2 V2Config
		if err := json.Unmarshal(raw, &v2); err != nil {
			return Empty()
		}
		return withDefaults(&v2)
	}

	if probe.Sections != nil {
		var v1 V1Config
		if err := json.Unmarshal(raw, &v1); err != nil {
			return Empty()
		}
		return FromLegacy(&v1)
	}

	return Empty()
}

// FromLegacy converts a v1 configuration, preserving section ids and order.
func FromLegacy(v1 *V1Config) *V2Config {
	v2 := &V2Config{
		Version: CurrentVersion,
		SiteSettings: SiteSettings{
			Theme:  v1.Theme,
			Loader: v1.Loader,
		},
		SectionSettings: make([]SectionSetting, 0, len(v1.Sections)),
		SiteContent:     make(map[string]map[string]any, len(v1.Sections)),
	}
	for _, s := range v1.Sections {
		v2.SectionSettings = append(v2.SectionSettings, SectionSetting{
			ID:          s.ID,
			Type:        s.Type,
			Variant:     s.Variant,
			ColorScheme: s.ColorScheme,
		})
		if s.Data != nil {
			v2.SiteContent[s.ID] = s.Data
		}
	}
	return withDefaults(v2)
}

// ToLegacyView rebuilds the flat v1 shape for the editor UI, merging each
// section's settings with its content by id. A settings entry with no content
// yields a section with empty data, never a dropped section.
func ToLegacyView(v2 *V2Config) *V1Config {
	if v2 == nil {
		v2 = Empty()
	}
	v1 := &V1Config{
		Theme:    v2.SiteSettings.Theme,
		Loader:   v2.SiteSettings.Loader,
		Sections: make([]V1Section, 0, len(v2.SectionSettings)),
	}
	for _, s := range v2.SectionSettings {
		data := v2.SiteContent[s.ID]
		if data == nil {
			data = map[string]any{}
		}
		v1.Sections = append(v1.Sections, V1Section{
			ID:          s.ID,
			Type:        s.Type,
			Variant:     s.Variant,
			ColorScheme: s.ColorScheme,
			Data:        data,
		})
	}
	return v1
}

func withDefaults(v2 *V2Config) *V2Config {
	v2.Version = CurrentVersion
	if v2.SiteSettings.Theme == "" {
		v2.SiteSettings.Theme = DefaultTheme
	}
	if v2.SiteSettings.Loader.Type == "" {
		v2.SiteSettings.Loader.Type = "none"
	}
	if v2.SectionSettings == nil {
		v2.SectionSettings = []SectionSetting{}
	}
	if v2.SiteContent == nil {
		v2.SiteContent = map[string]map[string]any{}
	}
	return v2
}
