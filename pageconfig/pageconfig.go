// Package pageconfig defines the persisted site-configuration blob and the
// adapters between its legacy (v1) and current (v2) shapes.
package pageconfig

// CurrentVersion is the shape writers always emit.
const CurrentVersion = 2

// DefaultTheme is applied when a configuration carries no theme.
const DefaultTheme = "classic"

// Loader describes the page-load animation.
type Loader struct {
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
}

// SiteSettings holds layout/style settings separated from content in v2.
type SiteSettings struct {
	Theme  string `json:"theme"`
	Loader Loader `json:"loader"`
}

// SectionSetting is the style half of a section. Ids are unique within a
// configuration and slice order is the rendering order.
type SectionSetting struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Variant     string `json:"variant"`
	ColorScheme string `json:"colorScheme"`
}

// V2Config separates settings from the content payload so partial updates
// touch only one side.
type V2Config struct {
	Version         int                       `json:"_version"`
	SiteSettings    SiteSettings              `json:"siteSettings"`
	SectionSettings []SectionSetting          `json:"sectionSettings"`
	SiteContent     map[string]map[string]any `json:"siteContent"`
}

// V1Section carries fully-resolved settings and data on every section.
type V1Section struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Variant     string         `json:"variant"`
	ColorScheme string         `json:"colorScheme"`
	Data        map[string]any `json:"data"`
}

// V1Config is the flat legacy shape the editor UI still reads.
type V1Config struct {
	Theme    string      `json:"theme"`
	Sections []V1Section `json:"sections"`
	Loader   Loader      `json:"loader"`
}

// Empty returns the degraded "empty site" configuration used when a persisted
// blob is missing or unrecognizable.
func Empty() *V2Config {
	return &V2Config{
		Version: CurrentVersion,
		SiteSettings: SiteSettings{
			Theme:  DefaultTheme,
			Loader: Loader{Type: "none"},
		},
		SectionSettings: []SectionSetting{},
		SiteContent:     map[string]map[string]any{},
	}
}
