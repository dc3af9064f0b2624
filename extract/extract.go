// Package extract pulls a best-effort PropertyRecord out of cleaned listing
// HTML. Every field runs a prioritized cascade: first non-empty match wins,
// and a field with no match stays nil/empty. Extraction never fails; a
// mostly-empty record is valid output.
package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/ottie-ai/ottie-app-1-sub003/models"
)

const (
	maxImages        = 20
	maxFeatures      = 20
	maxFeatureLength = 100
)

var (
	priceRe = regexp.MustCompile(`[$£€]\s*([\d,]+)`)
	bedsRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:bedrooms?|beds?|br\b)`)
	bathsRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:bathrooms?|baths?|ba\b)`)
	sqftRe  = regexp.MustCompile(`(?i)([\d,]+)\s*(?:sq\.?\s?ft|sqft|ft²|m²|sq\.?\s?m)`)
	yearRe  = regexp.MustCompile(`(?i)built\s*(?:in\s*)?(\d{4})`)
	acresRe = regexp.MustCompile(`(?i)([\d.]+)\s*acres?\b`)
	lotRe   = regexp.MustCompile(`(?i)([\d,]+)\s*(?:sq\.?\s?ft|sqft)\s*lot`)
	cityRe  = regexp.MustCompile(`([A-Za-z .'\-]+),\s*([A-Z]{2})\s+(\d{5})(?:-\d{4})?`)

	skipImageMarkers = []string{"placeholder", "logo", "icon"}

	propertyTypes = []string{
		"single family", "townhouse", "townhome", "condominium", "condo",
		"apartment", "duplex", "multi-family", "mobile home", "land", "house",
	}
)

// Property extracts a record from cleaned HTML. Relative image URLs are
// resolved against sourceURL.
func Property(cleanedHTML, sourceURL string) *models.PropertyRecord {
	record := &models.PropertyRecord{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleanedHTML))
	if err != nil {
		return record
	}

	bodyText := doc.Find("body").Text()

	record.Title = firstText(doc,
		"h1",
		`meta[property="og:title"]`,
		"title",
	)
	record.Address = firstText(doc,
		`[itemprop="address"]`,
		"address",
		`[class*="address"]`,
	)
	record.Price = extractPrice(doc, bodyText)
	record.Beds = matchInt(bedsRe, candidateText(doc, bodyText, `[class*="bed"]`))
	record.Baths = matchFloat(bathsRe, candidateText(doc, bodyText, `[class*="bath"]`))
	record.SqFt = matchGroupedInt(sqftRe, candidateText(doc, bodyText, `[class*="sqft"]`, `[class*="area"]`))
	record.YearBuilt = matchInt(yearRe, bodyText)
	record.LotSqFt = extractLotSize(bodyText)
	record.PropertyType = extractPropertyType(bodyText)
	record.Description = extractDescription(doc, cleanedHTML, sourceURL)
	record.Images = extractImages(doc, sourceURL)
	record.Features = extractFeatures(doc)
	record.Location = extractLocation(record.Address, bodyText)

	return record
}

// firstText tries selectors in priority order and returns the first
// non-empty trimmed text (or meta content).
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		found := ""
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text == "" {
				text = strings.TrimSpace(s.AttrOr("content", ""))
			}
			if text != "" {
				found = collapseWhitespace(text)
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// candidateText returns the first matching element's text, falling back to
// the whole body when no selector matched.
func candidateText(doc *goquery.Document, bodyText string, selectors ...string) string {
	for _, sel := range selectors {
		found := ""
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return bodyText
}

func extractPrice(doc *goquery.Document, bodyText string) *int {
	text := candidateText(doc, bodyText, `[itemprop="price"]`, `[class*="price"]`, `[data-testid*="price"]`)
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		m = priceRe.FindStringSubmatch(bodyText)
	}
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

func matchInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func matchFloat(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &f
}

func matchGroupedInt(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

func extractLotSize(bodyText string) *int {
	if m := lotRe.FindStringSubmatch(bodyText); m != nil {
		if n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			return &n
		}
	}
	if m := acresRe.FindStringSubmatch(bodyText); m != nil {
		if acres, err := strconv.ParseFloat(m[1], 64); err == nil {
			sqft := int(acres * 43560)
			return &sqft
		}
	}
	return nil
}

func extractPropertyType(bodyText string) string {
	lower := strings.ToLower(bodyText)
	for _, t := range propertyTypes {
		if strings.Contains(lower, t) {
			return t
		}
	}
	return ""
}

func extractDescription(doc *goquery.Document, cleanedHTML, sourceURL string) string {
	desc := firstText(doc,
		`[itemprop="description"]`,
		`[class*="description"]`,
		`meta[name="description"]`,
	)
	if desc != "" {
		return desc
	}

	// Last resort: let readability find the main prose block.
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(cleanedHTML), parsed)
	if err != nil {
		return ""
	}
	text := collapseWhitespace(article.TextContent)
	if len(text) > 600 {
		text = text[:600]
	}
	return text
}

func extractImages(doc *goquery.Document, sourceURL string) []string {
	base, err := url.Parse(sourceURL)
	if err != nil {
		base = nil
	}

	var images []string
	seen := make(map[string]struct{})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if len(images) >= maxImages {
			return
		}
		src := s.AttrOr("src", "")
		if src == "" {
			src = s.AttrOr("data-src", "")
		}
		if src == "" {
			src = s.AttrOr("data-lazy", "")
		}
		if src == "" {
			return
		}

		lower := strings.ToLower(src)
		for _, marker := range skipImageMarkers {
			if strings.Contains(lower, marker) {
				return
			}
		}

		resolved := src
		if base != nil {
			if ref, err := url.Parse(src); err == nil {
				resolved = base.ResolveReference(ref).String()
			}
		}

		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		images = append(images, resolved)
	})

	return images
}

func extractFeatures(doc *goquery.Document) []string {
	var features []string
	seen := make(map[string]struct{})

	selectors := []string{
		`[class*="feature"] li`,
		`[class*="amenit"] li`,
		`[class*="highlight"] li`,
		`ul.features li`,
	}
	for _, sel := range selectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if len(features) >= maxFeatures {
				return
			}
			text := collapseWhitespace(s.Text())
			// Long entries are prose that leaked into a list, not a feature.
			if text == "" || len(text) > maxFeatureLength {
				return
			}
			if _, dup := seen[text]; dup {
				return
			}
			seen[text] = struct{}{}
			features = append(features, text)
		})
		if len(features) >= maxFeatures {
			break
		}
	}

	return features
}

func extractLocation(address, bodyText string) models.Location {
	loc := models.Location{}

	m := cityRe.FindStringSubmatch(address)
	if m == nil {
		m = cityRe.FindStringSubmatch(bodyText)
	}
	if m != nil {
		loc.City = strings.TrimSpace(m[1])
		loc.State = m[2]
		loc.Zip = m[3]
	}

	lower := strings.ToLower(address + " " + bodyText)
	switch {
	case strings.Contains(lower, "united states") || strings.Contains(lower, "usa"):
		loc.Country = "US"
	case strings.Contains(lower, "canada"):
		loc.Country = "CA"
	}

	return loc
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
