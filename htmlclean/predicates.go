package htmlclean

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Property-fact keywords that protect an element from removal. The cleaner
// favors recall of facts over precision of noise removal: generation can
// tolerate extra text but cannot recover deleted facts.
var propertyKeywords = []string{
	"bed", "bath", "price", "sqft", "bedroom", "bathroom", "square", "address",
}

var adMarkers = []string{"ads", "ad-", "advertisement", "tracking", "analytics"}

var cookieMarkers = []string{"cookie", "consent", "gdpr"}

var popupMarkers = []string{"popup", "modal", "overlay"}

var socialMarkers = []string{"share", "social", "facebook", "twitter", "pinterest"}

// ContainsPropertyKeyword reports whether text mentions a property fact.
func ContainsPropertyKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range propertyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// classAndID joins an element's class and id attributes, lowercased, for
// substring matching.
func classAndID(s *goquery.Selection) string {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	return strings.ToLower(class + " " + id)
}

func matchesAny(attrs string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(attrs, m) {
			return true
		}
	}
	return false
}

// IsLikelyAdElement matches ad- and tracker-oriented class/id substrings.
func IsLikelyAdElement(s *goquery.Selection) bool {
	return matchesAny(classAndID(s), adMarkers)
}

// IsLikelyCookieBanner matches consent banners outright, and popup/modal
// shells only when their text is short or mentions cookies — a class named
// "modal" can just as well hold a legitimate content block.
func IsLikelyCookieBanner(s *goquery.Selection) bool {
	attrs := classAndID(s)
	text := strings.TrimSpace(s.Text())
	lower := strings.ToLower(text)

	if matchesAny(attrs, cookieMarkers) {
		return true
	}
	if matchesAny(attrs, popupMarkers) {
		if len(text) < 50 {
			return true
		}
		return strings.Contains(lower, "cookie") || strings.Contains(lower, "consent")
	}
	return false
}

// IsRemovableBanner matches "banner"-classed elements unless a property
// keyword overrides the removal.
func IsRemovableBanner(s *goquery.Selection) bool {
	if !strings.Contains(classAndID(s), "banner") {
		return false
	}
	return !ContainsPropertyKeyword(s.Text())
}

// IsSocialShareCluster matches share-widget clusters: social-suggesting
// class/id plus either a short text made up of social keywords or a pile of
// links with almost no text.
func IsSocialShareCluster(s *goquery.Selection) bool {
	if !matchesAny(classAndID(s), socialMarkers) {
		return false
	}
	text := strings.TrimSpace(s.Text())

	if len(text) <= 100 && isOnlySocialText(text) {
		return true
	}
	return s.Find("a").Length() > 2 && len(text) < 50
}

// isOnlySocialText reports whether the text consists of social keywords and
// connector words. A sentence that merely mentions a network is content.
func isOnlySocialText(text string) bool {
	lower := strings.ToLower(text)
	matched := false
	for _, m := range socialMarkers {
		if strings.Contains(lower, m) {
			matched = true
			lower = strings.ReplaceAll(lower, m, " ")
		}
	}
	if !matched {
		return false
	}
	for _, word := range strings.Fields(lower) {
		switch strings.Trim(word, ".,:;|·-&!") {
		case "", "on", "via", "us", "this", "follow", "with", "the", "to":
		default:
			return false
		}
	}
	return true
}

// IsRemovableNavigation matches link-dominated nav/footer/header elements.
// Substantial text (>100 chars) or a property keyword keeps the element: a
// nav bar quoting "3 bed 2 bath $450,000" is content, not chrome.
func IsRemovableNavigation(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "nav", "footer", "header":
	default:
		return false
	}

	text := strings.TrimSpace(s.Text())
	if len(text) > 100 || ContainsPropertyKeyword(text) {
		return false
	}
	links := s.Find("a").Length()
	return links > len(text)/10
}

// IsEmptyElement reports whether an element carries no text, no meaningful
// attributes, and no descendant with either. Run bottom-up so parents whose
// children were removed qualify too.
func IsEmptyElement(s *goquery.Selection) bool {
	if strings.TrimSpace(s.Text()) != "" {
		return false
	}
	if hasMeaningfulAttr(s) {
		return false
	}
	meaningful := false
	s.Find("*").EachWithBreak(func(_ int, child *goquery.Selection) bool {
		if hasMeaningfulAttr(child) {
			meaningful = true
			return false
		}
		return true
	})
	return !meaningful
}

func hasMeaningfulAttr(s *goquery.Selection) bool {
	for _, attr := range []string{"src", "href", "data-src", "data-srcset", "data-lazy", "srcset"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
