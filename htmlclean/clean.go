// Package htmlclean strips non-content markup from scraped listing pages
// before heuristic extraction and AI generation. Each stage is independent
// and the order is significant; predicates live in predicates.go so each
// heuristic can be tested in isolation.
package htmlclean

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Clean runs the full pipeline over raw HTML and returns the cleaned
// document. Parse failures return the error and an empty string; callers on
// the generic path treat that as a failed fetch, not a pipeline bug.
func Clean(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, iframe, svg, canvas").Remove()
	removeMatching(doc, IsLikelyAdElement)
	removeMatching(doc, IsLikelyCookieBanner)
	removeMatching(doc, IsRemovableBanner)
	removeEmptyElements(doc)
	removeMatching(doc, IsSocialShareCluster)
	removeMatching(doc, IsRemovableNavigation)
	rewriteLazyAttributes(doc)

	return doc.Html()
}

// removeMatching collects matches first, then removes, so removal doesn't
// disturb the traversal.
func removeMatching(doc *goquery.Document, match func(*goquery.Selection) bool) {
	var doomed []*goquery.Selection
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		if match(s) {
			doomed = append(doomed, s)
		}
	})
	for _, s := range doomed {
		s.Remove()
	}
}

// removeEmptyElements walks in reverse document order, so descendants are
// judged before their parents and hollowed-out containers collapse upward.
func removeEmptyElements(doc *goquery.Document) {
	var all []*goquery.Selection
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		all = append(all, s)
	})
	for i := len(all) - 1; i >= 0; i-- {
		if IsEmptyElement(all[i]) {
			all[i].Remove()
		}
	}
}

// rewriteLazyAttributes promotes lazy-loading attributes to their standard
// equivalents wherever the standard attribute is absent.
func rewriteLazyAttributes(doc *goquery.Document) {
	doc.Find("img, source").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("src"); !ok {
			for _, lazy := range []string{"data-src", "data-lazy"} {
				if v, found := s.Attr(lazy); found && v != "" {
					s.SetAttr("src", v)
					break
				}
			}
		}
		if _, ok := s.Attr("srcset"); !ok {
			if v, found := s.Attr("data-srcset"); found && v != "" {
				s.SetAttr("srcset", v)
			}
		}
	})
}
