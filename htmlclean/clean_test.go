package htmlclean

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func firstEl(t *testing.T, html, selector string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		t.Fatalf("selector %q matched nothing", selector)
	}
	return sel
}

func TestCleanRemovesScriptsAndStyles(t *testing.T) {
	out, err := Clean(`<html><head><style>p{}</style></head><body>
		<script>track()</script><noscript>js off</noscript>
		<iframe src="x"></iframe><svg></svg><canvas></canvas>
		<p>3 bed home</p></body></html>`)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	for _, tag := range []string{"<script", "<style", "<noscript", "<iframe", "<svg", "<canvas"} {
		if strings.Contains(out, tag) {
			t.Errorf("%s survived cleaning", tag)
		}
	}
	if !strings.Contains(out, "3 bed home") {
		t.Errorf("content paragraph removed")
	}
}

func TestCleanRemovesAdElements(t *testing.T) {
	out, err := Clean(`<html><body>
		<div class="advertisement">Buy now!</div>
		<div id="tracking-pixel">x</div>
		<div class="listing-facts">2 bath</div></body></html>`)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if strings.Contains(out, "Buy now!") {
		t.Errorf("ad element survived")
	}
	if !strings.Contains(out, "2 bath") {
		t.Errorf("facts removed with the ads")
	}
}

func TestNavigationKeywordOverride(t *testing.T) {
	links := strings.Repeat(`<a href="/p">x</a>`, 10)

	// Property keyword present: keep, even though it's link-dominated.
	protected := `<nav class="top">3 bed 2 bath $450,000` + links + `</nav>`
	if IsRemovableNavigation(firstEl(t, "<body>"+protected+"</body>", "nav")) {
		t.Errorf("nav with property facts must be protected")
	}

	// Pure navigation chrome: remove.
	chrome := `<nav class="top">Home About Contact` + links + `</nav>`
	if !IsRemovableNavigation(firstEl(t, "<body>"+chrome+"</body>", "nav")) {
		t.Errorf("link-dominated nav without facts must be removable")
	}

	out, err := Clean(`<html><body>` + protected + chrome + `<p>body</p></body></html>`)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, "$450,000") {
		t.Errorf("protected nav removed by pipeline")
	}
	if strings.Contains(out, "About Contact") {
		t.Errorf("chrome nav survived pipeline")
	}
}

func TestCookieBannerGuards(t *testing.T) {
	banner := firstEl(t, `<body><div class="cookie-notice">We use cookies</div></body>`, "div")
	if !IsLikelyCookieBanner(banner) {
		t.Errorf("cookie notice not matched")
	}

	shortModal := firstEl(t, `<body><div class="modal">OK</div></body>`, "div")
	if !IsLikelyCookieBanner(shortModal) {
		t.Errorf("short modal should be removable")
	}

	longModal := firstEl(t, `<body><div class="modal">`+strings.Repeat("Spacious living room with fireplace. ", 4)+`</div></body>`, "div")
	if IsLikelyCookieBanner(longModal) {
		t.Errorf("long content block sharing the modal class must survive")
	}
}

func TestBannerPropertyKeywordOverride(t *testing.T) {
	promo := firstEl(t, `<body><div class="promo-banner">Subscribe today</div></body>`, "div")
	if !IsRemovableBanner(promo) {
		t.Errorf("promo banner should be removable")
	}
	facts := firstEl(t, `<body><div class="hero-banner">4 bedroom estate at 1 Elm Address</div></body>`, "div")
	if IsRemovableBanner(facts) {
		t.Errorf("banner with property facts must be protected")
	}
}

func TestSocialShareCluster(t *testing.T) {
	cluster := firstEl(t, `<body><div class="share-buttons"><a href="#">f</a><a href="#">t</a><a href="#">p</a></div></body>`, "div")
	if !IsSocialShareCluster(cluster) {
		t.Errorf("share cluster not matched")
	}
	article := firstEl(t, `<body><div class="share-story">`+strings.Repeat("A long narrative about the neighborhood. ", 3)+`</div></body>`, "div")
	if IsSocialShareCluster(article) {
		t.Errorf("long text block must not match as share cluster")
	}
	buttons := firstEl(t, `<body><div class="social-links">Share on Facebook | Twitter | Pinterest</div></body>`, "div")
	if !IsSocialShareCluster(buttons) {
		t.Errorf("all-social button row not matched")
	}
	mention := firstEl(t, `<body><div class="share-story">The sellers found this home on Pinterest.</div></body>`, "div")
	if IsSocialShareCluster(mention) {
		t.Errorf("short sentence mentioning a network must not match as share cluster")
	}
}

func TestEmptyElementRemovalIsBottomUp(t *testing.T) {
	out, err := Clean(`<html><body>
		<div id="shell"><div><span></span></div></div>
		<div id="img-holder"><img src="/a.jpg"></div>
		<p>kept</p></body></html>`)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if strings.Contains(out, "shell") {
		t.Errorf("nested empty container survived: %s", out)
	}
	if !strings.Contains(out, "/a.jpg") {
		t.Errorf("element with src attribute removed")
	}
}

func TestLazyAttributeRewrite(t *testing.T) {
	out, err := Clean(`<html><body>
		<img data-src="https://cdn/x.jpg" alt="front">
		<img src="https://cdn/keep.jpg" data-src="https://cdn/ignore.jpg">
		<picture><source data-srcset="https://cdn/y.jpg 2x"></picture>
	</body></html>`)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if !strings.Contains(out, `src="https://cdn/x.jpg"`) {
		t.Errorf("data-src not promoted: %s", out)
	}
	if !strings.Contains(out, `src="https://cdn/keep.jpg"`) {
		t.Errorf("existing src overwritten")
	}
	if !strings.Contains(out, `srcset="https://cdn/y.jpg 2x"`) {
		t.Errorf("data-srcset not promoted")
	}
}
