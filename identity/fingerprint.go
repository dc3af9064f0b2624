package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Query parameters that vary between visits to the same listing. Stripping
// them keeps a re-shared URL mapping to the same fingerprint.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"fbclid":       true,
	"gclid":        true,
	"msclkid":      true,
	"mc_cid":       true,
	"mc_eid":       true,
	"ref":          true,
	"src":          true,
}

// Fingerprint derives a stable identifier for a source URL. Two URLs that
// differ only in scheme case, host case, tracking parameters, fragment, or
// a trailing slash fingerprint identically.
func Fingerprint(sourceURL string) string {
	canonical := Canonicalize(sourceURL)
	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:16])
}

// Canonicalize normalizes a URL for fingerprinting. Unparseable input is
// returned trimmed and lowercased so garbage still hashes deterministically.
func Canonicalize(sourceURL string) string {
	sourceURL = strings.TrimSpace(sourceURL)

	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return strings.ToLower(sourceURL)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for param := range q {
		if trackingParams[strings.ToLower(param)] {
			q.Del(param)
		}
	}
	u.RawQuery = encodeSorted(q)

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}

// encodeSorted renders query values with keys in a fixed order so parameter
// ordering never changes the fingerprint.
func encodeSorted(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range q[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
