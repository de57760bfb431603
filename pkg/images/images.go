// Package images canonicalizes and deduplicates the product image URLs found
// in catalog rows.
package images

import (
	"math"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// DefaultPhotoHosts are the gallery hosts whose paths carry seller/hash
// segments and size-suffixed file names.
var DefaultPhotoHosts = []string{"photo.yupoo.com"}

var smallerSizes = []string{"/medium.", "/small.", "/thumb."}

const bigMarker = "/big."

// Normalizer collapses image URLs that point at the same underlying asset.
type Normalizer struct {
	photoHosts []string
}

// NewNormalizer returns a Normalizer for the given photohosts. With no hosts
// DefaultPhotoHosts are used.
func NewNormalizer(photoHosts ...string) *Normalizer {
	if len(photoHosts) == 0 {
		photoHosts = DefaultPhotoHosts
	}
	hosts := make([]string, 0, len(photoHosts))
	for _, h := range photoHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return &Normalizer{photoHosts: hosts}
}

// Dedup returns one URL per distinct asset, ordered by first appearance of
// each asset. When an asset shows up several times the best-scored variant
// wins. Malformed candidates are dropped.
func (n *Normalizer) Dedup(candidates []string) []string {
	var order []string
	best := make(map[string]string)

	for _, raw := range candidates {
		u, ok := Clean(raw)
		if !ok {
			continue
		}
		parsed, err := url.Parse(u)
		if err != nil {
			continue
		}
		photo := n.isPhotoHost(parsed.Hostname())
		if photo {
			parsed.Path = upgradeSize(parsed.Path)
			parsed.RawPath = ""
			u = parsed.String()
		}

		key := dedupKey(parsed, photo)
		cur, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = u
			continue
		}
		if Score(u) > Score(cur) {
			best[key] = u
		}
	}

	out := make([]string, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// Key returns the dedup key of a candidate URL.
func (n *Normalizer) Key(raw string) (string, bool) {
	u, ok := Clean(raw)
	if !ok {
		return "", false
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return "", false
	}
	return dedupKey(parsed, n.isPhotoHost(parsed.Hostname())), true
}

func (n *Normalizer) isPhotoHost(host string) bool {
	host = strings.ToLower(host)
	for _, h := range n.photoHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

func dedupKey(u *url.URL, photo bool) string {
	if photo {
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segs) >= 2 && segs[0] != "" && segs[1] != "" {
			return "photo:" + segs[0] + "/" + segs[1]
		}
	}
	return strings.ToLower(u.Scheme + "://" + u.Host + u.Path)
}

// upgradeSize rewrites a size-suffixed file name to its big variant.
func upgradeSize(path string) string {
	for _, m := range smallerSizes {
		i := strings.LastIndex(path, m)
		if i < 0 {
			continue
		}
		rest := path[i+len(m):]
		if strings.Contains(rest, "/") {
			continue
		}
		return path[:i] + bigMarker + rest
	}
	return path
}

// Score ranks variants of the same asset: a big file beats any other size, a
// tokenized URL beats a bare one, and longer URLs win remaining ties.
func Score(u string) float64 {
	var s float64
	parsed, err := url.Parse(u)
	if err != nil {
		return 0
	}
	if strings.Contains(parsed.Path, bigMarker) {
		s += 4
	}
	if parsed.RawQuery != "" {
		s += 2
	}
	return s + math.Min(float64(len(u)), 200)/1000
}

// Clean turns a raw cell value into an absolute http(s) URL without fragment.
func Clean(raw string) (string, bool) {
	s := strings.TrimSpace(html.UnescapeString(raw))
	s = strings.Trim(s, `"'<>()[]`)
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return "", false
	}
	switch {
	case strings.HasPrefix(s, "//"):
		s = "https:" + s
	case !strings.Contains(s, "://"):
		slash := strings.IndexByte(s, '/')
		host := s
		if slash >= 0 {
			host = s[:slash]
		}
		if !strings.Contains(host, ".") {
			return "", false
		}
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), true
}
