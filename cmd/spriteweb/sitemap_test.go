package main

import (
	"net/http/httptest"
	"strings"
	"testing"

	"badc0de.net/pkg/go-spritecodec/ttesting"
	"badc0de.net/pkg/go-spritecodec/web"
)

func TestSitemapWrite(t *testing.T) {
	s := &SitemapURLSet{URL: []SitemapURL{{
		Loc:        "http://x/arcade/0.png",
		ChangeFreq: SitemapChangeFreqNever,
		Image:      []SitemapURLImage{{Loc: "http://x/arcade/0.png"}},
	}}}
	rec := httptest.NewRecorder()
	s.Write(rec, httptest.NewRequest("GET", "/sitemap.xml", nil))

	body := rec.Body.String()
	ttesting.AssertEqualString(t, "type", rec.Header().Get("Content-Type"), "application/xml")
	ttesting.AssertEqualBool(t, "changefreq", strings.Contains(body, "<changefreq>never</changefreq>"), true)
	ttesting.AssertEqualBool(t, "image", strings.Contains(body, "<image:loc>http://x/arcade/0.png</image:loc>"), true)
}

func TestSitemapEmpty(t *testing.T) {
	h, err := web.NewHandler(1)
	ttesting.AssertNoError(t, "handler", err)
	ttesting.AssertEqualInt(t, "urls", len(sitemap(h, "http://x").URL), 0)
}
