package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/webharvest/internal/model"
)

// emailPattern matches addresses in raw page content, markup included.
var emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)

// DocumentExtensions are the link suffixes treated as downloadable documents.
var DocumentExtensions = []string{".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx"}

// Links returns the href of every anchor as written in the page.
func Links(d *Document) []string {
	return d.hrefs()
}

// Emails returns every email-shaped string in the raw content.
func Emails(d *Document) []string {
	return emailPattern.FindAllString(d.raw, -1)
}

// Social groups anchor hrefs by the platform they point to.
// Platforms without links are omitted.
func Social(d *Document) map[string][]string {
	return SocialFromLinks(d.hrefs())
}

// SocialFromLinks groups links by known platform.
func SocialFromLinks(links []string) map[string][]string {
	out := make(map[string][]string)
	for _, p := range model.Platforms {
		for _, link := range links {
			if p.Matches(link) {
				out[p.String()] = append(out[p.String()], link)
			}
		}
	}
	return out
}

// Authors returns the content of every <meta name="author"> tag.
func Authors(d *Document) []string {
	var out []string
	d.doc.Find(`meta[name="author"]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			out = append(out, content)
		}
	})
	return out
}

// Images returns every non-empty img src.
func Images(d *Document) []string {
	var out []string
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if src, _ := s.Attr("src"); src != "" {
			out = append(out, src)
		}
	})
	return out
}

// Documents returns anchor hrefs that end with a document extension.
func Documents(d *Document) []string {
	return DocumentsFromLinks(d.hrefs())
}

// DocumentsFromLinks keeps links ending with a DocumentExtensions suffix,
// compared case-insensitively.
func DocumentsFromLinks(links []string) []string {
	var out []string
	for _, link := range links {
		lower := strings.ToLower(link)
		for _, ext := range DocumentExtensions {
			if strings.HasSuffix(lower, ext) {
				out = append(out, link)
				break
			}
		}
	}
	return out
}
