package extract

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/webharvest/internal/model"
)

// Metadata returns the page title under "title" followed by every meta tag
// keyed by its name or property attribute. A key seen more than once holds
// all its values in order. The title key is always present.
func Metadata(d *Document) model.Metadata {
	md := make(model.Metadata)
	md["title"] = model.Single(d.doc.Find("title").First().Text())

	d.doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if name == "" {
			name, _ = s.Attr("property")
		}
		if name == "" {
			return
		}
		content, _ := s.Attr("content")
		md.Add(name, content)
	})
	return md
}
