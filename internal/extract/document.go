package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed page together with its raw content.
type Document struct {
	raw string
	doc *goquery.Document
}

// Parse parses content as HTML. The tokenizer recovers from malformed markup,
// so an error here means the content could not be read at all.
func Parse(content string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}
	return &Document{raw: content, doc: goquery.NewDocumentFromNode(root)}, nil
}

// Raw returns the unparsed content.
func (d *Document) Raw() string {
	return d.raw
}

// hrefs returns every a[href] value in document order, including empty ones.
func (d *Document) hrefs() []string {
	var out []string
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		out = append(out, href)
	})
	return out
}

// visibleText concatenates text nodes outside script, style and noscript
// elements, one node per line.
func (d *Document) visibleText() string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range d.doc.Nodes {
		walk(n)
	}
	return b.String()
}
