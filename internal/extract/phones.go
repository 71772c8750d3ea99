package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nyaruka/phonenumbers"
)

// phoneCandidate finds digit runs that may be phone numbers, allowing the
// usual separators within one line. Validation is left to libphonenumber.
var phoneCandidate = regexp.MustCompile(`\+?\(?\d[\d \t().\-/]{5,}\d`)

// Phones returns valid phone numbers found in the visible text and in
// tel: links, formatted as E.164. country is the region used for numbers
// written without an international prefix.
func Phones(d *Document, country string) []string {
	region := strings.ToUpper(country)

	candidates := phoneCandidate.FindAllString(d.visibleText(), -1)
	d.doc.Find(`a[href^="tel:"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		candidates = append(candidates, strings.TrimPrefix(href, "tel:"))
	})

	var out []string
	for _, c := range candidates {
		if e164, ok := formatPhone(c, region); ok {
			out = append(out, e164)
		}
	}
	return out
}

func formatPhone(candidate, region string) (string, bool) {
	num, err := phonenumbers.Parse(strings.TrimSpace(candidate), region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}
