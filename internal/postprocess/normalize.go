package postprocess

import (
	"slices"
	"strings"

	"github.com/nao1215/webharvest/internal/model"
)

// Normalize returns a copy of rec with every string list deduplicated and
// sorted. Duplicates are exact matches, so values differing only in case are
// both kept. Emails sort case-insensitively; other lists sort by byte order.
// Social links are normalized per platform. Metadata and tables are not
// touched.
func Normalize(rec *model.Record) *model.Record {
	out := rec.Clone()
	if out == nil {
		return nil
	}
	for _, field := range model.StringFields {
		values, _ := out.Strings(field)
		out.SetStrings(field, normalizeStrings(field, values))
	}
	for platform, links := range out.Social {
		out.Social[platform] = normalizeStrings(model.FieldSocial, links)
	}
	return out
}

func normalizeStrings(field string, values []string) []string {
	if values == nil {
		return nil
	}
	unique := dedupe(values)
	if field == model.FieldEmails {
		slices.SortFunc(unique, compareFold)
	} else {
		slices.Sort(unique)
	}
	return unique
}

// compareFold orders by folded value and breaks ties by raw value.
func compareFold(a, b string) int {
	if c := strings.Compare(fold(a), fold(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
