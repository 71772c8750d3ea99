package model

// Field names used across the pipeline, renderers and post-processors.
// The order of FieldOrder is the order fields are extracted in live preview
// mode and the order renderers print them.
const (
	FieldLinks     = "links"
	FieldEmails    = "emails"
	FieldSocial    = "social"
	FieldAuthors   = "authors"
	FieldPhones    = "phones"
	FieldImages    = "images"
	FieldMetadata  = "metadata"
	FieldDocuments = "documents"
	FieldTables    = "tables"
)

// FieldOrder lists every record field in extraction order.
var FieldOrder = []string{
	FieldLinks,
	FieldEmails,
	FieldSocial,
	FieldAuthors,
	FieldPhones,
	FieldImages,
	FieldMetadata,
	FieldDocuments,
	FieldTables,
}

// Record holds the facts extracted from one page, or the flattened union of
// facts from several pages.
//
// Sequence fields keep extraction order and may contain duplicates until the
// record is normalized. Empty fields are omitted from JSON output.
type Record struct {
	// Links contains the raw href values of every anchor.
	Links []string `json:"links,omitempty"`

	// Emails contains email addresses found anywhere in the page source.
	Emails []string `json:"emails,omitempty"`

	// Social maps a platform name (see Platform) to links pointing at it.
	Social map[string][]string `json:"social,omitempty"`

	// Authors contains the content of <meta name="author"> tags.
	Authors []string `json:"authors,omitempty"`

	// Phones contains phone numbers in E.164 format.
	Phones []string `json:"phones,omitempty"`

	// Images contains image sources, or local file paths when images were downloaded.
	Images []string `json:"images,omitempty"`

	// Metadata contains the page title and <meta> name/property values.
	Metadata Metadata `json:"metadata,omitempty"`

	// Documents contains links to office documents and PDFs.
	Documents []string `json:"documents,omitempty"`

	// Tables contains every HTML table in document order.
	Tables []Table `json:"tables,omitempty"`
}

// Table is one HTML table. Rows are not necessarily rectangular.
type Table struct {
	// Index is the position of the table within the page it came from.
	// It is kept as-is when tables from several pages are aggregated.
	Index int `json:"table_index"`

	// Rows holds the trimmed text of every th/td cell, row by row.
	Rows [][]string `json:"data"`
}

// NewRecord returns an empty Record with its map fields initialized.
func NewRecord() *Record {
	return &Record{
		Social:   make(map[string][]string),
		Metadata: make(Metadata),
	}
}

// IsEmpty reports whether the record carries no facts at all.
func (r *Record) IsEmpty() bool {
	if r == nil {
		return true
	}
	return len(r.Links) == 0 &&
		len(r.Emails) == 0 &&
		len(r.Social) == 0 &&
		len(r.Authors) == 0 &&
		len(r.Phones) == 0 &&
		len(r.Images) == 0 &&
		len(r.Metadata) == 0 &&
		len(r.Documents) == 0 &&
		len(r.Tables) == 0
}

// Strings returns the plain string sequence stored under field, and false
// when field is not a plain string sequence (social, metadata, tables).
func (r *Record) Strings(field string) ([]string, bool) {
	switch field {
	case FieldLinks:
		return r.Links, true
	case FieldEmails:
		return r.Emails, true
	case FieldAuthors:
		return r.Authors, true
	case FieldPhones:
		return r.Phones, true
	case FieldImages:
		return r.Images, true
	case FieldDocuments:
		return r.Documents, true
	default:
		return nil, false
	}
}

// SetStrings replaces the plain string sequence stored under field.
// It is a no-op for fields that are not plain string sequences.
func (r *Record) SetStrings(field string, values []string) {
	switch field {
	case FieldLinks:
		r.Links = values
	case FieldEmails:
		r.Emails = values
	case FieldAuthors:
		r.Authors = values
	case FieldPhones:
		r.Phones = values
	case FieldImages:
		r.Images = values
	case FieldDocuments:
		r.Documents = values
	}
}

// StringFields lists the fields that hold plain string sequences.
var StringFields = []string{
	FieldLinks,
	FieldEmails,
	FieldAuthors,
	FieldPhones,
	FieldImages,
	FieldDocuments,
}

// Clone returns a deep copy of the record.
// Live preview hands clones to observers so the worker can keep writing.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := &Record{
		Links:     cloneStrings(r.Links),
		Emails:    cloneStrings(r.Emails),
		Authors:   cloneStrings(r.Authors),
		Phones:    cloneStrings(r.Phones),
		Images:    cloneStrings(r.Images),
		Documents: cloneStrings(r.Documents),
	}
	if r.Social != nil {
		c.Social = make(map[string][]string, len(r.Social))
		for k, v := range r.Social {
			c.Social[k] = cloneStrings(v)
		}
	}
	if r.Metadata != nil {
		c.Metadata = make(Metadata, len(r.Metadata))
		for k, v := range r.Metadata {
			c.Metadata[k] = MetaValue{Values: cloneStrings(v.Values)}
		}
	}
	if r.Tables != nil {
		c.Tables = make([]Table, len(r.Tables))
		for i, t := range r.Tables {
			rows := make([][]string, len(t.Rows))
			for j, row := range t.Rows {
				rows[j] = cloneStrings(row)
			}
			c.Tables[i] = Table{Index: t.Index, Rows: rows}
		}
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Field returns the value stored under field for encoding, and false when
// the field is empty or unknown.
func (r *Record) Field(field string) (any, bool) {
	if values, ok := r.Strings(field); ok {
		return values, len(values) > 0
	}
	switch field {
	case FieldSocial:
		return r.Social, len(r.Social) > 0
	case FieldMetadata:
		return r.Metadata, len(r.Metadata) > 0
	case FieldTables:
		return r.Tables, len(r.Tables) > 0
	default:
		return nil, false
	}
}

// Len returns the number of values stored under field: list entries,
// social links, metadata names or tables.
func (r *Record) Len(field string) int {
	if values, ok := r.Strings(field); ok {
		return len(values)
	}
	switch field {
	case FieldSocial:
		n := 0
		for _, links := range r.Social {
			n += len(links)
		}
		return n
	case FieldMetadata:
		return len(r.Metadata)
	case FieldTables:
		return len(r.Tables)
	default:
		return 0
	}
}
