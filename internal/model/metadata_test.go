package model

import (
	"encoding/json"
	"testing"
)

// TestMetaValueJSON tests that single values render as strings and repeated values as lists.
func TestMetaValueJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value MetaValue
		want  string
	}{
		{name: "single value is a string", value: Single("Example"), want: `"Example"`},
		{name: "repeated value is a list", value: MetaValue{Values: []string{"a", "b"}}, want: `["a","b"]`},
		{name: "empty value is an empty list", value: MetaValue{}, want: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestMetaValueUnmarshal tests that both JSON shapes decode.
func TestMetaValueUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("decodes a string", func(t *testing.T) {
		t.Parallel()

		var v MetaValue
		if err := json.Unmarshal([]byte(`"hello"`), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.IsList() || v.First() != "hello" {
			t.Errorf("expected single value 'hello', got %v", v.Values)
		}
	})

	t.Run("decodes a list", func(t *testing.T) {
		t.Parallel()

		var v MetaValue
		if err := json.Unmarshal([]byte(`["a","b"]`), &v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !v.IsList() || len(v.Values) != 2 {
			t.Errorf("expected two values, got %v", v.Values)
		}
	})

	t.Run("rejects numbers", func(t *testing.T) {
		t.Parallel()

		var v MetaValue
		if err := json.Unmarshal([]byte(`42`), &v); err == nil {
			t.Error("expected error for numeric value")
		}
	})
}

// TestMetadataAdd tests that a repeated name becomes a list.
func TestMetadataAdd(t *testing.T) {
	t.Parallel()

	md := make(Metadata)
	md.Add("keywords", "go")
	md.Add("keywords", "scraper")
	md.Add("title", "Home")

	if got := md["keywords"].Values; len(got) != 2 || got[0] != "go" || got[1] != "scraper" {
		t.Errorf("expected [go scraper], got %v", got)
	}
	if md["title"].String() != "Home" {
		t.Errorf("expected title 'Home', got %q", md["title"].String())
	}

	keys := md.Keys()
	if len(keys) != 2 || keys[0] != "keywords" || keys[1] != "title" {
		t.Errorf("expected sorted keys [keywords title], got %v", keys)
	}
}
