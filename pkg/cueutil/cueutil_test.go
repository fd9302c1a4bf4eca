// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const settingsSchema = `
#Settings: {
	name:  string
	count: int | *1
	tags?: [...string]
}
`

// requiredSchema has a field with no default, so inputs that omit it
// can never validate concretely.
const requiredSchema = `
#Settings: {
	name:  string
	count: int
}
`

type settings struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid input decodes with defaults applied", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "demo"
tags: ["a", "b"]
`)
		got, err := Decode[settings](settingsSchema, data, "#Settings")
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got.Name != "demo" {
			t.Errorf("Name = %q, want %q", got.Name, "demo")
		}
		if got.Count != 1 {
			t.Errorf("Count = %d, want 1 (schema default)", got.Count)
		}
		if len(got.Tags) != 2 {
			t.Errorf("Tags = %v, want 2 entries", got.Tags)
		}
	})

	t.Run("type mismatch reports field path", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name:  "demo"
count: "three"
`)
		_, err := Decode[settings](settingsSchema, data, "#Settings")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "count") {
			t.Errorf("error should name the failing field, got: %v", err)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name:  "demo"
bogus: true
`)
		_, err := Decode[settings](settingsSchema, data, "#Settings")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "bogus") {
			t.Errorf("error should name the unknown field, got: %v", err)
		}
	})

	t.Run("WithFilename appears in error messages", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: 42`)
		_, err := Decode[settings](settingsSchema, data, "#Settings",
			WithFilename("custom.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "custom.cue") {
			t.Errorf("error should carry the custom filename, got: %v", err)
		}
	})

	t.Run("WithMaxFileSize rejects oversized input", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "demo"`)
		_, err := Decode[settings](settingsSchema, data, "#Settings",
			WithMaxFileSize(4))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "byte limit") {
			t.Errorf("error should mention the size limit, got: %v", err)
		}
	})

	t.Run("missing required field returns error", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "demo"`)
		_, err := Decode[settings](requiredSchema, data, "#Settings")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "count") {
			t.Errorf("error should name the incomplete field, got: %v", err)
		}
	})

	t.Run("WithConcrete false accepts incomplete input", func(t *testing.T) {
		t.Parallel()

		optionalSchema := `
#Settings: {
	name?:  string
	count?: int
}
`
		got, err := Decode[settings](optionalSchema, []byte(`{}`), "#Settings",
			WithConcrete(false))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got.Name != "" {
			t.Errorf("Name = %q, want empty", got.Name)
		}
	})

	t.Run("decodes into a map", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "demo"`)
		got, err := Decode[map[string]any](settingsSchema, data, "#Settings",
			WithConcrete(false))
		if err != nil {
			t.Fatalf("Decode() error = %v", err)
		}
		if got["name"] != "demo" {
			t.Errorf(`got["name"] = %v, want "demo"`, got["name"])
		}
	})

	t.Run("missing schema definition is an internal error", func(t *testing.T) {
		t.Parallel()

		data := []byte(`name: "demo"`)
		_, err := Decode[settings](settingsSchema, data, "#Nope")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "#Nope") {
			t.Errorf("error should name the missing definition, got: %v", err)
		}
	})
}

func TestUnify(t *testing.T) {
	t.Parallel()

	data := []byte(`name: "demo"`)
	unified, err := Unify(settingsSchema, data, "#Settings")
	if err != nil {
		t.Fatalf("Unify() error = %v", err)
	}
	if unified.Err() != nil {
		t.Fatalf("unified value has error: %v", unified.Err())
	}

	var got settings
	if err := unified.Decode(&got); err != nil {
		t.Fatalf("Decode() on unified value error = %v", err)
	}
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1 (schema default)", got.Count)
	}
}
