package itemlist

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseXML(t *testing.T) {
	path := writeFile(t, "items.xml", `<?xml version="1.0"?>
<Items>
  <Item Key="go" Label="Go"/>
  <Group Name="db">
    <Item Key="postgres" Label="PostgreSQL"/>
    <Item Key="redis"/>
    <Item Key="go" Label="dup"/>
  </Group>
  <Item Key="" Label="no key"/>
</Items>`)

	defs, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(defs), defs)
	}
	if defs[0].Key != "go" || defs[0].Label != "Go" || defs[0].Group != "" {
		t.Fatalf("defs[0] = %+v", defs[0])
	}
	if defs[2].Key != "redis" || defs[2].Label != "redis" || defs[2].Group != "db" {
		t.Fatalf("defs[2] = %+v", defs[2])
	}
}

func TestParseJSON(t *testing.T) {
	path := writeFile(t, "items.json", `[
  {"key": "a", "label": "Alpha"},
  {"key": "b", "label": "Beta", "icon": "beta-logo"}
]`)

	defs, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	items := Items(defs)
	if len(items) != 2 || items[0].Key != "a" || items[1].Key != "beta-logo" || items[1].Label != "Beta" {
		t.Fatalf("items = %+v", items)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(writeFile(t, "items.yaml", "a: b")); err == nil {
		t.Fatal("unknown extension must fail")
	}
	if _, err := Parse(writeFile(t, "items.json", "{")); err == nil {
		t.Fatal("bad JSON must fail")
	}
	if _, err := Parse(filepath.Join(t.TempDir(), "none.xml")); err == nil {
		t.Fatal("missing file must fail")
	}
}

func TestFromKeys(t *testing.T) {
	defs := FromKeys([]string{"x", "y"})
	if len(defs) != 2 || defs[1].Key != "y" || defs[1].Label != "y" || defs[1].IconKey() != "y" {
		t.Fatalf("FromKeys = %+v", defs)
	}
}
