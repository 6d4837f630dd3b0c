package itemlist

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// xmlItemList matches the items.xml schema. Items may sit directly under
// the root or inside named groups.
type xmlItemList struct {
	Groups []xmlGroup `xml:"Group"`
	Items  []xmlItem  `xml:"Item"`
}

type xmlGroup struct {
	Name  string    `xml:"Name,attr"`
	Items []xmlItem `xml:"Item"`
}

type xmlItem struct {
	Key   string `xml:"Key,attr"`
	Label string `xml:"Label,attr"`
	Icon  string `xml:"Icon,attr"`
}

// Parse reads an item list, choosing the format by extension (.xml or
// .json). Items without a key and repeated keys are dropped.
func Parse(path string) ([]ItemDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("itemlist: read %s: %w", path, err)
	}

	var defs []ItemDef
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		defs, err = parseXML(raw)
	case ".json":
		defs, err = parseJSON(raw)
	default:
		return nil, fmt.Errorf("itemlist: %s: unsupported format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("itemlist: parse %s: %w", path, err)
	}
	return dedupe(defs), nil
}

func parseXML(raw []byte) ([]ItemDef, error) {
	var list xmlItemList
	if err := xml.Unmarshal(raw, &list); err != nil {
		return nil, err
	}

	var defs []ItemDef
	for _, it := range list.Items {
		defs = append(defs, ItemDef{Key: it.Key, Label: it.Label, Icon: it.Icon})
	}
	for _, g := range list.Groups {
		for _, it := range g.Items {
			defs = append(defs, ItemDef{Key: it.Key, Label: it.Label, Icon: it.Icon, Group: g.Name})
		}
	}
	return defs, nil
}

func parseJSON(raw []byte) ([]ItemDef, error) {
	var defs []ItemDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func dedupe(defs []ItemDef) []ItemDef {
	seen := make(map[string]bool, len(defs))
	out := defs[:0]
	for _, d := range defs {
		d.Key = strings.TrimSpace(d.Key)
		if d.Key == "" || seen[d.IconKey()] {
			continue
		}
		seen[d.IconKey()] = true
		if d.Label == "" {
			d.Label = d.Key
		}
		out = append(out, d)
	}
	return out
}
