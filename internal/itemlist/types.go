package itemlist

import "icon-sphere-renderer/internal/sphere"

// ItemDef holds one item parsed from an item list.
type ItemDef struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Group string `json:"group,omitempty"`
	Icon  string `json:"icon,omitempty"` // icon key when it differs from Key
}

// IconKey is the key used to resolve the item's icon.
func (d ItemDef) IconKey() string {
	if d.Icon != "" {
		return d.Icon
	}
	return d.Key
}

// Items converts defs to sphere items, keyed by icon key.
func Items(defs []ItemDef) []sphere.Item {
	items := make([]sphere.Item, len(defs))
	for i, d := range defs {
		items[i] = sphere.Item{Key: d.IconKey(), Label: d.Label}
	}
	return items
}

// FromKeys builds defs labelled by their keys, for icon directories that
// come without an item list.
func FromKeys(keys []string) []ItemDef {
	defs := make([]ItemDef, len(keys))
	for i, k := range keys {
		defs[i] = ItemDef{Key: k, Label: k}
	}
	return defs
}
