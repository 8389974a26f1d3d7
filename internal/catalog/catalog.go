// Package catalog holds the static configuration of inspectable checklist
// items: each item's value domain and the predicate classifying which
// values count as a defect.
package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownItem is returned when an item key is not in the catalog.
var ErrUnknownItem = errors.New("unknown checklist item")

// Option is one selectable value for a checklist item.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Item describes one inspectable vehicle aspect.
type Item struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []Option `json:"options"`

	// problemValues lists the option values that count as a defect.
	problemValues map[string]bool
}

// IsProblem reports whether value counts as a defect for this item.
func (i *Item) IsProblem(value string) bool {
	return i.problemValues[value]
}

// Item keys.
const (
	KeyFuelLevel     = "fuel_level"
	KeyTirePressure  = "tire_pressure"
	KeyTireCondition = "tire_condition"
	KeyLights        = "lights"
	KeyFluids        = "fluids"
	KeyDocumentation = "documentation"
)

var items = []Item{
	{
		Key:         KeyFuelLevel,
		Title:       "Fuel level",
		Description: "Fuel gauge reading before departure",
		Options: []Option{
			{Value: "full", Label: "Full", Color: "green"},
			{Value: "three_quarters", Label: "3/4", Color: "green"},
			{Value: "half", Label: "1/2", Color: "yellow"},
			{Value: "quarter", Label: "1/4", Color: "orange"},
			{Value: "empty", Label: "Empty", Color: "red"},
		},
		problemValues: map[string]bool{"empty": true},
	},
	{
		Key:         KeyTirePressure,
		Title:       "Tire pressure",
		Description: "Visual and gauge check of all tires",
		Options: []Option{
			{Value: "ok", Label: "Calibrated", Color: "green"},
			{Value: "low", Label: "Low", Color: "orange"},
			{Value: "flat", Label: "Flat tire", Color: "red"},
		},
		problemValues: map[string]bool{"low": true, "flat": true},
	},
	{
		Key:         KeyTireCondition,
		Title:       "Tire condition",
		Description: "Tread wear and sidewall damage",
		Options: []Option{
			{Value: "good", Label: "Good", Color: "green"},
			{Value: "worn", Label: "Worn", Color: "orange"},
			{Value: "damaged", Label: "Damaged", Color: "red"},
		},
		problemValues: map[string]bool{"worn": true, "damaged": true},
	},
	{
		Key:         KeyLights,
		Title:       "Lights",
		Description: "Headlights, brake lights and turn signals",
		Options: []Option{
			{Value: "working", Label: "All working", Color: "green"},
			{Value: "partial", Label: "Partially working", Color: "orange"},
			{Value: "failed", Label: "Not working", Color: "red"},
		},
		problemValues: map[string]bool{"partial": true, "failed": true},
	},
	{
		Key:         KeyFluids,
		Title:       "Fluids",
		Description: "Oil, coolant and washer fluid levels",
		Options: []Option{
			{Value: "ok", Label: "All at level", Color: "green"},
			{Value: "low", Label: "Below level", Color: "orange"},
			{Value: "leaking", Label: "Leak detected", Color: "red"},
		},
		problemValues: map[string]bool{"low": true, "leaking": true},
	},
	{
		Key:         KeyDocumentation,
		Title:       "Documentation",
		Description: "Registration and mandatory documents on board",
		Options: []Option{
			{Value: "complete", Label: "Complete", Color: "green"},
			{Value: "incomplete", Label: "Incomplete", Color: "red"},
		},
		problemValues: map[string]bool{"incomplete": true},
	},
}

var byKey = func() map[string]*Item {
	m := make(map[string]*Item, len(items))
	for i := range items {
		m[items[i].Key] = &items[i]
	}
	return m
}()

// Items returns all catalog items in display order.
func Items() []Item {
	return items
}

// Get returns the item for a key, or nil if unknown.
func Get(key string) *Item {
	return byKey[key]
}

// IsProblem classifies a raw inspection value for an item.
func IsProblem(key, value string) (bool, error) {
	item := byKey[key]
	if item == nil {
		return false, fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	return item.IsProblem(value), nil
}

// Label returns the human label for an item's raw value. Falls back to the
// raw value when the item or option is unknown.
func Label(key, value string) string {
	item := byKey[key]
	if item == nil {
		return value
	}
	for _, opt := range item.Options {
		if opt.Value == value {
			return opt.Label
		}
	}
	return value
}

// Title returns the item's display title, or the key when unknown.
func Title(key string) string {
	if item := byKey[key]; item != nil {
		return item.Title
	}
	return key
}
