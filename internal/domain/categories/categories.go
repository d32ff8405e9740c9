package categories

// Fallbacks used when a category id does not resolve against the table.
const (
	UnknownName  = "Unknown"
	NeutralColor = "gray"
)

// Provider-assigned category ids.
const (
	GreyhoundID = "9daef0d7-bf3c-4f50-921d-8e818c60fe61"
	HarnessID   = "161d9be2-e909-4326-8c2c-35ed71fb460b"
	HorseID     = "4a2788f8-e825-4d36-9894-efd4baf1cfae"
)

// Category carries display metadata for a race classification.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

var table = [...]Category{
	{ID: GreyhoundID, Name: "Greyhound Racing", Color: "racing-greyhound"},
	{ID: HarnessID, Name: "Harness Racing", Color: "racing-harness"},
	{ID: HorseID, Name: "Horse Racing", Color: "racing-horse"},
}

// All returns a copy of the category table in display order.
func All() []Category {
	out := make([]Category, len(table))
	copy(out, table[:])
	return out
}

// IDs returns every known category id in display order.
func IDs() []string {
	ids := make([]string, 0, len(table))
	for _, c := range table {
		ids = append(ids, c.ID)
	}
	return ids
}

// Lookup finds a category by id.
func Lookup(id string) (Category, bool) {
	for _, c := range table {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Known reports whether id is in the table.
func Known(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Resolve returns the category for id, substituting fallbacks for unknown ids.
func Resolve(id string) Category {
	if c, ok := Lookup(id); ok {
		return c
	}
	return Category{ID: id, Name: UnknownName, Color: NeutralColor}
}
