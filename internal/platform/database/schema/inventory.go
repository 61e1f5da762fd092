package schema

// InventoryTable represents the 'public.inventory' table
type InventoryTable struct {
	Table            string
	ID               string
	Make             string
	Model            string
	Year             string
	Description      string
	Image            string
	Thumbnail        string
	Price            string
	Miles            string
	Color            string
	Transmission     string
	ClassificationID string
}

// Inventory is the schema definition for public.inventory
var Inventory = InventoryTable{
	Table:            "public.inventory",
	ID:               "inv_id",
	Make:             "inv_make",
	Model:            "inv_model",
	Year:             "inv_year",
	Description:      "inv_description",
	Image:            "inv_image",
	Thumbnail:        "inv_thumbnail",
	Price:            "inv_price",
	Miles:            "inv_miles",
	Color:            "inv_color",
	Transmission:     "inv_transmission",
	ClassificationID: "classification_id",
}

// Columns returns all standard column names
func (t InventoryTable) Columns() []string {
	return []string{
		t.ID, t.Make, t.Model, t.Year, t.Description, t.Image, t.Thumbnail,
		t.Price, t.Miles, t.Color, t.Transmission, t.ClassificationID,
	}
}

// Qualified prefixes every column with alias, e.g. "i.inv_id".
func Qualified(alias string, columns []string) []string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return qualified
}
