package schema

// ClassificationTable represents the 'public.classification' table
type ClassificationTable struct {
	Table string
	ID    string
	Name  string
}

// Classification is the schema definition for public.classification
var Classification = ClassificationTable{
	Table: "public.classification",
	ID:    "classification_id",
	Name:  "classification_name",
}

// Columns returns all standard column names
func (t ClassificationTable) Columns() []string {
	return []string{t.ID, t.Name}
}
