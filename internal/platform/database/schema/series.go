package schema

// SeriesTable represents the 'series' table (Magazin)
type SeriesTable struct {
	Table string
	ID    string
	Name  string
}

// Series is the schema definition for series
var Series = SeriesTable{
	Table: "series",
	ID:    "id",
	Name:  "name",
}

func (t SeriesTable) Columns() []string {
	return []string{t.ID, t.Name}
}
