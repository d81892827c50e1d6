package schema

// MonthTable represents the 'month' reference table
type MonthTable struct {
	Table        string
	ID           string
	Name         string
	Abbreviation string
	Ordinal      string
}

// Month is the schema definition for month
var Month = MonthTable{
	Table:        "month",
	ID:           "id",
	Name:         "name",
	Abbreviation: "abbreviation",
	Ordinal:      "ordinal",
}

func (t MonthTable) Columns() []string {
	return []string{t.ID, t.Name, t.Abbreviation, t.Ordinal}
}
