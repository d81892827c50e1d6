package schema

// IssueTable represents the 'issue' table (Ausgabe)
type IssueTable struct {
	Table       string
	ID          string
	SeriesID    string
	Date        string
	Volume      string
	Special     string
	Description string
}

// Issue is the schema definition for issue
var Issue = IssueTable{
	Table:       "issue",
	ID:          "id",
	SeriesID:    "series_id",
	Date:        "date",
	Volume:      "volume",
	Special:     "special",
	Description: "description",
}

func (t IssueTable) Columns() []string {
	return []string{t.ID, t.SeriesID, t.Date, t.Volume, t.Special, t.Description}
}
