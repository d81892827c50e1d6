package schema

// IssueFactTable represents one of the per-issue child tables holding
// a multi-valued integer fact (year, number, running number).
type IssueFactTable struct {
	Table   string
	ID      string
	IssueID string
	Value   string
}

// IssueYear is the schema definition for issue_year
var IssueYear = IssueFactTable{
	Table:   "issue_year",
	ID:      "id",
	IssueID: "issue_id",
	Value:   "year",
}

// IssueNumber is the schema definition for issue_number
var IssueNumber = IssueFactTable{
	Table:   "issue_number",
	ID:      "id",
	IssueID: "issue_id",
	Value:   "number",
}

// IssueRunningNumber is the schema definition for issue_running_number
var IssueRunningNumber = IssueFactTable{
	Table:   "issue_running_number",
	ID:      "id",
	IssueID: "issue_id",
	Value:   "number",
}

func (t IssueFactTable) Columns() []string {
	return []string{t.ID, t.IssueID, t.Value}
}

// IssueMonthTable represents the 'issue_month' table
type IssueMonthTable struct {
	Table   string
	ID      string
	IssueID string
	MonthID string
}

// IssueMonth is the schema definition for issue_month
var IssueMonth = IssueMonthTable{
	Table:   "issue_month",
	ID:      "id",
	IssueID: "issue_id",
	MonthID: "month_id",
}

func (t IssueMonthTable) Columns() []string {
	return []string{t.ID, t.IssueID, t.MonthID}
}
