// Copyright (c) 2026 MIZDB. All rights reserved.

package periodical

import (
	"fmt"
	"strings"

	"github.com/Actionb/MIZDB-sub002/internal/platform/database/schema"
)

// # SQL Query Building

// dialect selects the placeholder and list syntax of a SQL backend.
type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

// queryBuilder accumulates positional arguments while rendering a statement
// shared by the PostgreSQL and SQLite repositories.
type queryBuilder struct {
	dialect dialect
	args    []any
}

func newQueryBuilder(d dialect) *queryBuilder {
	return &queryBuilder{dialect: d}
}

// arg binds value and returns its placeholder.
func (builder *queryBuilder) arg(value any) string {
	builder.args = append(builder.args, value)
	if builder.dialect == dialectPostgres {
		return fmt.Sprintf("$%d", len(builder.args))
	}
	return "?"
}

// in renders "column IN ids" for the dialect.
func (builder *queryBuilder) in(column string, ids []int64) string {
	if builder.dialect == dialectPostgres {
		return fmt.Sprintf("%s = ANY(%s)", column, builder.arg(ids))
	}
	placeholders := make([]string, len(ids))
	for i, id := range ids {
		placeholders[i] = builder.arg(id)
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", "))
}

// where renders the filter of batch against the issue alias "a".
func (builder *queryBuilder) where(batch Batch) string {
	var conditions []string
	restrict := func(column string, ids []int64) {
		if ids == nil {
			return
		}
		if len(ids) == 0 {
			conditions = append(conditions, "1 = 0")
			return
		}
		conditions = append(conditions, builder.in(column, ids))
	}
	restrict("a."+schema.Issue.SeriesID, batch.SeriesIDs)
	restrict("a."+schema.Issue.ID, batch.IDs)

	filter := "1 = 1"
	if len(conditions) > 0 {
		filter = strings.Join(conditions, " AND ")
	}
	if len(batch.Include) > 0 {
		filter = fmt.Sprintf("(%s) OR %s", filter, builder.in("a."+schema.Issue.ID, batch.Include))
	}
	return filter
}

// # Aggregated Read

// fieldSource maps a field path to its select expression and the join it needs.
type fieldSource struct {
	expression string
	join       string
}

var fieldSources = map[Field]fieldSource{
	FieldSeries:  {expression: "a." + schema.Issue.SeriesID},
	FieldDate:    {expression: "a." + schema.Issue.Date},
	FieldVolume:  {expression: "a." + schema.Issue.Volume},
	FieldSpecial: {expression: "a." + schema.Issue.Special},
	FieldSeriesName: {
		expression: "s." + schema.Series.Name,
		join: fmt.Sprintf("JOIN %s s ON s.%s = a.%s",
			schema.Series.Table, schema.Series.ID, schema.Issue.SeriesID),
	},
	FieldYear: {
		expression: "y." + schema.IssueYear.Value,
		join:       factJoin(schema.IssueYear, "y"),
	},
	FieldNumber: {
		expression: "n." + schema.IssueNumber.Value,
		join:       factJoin(schema.IssueNumber, "n"),
	},
	FieldRunningNumber: {
		expression: "r." + schema.IssueRunningNumber.Value,
		join:       factJoin(schema.IssueRunningNumber, "r"),
	},
	FieldMonth: {
		expression: "m." + schema.Month.Ordinal,
		join: fmt.Sprintf("LEFT JOIN %s im ON im.%s = a.%s LEFT JOIN %s m ON m.%s = im.%s",
			schema.IssueMonth.Table, schema.IssueMonth.IssueID, schema.Issue.ID,
			schema.Month.Table, schema.Month.ID, schema.IssueMonth.MonthID),
	},
}

func factJoin(table schema.IssueFactTable, alias string) string {
	return fmt.Sprintf("LEFT JOIN %s %s ON %s.%s = a.%s",
		table.Table, alias, alias, table.IssueID, schema.Issue.ID)
}

/*
fetchQuery renders the single statement answering a Fetch: the issue ID
followed by one column per field, one row per combination of related facts.
[Collect] folds the rows back into per-issue value sets.
*/
func (builder *queryBuilder) fetchQuery(batch Batch, fields []Field) (string, error) {
	columns := []string{"a." + schema.Issue.ID}
	var joins []string

	for _, field := range fields {
		if !field.Valid() {
			return "", fmt.Errorf("unknown field %q", field)
		}
		source := fieldSources[field]
		columns = append(columns, source.expression)
		if source.join != "" && !containsString(joins, source.join) {
			joins = append(joins, source.join)
		}
	}

	var query strings.Builder
	fmt.Fprintf(&query, "SELECT %s FROM %s a", strings.Join(columns, ", "), schema.Issue.Table)
	for _, join := range joins {
		query.WriteString(" " + join)
	}
	fmt.Fprintf(&query, " WHERE %s ORDER BY a.%s", builder.where(batch), schema.Issue.ID)
	return query.String(), nil
}

// # Ordered Listing

// sortColumns maps ordering keys to the columns of listQuery.
var sortColumns = map[KeyName]string{
	KeySeries:        "s." + schema.Series.Name,
	KeyYear:          "sort_year",
	KeyVolume:        "a." + schema.Issue.Volume,
	KeySpecial:       "a." + schema.Issue.Special,
	KeyDate:          "a." + schema.Issue.Date,
	KeyRunningNumber: "sort_running_number",
	KeyMonth:         "sort_month",
	KeyNumber:        "sort_number",
	KeyID:            "a." + schema.Issue.ID,
}

// orderBy renders ordering with NULLS LAST in either direction.
func orderBy(ordering Ordering) (string, error) {
	if len(ordering) == 0 {
		ordering = DefaultOrdering
	}
	terms := make([]string, 0, len(ordering))
	for _, key := range ordering {
		column, ok := sortColumns[key.Name]
		if !ok {
			return "", fmt.Errorf("unknown ordering key %q", key.Name)
		}
		direction := "ASC"
		if key.Desc {
			direction = "DESC"
		}
		terms = append(terms, fmt.Sprintf("%s %s NULLS LAST", column, direction))
	}
	return strings.Join(terms, ", "), nil
}

/*
listQuery renders one page of an ordered batch. Each row carries the issue's
own columns, the aggregated sort annotations (MIN year, MAX month ordinal,
MAX number, MAX running number) and the total row count of the batch.
*/
func (builder *queryBuilder) listQuery(ob OrderedBatch, limit, offset int) (string, error) {
	order, err := orderBy(ob.ordering)
	if err != nil {
		return "", err
	}

	query := fmt.Sprintf(`
		SELECT
			a.%s, a.%s, s.%s, a.%s, a.%s, a.%s, a.%s,
			(SELECT MIN(y.%s) FROM %s y WHERE y.%s = a.%s) AS sort_year,
			(SELECT MAX(m.%s) FROM %s im JOIN %s m ON m.%s = im.%s WHERE im.%s = a.%s) AS sort_month,
			(SELECT MAX(n.%s) FROM %s n WHERE n.%s = a.%s) AS sort_number,
			(SELECT MAX(r.%s) FROM %s r WHERE r.%s = a.%s) AS sort_running_number,
			COUNT(*) OVER() AS total_count
		FROM %s a
		JOIN %s s ON s.%s = a.%s
		WHERE %s
		ORDER BY %s`,
		schema.Issue.ID, schema.Issue.SeriesID, schema.Series.Name, schema.Issue.Date,
		schema.Issue.Volume, schema.Issue.Special, schema.Issue.Description,
		schema.IssueYear.Value, schema.IssueYear.Table, schema.IssueYear.IssueID, schema.Issue.ID,
		schema.Month.Ordinal, schema.IssueMonth.Table, schema.Month.Table, schema.Month.ID,
		schema.IssueMonth.MonthID, schema.IssueMonth.IssueID, schema.Issue.ID,
		schema.IssueNumber.Value, schema.IssueNumber.Table, schema.IssueNumber.IssueID, schema.Issue.ID,
		schema.IssueRunningNumber.Value, schema.IssueRunningNumber.Table, schema.IssueRunningNumber.IssueID, schema.Issue.ID,
		schema.Issue.Table,
		schema.Series.Table, schema.Series.ID, schema.Issue.SeriesID,
		builder.where(ob.batch),
		order,
	)

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", builder.arg(limit), builder.arg(offset))
	}
	return query, nil
}

// # Volume Writes

func (builder *queryBuilder) setVolumeQuery(volume int, ids []int64) string {
	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s",
		schema.Issue.Table, schema.Issue.Volume, builder.arg(volume), builder.in(schema.Issue.ID, ids))
}

// clearVolumeQuery renders the bulk reset. The filter is applied through a
// subquery since UPDATE does not accept the "a" alias in every dialect.
func (builder *queryBuilder) clearVolumeQuery(batch Batch) string {
	return fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s IN (SELECT a.%s FROM %s a WHERE %s)",
		schema.Issue.Table, schema.Issue.Volume, schema.Issue.ID,
		schema.Issue.ID, schema.Issue.Table, builder.where(batch))
}

// # Reference Data

func seriesQuery(builder *queryBuilder, id int64) string {
	return fmt.Sprintf("SELECT %s, %s FROM %s WHERE %s = %s",
		schema.Series.ID, schema.Series.Name, schema.Series.Table, schema.Series.ID, builder.arg(id))
}

func monthsQuery() string {
	return fmt.Sprintf("SELECT %s, %s, %s, %s FROM %s ORDER BY %s",
		schema.Month.ID, schema.Month.Name, schema.Month.Abbreviation, schema.Month.Ordinal,
		schema.Month.Table, schema.Month.Ordinal)
}

func containsString(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}
