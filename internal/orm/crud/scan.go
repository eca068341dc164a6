package crud

import (
	"database/sql"
	"encoding/json"
)

// Record is one result row keyed by column name
type Record map[string]interface{}

// scanRows scans every row into a record, keyed by the statement's column names
func scanRows(rows *sql.Rows) ([]Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]Record, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(Record, len(columns))
		for i, col := range columns {
			record[col] = normalize(values[i])
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// normalize turns driver byte slices into text, or into raw JSON when they
// hold a JSON document such as an aggregated collection
func normalize(v interface{}) interface{} {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	if len(b) > 0 && (b[0] == '[' || b[0] == '{') && json.Valid(b) {
		return json.RawMessage(append([]byte(nil), b...))
	}
	return string(b)
}
