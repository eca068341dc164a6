// Package response renders query results and errors as HTTP responses.
package response

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/conduit-lang/querykit/internal/orm/crud"
	"github.com/conduit-lang/querykit/internal/orm/query"
)

// JSON renders v with the given status
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	writeJSON(w, statusCode, v)
}

// CSV renders records as an attachment, one column per header entry
func CSV(w http.ResponseWriter, filename string, header []query.HeaderColumn, records []crud.Record) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)

	labels := make([]string, len(header))
	for i, h := range header {
		labels[i] = h.Label
	}
	if err := cw.Write(labels); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, record := range records {
		for i, h := range header {
			row[i] = cell(record[h.Key])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// cell formats one value for CSV output
func cell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}
