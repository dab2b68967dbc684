package query

import (
	"database/sql"

	"github.com/gridbase/backend/internal/domain/models"
)

// ScanRows scans SQL rows into a slice of Row maps. []byte values are
// converted to strings so JSON encoding stays readable.
func ScanRows(rows *sql.Rows) ([]models.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]models.Row, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(models.Row)
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = val
			}
		}

		results = append(results, record)
	}

	return results, rows.Err()
}
