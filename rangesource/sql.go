package rangesource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vortex-fintech/geophone/phone"
	"github.com/vortex-fintech/geophone/retry"
)

// DefaultQuery reads the table from phone_ranges in lookup order.
const DefaultQuery = `SELECT provider, range_start, range_end FROM phone_ranges ORDER BY position`

var errNoExecutor = errors.New("rangesource: sql executor is required")

// Executor abstracts *sql.DB or *sql.Tx.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQL loads rows of (provider, range_start, range_end). Row order is lookup
// order; providers keep the order of their first row.
type SQL struct {
	DB    Executor
	Query string
}

func (s SQL) Name() string { return "sql" }

func (s SQL) Load(ctx context.Context) (phone.Table, error) {
	if s.DB == nil {
		return nil, retry.Permanent(errNoExecutor)
	}
	q := strings.TrimSpace(s.Query)
	if q == "" {
		q = DefaultQuery
	}

	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, classifySQL(err)
	}
	defer rows.Close()

	var (
		table phone.Table
		index = map[string]int{}
	)
	for rows.Next() {
		var (
			name       string
			start, end uint64
		)
		if err := rows.Scan(&name, &start, &end); err != nil {
			return nil, retry.Permanent(fmt.Errorf("rangesource: scan: %w: %w", phone.ErrInvalidTable, err))
		}
		i, ok := index[name]
		if !ok {
			i = len(table)
			index[name] = i
			table = append(table, phone.Provider{Name: name})
		}
		table[i].Ranges = append(table[i].Ranges, phone.Range{Start: start, End: end})
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQL(err)
	}
	return table, nil
}

func classifySQL(err error) error {
	err = fmt.Errorf("rangesource: query: %w", err)
	if IsUndefinedTable(err) {
		return retry.Permanent(err)
	}
	return err
}
