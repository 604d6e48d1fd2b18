// Package input reads binary outcomes of the A and B groups from a
// CSV table with a header row. One column labels the group of every
// row, other columns are 0/1 metrics.
package input

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/op/go-logging"

	"bitbucket.org/Davydov/abmcmc/model"
)

var log = logging.MustGetLogger("input")

// Table is a parsed CSV table.
type Table struct {
	name     string
	groupCol string
	rows     []map[string]string
	columns  map[string]bool
}

// Load parses a comma separated table from r. groupCol is the name of
// the column with group labels.
func Load(r io.Reader, groupCol string) (*Table, error) {
	rows, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table has no rows", model.ErrInvalidInput)
	}
	t := &Table{
		groupCol: groupCol,
		rows:     rows,
		columns:  make(map[string]bool, len(rows[0])),
	}
	for col := range rows[0] {
		t.columns[col] = true
	}
	if !t.columns[groupCol] {
		return nil, fmt.Errorf("%w: no group column %q", model.ErrInvalidInput, groupCol)
	}
	log.Infof("Read %d rows, %d columns", len(rows), len(t.columns))
	return t, nil
}

// LoadFile opens and parses a file.
func LoadFile(fn, groupCol string) (*Table, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Load(f, groupCol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	t.name = fn
	return t, nil
}

// Name returns the file name of the table, if it was read from a
// file.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Groups returns sorted distinct group labels.
func (t *Table) Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, row := range t.rows {
		g := row[t.groupCol]
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	sort.Strings(groups)
	return groups
}

// Values returns the 0/1 outcomes of the metric for rows of the
// group.
func (t *Table) Values(group, metric string) ([]int, error) {
	if !t.columns[metric] {
		return nil, fmt.Errorf("%w: no metric column %q", model.ErrInvalidInput, metric)
	}
	var values []int
	for i, row := range t.rows {
		if row[t.groupCol] != group {
			continue
		}
		v, err := ParseOutcome(row[metric])
		if err != nil {
			// +2: header and 1-based line numbers
			return nil, fmt.Errorf("line %d, column %q: %w", i+2, metric, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no rows for group %q", model.ErrInvalidInput, group)
	}
	return values, nil
}

// Outcomes returns observations of the metric for the group.
func (t *Table) Outcomes(group, metric string) (*model.Observed, error) {
	values, err := t.Values(group, metric)
	if err != nil {
		return nil, err
	}
	return model.NewObserved(values)
}

// ParseOutcome converts a cell to 0 or 1. Accepted values are 0/1
// and true/false (case insensitive).
func ParseOutcome(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "false":
		return 0, nil
	case "1", "true":
		return 1, nil
	}
	return 0, fmt.Errorf("%w: outcome %q is not 0/1 or true/false", model.ErrInvalidInput, s)
}
