package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// column names one logical field and the header spellings accepted for it.
type column struct {
	field    string
	aliases  []string
	required bool
}

func col(field string, aliases ...string) column {
	return column{field: field, aliases: append([]string{field}, aliases...), required: true}
}

func optional(field string, aliases ...string) column {
	c := col(field, aliases...)
	c.required = false
	return c
}

// table is a parsed CSV with headers resolved to logical fields.
type table struct {
	name   string
	fields map[string]int
	rows   [][]string
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	return strings.ToLower(h)
}

// readTable parses r and resolves every column. A missing required column is a
// data-integrity error naming the table and the field.
func readTable(r io.Reader, name string, columns []column) (*table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s is empty", utils.ErrMissingColumns, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", name, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	t := &table{name: name, fields: make(map[string]int, len(columns))}
	missing := make([]string, 0)
	for _, c := range columns {
		found := false
		for _, alias := range c.aliases {
			if i, ok := index[strings.ToLower(alias)]; ok {
				t.fields[c.field] = i
				found = true
				break
			}
		}
		if !found && c.required {
			missing = append(missing, c.field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s needs %s", utils.ErrMissingColumns, name, strings.Join(missing, ","))
	}

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if blank(rec) {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (t *table) str(rec []string, field string) string {
	i, ok := t.fields[field]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// number parses an optional numeric cell. Blank and NaN cells are nil.
func (t *table) number(rec []string, row int, field string) (*float64, error) {
	raw := t.str(rec, field)
	if raw == "" || strings.EqualFold(raw, "nan") || strings.EqualFold(raw, "na") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s row %d: %s %q is not a number", utils.ErrInvalidInput, t.name, row, field, raw)
	}
	return &v, nil
}

func (t *table) requiredFloat(rec []string, row int, field string) (float64, error) {
	v, err := t.number(rec, row, field)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, fmt.Errorf("%w: %s row %d: %s is blank", utils.ErrInvalidInput, t.name, row, field)
	}
	return *v, nil
}

func (t *table) integer(rec []string, row int, field string) (int, error) {
	raw := strings.NewReplacer("$", "", ",", "").Replace(t.str(rec, field))
	v, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return 0, fmt.Errorf("%w: %s row %d: %s %q is not an integer", utils.ErrInvalidInput, t.name, row, field, raw)
		}
		v = int(f)
	}
	return v, nil
}
