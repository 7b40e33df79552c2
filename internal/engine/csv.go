package engine

import "strings"

// Row is one materialized CSV record keyed by trimmed header name.
type Row map[string]string

// Get returns the value for a resolved header key. An unresolved key
// (empty string) reads as empty rather than accidentally hitting a
// blank-named column.
func (r Row) Get(key string) string {
	if key == "" {
		return ""
	}
	return r[key]
}

// Parse splits raw CSV text into rows of fields.
//
// A double quote toggles quoted mode; inside quotes, commas and newlines
// are literal and a doubled quote is one literal quote. Carriage returns
// are dropped unconditionally. Trailing content after the last newline is
// flushed as a final row unless it is a single empty field, so a trailing
// blank line never produces a spurious row. Parse never fails: malformed
// quoting degrades into literal text.
func Parse(text string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder

	pushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	pushRow := func() {
		rows = append(rows, row)
		row = nil
	}

	inQuotes := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inQuotes {
			if ch == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteByte(ch)
			continue
		}
		switch ch {
		case '"':
			inQuotes = true
		case ',':
			pushField()
		case '\r':
			// ignored; newline is the sole row terminator
		case '\n':
			pushField()
			pushRow()
		default:
			field.WriteByte(ch)
		}
	}
	pushField()
	if len(row) > 1 || row[0] != "" {
		pushRow()
	}
	return rows
}

// ToRows zips every record after the first against the header row.
// Headers and values are trimmed; short records pad with empty strings
// and extra trailing fields beyond the header are dropped. Empty input
// yields an empty sequence.
func ToRows(parsed [][]string) []Row {
	if len(parsed) == 0 {
		return nil
	}
	header := make([]string, len(parsed[0]))
	for i, h := range parsed[0] {
		header[i] = strings.TrimSpace(h)
	}
	rows := make([]Row, 0, len(parsed)-1)
	for _, rec := range parsed[1:] {
		r := make(Row, len(header))
		for i, h := range header {
			v := ""
			if i < len(rec) {
				v = strings.TrimSpace(rec[i])
			}
			r[h] = v
		}
		rows = append(rows, r)
	}
	return rows
}
