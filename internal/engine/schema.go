package engine

import "strings"

// ResolveKey returns the actual header in sample matching one of the
// candidate names, tried in priority order (newer preferred names first,
// legacy fallbacks after). Matching is case-insensitive and trimmed on
// both sides. Returns "" when no candidate is present.
func ResolveKey(sample Row, candidates ...string) string {
	if len(sample) == 0 {
		return ""
	}
	actual := make(map[string]string, len(sample))
	for k := range sample {
		actual[strings.ToLower(strings.TrimSpace(k))] = k
	}
	for _, c := range candidates {
		if k, ok := actual[strings.ToLower(strings.TrimSpace(c))]; ok && k != "" {
			return k
		}
	}
	return ""
}

// Field describes one logical column of a dataset and the header aliases
// it may appear under.
type Field struct {
	Logical  string
	Aliases  []string
	Required bool
}

// Schema is the declarative column description for one dataset, resolved
// once against the first materialized row.
type Schema struct {
	Dataset string
	Fields  []Field
}

// Resolve maps every logical field to the header actually present in the
// dataset. Missing optional fields resolve to "" (Row.Get treats those
// as empty); missing required fields are a schema failure naming the
// dataset and columns.
func (s Schema) Resolve(rows []Row) (map[string]string, error) {
	if len(rows) == 0 {
		return nil, errf(KindEmptyData, "no rows in %s dataset", s.Dataset)
	}
	sample := rows[0]
	keys := make(map[string]string, len(s.Fields))
	var missing []string
	for _, f := range s.Fields {
		k := ResolveKey(sample, f.Aliases...)
		if k == "" && f.Required {
			missing = append(missing, f.Logical)
		}
		keys[f.Logical] = k
	}
	if len(missing) > 0 {
		return nil, errf(KindSchema, "%s dataset missing required column(s): %s",
			s.Dataset, strings.Join(missing, ", "))
	}
	return keys, nil
}
