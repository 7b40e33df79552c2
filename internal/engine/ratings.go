package engine

import "time"

// Level is the hierarchy tier a rating row applies to.
type Level string

const (
	LevelDomain    Level = "domain"
	LevelSubdomain Level = "subdomain"
	LevelPillar    Level = "pillar"
)

func validLevel(l Level) bool {
	return l == LevelDomain || l == LevelSubdomain || l == LevelPillar
}

// Rating is one resolved assessment of a {country, level, dimension}
// triple.
type Rating struct {
	ISO     string
	Level   Level
	Slug    string
	Grade   string
	Score   float64
	ScoreOK bool
	Outlook string
	Date    string
	When    time.Time
	WhenOK  bool
}

// RatingsIndex holds at most one resolved rating per composite key
// (ISO|slug), partitioned by level.
type RatingsIndex struct {
	byLevel map[Level]map[string]Rating
}

func (ix *RatingsIndex) Lookup(level Level, iso, slug string) (Rating, bool) {
	r, ok := ix.byLevel[level][iso+"|"+slug]
	return r, ok
}

// Len reports the number of resolved ratings across all levels.
func (ix *RatingsIndex) Len() int {
	n := 0
	for _, m := range ix.byLevel {
		n += len(m)
	}
	return n
}

var ratingsSchema = Schema{Dataset: "ratings", Fields: []Field{
	{Logical: "iso", Aliases: []string{"country_iso", "iso3", "iso_a3", "iso_alpha3", "iso", "alpha3"}, Required: true},
	{Logical: "assessment", Aliases: []string{"assessment_type", "assessment", "assessment_level", "level", "type"}},
	{Logical: "domain", Aliases: []string{"domain_var", "domain_key", "domain", "domain_url"}},
	{Logical: "subdomain", Aliases: []string{"subdomain_var", "subdomain_key", "subdomain", "subdomain_url"}},
	{Logical: "pillar", Aliases: []string{"pillar_var", "pillar_key", "pillar", "pillar_url", "component", "component_var"}},
	{Logical: "rating", Aliases: []string{"rating"}, Required: true},
	{Logical: "score", Aliases: []string{"score", "value", "points"}, Required: true},
	{Logical: "outlook", Aliases: []string{"outlook"}},
	{Logical: "date", Aliases: []string{"date", "asof", "as_at", "as-of"}},
}}

// betterRating picks the surviving row when two collide on the same
// composite key: a higher parseable score wins; a parseable score beats
// none; equal or absent scores fall to the later parseable date; with
// nothing parseable the earlier-encountered row (a) is kept.
func betterRating(a, b Rating) Rating {
	switch {
	case a.ScoreOK && b.ScoreOK:
		if b.Score > a.Score {
			return b
		}
		if a.Score > b.Score {
			return a
		}
		// equal scores: decided by date below
	case b.ScoreOK:
		return b
	case a.ScoreOK:
		return a
	}
	switch {
	case a.WhenOK && b.WhenOK:
		if b.When.After(a.When) {
			return b
		}
		return a
	case b.WhenOK:
		return b
	}
	return a
}

// BuildRatingsIndex resolves the ratings dataset into per-level
// composite-key maps. The level comes from the assessment column when it
// names a known tier, otherwise it is inferred from whichever dimension
// id column is populated (pillar, then subdomain, then domain). Rows
// without a usable country code, level, or dimension id are skipped.
func BuildRatingsIndex(rows []Row) (*RatingsIndex, error) {
	keys, err := ratingsSchema.Resolve(rows)
	if err != nil {
		return nil, err
	}

	ix := &RatingsIndex{byLevel: map[Level]map[string]Rating{
		LevelDomain:    {},
		LevelSubdomain: {},
		LevelPillar:    {},
	}}
	for _, r := range rows {
		iso := NormalizeISO(r.Get(keys["iso"]))
		if iso == "" {
			continue
		}

		level := Level(Slugify(r.Get(keys["assessment"])))
		if !validLevel(level) {
			switch {
			case r.Get(keys["pillar"]) != "":
				level = LevelPillar
			case r.Get(keys["subdomain"]) != "":
				level = LevelSubdomain
			case r.Get(keys["domain"]) != "":
				level = LevelDomain
			default:
				continue
			}
		}
		id := Slugify(r.Get(keys[string(level)]))
		if id == "" {
			continue
		}

		rec := Rating{
			ISO:     iso,
			Level:   level,
			Slug:    id,
			Grade:   r.Get(keys["rating"]),
			Outlook: r.Get(keys["outlook"]),
			Date:    r.Get(keys["date"]),
		}
		rec.Score, rec.ScoreOK = ParseScore(r.Get(keys["score"]))
		rec.When, rec.WhenOK = ParseWhen(rec.Date)

		key := iso + "|" + id
		if prev, ok := ix.byLevel[level][key]; ok {
			rec = betterRating(prev, rec)
		}
		ix.byLevel[level][key] = rec
	}
	return ix, nil
}
