package engine

import (
	"html"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"gincbackend/internal/models"
)

// newNameLess builds a case-insensitive collated comparison for display
// name tie-breaks. Collators carry internal buffers, so each sort gets
// its own.
func newNameLess() func(a, b string) bool {
	coll := collate.New(language.Und, collate.IgnoreCase)
	return func(a, b string) bool { return coll.CompareString(a, b) < 0 }
}

// countryCell renders the country display fragment: optional emoji flag,
// then the name, linked to the configured base URL when the geo row
// carries a relative path.
func (s *Snapshot) countryCell(c Country) string {
	var b strings.Builder
	if c.Emoji != "" {
		b.WriteString(html.EscapeString(c.Emoji))
		b.WriteByte(' ')
	}
	if c.Path != "" {
		b.WriteString(`<a href="`)
		b.WriteString(html.EscapeString(s.BaseCountryURL + c.Path))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(c.Name))
		b.WriteString(`</a>`)
	} else {
		b.WriteString(html.EscapeString(c.Name))
	}
	return b.String()
}

// CountryView walks the framework hierarchy depth-first for one country
// and emits a row per node whether or not a rating exists; the hierarchy
// is always fully traversed.
func (s *Snapshot) CountryView(iso string) (*models.Table, error) {
	iso = NormalizeISO(iso)
	if iso == "" {
		return nil, errf(KindConfig, "missing required country code for country view")
	}
	c, ok := s.Geo.ByISO[iso]
	if !ok {
		return nil, errf(KindLookup, "unknown ISO code: %s", iso)
	}

	t := &models.Table{
		Caption: "National Capability Ratings — " + c.Name,
		Columns: []string{"Index Component", "Rating", "Outlook", "Date"},
	}
	push := func(class, name string, r Rating, color, link string) {
		cell := html.EscapeString(name)
		if link != "" {
			cell = `<a href="/` + html.EscapeString(strings.TrimPrefix(link, "/")) + `">` + cell + `</a>`
		}
		t.Rows = append(t.Rows, models.TableRow{
			Cells: []string{cell, html.EscapeString(r.Grade), html.EscapeString(r.Outlook), html.EscapeString(r.Date)},
			Class: class,
			Color: color,
		})
	}

	for _, d := range s.Framework.Domains {
		dr, _ := s.Ratings.Lookup(LevelDomain, iso, d.Slug)
		push("domain", d.Name, dr, "", "")
		for _, sd := range d.Subdomains {
			if sd.Slug != "" {
				sr, _ := s.Ratings.Lookup(LevelSubdomain, iso, sd.Slug)
				push("subdomain", sd.Name, sr, "", "")
			}
			for _, p := range sd.Pillars {
				pr, _ := s.Ratings.Lookup(LevelPillar, iso, p.Slug)
				push("pillar", p.Name, pr, p.Hex, p.URL)
			}
		}
	}
	return t, nil
}

// DimensionView ranks all filtered countries on one dimension at one
// level. Countries without a parseable score are dropped; output is
// sorted score descending with a collated name tie-break, and a
// separator row is emitted whenever the rating grade changes.
func (s *Snapshot) DimensionView(level Level, focus string, f Filters) (*models.Table, error) {
	if !validLevel(level) {
		return nil, errf(KindConfig, "unknown assessment level: %q", string(level))
	}
	focusID := Slugify(focus)
	if focusID == "" {
		return nil, errf(KindConfig, "missing focus dimension for %s view", level)
	}

	type entry struct {
		c Country
		r Rating
	}
	var entries []entry
	for _, iso := range s.Geo.Order {
		c := s.Geo.ByISO[iso]
		if !f.Match(c) {
			continue
		}
		r, ok := s.Ratings.Lookup(level, iso, focusID)
		if !ok || !r.ScoreOK {
			continue
		}
		entries = append(entries, entry{c, r})
	}
	if len(entries) == 0 {
		return nil, errf(KindLookup, "no ratings found for %s %q with the given filters", level, focusID)
	}

	nameLess := newNameLess()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].r.Score != entries[j].r.Score {
			return entries[i].r.Score > entries[j].r.Score
		}
		return nameLess(entries[i].c.Name, entries[j].c.Name)
	})

	t := &models.Table{
		Caption: Titleize(string(level)) + " — " + Titleize(focusID),
		Columns: []string{"Country", "Rating", "Outlook", "Date"},
	}
	last, first := "", true
	for _, e := range entries {
		if first || e.r.Grade != last {
			text := e.r.Grade
			if text == "" {
				text = "Unrated"
			}
			t.Rows = append(t.Rows, models.TableRow{
				Cells:     []string{html.EscapeString(text)},
				Class:     "sep",
				Separator: true,
			})
			last, first = e.r.Grade, false
		}
		t.Rows = append(t.Rows, models.TableRow{Cells: []string{
			s.countryCell(e.c),
			html.EscapeString(e.r.Grade),
			html.EscapeString(e.r.Outlook),
			html.EscapeString(e.r.Date),
		}})
	}
	return t, nil
}

// overallDomains are the three fixed top-level domains of the overall
// view; a titleized label stands in when one is absent from the
// framework dataset.
var overallDomains = [3]string{"hard-power", "soft-power", "economic-power"}

// OverallView averages the three domain scores per filtered country.
// The average only counts when all three scores are parseable; otherwise
// the country sorts last (negative infinity), tie-broken by name.
func (s *Snapshot) OverallView(f Filters) (*models.Table, error) {
	var names [3]string
	for i, slug := range overallDomains {
		if d := s.Framework.FindDomain(slug); d != nil {
			names[i] = d.Name
		} else {
			names[i] = Titleize(slug)
		}
	}

	type entry struct {
		c      Country
		grades [3]string
		avg    float64
	}
	var entries []entry
	for _, iso := range s.Geo.Order {
		c := s.Geo.ByISO[iso]
		if !f.Match(c) {
			continue
		}
		e := entry{c: c, avg: math.Inf(-1)}
		sum, n := 0.0, 0
		for i, slug := range overallDomains {
			r, ok := s.Ratings.Lookup(LevelDomain, iso, slug)
			if !ok {
				continue
			}
			e.grades[i] = r.Grade
			if r.ScoreOK {
				sum += r.Score
				n++
			}
		}
		if n == len(overallDomains) {
			e.avg = sum / float64(len(overallDomains))
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, errf(KindLookup, "no countries match the given filters")
	}

	nameLess := newNameLess()
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].avg != entries[j].avg {
			return entries[i].avg > entries[j].avg
		}
		return nameLess(entries[i].c.Name, entries[j].c.Name)
	})

	t := &models.Table{
		Caption: "Overall — Domain Ratings",
		Columns: []string{"Country", names[0], names[1], names[2]},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, models.TableRow{Cells: []string{
			s.countryCell(e.c),
			html.EscapeString(e.grades[0]),
			html.EscapeString(e.grades[1]),
			html.EscapeString(e.grades[2]),
		}})
	}
	return t, nil
}

// serviceRank orders service-entry values: numeric first, then
// date-like, then unparseable.
func serviceRank(a Asset) int {
	switch {
	case a.ServiceNumOK:
		return 0
	case a.ServiceWhenOK:
		return 1
	}
	return 2
}

// AssetsView filters assets by optional category slug and country code
// and sorts by service entry descending. Unparseable service values keep
// their relative input order at the bottom. No separator semantics.
func (s *Snapshot) AssetsView(category, iso string) (*models.Table, error) {
	if s.assetsErr != nil {
		return nil, s.assetsErr
	}
	if len(s.Assets) == 0 {
		return nil, errf(KindEmptyData, "no rows in assets dataset")
	}

	catSlug := Slugify(category)
	isoN := NormalizeISO(iso)
	rows := make([]Asset, 0, len(s.Assets))
	for _, a := range s.Assets {
		if catSlug != "" && a.CategorySlug != catSlug {
			continue
		}
		if isoN != "" && a.ISO != isoN {
			continue
		}
		rows = append(rows, a)
	}
	if len(rows) == 0 {
		return nil, errf(KindLookup, "no assets match the requested filters")
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		ra, rb := serviceRank(a), serviceRank(b)
		if ra != rb {
			return ra < rb
		}
		switch ra {
		case 0:
			return a.ServiceNum > b.ServiceNum
		case 1:
			return a.ServiceWhen.After(b.ServiceWhen)
		}
		return false
	})

	parts := []string{"Assets"}
	if category != "" {
		parts = append(parts, "Category: "+category)
	}
	if isoN != "" {
		parts = append(parts, "ISO: "+isoN)
	}
	t := &models.Table{
		Caption: strings.Join(parts, " — "),
		Columns: []string{"Name", "Type", "Gen", "Service", "Total"},
	}
	for _, a := range rows {
		name := html.EscapeString(a.Name)
		if a.ProfileURL != "" {
			name = `<a href="/` + html.EscapeString(a.ProfileURL) + `">` + name + `</a>`
		}
		if c, ok := s.Geo.ByISO[a.ISO]; ok && c.Emoji != "" {
			name = html.EscapeString(c.Emoji) + " " + name
		}
		typ := html.EscapeString(a.Type)
		if a.TypeURL != "" {
			typ = `<a href="/` + html.EscapeString(a.TypeURL) + `">` + typ + `</a>`
		}
		t.Rows = append(t.Rows, models.TableRow{Cells: []string{
			name,
			typ,
			html.EscapeString(a.Generation),
			html.EscapeString(a.Service),
			html.EscapeString(a.Volume),
		}})
	}
	return t, nil
}
