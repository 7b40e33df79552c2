package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gincbackend/internal/models"
)

func newTestSnapshot(t *testing.T, geoCSV, fwCSV, rtCSV string) *Snapshot {
	t.Helper()
	geo, err := BuildGeoIndex(ToRows(Parse(geoCSV)))
	require.NoError(t, err)
	fw, err := BuildFramework(ToRows(Parse(fwCSV)))
	require.NoError(t, err)
	rt, err := BuildRatingsIndex(ToRows(Parse(rtCSV)))
	require.NoError(t, err)
	return &Snapshot{Geo: geo, Framework: fw, Ratings: rt, BaseCountryURL: "https://example.org/"}
}

func cells(rows []models.TableRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Cells)
	}
	return out
}

func TestCountryView(t *testing.T) {
	snap := newTestSnapshot(t,
		"country_iso,country_name\nUSA,United States\n",
		"domain_name,pillar_name\nHard Power,Military\n",
		"country_iso,assessment_type,pillar_var,rating,score\nUSA,pillar,military,AA,19\n",
	)

	table, err := snap.CountryView("usa")
	require.NoError(t, err)

	assert.Equal(t, "National Capability Ratings — United States", table.Caption)
	assert.Equal(t, []string{"Index Component", "Rating", "Outlook", "Date"}, table.Columns)
	require.Len(t, table.Rows, 2)

	// the hierarchy is fully traversed; the unrated domain still renders
	assert.Equal(t, []string{"Hard Power", "", "", ""}, table.Rows[0].Cells)
	assert.Equal(t, "domain", table.Rows[0].Class)
	assert.Equal(t, []string{"Military", "AA", "", ""}, table.Rows[1].Cells)
	assert.Equal(t, "pillar", table.Rows[1].Class)
}

func TestCountryViewPillarColorAndLink(t *testing.T) {
	snap := newTestSnapshot(t,
		"country_iso,country_name\nUSA,United States\n",
		"domain_name,subdomain_name,pillar_name,pillar_hex,pillar_url\nHard Power,Land,Army,aabbcc,/army\n",
		"country_iso,pillar_var,rating,score\nUSA,army,A,17\n",
	)

	table, err := snap.CountryView("USA")
	require.NoError(t, err)
	require.Len(t, table.Rows, 3) // domain, subdomain, pillar

	assert.Equal(t, "subdomain", table.Rows[1].Class)
	assert.Equal(t, "Land", table.Rows[1].Cells[0])

	pillar := table.Rows[2]
	assert.Equal(t, "#aabbcc", pillar.Color)
	assert.Equal(t, `<a href="/army">Army</a>`, pillar.Cells[0])
}

func TestCountryViewUnknownISO(t *testing.T) {
	snap := newTestSnapshot(t,
		"country_iso,country_name\nUSA,United States\n",
		"domain_name,pillar_name\nHard Power,Military\n",
		"country_iso,pillar_var,rating,score\nUSA,military,AA,19\n",
	)

	_, err := snap.CountryView("ZZZ")
	var ve *ViewError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindLookup, ve.Kind)

	_, err = snap.CountryView("")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindConfig, ve.Kind)
}

func TestDimensionViewTieAndSeparators(t *testing.T) {
	// scores 18, 18, 15 with grades A, A, B: the two grade-A countries
	// in name order, a separator at each grade boundary
	snap := newTestSnapshot(t,
		`country_iso,country_name
BBB,Bravo
AAA,Alpha
CCC,Charlie
`,
		"domain_name,pillar_name\nHard Power,Military\n",
		`country_iso,pillar_var,rating,score
BBB,military,A,18
AAA,military,A,18
CCC,military,B,15
`,
	)

	table, err := snap.DimensionView(LevelPillar, "military", Filters{})
	require.NoError(t, err)

	assert.Equal(t, "Pillar — Military", table.Caption)
	require.Len(t, table.Rows, 5)

	assert.True(t, table.Rows[0].Separator)
	assert.Equal(t, []string{"A"}, table.Rows[0].Cells)
	assert.Equal(t, "Alpha", table.Rows[1].Cells[0])
	assert.Equal(t, "Bravo", table.Rows[2].Cells[0])
	assert.True(t, table.Rows[3].Separator)
	assert.Equal(t, []string{"B"}, table.Rows[3].Cells)
	assert.Equal(t, "Charlie", table.Rows[4].Cells[0])
}

func TestDimensionViewDropsUnparseableScores(t *testing.T) {
	snap := newTestSnapshot(t,
		"country_iso,country_name\nAAA,Alpha\nBBB,Bravo\n",
		"domain_name,pillar_name\nHard Power,Military\n",
		`country_iso,pillar_var,rating,score
AAA,military,A,18
BBB,military,A,n/a
`,
	)

	table, err := snap.DimensionView(LevelPillar, "military", Filters{})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A"}, {"Alpha", "A", "", ""}}, cells(table.Rows))
}

func TestDimensionViewFilters(t *testing.T) {
	snap := newTestSnapshot(t,
		`country_iso,country_name,region,groups
AAA,Alpha,Europe,EU
BBB,Bravo,Americas,NATO
`,
		"domain_name,pillar_name\nHard Power,Military\n",
		`country_iso,pillar_var,rating,score
AAA,military,A,18
BBB,military,A,17
`,
	)

	table, err := snap.DimensionView(LevelPillar, "military", Filters{Region: "europe"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Alpha", table.Rows[1].Cells[0])

	table, err = snap.DimensionView(LevelPillar, "military", Filters{Group: "nato"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Bravo", table.Rows[1].Cells[0])

	_, err = snap.DimensionView(LevelPillar, "military", Filters{Region: "Africa"})
	var ve *ViewError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindLookup, ve.Kind)
}

func TestDimensionViewBadRequest(t *testing.T) {
	snap := newTestSnapshot(t,
		"country_iso,country_name\nAAA,Alpha\n",
		"domain_name,pillar_name\nHard Power,Military\n",
		"country_iso,pillar_var,rating,score\nAAA,military,A,18\n",
	)

	var ve *ViewError
	_, err := snap.DimensionView(Level("continent"), "military", Filters{})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindConfig, ve.Kind)

	_, err = snap.DimensionView(LevelPillar, "", Filters{})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, KindConfig, ve.Kind)
}

func TestOverallViewIncompleteScoresSortLast(t *testing.T) {
	// X has all three domain scores (average 10); Y is missing one, so
	// Y sorts last no matter how high its partial scores are
	snap := newTestSnapshot(t,
		"country_iso,country_name\nYYY,Yankee\nXXX,Xray\n",
		`domain_name,domain_order,pillar_name
Hard Power,1,Military
Soft Power,2,Culture
Economic Power,3,Trade
`,
		`country_iso,assessment_type,domain_var,rating,score
XXX,domain,hard-power,B,10
XXX,domain,soft-power,B,10
XXX,domain,economic-power,B,10
YYY,domain,hard-power,AA,20
YYY,domain,soft-power,AA,20
`,
	)

	table, err := snap.OverallView(Filters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Country", "Hard Power", "Soft Power", "Economic Power"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Xray", "B", "B", "B"}, table.Rows[0].Cells)
	assert.Equal(t, []string{"Yankee", "AA", "AA", ""}, table.Rows[1].Cells)
}

func TestOverallViewFallbackDomainNames(t *testing.T) {
	// a domain absent from the framework dataset still heads a column,
	// with a titleized label
	snap := newTestSnapshot(t,
		"country_iso,country_name\nXXX,Xray\n",
		"domain_name,pillar_name\nHard Power,Military\n",
		"country_iso,assessment_type,domain_var,rating,score\nXXX,domain,hard-power,A,15\n",
	)

	table, err := snap.OverallView(Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Country", "Hard Power", "Soft Power", "Economic Power"}, table.Columns)
}

func TestOverallViewNegativeInfinityTieBreaksByName(t *testing.T) {
	snap := newTestSnapshot(t,
		"country_iso,country_name\nBBB,Bravo\nAAA,Alpha\n",
		"domain_name,pillar_name\nHard Power,Military\n",
		"country_iso,assessment_type,domain_var,rating,score\nBBB,domain,hard-power,A,15\n",
	)

	table, err := snap.OverallView(Filters{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	// both incomplete: alphabetical by display name
	assert.Equal(t, "Alpha", table.Rows[0].Cells[0])
	assert.Equal(t, "Bravo", table.Rows[1].Cells[0])
}

func TestCountryCellMarkup(t *testing.T) {
	snap := newTestSnapshot(t,
		`country_iso,country_name,country_emoji,country_url
USA,United States,🇺🇸,/united-states
FRA,France,,
`,
		"domain_name,pillar_name\nHard Power,Military\n",
		`country_iso,pillar_var,rating,score
USA,military,AA,19
FRA,military,A,17
`,
	)

	table, err := snap.DimensionView(LevelPillar, "military", Filters{})
	require.NoError(t, err)
	require.Len(t, table.Rows, 4)
	assert.Equal(t, `🇺🇸 <a href="https://example.org/united-states">United States</a>`, table.Rows[1].Cells[0])
	assert.Equal(t, "France", table.Rows[3].Cells[0])
}
