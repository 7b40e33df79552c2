package engine

import (
	"slices"
	"strings"
)

// Country is one row of the geo dataset, normalized.
type Country struct {
	ISO       string
	Name      string
	Emoji     string
	Path      string // relative URL path, leading slash stripped
	Region    string
	SubRegion string
	Groups    []string // lowercased membership tokens
}

// GeoIndex is the per-country lookup plus the unique ISO codes in
// first-appearance order.
type GeoIndex struct {
	ByISO map[string]Country
	Order []string
}

var geoSchema = Schema{Dataset: "geo", Fields: []Field{
	{Logical: "iso", Aliases: []string{"country_iso", "iso3", "iso_a3", "iso_alpha3", "iso", "alpha3"}, Required: true},
	{Logical: "name", Aliases: []string{"country_name", "name", "country"}, Required: true},
	{Logical: "emoji", Aliases: []string{"country_emoji", "emoji"}},
	{Logical: "url", Aliases: []string{"country_url", "path", "url"}},
	{Logical: "region", Aliases: []string{"region"}},
	{Logical: "subregion", Aliases: []string{"sub_region", "subregion", "sub-region"}},
	{Logical: "groups", Aliases: []string{"groups", "group", "memberships", "membership"}},
}}

// BuildGeoIndex indexes the geo dataset by normalized ISO code. When the
// dataset contains duplicate rows for the same code, the last row wins;
// that is deliberate policy, not validated.
func BuildGeoIndex(rows []Row) (*GeoIndex, error) {
	keys, err := geoSchema.Resolve(rows)
	if err != nil {
		return nil, err
	}
	idx := &GeoIndex{ByISO: make(map[string]Country, len(rows))}
	for _, r := range rows {
		iso := NormalizeISO(r.Get(keys["iso"]))
		if iso == "" {
			continue
		}
		if _, seen := idx.ByISO[iso]; !seen {
			idx.Order = append(idx.Order, iso)
		}
		idx.ByISO[iso] = Country{
			ISO:       iso,
			Name:      r.Get(keys["name"]),
			Emoji:     r.Get(keys["emoji"]),
			Path:      strings.TrimPrefix(r.Get(keys["url"]), "/"),
			Region:    r.Get(keys["region"]),
			SubRegion: r.Get(keys["subregion"]),
			Groups:    SplitGroups(r.Get(keys["groups"])),
		}
	}
	return idx, nil
}

// Filters restricts country-driven views. Region and sub-region are
// case-insensitive equality against the geo row; group is membership
// token containment.
type Filters struct {
	Region    string
	SubRegion string
	Group     string
}

func (f Filters) Match(c Country) bool {
	if f.Region != "" && !equalFoldTrim(f.Region, c.Region) {
		return false
	}
	if f.SubRegion != "" && !equalFoldTrim(f.SubRegion, c.SubRegion) {
		return false
	}
	if f.Group != "" {
		want := strings.ToLower(strings.TrimSpace(f.Group))
		if !slices.Contains(c.Groups, want) {
			return false
		}
	}
	return true
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
