package engine

import (
	"strings"
	"time"
)

// Asset is one inventory row. No composite-key uniqueness applies:
// multiple assets per country and category are expected.
type Asset struct {
	ISO          string
	Name         string
	Category     string
	CategorySlug string
	Type         string
	TypeURL      string
	Generation   string
	Service      string // raw service-entry value
	Volume       string
	ProfileURL   string

	ServiceNum    float64
	ServiceNumOK  bool
	ServiceWhen   time.Time
	ServiceWhenOK bool
}

var assetsSchema = Schema{Dataset: "assets", Fields: []Field{
	{Logical: "iso", Aliases: []string{"country_iso", "iso3", "iso"}, Required: true},
	{Logical: "name", Aliases: []string{"asset_name", "name"}, Required: true},
	{Logical: "generation", Aliases: []string{"asset_generation", "generation"}},
	{Logical: "service", Aliases: []string{"asset_in_service", "first_service", "service_entry", "in_service"}, Required: true},
	{Logical: "type", Aliases: []string{"asset_type", "type"}},
	{Logical: "volume", Aliases: []string{"asset_volume", "total", "count", "quantity"}},
	{Logical: "category", Aliases: []string{"asset_category", "category"}},
	{Logical: "profile", Aliases: []string{"profile_url", "asset_url", "url", "profile"}},
	{Logical: "type_url", Aliases: []string{"asset_type_url", "type_url", "category_url"}},
}}

// BuildAssets materializes the assets dataset. Filtering and sorting
// happen per request in the view layer; no index is prebuilt.
func BuildAssets(rows []Row) ([]Asset, error) {
	keys, err := assetsSchema.Resolve(rows)
	if err != nil {
		return nil, err
	}
	assets := make([]Asset, 0, len(rows))
	for _, r := range rows {
		a := Asset{
			ISO:        NormalizeISO(r.Get(keys["iso"])),
			Name:       r.Get(keys["name"]),
			Category:   r.Get(keys["category"]),
			Type:       r.Get(keys["type"]),
			TypeURL:    strings.TrimPrefix(r.Get(keys["type_url"]), "/"),
			Generation: r.Get(keys["generation"]),
			Service:    r.Get(keys["service"]),
			Volume:     r.Get(keys["volume"]),
			ProfileURL: strings.TrimPrefix(r.Get(keys["profile"]), "/"),
		}
		a.CategorySlug = Slugify(a.Category)
		a.ServiceNum, a.ServiceNumOK = ParseScore(a.Service)
		a.ServiceWhen, a.ServiceWhenOK = ParseWhen(a.Service)
		assets = append(assets, a)
	}
	return assets, nil
}
