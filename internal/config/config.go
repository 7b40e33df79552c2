package config

import "github.com/BurntSushi/toml"

// Config is the server configuration. Every field has a default so a
// bare binary runs against the published datasets.
type Config struct {
	Listen         string   `toml:"listen"`
	BaseCountryURL string   `toml:"base_country_url"`
	Datasets       Datasets `toml:"datasets"`
}

// Datasets holds the CSV source URLs. An empty assets URL disables the
// assets view.
type Datasets struct {
	Geo       string `toml:"geo"`
	Framework string `toml:"framework"`
	Ratings   string `toml:"ratings"`
	Assets    string `toml:"assets"`
}

func Default() Config {
	return Config{
		Listen:         ":8080",
		BaseCountryURL: "https://www.ginc.org/",
		Datasets: Datasets{
			Geo:       "https://ginc-org.github.io/public-national-capability-data/ginc-geo.csv",
			Framework: "https://ginc-org.github.io/public-national-capability-data/ginc-framework.csv",
			Ratings:   "https://ginc-org.github.io/public-national-capability-data/ginc-ratings.csv",
			Assets:    "https://ginc-org.github.io/public-national-capability-data/ginc-assets.csv",
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
