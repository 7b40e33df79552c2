package engine

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Snapshot is the immutable, fully-joined view of every dataset for one
// process lifetime. It is built exactly once and shared read-only; views
// never mutate it.
type Snapshot struct {
	Geo            *GeoIndex
	Framework      *Framework
	Ratings        *RatingsIndex
	Assets         []Asset
	BaseCountryURL string

	// assetsErr isolates an unusable assets dataset to the assets view
	// instead of failing the whole snapshot.
	assetsErr *ViewError
}

// Loader fetches and indexes the datasets. An empty AssetsURL disables
// the assets view.
type Loader struct {
	Fetcher        Fetcher
	GeoURL         string
	FrameworkURL   string
	RatingsURL     string
	AssetsURL      string
	BaseCountryURL string
}

// Load issues every dataset fetch concurrently, joins before any index
// construction, and builds the snapshot from a fully-available set. A
// failed fetch or a schema failure in geo/framework/ratings fails the
// load as a whole; every pending view reports that same error.
func (l Loader) Load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	log.Println("Loading datasets...")

	var geoRows, fwRows, rtRows, asRows []Row
	g, gctx := errgroup.WithContext(ctx)
	fetch := func(url string, dst *[]Row) func() error {
		return func() error {
			text, err := l.Fetcher.Fetch(gctx, url)
			if err != nil {
				return err
			}
			*dst = ToRows(Parse(text))
			return nil
		}
	}
	g.Go(fetch(l.GeoURL, &geoRows))
	g.Go(fetch(l.FrameworkURL, &fwRows))
	g.Go(fetch(l.RatingsURL, &rtRows))
	if l.AssetsURL != "" {
		g.Go(fetch(l.AssetsURL, &asRows))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	geo, err := BuildGeoIndex(geoRows)
	if err != nil {
		return nil, err
	}
	fw, err := BuildFramework(fwRows)
	if err != nil {
		return nil, err
	}
	rt, err := BuildRatingsIndex(rtRows)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Geo:            geo,
		Framework:      fw,
		Ratings:        rt,
		BaseCountryURL: normalizeBase(l.BaseCountryURL),
	}
	if l.AssetsURL == "" {
		snap.assetsErr = errf(KindConfig, "assets dataset not configured")
	} else if assets, err := BuildAssets(asRows); err != nil {
		var ve *ViewError
		if !errors.As(err, &ve) {
			ve = errf(KindEmptyData, "%v", err)
		}
		snap.assetsErr = ve
	} else {
		snap.Assets = assets
	}

	log.Printf("Snapshot ready: %d countries, %d domains, %d ratings, %d assets. Time: %v",
		len(geo.Order), len(fw.Domains), rt.Len(), len(snap.Assets), time.Since(start))
	return snap, nil
}

func normalizeBase(base string) string {
	if base == "" {
		return "/"
	}
	return strings.TrimSuffix(base, "/") + "/"
}
