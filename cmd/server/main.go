package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"gincbackend/internal/api"
	"gincbackend/internal/config"
	"gincbackend/internal/engine"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.JSONSerializer = api.JSONSerializer{}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Routes go live immediately; views answer 503 until the snapshot
	// lands.
	h := api.NewHandler(nil)
	h.RegisterRoutes(e)

	go func() {
		log.Println("BACKGROUND: loading datasets...")
		t0 := time.Now()

		loader := engine.Loader{
			Fetcher:        engine.NewHTTPFetcher(),
			GeoURL:         cfg.Datasets.Geo,
			FrameworkURL:   cfg.Datasets.Framework,
			RatingsURL:     cfg.Datasets.Ratings,
			AssetsURL:      cfg.Datasets.Assets,
			BaseCountryURL: cfg.BaseCountryURL,
		}
		snap, err := loader.Load(context.Background())
		if err != nil {
			log.Printf("BACKGROUND: snapshot load failed: %v", err)
			h.SetError(err)
			return
		}

		h.SetSnapshot(snap)
		log.Printf("BACKGROUND: snapshot ready in %v. API is fully live.", time.Since(t0))
	}()

	log.Printf("Server ready on %s (data loading in background...)", cfg.Listen)
	e.Logger.Fatal(e.Start(cfg.Listen))
}
