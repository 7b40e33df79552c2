package api

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"gincbackend/internal/engine"
	"gincbackend/internal/models"
)

// Handler serves resolved view tables. The snapshot may arrive after the
// routes are live: until then every view answers 503, and a failed load
// is broadcast to every view as the same error.
type Handler struct {
	mu      sync.RWMutex
	snap    *engine.Snapshot
	loadErr error
}

func NewHandler(snap *engine.Snapshot) *Handler {
	return &Handler{snap: snap}
}

// SetSnapshot publishes a loaded snapshot to the live API.
func (h *Handler) SetSnapshot(snap *engine.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
	h.loadErr = nil
}

// SetError records a failed snapshot load; every view reports it.
func (h *Handler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loadErr = err
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/views/country/:iso", h.CountryView)
	g.GET("/views/overall", h.OverallView)
	g.GET("/views/:level/:focus", h.DimensionView)
	g.GET("/assets", h.AssetsView)
}

// snapshot returns the live snapshot, or replies for the caller when the
// data is not (yet) available.
func (h *Handler) snapshot(c echo.Context) (*engine.Snapshot, bool, error) {
	h.mu.RLock()
	snap, loadErr := h.snap, h.loadErr
	h.mu.RUnlock()
	if loadErr != nil {
		return nil, false, respondErr(c, loadErr)
	}
	if snap == nil {
		return nil, false, c.JSON(http.StatusServiceUnavailable,
			models.ErrorResponse{Error: "data is still loading"})
	}
	return snap, true, nil
}

func filtersFrom(c echo.Context) engine.Filters {
	return engine.Filters{
		Region:    c.QueryParam("region"),
		SubRegion: c.QueryParam("subregion"),
		Group:     c.QueryParam("group"),
	}
}

func (h *Handler) CountryView(c echo.Context) error {
	snap, ok, err := h.snapshot(c)
	if !ok {
		return err
	}
	t, err := snap.CountryView(c.Param("iso"))
	return respond(c, t, err)
}

func (h *Handler) DimensionView(c echo.Context) error {
	snap, ok, err := h.snapshot(c)
	if !ok {
		return err
	}
	level := engine.Level(strings.ToLower(c.Param("level")))
	t, err := snap.DimensionView(level, c.Param("focus"), filtersFrom(c))
	return respond(c, t, err)
}

func (h *Handler) OverallView(c echo.Context) error {
	snap, ok, err := h.snapshot(c)
	if !ok {
		return err
	}
	t, err := snap.OverallView(filtersFrom(c))
	return respond(c, t, err)
}

func (h *Handler) AssetsView(c echo.Context) error {
	snap, ok, err := h.snapshot(c)
	if !ok {
		return err
	}
	t, err := snap.AssetsView(c.QueryParam("category"), c.QueryParam("iso"))
	return respond(c, t, err)
}

func respond(c echo.Context, t *models.Table, err error) error {
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func respondErr(c echo.Context, err error) error {
	var ve *engine.ViewError
	if errors.As(err, &ve) {
		return c.JSON(statusFor(ve.Kind), models.ErrorResponse{
			Kind:  ve.Kind.String(),
			Error: ve.Message,
		})
	}
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
}

func statusFor(k engine.ErrorKind) int {
	switch k {
	case engine.KindConfig:
		return http.StatusBadRequest
	case engine.KindLookup:
		return http.StatusNotFound
	case engine.KindTransport, engine.KindSchema, engine.KindEmptyData:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
