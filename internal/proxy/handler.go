package proxy

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/ramadan-compass/internal/fasting"
	"github.com/smokyabdulrahman/ramadan-compass/internal/geo"
)

// User-facing error messages. Upstream details are logged, never returned.
const (
	msgMissingLocation = "Missing latitude/longitude or city/country parameters"
	msgInvalidCoords   = "Invalid latitude/longitude parameters"
	msgFetchFailed     = "Failed to fetch prayer times."
)

// Error is an HTTP error returned by an endpoint.
type Error struct {
	Code    int
	Message string
}

// HandlerFunc is an endpoint that returns a JSON-able result or an Error.
type HandlerFunc func(ctx *gin.Context) (any, *Error)

// ResolveEndpoint adapts a HandlerFunc to gin, writing {"error": msg} on failure.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}

// Fetcher returns timings for a query. Both Service and Client implement it.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (fasting.Timings, error)
}

// NewRouter builds the gin engine serving the prayer endpoint.
func NewRouter(fetcher Fetcher, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods:    []string{"GET", "OPTIONS", "HEAD"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &prayerHandler{fetcher: fetcher, logger: logger}
	r.GET("/api/prayer", ResolveEndpoint(h.getPrayer))

	return r
}

type prayerHandler struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

func (h *prayerHandler) getPrayer(ctx *gin.Context) (any, *Error) {
	q, apiErr := parseQuery(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	timings, err := h.fetcher.Fetch(ctx.Request.Context(), q)
	switch {
	case err == nil:
		return timings, nil
	case errors.Is(err, ErrMissingLocation):
		return nil, &Error{Code: http.StatusBadRequest, Message: msgMissingLocation}
	default:
		h.logger.Error().Err(err).
			Bool("coords", q.HasCoords).
			Str("city", q.City).
			Str("country", q.Country).
			Msg("[prayer] fetch failed")
		return nil, &Error{Code: http.StatusInternalServerError, Message: msgFetchFailed}
	}
}

// parseQuery reads lat/lng or city/country from the query string.
func parseQuery(ctx *gin.Context) (Query, *Error) {
	lat, lng := ctx.Query("lat"), ctx.Query("lng")
	if lat != "" && lng != "" {
		latV, errLat := strconv.ParseFloat(lat, 64)
		lngV, errLng := strconv.ParseFloat(lng, 64)
		if errLat != nil || errLng != nil || !geo.ValidLatitude(latV) || !geo.ValidLongitude(lngV) {
			return Query{}, &Error{Code: http.StatusBadRequest, Message: msgInvalidCoords}
		}
		return ByCoordinates(latV, lngV), nil
	}

	city, country := ctx.Query("city"), ctx.Query("country")
	if city != "" && country != "" {
		return ByCity(city, country), nil
	}
	return Query{}, &Error{Code: http.StatusBadRequest, Message: msgMissingLocation}
}

// RequestLogger logs one line per request.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		status := ctx.Writer.Status()
		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", ctx.ClientIP()).
			Msg("request")
	}
}
