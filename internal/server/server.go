// Package server exposes a Standardizer over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/andreiashu/geostd"
)

// maxBatchRecords bounds the records accepted by one standardize request.
const maxBatchRecords = 10000

const shutdownTimeout = 30 * time.Second

// Server serves standardization requests. Diagnostics accumulate over the
// lifetime of the server.
type Server struct {
	std  *geostd.Standardizer
	diag *geostd.Diagnostics
	log  *zap.Logger
}

// New returns a Server over std. A nil logger discards output.
func New(std *geostd.Standardizer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{std: std, diag: std.NewDiagnostics(), log: logger}
}

// StandardizeResponse is the body returned by POST /v1/standardize.
type StandardizeResponse struct {
	Records     []geostd.Record     `json:"records"`
	Resolutions []geostd.Resolution `json:"resolutions"`
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(logging(s.log))

	router.GET("/health", s.health)

	v1 := router.Group("/v1")
	{
		v1.POST("/standardize", s.standardize)
		v1.GET("/diagnostics", s.diagnostics)
		v1.GET("/cities", s.cities)
		v1.GET("/cities/nearest", s.nearestCity)
		v1.GET("/states", s.states)
	}
	return router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "http server shutdown")
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	stats := s.std.Store().Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"countries": stats.Countries,
		"states":    stats.States,
		"cities":    stats.Cities,
	})
}

func (s *Server) standardize(c *gin.Context) {
	var recs []geostd.Record
	if err := c.ShouldBindJSON(&recs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON array of records"})
		return
	}
	if len(recs) > maxBatchRecords {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many records", "max": maxBatchRecords})
		return
	}

	out, res, err := s.std.StandardizeBatch(c.Request.Context(), recs, s.diag)
	if err != nil {
		s.log.Warn("standardize request aborted", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
		return
	}
	c.JSON(http.StatusOK, StandardizeResponse{Records: out, Resolutions: res})
}

func (s *Server) diagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, s.diag.Report())
}

// maxBrowseLimit bounds the limit parameter of the browse routes.
const maxBrowseLimit = 500

// browseLimit parses the optional limit parameter. Zero means the store
// default.
func browseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return min(n, maxBrowseLimit), true
}

// cities lists cities by name substring (q) or by country code (country).
func (s *Server) cities(c *gin.Context) {
	limit, ok := browseLimit(c)
	if !ok {
		return
	}
	q, country := c.Query("q"), c.Query("country")
	var cities []geostd.City
	switch {
	case q != "":
		cities = s.std.Store().SearchCities(q, limit)
	case country != "":
		cities = s.std.Store().CitiesByCountry(country, limit)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "q or country is required"})
		return
	}

	out := make([]gin.H, 0, len(cities))
	for _, city := range cities {
		out = append(out, cityJSON(city))
	}
	c.JSON(http.StatusOK, gin.H{"cities": out})
}

func (s *Server) states(c *gin.Context) {
	limit, ok := browseLimit(c)
	if !ok {
		return
	}
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	states := s.std.Store().SearchStates(q, limit)
	out := make([]gin.H, 0, len(states))
	for _, st := range states {
		out = append(out, gin.H{
			"stateCode":   st.Code,
			"iso3166_2":   st.ISO3166_2,
			"display":     st.Name,
			"countryCode": st.CountryCode,
		})
	}
	c.JSON(http.StatusOK, gin.H{"states": out})
}

func cityJSON(city geostd.City) gin.H {
	return gin.H{
		"cityCode":       city.Code,
		"cityDisplay":    city.Name,
		"countryCode":    city.CountryCode,
		"countryDisplay": city.CountryName,
		"stateCode":      city.StateCode,
		"stateDisplay":   city.StateName,
		"population":     city.Population,
	}
}

func (s *Server) nearestCity(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng must be numbers"})
		return
	}
	city, ok := s.std.Store().NearestCity(lat, lng)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no city near the given coordinates"})
		return
	}
	c.JSON(http.StatusOK, cityJSON(city))
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

func logging(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}
