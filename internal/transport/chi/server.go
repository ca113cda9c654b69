package chi

import (
	"encoding/json"
	"errors"
	"maps"
	"math"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placesearch/internal/domain"
	"github.com/kailas-cloud/placesearch/internal/domain/geo"
	"github.com/kailas-cloud/placesearch/internal/domain/place"
	"github.com/kailas-cloud/placesearch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/placesearch/internal/logger"
	cataloguc "github.com/kailas-cloud/placesearch/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/placesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/placesearch/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the place search HTTP API.
type Server struct {
	search        *searchuc.Service
	catalog       *cataloguc.Service
	health        *healthuc.Service
	hidden        map[string]struct{}
	header        func() []string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. Fields named in hideFields are
// never included in place output.
func NewServer(
	search *searchuc.Service,
	catalog *cataloguc.Service,
	health *healthuc.Service,
	hideFields []string,
	logger *zap.Logger,
) *Server {
	hidden := make(map[string]struct{}, len(hideFields))
	for _, f := range hideFields {
		hidden[f] = struct{}{}
	}
	s := &Server{
		search:  search,
		catalog: catalog,
		health:  health,
		hidden:  hidden,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery),
		sentinelHandler(domain.ErrUnknownLocation, http.StatusBadRequest, ErrorCodeUnknownLocation),
		sentinelHandler(domain.ErrPlaceNotFound, http.StatusNotFound, ErrorCodePlaceNotFound),
		sentinelHandler(domain.ErrDatasetNotLoaded, http.StatusServiceUnavailable, ErrorCodeDatasetNotLoaded),
		sentinelHandler(domain.ErrSourceUnavailable, http.StatusBadGateway, ErrorCodeSourceUnavailable),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/places", s.ListPlaces)
	r.Get("/places/{id}", s.GetPlace)
	r.Get("/categories", s.ListCategories)
	r.Get("/regions", s.ListRegions)
	r.Get("/postcodes", s.ListPostcodes)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListPlaces handles GET /places.
func (s *Server) ListPlaces(w http.ResponseWriter, r *http.Request) {
	var (
		category, region, location string
		lat, lon                   *float64
	)
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dest any
	}{
		{"category", &category},
		{"region", &region},
		{"location", &location},
		{"lat", &lat},
		{"lon", &lon},
	} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid parameter "+p.name)
			return
		}
	}
	if (lat == nil) != (lon == nil) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "lat and lon must be given together")
		return
	}

	query := searchuc.Query{Category: category, Region: region, Location: location}
	if lat != nil {
		query.Origin = &geo.Point{Lat: *lat, Lon: *lon}
	}

	res, state, err := s.search.Search(r.Context(), query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := PlaceListResponse{
		Mode:     res.Mode().String(),
		Category: state.Category(),
		Region:   state.Region(),
		Total:    res.Len(),
		Items:    s.placesToDTO(res),
	}
	if origin, ok := state.Location(); ok {
		resp.Origin = &Origin{Latitude: origin.Lat, Longitude: origin.Lon}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPlace handles GET /places/{id}.
func (s *Server) GetPlace(w http.ResponseWriter, r *http.Request) {
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid place id")
		return
	}

	p, err := s.search.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.placeToDTO(p, nil, s.columnOrder()))
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.Categories()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StringListResponse{Items: items})
}

// ListRegions handles GET /regions.
func (s *Server) ListRegions(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.Regions()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, StringListResponse{Items: items})
}

// ListPostcodes handles GET /postcodes.
func (s *Server) ListPostcodes(w http.ResponseWriter, r *http.Request) {
	var term string
	if err := runtime.BindQueryParameter("form", true, false, "term", r.URL.Query(), &term); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid parameter term")
		return
	}

	entries := s.catalog.Postcodes(term)
	items := make([]Postcode, len(entries))
	for i, e := range entries {
		items[i] = Postcode{Label: e.Label(), Latitude: e.Point.Lat, Longitude: e.Point.Lon}
	}
	writeJSON(w, http.StatusOK, PostcodeListResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Places: report.Places,
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) placesToDTO(res result.Result) []Place {
	order := s.columnOrder()
	items := make([]Place, res.Len())
	for i, p := range res.Places() {
		var dist *float64
		if d, ok := res.Distance(i); ok {
			rounded := roundKm(d)
			dist = &rounded
		}
		items[i] = s.placeToDTO(p, dist, order)
	}
	return items
}

func (s *Server) placeToDTO(p place.Place, distanceKm *float64, order []string) Place {
	out := Place{
		ID:         p.ID(),
		Name:       p.Name(),
		Categories: place.SplitTags(p.Categories()),
		Region:     p.Region(),
		DistanceKm: distanceKm,
		Fields:     s.visibleFields(p, order),
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	if p.HasCoordinates() {
		lat, lon := p.Latitude(), p.Longitude()
		out.Latitude, out.Longitude = &lat, &lon
	}
	return out
}

// visibleFields lists the place's non-empty columns in order, minus hidden
// ones. A nil order falls back to sorted column names.
func (s *Server) visibleFields(p place.Place, order []string) []FieldValue {
	fields := p.Fields()
	if order == nil {
		order = slices.Sorted(maps.Keys(fields))
	}

	out := make([]FieldValue, 0, len(order))
	for _, name := range order {
		if _, hide := s.hidden[name]; hide {
			continue
		}
		v, ok := fields[name]
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		out = append(out, FieldValue{Name: name, Value: v})
	}
	return out
}

// columnOrder returns the source column order, or nil when unknown.
func (s *Server) columnOrder() []string {
	if s.header == nil {
		return nil
	}
	if h := s.header(); len(h) > 0 {
		return h
	}
	return nil
}

// WithHeader sets where the source column order for place fields comes from.
func (s *Server) WithHeader(header func() []string) *Server {
	s.header = header
	return s
}

func roundKm(d float64) float64 {
	return math.Round(d*100) / 100
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrUnknownLocation,
		domain.ErrPlaceNotFound,
		domain.ErrDatasetNotLoaded,
		domain.ErrSourceUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

// requestLogger prefers the request-scoped logger set by the middleware chain.
func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return logpkg.FromContextOr(r.Context(), s.logger)
}
