package chi

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeInvalidQuery      ErrorCode = "invalid_query"
	ErrorCodeUnknownLocation   ErrorCode = "unknown_location"
	ErrorCodePlaceNotFound     ErrorCode = "place_not_found"
	ErrorCodeDatasetNotLoaded  ErrorCode = "dataset_not_loaded"
	ErrorCodeSourceUnavailable ErrorCode = "source_unavailable"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FieldValue is one display column of a place, in source column order.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Place is the API representation of a venue.
type Place struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Latitude   *float64     `json:"latitude,omitempty"`
	Longitude  *float64     `json:"longitude,omitempty"`
	Categories []string     `json:"categories"`
	Region     string       `json:"region,omitempty"`
	DistanceKm *float64     `json:"distance_km,omitempty"`
	Fields     []FieldValue `json:"fields"`
}

// Origin is the point a proximity search ranked against.
type Origin struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlaceListResponse is the body of GET /places.
type PlaceListResponse struct {
	Mode     string  `json:"mode"`
	Category string  `json:"category"`
	Region   string  `json:"region"`
	Origin   *Origin `json:"origin,omitempty"`
	Total    int     `json:"total"`
	Items    []Place `json:"items"`
}

// StringListResponse is the body of GET /categories and GET /regions.
type StringListResponse struct {
	Items []string `json:"items"`
}

// Postcode is one autocomplete suggestion.
type Postcode struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PostcodeListResponse is the body of GET /postcodes.
type PostcodeListResponse struct {
	Items []Postcode `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Places int               `json:"places"`
	Checks map[string]string `json:"checks"`
}
