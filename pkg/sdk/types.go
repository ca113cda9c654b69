package placesearch

// Mode names how a result was produced.
type Mode string

// Mode constants.
const (
	ModeRegionCategory Mode = "region_category"
	ModeProximity      Mode = "proximity"
)

// Point is a WGS-84 coordinate in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Columns names the headers holding the core place fields.
// Empty names take the defaults Name, Lat, Lng, Brands and State.
type Columns struct {
	Name       string
	Latitude   string
	Longitude  string
	Categories string
	Region     string
}

// Query selects places. Origin wins over Location; either switches to
// proximity mode, where Region is ignored.
type Query struct {
	Category string
	Region   string
	Location string // "Suburb, Postcode"
	Origin   *Point
}

// Place is one venue.
type Place struct {
	ID         int
	Name       string
	Latitude   float64 // NaN when unknown
	Longitude  float64 // NaN when unknown
	Categories []string
	Region     string
	Fields     map[string]string
	DistanceKm *float64 // set in proximity mode only
}

// Result is the outcome of one search.
type Result struct {
	Mode     Mode
	Category string
	Region   string
	Origin   *Point
	Places   []Place
}

// Postcode is a gazetteer entry.
type Postcode struct {
	Suburb   string
	Postcode string
	Point    Point
}

// Label returns the "Suburb, Postcode" search term.
func (p Postcode) Label() string { return p.Suburb + ", " + p.Postcode }

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Places int               // loaded places
	Checks map[string]string // component → "ok"/"error"
}
