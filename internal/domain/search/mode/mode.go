package mode

// Mode is the filtering strategy selected by the current filter state.
type Mode string

// Search mode constants.
const (
	// RegionCategory filters by region and category, keeping dataset order.
	RegionCategory Mode = "region_category"
	// Proximity ranks category matches by distance to a searched location.
	Proximity Mode = "proximity"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == RegionCategory || m == Proximity
}

func (m Mode) String() string { return string(m) }
