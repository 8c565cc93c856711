package domain

// TNI is the name of the Trans-Niño Index, derived from regions 1+2 and 4.
const TNI = "tni"

// Region is a Niño box in the canonical [0,360) x [-90,90] convention.
// Bounds are inclusive.
type Region struct {
	Name        string
	Description string
	LonMin      float64
	LonMax      float64
	LatMin      float64
	LatMax      float64
}

var regions = []Region{
	{Name: "1+2", Description: "Niño 1+2 (far eastern Pacific)", LonMin: 270, LonMax: 280, LatMin: -10, LatMax: 0},
	{Name: "3", Description: "Niño 3 (eastern Pacific)", LonMin: 210, LonMax: 270, LatMin: -5, LatMax: 5},
	{Name: "4", Description: "Niño 4 (central-western Pacific)", LonMin: 160, LonMax: 210, LatMin: -5, LatMax: 5},
	{Name: "3.4", Description: "Niño 3.4 (central Pacific)", LonMin: 190, LonMax: 240, LatMin: -5, LatMax: 5},
	{Name: "oni", Description: "Oceanic Niño Index (Niño 3.4 box)", LonMin: 190, LonMax: 240, LatMin: -5, LatMax: 5},
}

// Regions returns a copy of the region table in its canonical order.
func Regions() []Region {
	return append([]Region(nil), regions...)
}

// LookupRegion returns the box for a named region. TNI has no box.
func LookupRegion(name string) (Region, bool) {
	for _, r := range regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// IndexNames lists every index Compute accepts: the five boxes, then TNI.
func IndexNames() []string {
	names := make([]string, 0, len(regions)+1)
	for _, r := range regions {
		names = append(names, r.Name)
	}
	return append(names, TNI)
}

// ValidateIndexName returns an *InvalidRegionError for unrecognised names.
func ValidateIndexName(name string) error {
	if name == TNI {
		return nil
	}
	if _, ok := LookupRegion(name); ok {
		return nil
	}
	return &InvalidRegionError{Name: name, Valid: IndexNames()}
}
