package domain

import "math"

// Normalize rewrites a field so latitude is non-decreasing and longitude
// lies in [0, 360) non-decreasing.
//
// An empty axis name skips that axis, as does a name the field does not
// have. Latitude is sorted only when its first label exceeds its last.
// Longitude is wrapped and sorted only when it holds a negative label; an
// all-positive longitude axis is returned as-is even if unsorted.
//
// The input field is never modified. When nothing needs to change the same
// field is returned.
func Normalize(f *Field, lonName, latName string) *Field {
	out := f
	if latName != "" {
		if d := out.AxisIndex(latName); d >= 0 && out.Axes[d].Decreasing() {
			out = out.sortAxis(d)
		}
	}
	if lonName != "" {
		if d := out.AxisIndex(lonName); d >= 0 && out.Axes[d].Min() < 0 {
			src := out.Axes[d].Values
			wrapped := make([]float64, len(src))
			for i, v := range src {
				wrapped[i] = normalizeLon360(v)
			}
			out = out.relabel(d, wrapped).sortAxis(d)
		}
	}
	return out
}

// normalizeLon360 maps arbitrary degree longitudes into the [0, 360) range.
func normalizeLon360(lon float64) float64 {
	lon = math.Mod(lon+360.0, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	if lon >= 360.0 {
		lon -= 360.0
	}
	return lon
}
