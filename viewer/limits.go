package viewer

import (
	"fmt"
	"sort"
)

// Limit keys
const (
	XMin    = "xmin"
	XMax    = "xmax"
	YMin    = "ymin"
	YMax    = "ymax"
	ZMin    = "zmin"
	ZMax    = "zmax"
	DataMin = "datamin"
	DataMax = "datamax"
)

var limitKeys = map[string]bool{
	XMin: true, XMax: true,
	YMin: true, YMax: true,
	ZMin: true, ZMax: true,
	DataMin: true, DataMax: true,
}

// LimitSpec holds optional display bounds; a missing or nil entry means
// autoscale from the data.
type LimitSpec map[string]*float64

// NewLimitSpec copies limits, rejecting keys outside the fixed key set
func NewLimitSpec(limits map[string]*float64) (LimitSpec, error) {
	var unknown []string
	ls := make(LimitSpec, len(limits))
	for k, v := range limits {
		if !limitKeys[k] {
			unknown = append(unknown, k)
			continue
		}
		if v != nil {
			val := *v
			v = &val
		}
		ls[k] = v
	}
	if len(unknown) != 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %v", ErrUnknownLimit, unknown)
	}
	return ls, nil
}

// Float returns a pointer to v, for building limit specs
func Float(v float64) *float64 { return &v }

// Get returns the limit for key and whether it is set
func (ls LimitSpec) Get(key string) (float64, bool) {
	if v := ls[key]; v != nil {
		return *v, true
	}
	return 0, false
}

// ResolveDisplayedRange picks the color scale: datamin and datamax when set,
// the field extrema otherwise.
func (ls LimitSpec) ResolveDisplayedRange(fieldMin, fieldMax float64) (lo, hi float64) {
	lo, hi = fieldMin, fieldMax
	if v, ok := ls.Get(DataMin); ok {
		lo = v
	}
	if v, ok := ls.Get(DataMax); ok {
		hi = v
	}
	return
}
