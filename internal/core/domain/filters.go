package domain

import (
	"fmt"
	"math"
	"strings"
)

// FilterField names one of the five adjustment sliders
type FilterField int

const (
	FieldBrightness FilterField = iota
	FieldContrast
	FieldSaturation
	FieldBlur
	FieldRotation
)

// AllFields lists the sliders in display order
var AllFields = []FilterField{
	FieldBrightness,
	FieldContrast,
	FieldSaturation,
	FieldBlur,
	FieldRotation,
}

func (f FilterField) String() string {
	switch f {
	case FieldBrightness:
		return "brightness"
	case FieldContrast:
		return "contrast"
	case FieldSaturation:
		return "saturation"
	case FieldBlur:
		return "blur"
	case FieldRotation:
		return "rotation"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseFilterField converts a slider name into a FilterField
func ParseFilterField(name string) (FilterField, error) {
	for _, f := range AllFields {
		if strings.EqualFold(strings.TrimSpace(name), f.String()) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// FieldRange describes the input control declared for a slider
type FieldRange struct {
	Min     float64
	Max     float64
	Default float64
	Step    float64
	Unit    string
}

// Range returns the declared control range of a field
func (f FilterField) Range() FieldRange {
	switch f {
	case FieldBrightness, FieldContrast, FieldSaturation:
		return FieldRange{Min: 0, Max: 200, Default: 100, Step: 1, Unit: "%"}
	case FieldBlur:
		return FieldRange{Min: 0, Max: 20, Default: 0, Step: 1, Unit: "px"}
	case FieldRotation:
		return FieldRange{Min: -180, Max: 180, Default: 0, Step: 1, Unit: "°"}
	default:
		return FieldRange{}
	}
}

// Clamp limits v to the control range. Controls call this, the session never does.
func (r FieldRange) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// FilterParams are the live, non-destructive adjustments of the selected image
type FilterParams struct {
	Brightness float64 `yaml:"brightness"` // percent
	Contrast   float64 `yaml:"contrast"`   // percent
	Saturation float64 `yaml:"saturation"` // percent
	Blur       float64 `yaml:"blur"`       // pixels
	Rotation   float64 `yaml:"rotation"`   // degrees
}

// DefaultFilters returns {100, 100, 100, 0, 0}
func DefaultFilters() FilterParams {
	return FilterParams{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		Blur:       0,
		Rotation:   0,
	}
}

// Get returns the value of a single field
func (p FilterParams) Get(f FilterField) (float64, error) {
	switch f {
	case FieldBrightness:
		return p.Brightness, nil
	case FieldContrast:
		return p.Contrast, nil
	case FieldSaturation:
		return p.Saturation, nil
	case FieldBlur:
		return p.Blur, nil
	case FieldRotation:
		return p.Rotation, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownField, f)
}

// With returns a copy of p with exactly one field replaced
func (p FilterParams) With(f FilterField, value float64) (FilterParams, error) {
	switch f {
	case FieldBrightness:
		p.Brightness = value
	case FieldContrast:
		p.Contrast = value
	case FieldSaturation:
		p.Saturation = value
	case FieldBlur:
		p.Blur = value
	case FieldRotation:
		p.Rotation = value
	default:
		return p, fmt.Errorf("%w: %v", ErrUnknownField, f)
	}
	return p, nil
}

// IsDefault reports whether no adjustment is applied
func (p FilterParams) IsDefault() bool {
	return p == DefaultFilters()
}

// FilterString renders the combined filter directive
// e.g. "brightness(150%) contrast(100%) saturate(100%) blur(0px)"
func (p FilterParams) FilterString() string {
	return fmt.Sprintf("brightness(%s%%) contrast(%s%%) saturate(%s%%) blur(%spx)",
		formatNumber(p.Brightness),
		formatNumber(p.Contrast),
		formatNumber(p.Saturation),
		formatNumber(p.Blur),
	)
}

// RotationRadians converts the rotation to radians
func (p FilterParams) RotationRadians() float64 {
	return p.Rotation * math.Pi / 180
}

// ScaleBlur returns a copy whose blur radius is scaled for a resized preview
func (p FilterParams) ScaleBlur(factor float64) FilterParams {
	p.Blur *= factor
	return p
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
