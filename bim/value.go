package bim

import (
	"math"
	"strconv"
	"strings"
)

// A Value is a property or quantity value. It is one of LengthValue,
// AreaValue, VolumeValue, CountValue, WeightValue, RawValue, or
// OpaqueValue.
type Value interface {
	isValue()
}

type (
	LengthValue float64 // m
	AreaValue   float64 // m²
	VolumeValue float64 // m³
	CountValue  float64
	WeightValue float64 // kg

	// RawValue is a property's nominal value: a number, bool, or
	// string.
	RawValue struct{ V any }

	// OpaqueValue is a value of a type this package doesn't know.
	OpaqueValue struct {
		Type string
		V    any
	}
)

func (LengthValue) isValue() {}
func (AreaValue) isValue()   {}
func (VolumeValue) isValue() {}
func (CountValue) isValue()  {}
func (WeightValue) isValue() {}
func (RawValue) isValue()    {}
func (OpaqueValue) isValue() {}

// Number returns the numeric content of v. It returns false for
// non-numeric, non-finite, and unknown values.
func Number(v Value) (float64, bool) {
	var x float64
	switch v := v.(type) {
	case LengthValue:
		x = float64(v)
	case AreaValue:
		x = float64(v)
	case VolumeValue:
		x = float64(v)
	case CountValue:
		x = float64(v)
	case WeightValue:
		x = float64(v)
	case RawValue:
		switch r := v.V.(type) {
		case float64:
			x = r
		case float32:
			x = float64(r)
		case int:
			x = float64(r)
		case int64:
			x = float64(r)
		default:
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	return x, true
}

// Bool returns the boolean content of v. IFC logicals written as
// ".T." and ".F." are accepted.
func Bool(v Value) (b, ok bool) {
	raw, isRaw := v.(RawValue)
	if !isRaw {
		return false, false
	}
	switch r := raw.V.(type) {
	case bool:
		return r, true
	case string:
		switch strings.ToUpper(strings.TrimSpace(r)) {
		case ".T.":
			return true, true
		case ".F.":
			return false, true
		}
		b, err := strconv.ParseBool(r)
		return b, err == nil
	}
	return false, false
}
