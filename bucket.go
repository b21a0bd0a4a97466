package circllhist

import (
	"fmt"
	"math"
)

// Bucket is the two-byte key identifying a histogram bin. It packs a
// signed two-digit mantissa (Val) and a decimal exponent (Exp) and
// represents a half-open interval on the real line.
//
//   - Val == -1 (0xff as a byte) is the reserved NaN/invalid bucket.
//   - Val == 0 is the zero bucket, covering (-1e-127, 1e-127).
//   - Otherwise Val is in [-99,-10] or [10,99] and Exp is unconstrained
//     over the full int8 range.
type Bucket struct {
	Val int8
	Exp int8
}

// NaNBucket is the canonical invalid/NaN bucket.
var NaNBucket = Bucket{Val: -1, Exp: 0}

// ZeroBucket is the canonical zero bucket.
var ZeroBucket = Bucket{Val: 0, Exp: 0}

type bucketKind int

const (
	kindFinite bucketKind = iota
	kindZero
	kindInvalid
)

func (b Bucket) kind() bucketKind {
	switch {
	case b.Val == -1:
		return kindInvalid
	case b.Val > -10 && b.Val < 10:
		return kindZero
	case b.Val < -99 || b.Val > 99:
		return kindInvalid
	default:
		return kindFinite
	}
}

// IsNaN reports whether b is the reserved invalid bucket.
func (b Bucket) IsNaN() bool { return b.kind() == kindInvalid }

// IsZero reports whether b is the zero bucket.
func (b Bucket) IsZero() bool { return b.kind() == kindZero }

// powerOfTen mirrors the original implementation's lookup table semantics
// but leans on the standard library instead of hand-rolling a 256-entry
// array of decimal literals: math.Pow10 is exact for the same range.
func powerOfTen(exp int8) float64 {
	return math.Pow10(int(exp))
}

// ToDouble returns the edge of b closest to zero.
func (b Bucket) ToDouble() float64 {
	switch b.kind() {
	case kindInvalid:
		return math.NaN()
	case kindZero:
		return 0
	default:
		return (float64(b.Val) / 10.0) * powerOfTen(b.Exp)
	}
}

// BinWidth returns the (unsigned) width of the interval b covers.
func (b Bucket) BinWidth() float64 {
	switch b.kind() {
	case kindInvalid:
		return math.NaN()
	case kindZero:
		return 0
	default:
		return powerOfTen(b.Exp) / 10.0
	}
}

// Midpoint returns the midpoint of the interval b covers, signed to match b.
func (b Bucket) Midpoint() float64 {
	if b.Val > 99 || b.Val < -99 {
		return math.NaN()
	}
	out := b.ToDouble()
	if out == 0 {
		return 0
	}
	width := b.BinWidth()
	if out < 0 {
		width = -width
	}
	return out + width/2.0
}

// left returns the edge of b closest to -Inf; used by the quantile walk.
func (b Bucket) left() float64 {
	if b.Val > 99 || b.Val < -99 {
		return math.NaN()
	}
	out := b.ToDouble()
	if out == 0 {
		return 0
	}
	if out > 0 {
		return out
	}
	return out - b.BinWidth()
}

// Compare orders buckets along the real line: NaN sorts first, then
// ascending by value. It returns <0, 0, >0 like bytes.Compare.
func (b Bucket) Compare(o Bucket) int {
	if b.Val == o.Val && b.Exp == o.Exp {
		return 0
	}
	bInvalid, oInvalid := b.IsNaN(), o.IsNaN()
	if bInvalid || oInvalid {
		switch {
		case bInvalid && oInvalid:
			return 0
		case bInvalid:
			return -1
		default:
			return 1
		}
	}
	// The zero bucket sits above every negative and below every positive
	// bucket, whatever their exponents.
	bZero, oZero := b.IsZero(), o.IsZero()
	switch {
	case bZero && oZero:
		return 0
	case bZero:
		if o.Val > 0 {
			return -1
		}
		return 1
	case oZero:
		if b.Val > 0 {
			return 1
		}
		return -1
	}
	if (b.Val < 0) != (o.Val < 0) {
		if b.Val < o.Val {
			return -1
		}
		return 1
	}
	// Same sign, both non-zero.
	if b.Exp == o.Exp {
		if b.Val < o.Val {
			return -1
		}
		return 1
	}
	if b.Exp > o.Exp {
		if b.Val < 0 {
			return -1
		}
		return 1
	}
	// b.Exp < o.Exp
	if b.Val < 0 {
		return 1
	}
	return -1
}

// String renders b in the canonical "sxxetyyy" form ("0" for the zero
// bucket, "NaN" for the invalid bucket). The printed exponent is Exp-1, so
// the string reads as the bucket's edge nearest zero in scientific
// notation: Bucket{Val: 20, Exp: 0} (2.0) prints as "+20e-001".
func (b Bucket) String() string {
	switch b.kind() {
	case kindInvalid:
		return "NaN"
	case kindZero:
		return "0"
	default:
		sign := byte('+')
		val := b.Val
		if val < 0 {
			sign = '-'
			val = -val
		}
		expSign := byte('+')
		exp := int(b.Exp) - 1
		if exp < 0 {
			expSign = '-'
			exp = -exp
		}
		return fmt.Sprintf("%c%02de%c%03d", sign, val, expSign, exp)
	}
}

// doubleToBucketEpsilon guards against floating point rounding at bucket
// boundaries (e.g. 0.11 landing in the 10 bucket instead of 11). Preserve
// the literal constant: it is sized to the rounding error introduced by
// the division/multiplication above it, not chosen for readability.
const doubleToBucketEpsilon = 1e-13

// DoubleToBucket returns the bucket containing d.
func DoubleToBucket(d float64) Bucket {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return NaNBucket
	}
	if d == 0 {
		return ZeroBucket
	}

	sign := int8(1)
	ad := d
	if d < 0 {
		sign = -1
		ad = -d
	}

	bigExp := int(math.Floor(math.Log10(ad)))
	if bigExp < -128 {
		return ZeroBucket
	}
	if bigExp >= 128 {
		return NaNBucket
	}
	exp := int8(bigExp)

	m := ad / powerOfTen(exp) * 10
	v := int8(math.Floor(m + doubleToBucketEpsilon))
	if v == 100 {
		if exp < 127 {
			v = 10
			exp++
		} else {
			return NaNBucket
		}
	}
	if v == 0 {
		return ZeroBucket
	}
	val := sign * v
	if val < 10 && val > -10 {
		return ZeroBucket
	}
	if val > 99 || val < -99 {
		return NaNBucket
	}
	return Bucket{Val: val, Exp: exp}
}

// IntScaleToBucket returns the bucket containing value*10^scale, exact for
// integer mantissas (no floating point rounding is involved).
func IntScaleToBucket(value int64, scale int32) Bucket {
	if value == 0 {
		return ZeroBucket
	}
	sign := int64(1)
	v := value
	if v < 0 {
		v = -v
		sign = -1
	}
	s := scale + 1
	if v < 10 {
		v *= 10
		s--
	}
	for v >= 100 {
		v /= 10
		s++
	}
	if s < -128 {
		return ZeroBucket
	}
	if s > 127 {
		return NaNBucket
	}
	return Bucket{Val: int8(sign * v), Exp: int8(s)}
}
