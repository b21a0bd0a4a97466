package circllhist

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrTruncated is returned by Deserialize/DeserializeB64 when the input
// ends before a complete entry or header could be read, or an entry's width
// tag is above 7; DeserializeB64 also returns it when bytes are left over
// after the declared entries.
var ErrTruncated = errors.New("circllhist: truncated input")

// ErrTooManyBuckets is returned when the header's declared bucket count
// would exceed the library's maximum bin count.
var ErrTooManyBuckets = errors.New("circllhist: bucket count exceeds maximum")

// bvl_limits, inclusive upper bounds of a count that fits in n+1 bytes.
var bvlLimits = [7]uint64{
	0xff,
	0xffff,
	0xffffff,
	0xffffffff,
	0xffffffffff,
	0xffffffffffff,
	0xffffffffffffff,
}

// widthTag returns the width tag (0-7) for count: the number of bytes its
// big-endian encoding needs, minus one; 7 always suffices (8 bytes).
func widthTag(count uint64) int {
	for i, limit := range bvlLimits {
		if count <= limit {
			return i
		}
	}
	return 7
}

// entrySize returns the wire size in bytes of one (bucket, count) entry:
// 1 byte val, 1 byte exp, 1 byte width tag, tag+1 bytes of count.
func entrySize(count uint64) int { return 3 + widthTag(count) + 1 }

// SerializeEstimate returns an upper bound, in bytes, on the size of h's
// binary serialization: the 2-byte header plus the wire size of every
// non-empty bucket.
func (h *Histogram) SerializeEstimate() int {
	total := 2
	for _, bv := range h.s.bvs {
		if bv.count != 0 {
			total += entrySize(bv.count)
		}
	}
	return total
}

// Serialize appends h's binary encoding to dst and returns the result.
// The wire format is: a big-endian uint16 count of non-empty buckets,
// followed by that many entries of [val int8][exp int8][widthTag
// uint8][count, widthTag+1 big-endian bytes]. Zero-count buckets are
// omitted.
func (h *Histogram) Serialize(dst []byte) []byte {
	nonZero := 0
	for _, bv := range h.s.bvs {
		if bv.count != 0 {
			nonZero++
		}
	}
	dst = append(dst, byte(nonZero>>8), byte(nonZero))
	for _, bv := range h.s.bvs {
		if bv.count == 0 {
			continue
		}
		tag := widthTag(bv.count)
		dst = append(dst, byte(bv.bucket.Val), byte(bv.bucket.Exp), byte(tag))
		for i := tag; i >= 0; i-- {
			dst = append(dst, byte(bv.count>>(uint(i)*8)))
		}
	}
	return dst
}

// SerializeB64 returns h's binary serialization, standard base64 encoded.
func (h *Histogram) SerializeB64() string {
	buf := h.Serialize(make([]byte, 0, h.SerializeEstimate()))
	return base64.StdEncoding.EncodeToString(buf)
}

// Deserialize replaces h's contents with the histogram encoded in buf,
// returning the number of bytes consumed.
func (h *Histogram) Deserialize(buf []byte) (int, error) {
	if len(buf) < 2 {
		return 0, ErrTruncated
	}
	count := int(buf[0])<<8 | int(buf[1])
	if count > maxBins {
		return 0, ErrTooManyBuckets
	}
	h.s.reset()
	pos := 2
	for i := 0; i < count; i++ {
		if pos+3 > len(buf) {
			return 0, ErrTruncated
		}
		val := int8(buf[pos])
		exp := int8(buf[pos+1])
		tag := int(buf[pos+2])
		if tag > 7 {
			return 0, ErrTruncated
		}
		width := tag + 1
		if pos+3+width > len(buf) {
			return 0, ErrTruncated
		}
		var c uint64
		for j := 0; j < width; j++ {
			c = c<<8 | uint64(buf[pos+3+j])
		}
		pos += 3 + width
		if c != 0 {
			h.s.insertRaw(Bucket{Val: val, Exp: exp}, c)
		}
	}
	return pos, nil
}

// DeserializeB64 replaces h's contents with the histogram encoded in the
// standard-base64 string s, tolerating surrounding whitespace.
func (h *Histogram) DeserializeB64(s string) error {
	s = strings.TrimSpace(s)
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return err
		}
	}
	n, err := h.Deserialize(raw)
	if err != nil {
		return err
	}
	if n != len(raw) {
		return ErrTruncated
	}
	return nil
}

// NewFromB64 allocates a new Histogram and deserializes s into it.
func NewFromB64(s string) (*Histogram, error) {
	h := New()
	if err := h.DeserializeB64(s); err != nil {
		return nil, err
	}
	return h, nil
}
