package curves

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// Serialized sizes: uncompressed, fixed-width big-endian, no flag bits.
// The point at infinity is all zero bytes.
const (
	SizeOfG1Affine = 2 * fp.Bytes
	SizeOfG2Affine = 4 * fp.Bytes
)

// Bytes serializes p as X ‖ Y.
func (p *G1Affine) Bytes() [SizeOfG1Affine]byte {
	var out [SizeOfG1Affine]byte
	x := p.X.Bytes()
	y := p.Y.Bytes()
	copy(out[:fp.Bytes], x[:])
	copy(out[fp.Bytes:], y[:])
	return out
}

// SetBytes deserializes and fully validates a G1 point: length,
// canonical limbs, curve membership. All-zero bytes decode to the point
// at infinity.
func (p *G1Affine) SetBytes(data []byte) error {
	if len(data) != SizeOfG1Affine {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(data), SizeOfG1Affine)
	}
	x, err := decodeFpLimb(data[:fp.Bytes])
	if err != nil {
		return err
	}
	y, err := decodeFpLimb(data[fp.Bytes:])
	if err != nil {
		return err
	}
	q := G1Affine{X: x, Y: y}
	if !q.IsOnCurve() {
		return ErrPointNotOnCurve
	}
	p.Set(&q)
	return nil
}

// Bytes serializes p as X.A1 ‖ X.A0 ‖ Y.A1 ‖ Y.A0, matching the raw
// uncompressed layout of the reference implementation.
func (p *G2Affine) Bytes() [SizeOfG2Affine]byte {
	var out [SizeOfG2Affine]byte
	xa1 := p.X.A1.Bytes()
	xa0 := p.X.A0.Bytes()
	ya1 := p.Y.A1.Bytes()
	ya0 := p.Y.A0.Bytes()
	copy(out[0*fp.Bytes:], xa1[:])
	copy(out[1*fp.Bytes:], xa0[:])
	copy(out[2*fp.Bytes:], ya1[:])
	copy(out[3*fp.Bytes:], ya0[:])
	return out
}

// SetBytes deserializes and fully validates a G2 point: length,
// canonical limbs, curve membership, subgroup membership. All-zero
// bytes decode to the point at infinity.
func (p *G2Affine) SetBytes(data []byte) error {
	if len(data) != SizeOfG2Affine {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(data), SizeOfG2Affine)
	}
	var q G2Affine
	var err error
	if q.X.A1, err = decodeFpLimb(data[0*fp.Bytes : 1*fp.Bytes]); err != nil {
		return err
	}
	if q.X.A0, err = decodeFpLimb(data[1*fp.Bytes : 2*fp.Bytes]); err != nil {
		return err
	}
	if q.Y.A1, err = decodeFpLimb(data[2*fp.Bytes : 3*fp.Bytes]); err != nil {
		return err
	}
	if q.Y.A0, err = decodeFpLimb(data[3*fp.Bytes : 4*fp.Bytes]); err != nil {
		return err
	}
	if !q.IsOnCurve() {
		return ErrPointNotOnCurve
	}
	if !q.IsInSubgroup() {
		return ErrPointNotInSubgroup
	}
	p.Set(&q)
	return nil
}

// decodeFpLimb parses a 32-byte big-endian limb, rejecting values >= p.
func decodeFpLimb(data []byte) (fp.Element, error) {
	var buf [fp.Bytes]byte
	copy(buf[:], data)
	el, err := fp.BigEndian.Element(&buf)
	if err != nil {
		return fp.Element{}, fmt.Errorf("%w: %v", ErrNonCanonical, err)
	}
	return el, nil
}
