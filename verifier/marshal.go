package verifier

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/zkbridgelab/bitgroth/curves"
	"github.com/zkbridgelab/bitgroth/fields"
)

// Byte encodings are uncompressed fixed-width big-endian with no flag
// bits. A proof is A ‖ B ‖ C (256 bytes). A verifying key is
// α ‖ β ‖ γ ‖ δ ‖ count(IC) ‖ IC points. An E12 is its twelve base
// coefficients in tower order. Decoding validates everything the
// verifier relies on: lengths, canonical limbs, curve and subgroup
// membership.
const (
	ProofSize = 2*curves.SizeOfG1Affine + curves.SizeOfG2Affine
	e12Size   = 12 * fp.Bytes
	HintSize  = 2 * e12Size
)

// Bytes serializes the proof as A ‖ B ‖ C.
func (p *Proof) Bytes() []byte {
	out := make([]byte, 0, ProofSize)
	a := p.A.Bytes()
	b := p.B.Bytes()
	c := p.C.Bytes()
	out = append(out, a[:]...)
	out = append(out, b[:]...)
	out = append(out, c[:]...)
	return out
}

// SetBytes deserializes and fully validates a proof.
func (p *Proof) SetBytes(data []byte) error {
	if len(data) != ProofSize {
		return fmt.Errorf("%w: proof is %d bytes, want %d", curves.ErrInvalidLength, len(data), ProofSize)
	}
	var q Proof
	if err := q.A.SetBytes(data[:curves.SizeOfG1Affine]); err != nil {
		return fmt.Errorf("proof point A: %w", err)
	}
	rest := data[curves.SizeOfG1Affine:]
	if err := q.B.SetBytes(rest[:curves.SizeOfG2Affine]); err != nil {
		return fmt.Errorf("proof point B: %w", err)
	}
	if err := q.C.SetBytes(rest[curves.SizeOfG2Affine:]); err != nil {
		return fmt.Errorf("proof point C: %w", err)
	}
	if err := q.Validate(); err != nil {
		return err
	}
	*p = q
	return nil
}

// Bytes serializes the verifying key.
func (vk *VerifyingKey) Bytes() []byte {
	out := make([]byte, 0, curves.SizeOfG1Affine+3*curves.SizeOfG2Affine+4+len(vk.IC)*curves.SizeOfG1Affine)
	alpha := vk.Alpha.Bytes()
	out = append(out, alpha[:]...)
	for _, q := range []*curves.G2Affine{&vk.Beta, &vk.Gamma, &vk.Delta} {
		b := q.Bytes()
		out = append(out, b[:]...)
	}
	var n [4]byte
	binary.BigEndian.PutUint32(n[:], uint32(len(vk.IC)))
	out = append(out, n[:]...)
	for i := range vk.IC {
		b := vk.IC[i].Bytes()
		out = append(out, b[:]...)
	}
	return out
}

// SetBytes deserializes and fully validates a verifying key.
func (vk *VerifyingKey) SetBytes(data []byte) error {
	header := curves.SizeOfG1Affine + 3*curves.SizeOfG2Affine + 4
	if len(data) < header {
		return fmt.Errorf("%w: verifying key is %d bytes, want at least %d",
			curves.ErrInvalidLength, len(data), header)
	}
	var out VerifyingKey
	if err := out.Alpha.SetBytes(data[:curves.SizeOfG1Affine]); err != nil {
		return fmt.Errorf("verifying key alpha: %w", err)
	}
	rest := data[curves.SizeOfG1Affine:]
	for _, q := range []struct {
		name string
		dst  *curves.G2Affine
	}{{"beta", &out.Beta}, {"gamma", &out.Gamma}, {"delta", &out.Delta}} {
		if err := q.dst.SetBytes(rest[:curves.SizeOfG2Affine]); err != nil {
			return fmt.Errorf("verifying key %s: %w", q.name, err)
		}
		rest = rest[curves.SizeOfG2Affine:]
	}
	n := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if len(rest) != int(n)*curves.SizeOfG1Affine {
		return fmt.Errorf("%w: %d trailing bytes for %d basis points",
			curves.ErrInvalidLength, len(rest), n)
	}
	out.IC = make([]curves.G1Affine, n)
	for i := range out.IC {
		if err := out.IC[i].SetBytes(rest[:curves.SizeOfG1Affine]); err != nil {
			return fmt.Errorf("verifying key basis point %d: %w", i, err)
		}
		rest = rest[curves.SizeOfG1Affine:]
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*vk = out
	return nil
}

// Bytes serializes the residue witness hint as C ‖ Wi.
func (h *FinalExpHint) Bytes() []byte {
	out := make([]byte, 0, HintSize)
	out = append(out, e12Bytes(&h.C)...)
	out = append(out, e12Bytes(&h.Wi)...)
	return out
}

// SetBytes deserializes the hint. A syntactically valid but wrong hint
// is not detected here; it fails the witness check instead.
func (h *FinalExpHint) SetBytes(data []byte) error {
	if len(data) != HintSize {
		return fmt.Errorf("%w: hint is %d bytes, want %d", curves.ErrInvalidLength, len(data), HintSize)
	}
	var out FinalExpHint
	if err := e12SetBytes(&out.C, data[:e12Size]); err != nil {
		return fmt.Errorf("hint witness: %w", err)
	}
	if err := e12SetBytes(&out.Wi, data[e12Size:]); err != nil {
		return fmt.Errorf("hint scaling factor: %w", err)
	}
	*h = out
	return nil
}

// PublicInputsToBytes serializes public inputs as 32-byte scalars.
func PublicInputsToBytes(inputs []fr.Element) []byte {
	out := make([]byte, 0, len(inputs)*fr.Bytes)
	for i := range inputs {
		b := inputs[i].Bytes()
		out = append(out, b[:]...)
	}
	return out
}

// PublicInputsFromBytes parses 32-byte scalars, rejecting values >= r.
func PublicInputsFromBytes(data []byte) ([]fr.Element, error) {
	if len(data)%fr.Bytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of scalars",
			curves.ErrInvalidLength, len(data))
	}
	out := make([]fr.Element, len(data)/fr.Bytes)
	for i := range out {
		var buf [fr.Bytes]byte
		copy(buf[:], data[i*fr.Bytes:])
		el, err := fr.BigEndian.Element(&buf)
		if err != nil {
			return nil, fmt.Errorf("public input %d: %w: %v", i, curves.ErrNonCanonical, err)
		}
		out[i] = el
	}
	return out, nil
}

func e12Coeffs(x *fields.E12) []*fp.Element {
	return []*fp.Element{
		&x.C0.B0.A0, &x.C0.B0.A1, &x.C0.B1.A0, &x.C0.B1.A1, &x.C0.B2.A0, &x.C0.B2.A1,
		&x.C1.B0.A0, &x.C1.B0.A1, &x.C1.B1.A0, &x.C1.B1.A1, &x.C1.B2.A0, &x.C1.B2.A1,
	}
}

func e12Bytes(x *fields.E12) []byte {
	out := make([]byte, 0, e12Size)
	for _, c := range e12Coeffs(x) {
		b := c.Bytes()
		out = append(out, b[:]...)
	}
	return out
}

func e12SetBytes(x *fields.E12, data []byte) error {
	coeffs := e12Coeffs(x)
	for i, c := range coeffs {
		var buf [fp.Bytes]byte
		copy(buf[:], data[i*fp.Bytes:])
		el, err := fp.BigEndian.Element(&buf)
		if err != nil {
			return fmt.Errorf("coefficient %d: %w: %v", i, curves.ErrNonCanonical, err)
		}
		*c = el
	}
	return nil
}
