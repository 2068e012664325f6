package script

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// OpCode is a stack machine instruction over field words.
type OpCode uint8

const (
	// OpPushConst pushes program constant Arg.
	OpPushConst OpCode = iota + 1
	// OpPushWitness pushes the value of hint slot Arg.
	OpPushWitness
	// OpPick copies the word Arg positions below the top onto the top.
	OpPick
	// OpRoll moves the word Arg positions below the top onto the top.
	OpRoll
	// OpDrop discards the top word.
	OpDrop
	// OpAddMod pops two words and pushes their sum mod p.
	OpAddMod
	// OpSubMod pops b then a and pushes a-b mod p.
	OpSubMod
	// OpMulMod pops two words and pushes their product mod p.
	OpMulMod
	// OpNegMod negates the top word mod p.
	OpNegMod
	// OpEqVerify pops two words and fails the script if they differ.
	OpEqVerify
	// OpStateCommit pops Arg words and commits them to a blake3
	// digest, ending the chunk's live state.
	OpStateCommit
	// OpStateRestore pushes Arg witness-provided words and checks
	// their digest against the previous chunk's commitment.
	OpStateRestore
)

// Instruction is one machine operation. Arg is an operand index, a
// stack depth or a word count depending on the opcode.
type Instruction struct {
	Op  OpCode
	Arg uint32
}

// HintKind names the semantic value a witness slot carries. Keeping
// the meaning in the program rather than in positional convention is
// what lets the witness generator evaluate slots independently of
// emission order.
type HintKind uint8

const (
	// HintProofWord is a proof coordinate: A.X, A.Y, B.X.A0, B.X.A1,
	// B.Y.A0, B.Y.A1, C.X, C.Y indexed 0..7 by A.
	HintProofWord HintKind = iota + 1
	// HintInputBit is bit B of public input A.
	HintInputBit
	// HintYInv is 1/P.y for Miller pair A.
	HintYInv
	// HintXOverY is P.x/P.y for Miller pair A.
	HintXOverY
	// HintMillerSlope is word B (A0/A1) of the A-th line slope of the
	// variable-point Miller pair.
	HintMillerSlope
	// HintMSMDouble is the doubling slope at bit B of input A's sum.
	HintMSMDouble
	// HintMSMAdd is the addition slope at bit B of input A's sum.
	HintMSMAdd
	// HintAccAdd is the chord slope folding term A into the
	// public-input point: terms 0..n-1 add the per-input sums, term n
	// adds the offset correction.
	HintAccAdd
	// HintResidueWord is word A of the residue witness block:
	// 0..11 c, 12..23 wi, 24..35 c⁻¹.
	HintResidueWord
)

// HintRef is one witness slot.
type HintRef struct {
	Kind HintKind
	A, B uint32
}

// Budget bounds a program at emission time. Exceeding any bound is an
// emission error, never an execution failure.
type Budget struct {
	MaxOpsPerChunk int
	MaxStackDepth  int
	MaxChunks      int
}

// DefaultBudget mirrors the settlement constraints: chunk scripts of a
// few million operations, a thousand stack words, a bounded
// transaction tree.
var DefaultBudget = Budget{
	MaxOpsPerChunk: 4_000_000,
	MaxStackDepth:  1_000,
	MaxChunks:      1_024,
}

// ErrBudgetExceeded reports an emission-time budget overflow.
var ErrBudgetExceeded = errors.New("script budget exceeded")

// Chunk is one independently executable script.
type Chunk struct {
	Code []Instruction
}

// Program is an emitted verifier: shared constant pool, the hint
// schedule, and the chunk sequence.
type Program struct {
	Budget    Budget
	NumInputs int
	Consts    []fp.Element
	Hints     []HintRef
	Chunks    []Chunk
}

// Ops returns the total instruction count across chunks.
func (p *Program) Ops() int {
	n := 0
	for i := range p.Chunks {
		n += len(p.Chunks[i].Code)
	}
	return n
}

const programMagic = uint32(0x62477331) // "bGs1"

// WriteTo serializes the program.
func (p *Program) WriteTo(w io.Writer) (int64, error) {
	var n int64
	put := func(v uint32) error {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], v)
		m, err := w.Write(b[:])
		n += int64(m)
		return err
	}
	if err := put(programMagic); err != nil {
		return n, err
	}
	for _, v := range []uint32{
		uint32(p.Budget.MaxOpsPerChunk), uint32(p.Budget.MaxStackDepth), uint32(p.Budget.MaxChunks),
		uint32(p.NumInputs), uint32(len(p.Consts)), uint32(len(p.Hints)), uint32(len(p.Chunks)),
	} {
		if err := put(v); err != nil {
			return n, err
		}
	}
	for i := range p.Consts {
		b := p.Consts[i].Bytes()
		m, err := w.Write(b[:])
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	for _, h := range p.Hints {
		var b [9]byte
		b[0] = byte(h.Kind)
		binary.BigEndian.PutUint32(b[1:5], h.A)
		binary.BigEndian.PutUint32(b[5:9], h.B)
		m, err := w.Write(b[:])
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	for ci := range p.Chunks {
		if err := put(uint32(len(p.Chunks[ci].Code))); err != nil {
			return n, err
		}
		for _, ins := range p.Chunks[ci].Code {
			var b [5]byte
			b[0] = byte(ins.Op)
			binary.BigEndian.PutUint32(b[1:5], ins.Arg)
			m, err := w.Write(b[:])
			n += int64(m)
			if err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// ReadFrom deserializes a program written by WriteTo.
func (p *Program) ReadFrom(r io.Reader) (int64, error) {
	var n int64
	get := func() (uint32, error) {
		var b [4]byte
		m, err := io.ReadFull(r, b[:])
		n += int64(m)
		return binary.BigEndian.Uint32(b[:]), err
	}
	magic, err := get()
	if err != nil {
		return n, err
	}
	if magic != programMagic {
		return n, fmt.Errorf("bad program magic %#x", magic)
	}
	var hdr [7]uint32
	for i := range hdr {
		if hdr[i], err = get(); err != nil {
			return n, err
		}
	}
	out := Program{
		Budget: Budget{
			MaxOpsPerChunk: int(hdr[0]),
			MaxStackDepth:  int(hdr[1]),
			MaxChunks:      int(hdr[2]),
		},
		NumInputs: int(hdr[3]),
		Consts:    make([]fp.Element, hdr[4]),
		Hints:     make([]HintRef, hdr[5]),
		Chunks:    make([]Chunk, hdr[6]),
	}
	for i := range out.Consts {
		var b [fp.Bytes]byte
		m, err := io.ReadFull(r, b[:])
		n += int64(m)
		if err != nil {
			return n, err
		}
		el, err := fp.BigEndian.Element(&b)
		if err != nil {
			return n, fmt.Errorf("constant %d: %v", i, err)
		}
		out.Consts[i] = el
	}
	for i := range out.Hints {
		var b [9]byte
		m, err := io.ReadFull(r, b[:])
		n += int64(m)
		if err != nil {
			return n, err
		}
		out.Hints[i] = HintRef{
			Kind: HintKind(b[0]),
			A:    binary.BigEndian.Uint32(b[1:5]),
			B:    binary.BigEndian.Uint32(b[5:9]),
		}
	}
	for ci := range out.Chunks {
		sz, err := get()
		if err != nil {
			return n, err
		}
		code := make([]Instruction, sz)
		for i := range code {
			var b [5]byte
			m, err := io.ReadFull(r, b[:])
			n += int64(m)
			if err != nil {
				return n, err
			}
			code[i] = Instruction{Op: OpCode(b[0]), Arg: binary.BigEndian.Uint32(b[1:5])}
		}
		out.Chunks[ci].Code = code
	}
	*p = out
	return n, nil
}
