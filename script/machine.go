package script

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/zeebo/blake3"
)

// Witness carries everything a prover supplies at execution time: one
// value per hint slot and the restored stack words for every chunk
// after the first.
type Witness struct {
	Hints    []fp.Element
	Restores [][]fp.Element
}

// Execute runs the program on the reference machine. A false outcome
// means a failed equality or state commitment, the script-level
// rejection of the proof. Errors are reserved for structurally
// malformed programs or witnesses.
func Execute(p *Program, w *Witness) (bool, error) {
	_, ok, err := run(p, w, false)
	return ok, err
}

// BuildRestores executes the program chunk by chunk, deriving each
// chunk's entry words from the previous chunk's commitment. It is how
// the witness generator fills Witness.Restores.
func BuildRestores(p *Program, hints []fp.Element) ([][]fp.Element, error) {
	restores, ok, err := run(p, &Witness{Hints: hints}, true)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("witness replay failed its own checks")
	}
	return restores, nil
}

func stateDigest(words []fp.Element) [32]byte {
	h := blake3.New()
	for i := range words {
		b := words[i].Bytes()
		h.Write(b[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func run(p *Program, w *Witness, build bool) ([][]fp.Element, bool, error) {
	if len(w.Hints) != len(p.Hints) {
		return nil, false, fmt.Errorf("witness has %d hint words, program expects %d",
			len(w.Hints), len(p.Hints))
	}
	if len(p.Chunks) > p.Budget.MaxChunks {
		return nil, false, fmt.Errorf("%w: %d chunks", ErrBudgetExceeded, len(p.Chunks))
	}

	restores := make([][]fp.Element, len(p.Chunks))
	var stack []fp.Element
	var prevDigest [32]byte
	committed := false

	pop := func() (fp.Element, error) {
		if len(stack) == 0 {
			return fp.Element{}, fmt.Errorf("stack underflow")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}
	push := func(v fp.Element) error {
		if len(stack) >= p.Budget.MaxStackDepth {
			return fmt.Errorf("%w: stack depth %d", ErrBudgetExceeded, len(stack)+1)
		}
		stack = append(stack, v)
		return nil
	}

	for ci := range p.Chunks {
		code := p.Chunks[ci].Code
		if len(code) > p.Budget.MaxOpsPerChunk {
			return nil, false, fmt.Errorf("%w: chunk %d has %d ops", ErrBudgetExceeded, ci, len(code))
		}
		for pc, ins := range code {
			switch ins.Op {

			case OpPushConst:
				if int(ins.Arg) >= len(p.Consts) {
					return nil, false, fmt.Errorf("chunk %d pc %d: constant %d out of range", ci, pc, ins.Arg)
				}
				if err := push(p.Consts[ins.Arg]); err != nil {
					return nil, false, err
				}

			case OpPushWitness:
				if int(ins.Arg) >= len(w.Hints) {
					return nil, false, fmt.Errorf("chunk %d pc %d: hint %d out of range", ci, pc, ins.Arg)
				}
				if err := push(w.Hints[ins.Arg]); err != nil {
					return nil, false, err
				}

			case OpPick:
				i := len(stack) - 1 - int(ins.Arg)
				if i < 0 {
					return nil, false, fmt.Errorf("chunk %d pc %d: pick %d beyond stack", ci, pc, ins.Arg)
				}
				if err := push(stack[i]); err != nil {
					return nil, false, err
				}

			case OpRoll:
				i := len(stack) - 1 - int(ins.Arg)
				if i < 0 {
					return nil, false, fmt.Errorf("chunk %d pc %d: roll %d beyond stack", ci, pc, ins.Arg)
				}
				v := stack[i]
				stack = append(stack[:i], stack[i+1:]...)
				stack = append(stack, v)

			case OpDrop:
				if _, err := pop(); err != nil {
					return nil, false, err
				}

			case OpAddMod, OpSubMod, OpMulMod:
				b, err := pop()
				if err != nil {
					return nil, false, err
				}
				a, err := pop()
				if err != nil {
					return nil, false, err
				}
				var r fp.Element
				switch ins.Op {
				case OpAddMod:
					r.Add(&a, &b)
				case OpSubMod:
					r.Sub(&a, &b)
				case OpMulMod:
					r.Mul(&a, &b)
				}
				stack = append(stack, r)

			case OpNegMod:
				a, err := pop()
				if err != nil {
					return nil, false, err
				}
				var r fp.Element
				r.Neg(&a)
				stack = append(stack, r)

			case OpEqVerify:
				b, err := pop()
				if err != nil {
					return nil, false, err
				}
				a, err := pop()
				if err != nil {
					return nil, false, err
				}
				if !a.Equal(&b) {
					return nil, false, nil
				}

			case OpStateCommit:
				n := int(ins.Arg)
				if n != len(stack) {
					return nil, false, fmt.Errorf("chunk %d pc %d: commit %d words, %d live", ci, pc, n, len(stack))
				}
				words := make([]fp.Element, n)
				copy(words, stack)
				stack = stack[:0]
				prevDigest = stateDigest(words)
				committed = true
				if build && ci+1 < len(p.Chunks) {
					restores[ci+1] = words
				}

			case OpStateRestore:
				if pc != 0 || ci == 0 || !committed {
					return nil, false, fmt.Errorf("chunk %d pc %d: misplaced state restore", ci, pc)
				}
				var words []fp.Element
				if build {
					words = restores[ci]
				} else {
					if ci >= len(w.Restores) {
						return nil, false, fmt.Errorf("chunk %d: missing restore words", ci)
					}
					words = w.Restores[ci]
				}
				if len(words) != int(ins.Arg) {
					return nil, false, fmt.Errorf("chunk %d: restore has %d words, want %d", ci, len(words), ins.Arg)
				}
				if stateDigest(words) != prevDigest {
					return nil, false, nil
				}
				for _, v := range words {
					if err := push(v); err != nil {
						return nil, false, err
					}
				}

			default:
				return nil, false, fmt.Errorf("chunk %d pc %d: unknown opcode %d", ci, pc, ins.Op)
			}
		}
	}

	if len(stack) != 0 {
		return nil, false, fmt.Errorf("program left %d words on the stack", len(stack))
	}
	return restores, true, nil
}
