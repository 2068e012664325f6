package script

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
)

// Value is a handle to a live word on the machine stack. Operations
// never consume their operands; a value stays on the stack until Free.
type Value uint32

// Builder emits a Program instruction by instruction while tracking
// where every live value sits on the stack. It schedules pick/roll
// moves, deduplicates constants, enforces the budget at emission time
// and cuts chunks at commitment boundaries. The first error sticks and
// surfaces from Finish.
type Builder struct {
	budget    Budget
	numInputs int

	consts   []fp.Element
	constIdx map[fp.Element]uint32
	hints    []HintRef

	chunks []Chunk
	code   []Instruction

	stack  []Value
	pos    map[Value]int
	nextID Value

	err error
}

// NewBuilder starts a program for the given budget and public input
// count.
func NewBuilder(budget Budget, numInputs int) *Builder {
	return &Builder{
		budget:    budget,
		numInputs: numInputs,
		constIdx:  make(map[fp.Element]uint32),
		pos:       make(map[Value]int),
	}
}

func (b *Builder) fail(format string, args ...interface{}) {
	if b.err == nil {
		b.err = fmt.Errorf(format, args...)
	}
}

// ensure cuts a chunk if the next n instructions would not fit before
// the closing state commit.
func (b *Builder) ensure(n int) {
	if b.err != nil {
		return
	}
	// restore + body + commit must fit in one chunk
	if n+2 > b.budget.MaxOpsPerChunk {
		b.fail("%w: operation needs %d ops, chunk limit %d", ErrBudgetExceeded, n, b.budget.MaxOpsPerChunk)
		return
	}
	if len(b.code)+n+1 <= b.budget.MaxOpsPerChunk {
		return
	}
	b.cut()
}

// cut commits the live stack and opens a new chunk that restores it.
// Value positions are unchanged: the restore pushes the committed
// words in the same bottom-to-top order.
func (b *Builder) cut() {
	if b.err != nil {
		return
	}
	if len(b.chunks)+2 > b.budget.MaxChunks {
		b.fail("%w: more than %d chunks", ErrBudgetExceeded, b.budget.MaxChunks)
		return
	}
	n := uint32(len(b.stack))
	b.code = append(b.code, Instruction{Op: OpStateCommit, Arg: n})
	b.chunks = append(b.chunks, Chunk{Code: b.code})
	b.code = []Instruction{{Op: OpStateRestore, Arg: n}}
}

func (b *Builder) emit(op OpCode, arg uint32) {
	b.code = append(b.code, Instruction{Op: op, Arg: arg})
}

func (b *Builder) push() Value {
	v := b.nextID
	b.nextID++
	if len(b.stack) >= b.budget.MaxStackDepth {
		b.fail("%w: stack depth %d", ErrBudgetExceeded, len(b.stack)+1)
		return v
	}
	b.pos[v] = len(b.stack)
	b.stack = append(b.stack, v)
	return v
}

func (b *Builder) depth(v Value) uint32 {
	p, ok := b.pos[v]
	if !ok {
		b.fail("use of freed value %d", v)
		return 0
	}
	return uint32(len(b.stack) - 1 - p)
}

// Const pushes a program constant, pooling repeated values.
func (b *Builder) Const(x fp.Element) Value {
	if b.err != nil {
		return 0
	}
	idx, ok := b.constIdx[x]
	if !ok {
		idx = uint32(len(b.consts))
		b.consts = append(b.consts, x)
		b.constIdx[x] = idx
	}
	b.ensure(1)
	b.emit(OpPushConst, idx)
	return b.push()
}

// Hint allocates a witness slot with the given meaning and pushes it.
func (b *Builder) Hint(ref HintRef) Value {
	if b.err != nil {
		return 0
	}
	idx := uint32(len(b.hints))
	b.hints = append(b.hints, ref)
	b.ensure(1)
	b.emit(OpPushWitness, idx)
	return b.push()
}

func (b *Builder) binOp(op OpCode, x, y Value) Value {
	if b.err != nil {
		return 0
	}
	b.ensure(3)
	b.emit(OpPick, b.depth(x))
	b.push()
	b.emit(OpPick, b.depth(y))
	b.push()
	b.emit(op, 0)
	b.dropTop()
	b.dropTop()
	return b.push()
}

// dropTop removes the top entry from the builder's model of the stack
// without emitting anything; used when an instruction consumes words.
func (b *Builder) dropTop() {
	if len(b.stack) == 0 {
		b.fail("internal: drop on empty stack model")
		return
	}
	v := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	delete(b.pos, v)
}

// Add pushes x+y.
func (b *Builder) Add(x, y Value) Value { return b.binOp(OpAddMod, x, y) }

// Sub pushes x-y.
func (b *Builder) Sub(x, y Value) Value { return b.binOp(OpSubMod, x, y) }

// Mul pushes x*y.
func (b *Builder) Mul(x, y Value) Value { return b.binOp(OpMulMod, x, y) }

// Dup pushes a fresh copy of x.
func (b *Builder) Dup(x Value) Value {
	if b.err != nil {
		return 0
	}
	b.ensure(1)
	b.emit(OpPick, b.depth(x))
	return b.push()
}

// Neg pushes -x.
func (b *Builder) Neg(x Value) Value {
	if b.err != nil {
		return 0
	}
	b.ensure(2)
	b.emit(OpPick, b.depth(x))
	b.push()
	b.emit(OpNegMod, 0)
	b.dropTop()
	return b.push()
}

// AssertEq fails the script at execution time unless x == y.
func (b *Builder) AssertEq(x, y Value) {
	if b.err != nil {
		return
	}
	b.ensure(3)
	b.emit(OpPick, b.depth(x))
	b.push()
	b.emit(OpPick, b.depth(y))
	b.push()
	b.emit(OpEqVerify, 0)
	b.dropTop()
	b.dropTop()
}

// Free removes a value from the stack. Emitting code keeps every
// intermediate alive until freed, so lowering code frees temporaries as
// soon as their last use is emitted.
func (b *Builder) Free(vs ...Value) {
	for _, v := range vs {
		if b.err != nil {
			return
		}
		d := b.depth(v)
		if b.err != nil {
			return
		}
		if d == 0 {
			b.ensure(1)
			b.emit(OpDrop, 0)
			b.dropTop()
			continue
		}
		b.ensure(2)
		b.emit(OpRoll, d)
		p := b.pos[v]
		b.stack = append(b.stack[:p], b.stack[p+1:]...)
		for i := p; i < len(b.stack); i++ {
			b.pos[b.stack[i]] = i
		}
		b.stack = append(b.stack, v)
		b.pos[v] = len(b.stack) - 1
		b.emit(OpDrop, 0)
		b.dropTop()
	}
}

// Finish seals the program. The stack must be empty: every value the
// emitter created has been freed or consumed.
func (b *Builder) Finish() (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.stack) != 0 {
		return nil, fmt.Errorf("program finished with %d live values", len(b.stack))
	}
	if len(b.code) > 0 {
		b.chunks = append(b.chunks, Chunk{Code: b.code})
		b.code = nil
	}
	if len(b.chunks) > b.budget.MaxChunks {
		return nil, fmt.Errorf("%w: %d chunks", ErrBudgetExceeded, len(b.chunks))
	}
	return &Program{
		Budget:    b.budget,
		NumInputs: b.numInputs,
		Consts:    b.consts,
		Hints:     b.hints,
		Chunks:    b.chunks,
	}, nil
}
