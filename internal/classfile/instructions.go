package classfile

import (
	"encoding/binary"
	"fmt"
)

//go:generate go tool stringer -type=InvokeKind -output=invokekind_string.go

// InvokeKind is the flavour of a method call instruction that references a
// Methodref or InterfaceMethodref.
type InvokeKind int

const (
	InvokeVirtual InvokeKind = iota
	InvokeSpecial
	InvokeStatic
	InvokeInterface
)

// Opcodes with special decoding.
const (
	OpIinc            = 0x84
	OpRet             = 0xa9
	OpTableswitch     = 0xaa
	OpLookupswitch    = 0xab
	OpInvokevirtual   = 0xb6
	OpInvokespecial   = 0xb7
	OpInvokestatic    = 0xb8
	OpInvokeinterface = 0xb9
	OpInvokedynamic   = 0xba
	OpWide            = 0xc4
)

// InvokeKindOf maps an opcode to its InvokeKind. invokedynamic is not a
// method reference call and reports false.
func InvokeKindOf(op byte) (InvokeKind, bool) {
	switch op {
	case OpInvokevirtual:
		return InvokeVirtual, true
	case OpInvokespecial:
		return InvokeSpecial, true
	case OpInvokestatic:
		return InvokeStatic, true
	case OpInvokeinterface:
		return InvokeInterface, true
	default:
		return 0, false
	}
}

// Instruction is one decoded instruction.
type Instruction struct {
	Offset int
	Opcode byte
	Len    int
}

// Operand16 returns the big-endian u2 operand following the opcode.
func (in Instruction) Operand16(code []byte) uint16 {
	return binary.BigEndian.Uint16(code[in.Offset+1:])
}

// SetOperand16 overwrites the u2 operand following the opcode.
func (in Instruction) SetOperand16(code []byte, v uint16) {
	binary.BigEndian.PutUint16(code[in.Offset+1:], v)
}

// opLen holds fixed instruction lengths; 0 marks undefined opcodes and -1
// variable-length ones.
var opLen = func() [256]int8 {
	var t [256]int8

	set := func(lo, hi int, n int8) {
		for op := lo; op <= hi; op++ {
			t[op] = n
		}
	}

	set(0x00, 0x0f, 1) // nop, constants
	set(0x10, 0x10, 2) // bipush
	set(0x11, 0x11, 3) // sipush
	set(0x12, 0x12, 2) // ldc
	set(0x13, 0x14, 3) // ldc_w, ldc2_w
	set(0x15, 0x19, 2) // loads
	set(0x1a, 0x35, 1)
	set(0x36, 0x3a, 2) // stores
	set(0x3b, 0x83, 1)
	set(0x84, 0x84, 3) // iinc
	set(0x85, 0x98, 1)
	set(0x99, 0xa8, 3) // branches, goto, jsr
	set(0xa9, 0xa9, 2) // ret
	set(0xaa, 0xab, -1)
	set(0xac, 0xb1, 1) // returns
	set(0xb2, 0xb8, 3) // field access, invokes
	set(0xb9, 0xba, 5) // invokeinterface, invokedynamic
	set(0xbb, 0xbb, 3) // new
	set(0xbc, 0xbc, 2) // newarray
	set(0xbd, 0xbd, 3) // anewarray
	set(0xbe, 0xbf, 1)
	set(0xc0, 0xc1, 3) // checkcast, instanceof
	set(0xc2, 0xc3, 1)
	set(0xc4, 0xc4, -1)
	set(0xc5, 0xc5, 4) // multianewarray
	set(0xc6, 0xc7, 3) // ifnull, ifnonnull
	set(0xc8, 0xc9, 5) // goto_w, jsr_w

	return t
}()

// Decode splits a bytecode array into instructions.
func Decode(code []byte) ([]Instruction, error) {
	var out []Instruction

	for off := 0; off < len(code); {
		op := code[off]

		n, err := instructionLen(code, off)
		if err != nil {
			return nil, err
		}

		if off+n > len(code) {
			return nil, fmt.Errorf("%w: instruction 0x%02x at %d overruns code", ErrMalformed, op, off)
		}

		out = append(out, Instruction{Offset: off, Opcode: op, Len: n})
		off += n
	}

	return out, nil
}

func instructionLen(code []byte, off int) (int, error) {
	op := code[off]

	switch n := opLen[op]; n {
	case 0:
		return 0, fmt.Errorf("%w: undefined opcode 0x%02x at %d", ErrMalformed, op, off)
	case -1:
	default:
		return int(n), nil
	}

	if op == OpWide {
		if off+1 >= len(code) {
			return 0, fmt.Errorf("%w: truncated wide at %d", ErrMalformed, off)
		}

		switch next := code[off+1]; {
		case next == OpIinc:
			return 6, nil
		case next >= 0x15 && next <= 0x19, next >= 0x36 && next <= 0x3a, next == OpRet:
			return 4, nil
		default:
			return 0, fmt.Errorf("%w: wide applied to opcode 0x%02x at %d", ErrMalformed, next, off)
		}
	}

	// Switch operands start at the next 4-byte boundary of the code array.
	base := off + 1 + (4-(off+1)%4)%4

	read := func(at int) (int32, error) {
		if at+4 > len(code) {
			return 0, fmt.Errorf("%w: truncated switch at %d", ErrMalformed, off)
		}

		return int32(binary.BigEndian.Uint32(code[at:])), nil
	}

	if op == OpTableswitch {
		low, err := read(base + 4)
		if err != nil {
			return 0, err
		}

		high, err := read(base + 8)
		if err != nil {
			return 0, err
		}

		if high < low {
			return 0, fmt.Errorf("%w: tableswitch high %d < low %d at %d", ErrMalformed, high, low, off)
		}

		return base - off + 12 + 4*int(int64(high)-int64(low)+1), nil
	}

	npairs, err := read(base + 4)
	if err != nil {
		return 0, err
	}

	if npairs < 0 {
		return 0, fmt.Errorf("%w: lookupswitch npairs %d at %d", ErrMalformed, npairs, off)
	}

	return base - off + 8 + 8*int(npairs), nil
}
