package classfile

import (
	"encoding/binary"
	"fmt"
)

// reader is a big-endian cursor with a sticky error.
type reader struct {
	b   []byte
	off int
	err error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}

	if n < 0 || len(r.b)-r.off < n {
		r.err = fmt.Errorf("%w: unexpected end of data at offset %d", ErrMalformed, r.off)
		return nil
	}

	b := r.b[r.off : r.off+n : r.off+n]
	r.off += n

	return b
}

func (r *reader) u1() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *reader) u2() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint16(b)
}

func (r *reader) u4() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint32(b)
}

// Parse parses a class file. The returned ClassFile aliases b.
func Parse(b []byte) (*ClassFile, error) {
	r := &reader{b: b}

	if magic := r.u4(); r.err == nil && magic != Magic {
		return nil, fmt.Errorf("%w: bad magic 0x%08x", ErrMalformed, magic)
	}

	cf := &ClassFile{
		MinorVersion: r.u2(),
		MajorVersion: r.u2(),
	}

	pool, err := readPool(r)
	if err != nil {
		return nil, err
	}

	cf.Pool = pool
	cf.AccessFlags = r.u2()
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()

	n := int(r.u2())
	if r.err == nil {
		cf.Interfaces = make([]uint16, n)
		for i := range n {
			cf.Interfaces[i] = r.u2()
		}
	}

	cf.Fields = readMembers(r)
	cf.Methods = readMembers(r)
	cf.Attributes = readAttributes(r)

	if r.err != nil {
		return nil, r.err
	}

	if r.off != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, len(b)-r.off)
	}

	if _, err := cf.Pool.ClassName(cf.ThisClass); err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}

	return cf, nil
}

func readPool(r *reader) (*Pool, error) {
	count := int(r.u2())
	if r.err != nil {
		return nil, r.err
	}

	if count == 0 {
		return nil, fmt.Errorf("%w: constant_pool_count is zero", ErrMalformed)
	}

	p := &Pool{entries: make([]Constant, count)}

	for i := 1; i < count; i++ {
		tag := Tag(r.u1())
		if r.err != nil {
			return nil, r.err
		}

		size := payloadSize(tag)

		switch size {
		case 0:
			return nil, fmt.Errorf("%w: unknown constant pool tag %d at index %d", ErrMalformed, tag, i)
		case -1:
			size = int(r.u2())
		}

		data := r.take(size)
		if r.err != nil {
			return nil, r.err
		}

		p.entries[i] = Constant{Tag: tag, Data: data}

		if tag.wide() {
			i++
			if i >= count {
				return nil, fmt.Errorf("%w: wide constant at last pool index", ErrMalformed)
			}
		}
	}

	return p, nil
}

func readMembers(r *reader) []Member {
	n := int(r.u2())
	if r.err != nil {
		return nil
	}

	members := make([]Member, n)
	for i := range members {
		members[i] = Member{
			AccessFlags:     r.u2(),
			NameIndex:       r.u2(),
			DescriptorIndex: r.u2(),
			Attributes:      readAttributes(r),
		}
	}

	return members
}

func readAttributes(r *reader) []Attribute {
	n := int(r.u2())
	if r.err != nil {
		return nil
	}

	attrs := make([]Attribute, n)
	for i := range attrs {
		attrs[i].NameIndex = r.u2()
		length := r.u4()

		if uint64(length) > uint64(len(r.b)) {
			r.err = fmt.Errorf("%w: attribute length %d exceeds input", ErrMalformed, length)
			return nil
		}

		attrs[i].Data = r.take(int(length))
	}

	return attrs
}
