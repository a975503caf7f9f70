package classfile

import (
	"encoding/binary"
	"fmt"
)

// Bytes serializes the class file.
func (cf *ClassFile) Bytes() ([]byte, error) {
	if cf.Pool == nil {
		return nil, fmt.Errorf("%w: nil constant pool", ErrMalformed)
	}

	be := binary.BigEndian
	out := make([]byte, 0, cf.sizeHint())

	out = be.AppendUint32(out, Magic)
	out = be.AppendUint16(out, cf.MinorVersion)
	out = be.AppendUint16(out, cf.MajorVersion)
	out = be.AppendUint16(out, uint16(cf.Pool.Count()))

	for _, c := range cf.Pool.entries[1:] {
		if c.Tag == 0 {
			continue
		}

		out = append(out, byte(c.Tag))

		if c.Tag == TagUtf8 {
			if len(c.Data) > 0xFFFF {
				return nil, fmt.Errorf("%w: utf8 constant of %d bytes", ErrMalformed, len(c.Data))
			}

			out = be.AppendUint16(out, uint16(len(c.Data)))
		}

		out = append(out, c.Data...)
	}

	out = be.AppendUint16(out, cf.AccessFlags)
	out = be.AppendUint16(out, cf.ThisClass)
	out = be.AppendUint16(out, cf.SuperClass)
	out = be.AppendUint16(out, uint16(len(cf.Interfaces)))

	for _, i := range cf.Interfaces {
		out = be.AppendUint16(out, i)
	}

	out = appendMembers(out, cf.Fields)
	out = appendMembers(out, cf.Methods)
	out = appendAttributes(out, cf.Attributes)

	return out, nil
}

func appendMembers(out []byte, members []Member) []byte {
	be := binary.BigEndian
	out = be.AppendUint16(out, uint16(len(members)))

	for _, m := range members {
		out = be.AppendUint16(out, m.AccessFlags)
		out = be.AppendUint16(out, m.NameIndex)
		out = be.AppendUint16(out, m.DescriptorIndex)
		out = appendAttributes(out, m.Attributes)
	}

	return out
}

func appendAttributes(out []byte, attrs []Attribute) []byte {
	be := binary.BigEndian
	out = be.AppendUint16(out, uint16(len(attrs)))

	for _, a := range attrs {
		out = be.AppendUint16(out, a.NameIndex)
		out = be.AppendUint32(out, uint32(len(a.Data)))
		out = append(out, a.Data...)
	}

	return out
}

func (cf *ClassFile) sizeHint() int {
	n := 24 + 2*len(cf.Interfaces)

	for _, c := range cf.Pool.entries {
		n += 3 + len(c.Data)
	}

	for _, ms := range [][]Member{cf.Fields, cf.Methods} {
		for _, m := range ms {
			n += 8
			for _, a := range m.Attributes {
				n += 6 + len(a.Data)
			}
		}
	}

	for _, a := range cf.Attributes {
		n += 6 + len(a.Data)
	}

	return n
}
