package classfile

import (
	"encoding/binary"
	"fmt"
)

// Name returns the internal name of the class.
func (cf *ClassFile) Name() (string, error) {
	return cf.Pool.ClassName(cf.ThisClass)
}

// Metadata returns the hierarchy information of the class.
func (cf *ClassFile) Metadata() (Metadata, error) {
	name, err := cf.Name()
	if err != nil {
		return Metadata{}, err
	}

	md := Metadata{Name: name}

	if cf.SuperClass != 0 {
		md.Super, err = cf.Pool.ClassName(cf.SuperClass)
		if err != nil {
			return Metadata{}, fmt.Errorf("super_class of %s: %w", name, err)
		}
	}

	if len(cf.Interfaces) > 0 {
		md.Interfaces = make([]string, len(cf.Interfaces))

		for i, idx := range cf.Interfaces {
			md.Interfaces[i], err = cf.Pool.ClassName(idx)
			if err != nil {
				return Metadata{}, fmt.Errorf("interface %d of %s: %w", i, name, err)
			}
		}
	}

	return md, nil
}

// MemberName returns the name and descriptor of a field or method.
func (cf *ClassFile) MemberName(m *Member) (string, string, error) {
	name, err := cf.Pool.Utf8(m.NameIndex)
	if err != nil {
		return "", "", err
	}

	desc, err := cf.Pool.Utf8(m.DescriptorIndex)
	if err != nil {
		return "", "", err
	}

	return name, desc, nil
}

// Code returns the bytecode of a method, or nil for abstract and native
// methods. The slice aliases the attribute data so writes to it are kept
// by Bytes.
func (cf *ClassFile) Code(m *Member) ([]byte, error) {
	for _, a := range m.Attributes {
		name, err := cf.Pool.Utf8(a.NameIndex)
		if err != nil {
			return nil, err
		}

		if name != "Code" {
			continue
		}

		// max_stack u2, max_locals u2, code_length u4
		if len(a.Data) < 8 {
			return nil, fmt.Errorf("%w: truncated Code attribute", ErrMalformed)
		}

		n := binary.BigEndian.Uint32(a.Data[4:8])
		if uint64(n) > uint64(len(a.Data)-8) {
			return nil, fmt.Errorf("%w: code_length %d exceeds Code attribute", ErrMalformed, n)
		}

		return a.Data[8 : 8+int(n)], nil
	}

	return nil, nil
}
