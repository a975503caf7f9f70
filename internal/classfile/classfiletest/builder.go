// Package classfiletest assembles small class files for tests.
package classfiletest

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"method-remapper/internal/classfile"
)

// Insn emits the bytes of one instruction, adding pool entries as needed.
type Insn func(p *classfile.Pool) ([]byte, error)

// Invoke emits a method call instruction. invokeinterface references an
// InterfaceMethodref, the other opcodes a Methodref.
func Invoke(op byte, owner, name, desc string) Insn {
	tag := classfile.TagMethodref
	if op == classfile.OpInvokeinterface {
		tag = classfile.TagInterfaceMethodref
	}

	return InvokeRef(op, tag, owner, name, desc)
}

// InvokeRef emits a method call instruction referencing an entry of the
// given tag, e.g. invokestatic on an InterfaceMethodref.
func InvokeRef(op byte, tag classfile.Tag, owner, name, desc string) Insn {
	return func(p *classfile.Pool) ([]byte, error) {
		classIdx, err := p.AddClass(owner)
		if err != nil {
			return nil, err
		}

		idx, err := p.AddMemberRef(tag, classIdx, name, desc)
		if err != nil {
			return nil, err
		}

		b := binary.BigEndian.AppendUint16([]byte{op}, idx)
		if op == classfile.OpInvokeinterface {
			b = append(b, 1, 0)
		}

		return b, nil
	}
}

// Ldc2 emits ldc2_w loading a Long constant, which occupies two pool slots.
func Ldc2(v int64) Insn {
	return func(p *classfile.Pool) ([]byte, error) {
		idx, err := p.AddLong(v)
		if err != nil {
			return nil, err
		}

		return binary.BigEndian.AppendUint16([]byte{opLdc2W}, idx), nil
	}
}

const opLdc2W = 0x14

// Raw emits the given bytes verbatim.
func Raw(b ...byte) Insn {
	return func(*classfile.Pool) ([]byte, error) {
		return b, nil
	}
}

type method struct {
	access uint16
	name   string
	desc   string
	code   []Insn
	body   bool
}

// Builder accumulates the parts of one class.
type Builder struct {
	name       string
	super      string
	access     uint16
	interfaces []string
	methods    []method
}

// New starts a public class extending java/lang/Object.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		super:  "java/lang/Object",
		access: classfile.AccPublic | classfile.AccSuper,
	}
}

// Interface turns the class into an interface.
func (b *Builder) Interface() *Builder {
	b.access = classfile.AccPublic | classfile.AccInterface | classfile.AccAbstract
	return b
}

// Super sets the superclass; an empty name produces a root class.
func (b *Builder) Super(name string) *Builder {
	b.super = name
	return b
}

// Implements appends interfaces in declaration order.
func (b *Builder) Implements(names ...string) *Builder {
	b.interfaces = append(b.interfaces, names...)
	return b
}

// Method declares a method with a body made of code followed by a return.
func (b *Builder) Method(name, desc string, code ...Insn) *Builder {
	b.methods = append(b.methods, method{access: classfile.AccPublic, name: name, desc: desc, code: code, body: true})
	return b
}

// Abstract declares a method without a Code attribute.
func (b *Builder) Abstract(name, desc string) *Builder {
	b.methods = append(b.methods, method{access: classfile.AccPublic | classfile.AccAbstract, name: name, desc: desc})
	return b
}

// Build assembles the class file.
func (b *Builder) Build() ([]byte, error) {
	p := classfile.NewPool()
	cf := &classfile.ClassFile{MajorVersion: 52, Pool: p, AccessFlags: b.access}

	var err error

	if cf.ThisClass, err = p.AddClass(b.name); err != nil {
		return nil, err
	}

	if b.super != "" {
		if cf.SuperClass, err = p.AddClass(b.super); err != nil {
			return nil, err
		}
	}

	for _, i := range b.interfaces {
		idx, err := p.AddClass(i)
		if err != nil {
			return nil, err
		}

		cf.Interfaces = append(cf.Interfaces, idx)
	}

	for _, m := range b.methods {
		member, err := buildMethod(p, m)
		if err != nil {
			return nil, err
		}

		cf.Methods = append(cf.Methods, member)
	}

	return cf.Bytes()
}

// Bytes is Build for tests.
func (b *Builder) Bytes(t testing.TB) []byte {
	t.Helper()

	data, err := b.Build()
	require.NoError(t, err)

	return data
}

func buildMethod(p *classfile.Pool, m method) (classfile.Member, error) {
	nameIdx, err := p.AddUtf8(m.name)
	if err != nil {
		return classfile.Member{}, err
	}

	descIdx, err := p.AddUtf8(m.desc)
	if err != nil {
		return classfile.Member{}, err
	}

	member := classfile.Member{AccessFlags: m.access, NameIndex: nameIdx, DescriptorIndex: descIdx}
	if !m.body {
		return member, nil
	}

	var code []byte

	for _, insn := range m.code {
		b, err := insn(p)
		if err != nil {
			return classfile.Member{}, err
		}

		code = append(code, b...)
	}

	code = append(code, 0xb1) // return

	codeIdx, err := p.AddUtf8("Code")
	if err != nil {
		return classfile.Member{}, err
	}

	be := binary.BigEndian
	data := be.AppendUint16(nil, 8)  // max_stack
	data = be.AppendUint16(data, 8)  // max_locals
	data = be.AppendUint32(data, uint32(len(code)))
	data = append(data, code...)
	data = be.AppendUint16(data, 0) // exception_table_length
	data = be.AppendUint16(data, 0) // attributes_count

	member.Attributes = []classfile.Attribute{{NameIndex: codeIdx, Data: data}}

	return member, nil
}
