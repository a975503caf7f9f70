package classfile

import (
	"encoding/binary"
	"fmt"
)

// maxPoolCount is the largest constant_pool_count a class file can carry.
const maxPoolCount = 0xFFFF

// Pool is a constant pool. Index 0 is never valid.
type Pool struct {
	entries []Constant
	// index maps tag+payload to the first slot holding it; built on the
	// first edit.
	index map[string]uint16
}

// NewPool returns an empty pool (constant_pool_count of 1).
func NewPool() *Pool {
	return &Pool{entries: make([]Constant, 1)}
}

// Count returns constant_pool_count: the number of slots plus one.
func (p *Pool) Count() int {
	return len(p.entries)
}

// Entry returns the entry at index i.
func (p *Pool) Entry(i uint16) (Constant, error) {
	if i == 0 || int(i) >= len(p.entries) || p.entries[i].Tag == 0 {
		return Constant{}, fmt.Errorf("%w: invalid constant pool index %d", ErrMalformed, i)
	}

	return p.entries[i], nil
}

func (p *Pool) expect(i uint16, tags ...Tag) (Constant, error) {
	c, err := p.Entry(i)
	if err != nil {
		return Constant{}, err
	}

	for _, t := range tags {
		if c.Tag == t {
			return c, nil
		}
	}

	return Constant{}, fmt.Errorf("%w: constant pool index %d has tag %d, want %v", ErrMalformed, i, c.Tag, tags)
}

// Utf8 returns the string stored in the Utf8 entry at index i.
func (p *Pool) Utf8(i uint16) (string, error) {
	c, err := p.expect(i, TagUtf8)
	if err != nil {
		return "", err
	}

	return decodeMUTF8(c.Data)
}

// ClassName returns the internal name referenced by the Class entry at i.
func (p *Pool) ClassName(i uint16) (string, error) {
	c, err := p.expect(i, TagClass)
	if err != nil {
		return "", err
	}

	return p.Utf8(c.index())
}

// NameAndType returns the name and descriptor of the NameAndType entry at i.
func (p *Pool) NameAndType(i uint16) (string, string, error) {
	c, err := p.expect(i, TagNameAndType)
	if err != nil {
		return "", "", err
	}

	nameIdx, descIdx := c.ref()

	name, err := p.Utf8(nameIdx)
	if err != nil {
		return "", "", err
	}

	desc, err := p.Utf8(descIdx)
	if err != nil {
		return "", "", err
	}

	return name, desc, nil
}

// MemberRef decodes the Fieldref, Methodref or InterfaceMethodref entry at i.
func (p *Pool) MemberRef(i uint16) (MemberRef, error) {
	c, err := p.expect(i, TagFieldref, TagMethodref, TagInterfaceMethodref)
	if err != nil {
		return MemberRef{}, err
	}

	classIdx, natIdx := c.ref()

	owner, err := p.ClassName(classIdx)
	if err != nil {
		return MemberRef{}, err
	}

	name, desc, err := p.NameAndType(natIdx)
	if err != nil {
		return MemberRef{}, err
	}

	return MemberRef{
		Tag:        c.Tag,
		ClassIndex: classIdx,
		Owner:      owner,
		Name:       name,
		Descriptor: desc,
	}, nil
}

// AddUtf8 returns the index of a Utf8 entry holding s, appending one if the
// pool has none.
func (p *Pool) AddUtf8(s string) (uint16, error) {
	return p.add(Constant{Tag: TagUtf8, Data: encodeMUTF8(s)})
}

// AddLong returns the index of a Long entry holding v. The entry takes two
// slots.
func (p *Pool) AddLong(v int64) (uint16, error) {
	return p.add(Constant{Tag: TagLong, Data: binary.BigEndian.AppendUint64(nil, uint64(v))})
}

// AddClass returns the index of a Class entry naming the internal name.
func (p *Pool) AddClass(name string) (uint16, error) {
	nameIdx, err := p.AddUtf8(name)
	if err != nil {
		return 0, err
	}

	return p.add(Constant{Tag: TagClass, Data: binary.BigEndian.AppendUint16(nil, nameIdx)})
}

// AddNameAndType returns the index of a NameAndType entry for name and desc.
func (p *Pool) AddNameAndType(name, desc string) (uint16, error) {
	nameIdx, err := p.AddUtf8(name)
	if err != nil {
		return 0, err
	}

	descIdx, err := p.AddUtf8(desc)
	if err != nil {
		return 0, err
	}

	return p.add(Constant{Tag: TagNameAndType, Data: pair(nameIdx, descIdx)})
}

// AddMemberRef returns the index of a reference entry with the given tag
// pointing at classIdx and a NameAndType for name and desc.
func (p *Pool) AddMemberRef(tag Tag, classIdx uint16, name, desc string) (uint16, error) {
	if tag != TagFieldref && tag != TagMethodref && tag != TagInterfaceMethodref {
		return 0, fmt.Errorf("tag %d is not a member reference", tag)
	}

	if _, err := p.expect(classIdx, TagClass); err != nil {
		return 0, err
	}

	natIdx, err := p.AddNameAndType(name, desc)
	if err != nil {
		return 0, err
	}

	return p.add(Constant{Tag: tag, Data: pair(classIdx, natIdx)})
}

func (p *Pool) add(c Constant) (uint16, error) {
	if p.index == nil {
		p.buildIndex()
	}

	key := indexKey(c)
	if i, ok := p.index[key]; ok {
		return i, nil
	}

	slots := 1
	if c.Tag.wide() {
		slots = 2
	}

	if len(p.entries)+slots > maxPoolCount {
		return 0, ErrPoolOverflow
	}

	i := uint16(len(p.entries))
	p.entries = append(p.entries, c)

	if slots == 2 {
		p.entries = append(p.entries, Constant{})
	}
	p.index[key] = i

	return i, nil
}

func (p *Pool) buildIndex() {
	p.index = make(map[string]uint16, len(p.entries))

	for i, c := range p.entries {
		if c.Tag == 0 {
			continue
		}

		key := indexKey(c)
		if _, ok := p.index[key]; !ok {
			p.index[key] = uint16(i)
		}
	}
}

func indexKey(c Constant) string {
	return string(rune(c.Tag)) + string(c.Data)
}

func pair(a, b uint16) []byte {
	return binary.BigEndian.AppendUint16(binary.BigEndian.AppendUint16(make([]byte, 0, 4), a), b)
}
