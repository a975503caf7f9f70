package classfile

import "errors"

// Magic is the first four bytes of every class file.
const Magic = 0xCAFEBABE

var (
	// ErrMalformed is returned for input that is not a well-formed class file.
	ErrMalformed = errors.New("malformed class file")
	// ErrPoolOverflow is returned when an edit would grow the constant pool
	// beyond 65535 slots.
	ErrPoolOverflow = errors.New("constant pool overflow")
)

// Access flags used by the rewriter.
const (
	AccPublic    = 0x0001
	AccSuper     = 0x0020
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccSynthetic = 0x1000
)

// Tag identifies the kind of a constant pool entry.
type Tag uint8

const (
	TagUtf8               Tag = 1
	TagInteger            Tag = 3
	TagFloat              Tag = 4
	TagLong               Tag = 5
	TagDouble             Tag = 6
	TagClass              Tag = 7
	TagString             Tag = 8
	TagFieldref           Tag = 9
	TagMethodref          Tag = 10
	TagInterfaceMethodref Tag = 11
	TagNameAndType        Tag = 12
	TagMethodHandle       Tag = 15
	TagMethodType         Tag = 16
	TagDynamic            Tag = 17
	TagInvokeDynamic      Tag = 18
	TagModule             Tag = 19
	TagPackage            Tag = 20
)

// payloadSize returns the fixed payload size of an entry with the given tag,
// -1 for Utf8 and 0 for unknown tags.
func payloadSize(t Tag) int {
	switch t {
	case TagUtf8:
		return -1
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		return 2
	case TagMethodHandle:
		return 3
	case TagInteger, TagFloat, TagFieldref, TagMethodref, TagInterfaceMethodref,
		TagNameAndType, TagDynamic, TagInvokeDynamic:
		return 4
	case TagLong, TagDouble:
		return 8
	default:
		return 0
	}
}

// wide reports whether the entry occupies two pool slots.
func (t Tag) wide() bool {
	return t == TagLong || t == TagDouble
}

// Constant is a single constant pool entry. Data holds the payload that
// follows the tag byte; for Utf8 entries the length prefix is not included.
// The unusable slot following a Long or Double has a zero Tag.
type Constant struct {
	Tag  Tag
	Data []byte
}

// ref decodes the two index fields of a 4-byte reference entry.
func (c Constant) ref() (uint16, uint16) {
	return uint16(c.Data[0])<<8 | uint16(c.Data[1]), uint16(c.Data[2])<<8 | uint16(c.Data[3])
}

// index decodes the single index field of a 2-byte reference entry.
func (c Constant) index() uint16 {
	return uint16(c.Data[0])<<8 | uint16(c.Data[1])
}

// Attribute is a raw attribute. Data excludes the name index and length.
type Attribute struct {
	NameIndex uint16
	Data      []byte
}

// Member is a field or method declaration.
type Member struct {
	AccessFlags     uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// ClassFile is the in-memory form of a parsed class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	Pool         *Pool
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []Member
	Methods      []Member
	Attributes   []Attribute
}

// Metadata is the hierarchy information of one class. Super is empty only for
// the root of the hierarchy.
type Metadata struct {
	Name       string
	Super      string
	Interfaces []string
}

// MemberRef is a decoded Fieldref, Methodref or InterfaceMethodref entry.
type MemberRef struct {
	Tag        Tag
	ClassIndex uint16
	Owner      string
	Name       string
	Descriptor string
}
