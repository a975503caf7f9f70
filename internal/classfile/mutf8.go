package classfile

import (
	"fmt"
	"unicode/utf16"
)

// encodeMUTF8 encodes s in the JVM's modified UTF-8: NUL is written as two
// bytes and supplementary characters as surrogate pairs.
func encodeMUTF8(s string) []byte {
	out := make([]byte, 0, len(s))

	for _, u := range utf16.Encode([]rune(s)) {
		switch {
		case u != 0 && u < 0x80:
			out = append(out, byte(u))
		case u < 0x800:
			out = append(out, 0xC0|byte(u>>6), 0x80|byte(u&0x3F))
		default:
			out = append(out, 0xE0|byte(u>>12), 0x80|byte((u>>6)&0x3F), 0x80|byte(u&0x3F))
		}
	}

	return out
}

// decodeMUTF8 decodes modified UTF-8 bytes.
func decodeMUTF8(b []byte) (string, error) {
	ascii := true

	for _, c := range b {
		if c == 0 || c >= 0x80 {
			ascii = false
			break
		}
	}

	if ascii {
		return string(b), nil
	}

	units := make([]uint16, 0, len(b))

	for i := 0; i < len(b); {
		c := b[i]

		switch {
		case c != 0 && c < 0x80:
			units = append(units, uint16(c))
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: invalid utf8 sequence at byte %d", ErrMalformed, i)
			}

			units = append(units, uint16(c&0x1F)<<6|uint16(b[i+1]&0x3F))
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: invalid utf8 sequence at byte %d", ErrMalformed, i)
			}

			units = append(units, uint16(c&0x0F)<<12|uint16(b[i+1]&0x3F)<<6|uint16(b[i+2]&0x3F))
			i += 3
		default:
			return "", fmt.Errorf("%w: invalid utf8 byte 0x%02x at %d", ErrMalformed, c, i)
		}
	}

	return string(utf16.Decode(units)), nil
}
