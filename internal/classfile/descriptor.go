package classfile

import "strings"

// ValidMethodDescriptor reports whether desc is a well-formed method
// descriptor such as "(ILjava/lang/String;)V".
func ValidMethodDescriptor(desc string) bool {
	if !strings.HasPrefix(desc, "(") {
		return false
	}

	i := 1
	for i < len(desc) && desc[i] != ')' {
		n := fieldTypeLen(desc[i:])
		if n == 0 {
			return false
		}

		i += n
	}

	if i >= len(desc) {
		return false
	}

	rest := desc[i+1:]
	if rest == "V" {
		return true
	}

	return rest != "" && fieldTypeLen(rest) == len(rest)
}

// fieldTypeLen returns the length of the field type at the start of s, or 0.
func fieldTypeLen(s string) int {
	dims := 0
	for dims < len(s) && s[dims] == '[' {
		dims++
	}

	if dims > 255 || dims == len(s) {
		return 0
	}

	switch s[dims] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return dims + 1
	case 'L':
		end := strings.IndexByte(s[dims:], ';')
		if end <= 1 {
			return 0
		}

		return dims + end + 1
	default:
		return 0
	}
}

// ValidMethodName reports whether name is a legal unqualified method name.
// The special names <init> and <clinit> are not renameable and are rejected.
func ValidMethodName(name string) bool {
	return name != "" && !strings.ContainsAny(name, ".;[/<>")
}
