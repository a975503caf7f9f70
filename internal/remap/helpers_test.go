package remap

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"method-remapper/internal/classfile"
	"method-remapper/internal/mapping"
	"method-remapper/internal/provider"
)

var errBoom = errors.New("read failed")

// countingProvider records how often each class is requested.
type countingProvider struct {
	provider.Provider
	calls map[string]int
	fail  map[string]bool
}

func counting(p provider.Provider) *countingProvider {
	return &countingProvider{Provider: p, calls: make(map[string]int), fail: make(map[string]bool)}
}

func (c *countingProvider) ClassBytes(name string) ([]byte, error) {
	c.calls[name]++
	if c.fail[name] {
		return nil, errBoom
	}

	return c.Provider.ClassBytes(name)
}

func (c *countingProvider) total() int {
	n := 0
	for _, v := range c.calls {
		n += v
	}

	return n
}

func quietLogger() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func table(entries ...[3]string) *mapping.Table {
	b := mapping.NewBuilder()
	for _, e := range entries {
		b.Put(e[0], mapping.Signature(e[1]), e[2])
	}

	return b.Build()
}

type call struct {
	Op    byte
	Tag   classfile.Tag
	Owner string
	Sig   string
}

// calls lists every method call instruction of a class in order.
func calls(t *testing.T, b []byte) []call {
	t.Helper()

	cf, err := classfile.Parse(b)
	require.NoError(t, err)

	var out []call

	for i := range cf.Methods {
		code, err := cf.Code(&cf.Methods[i])
		require.NoError(t, err)

		insns, err := classfile.Decode(code)
		require.NoError(t, err)

		for _, in := range insns {
			if _, ok := classfile.InvokeKindOf(in.Opcode); !ok {
				continue
			}

			ref, err := cf.Pool.MemberRef(in.Operand16(code))
			require.NoError(t, err)

			out = append(out, call{Op: in.Opcode, Tag: ref.Tag, Owner: ref.Owner, Sig: ref.Name + ref.Descriptor})
		}
	}

	return out
}

type decl struct {
	Sig       string
	Synthetic bool
}

// decls lists the method declarations of a class.
func decls(t *testing.T, b []byte) []decl {
	t.Helper()

	cf, err := classfile.Parse(b)
	require.NoError(t, err)

	out := make([]decl, len(cf.Methods))

	for i := range cf.Methods {
		name, desc, err := cf.MemberName(&cf.Methods[i])
		require.NoError(t, err)

		out[i] = decl{Sig: name + desc, Synthetic: cf.Methods[i].AccessFlags&classfile.AccSynthetic != 0}
	}

	return out
}
