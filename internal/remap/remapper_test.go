package remap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"method-remapper/internal/classfile"
	"method-remapper/internal/classfile/classfiletest"
	"method-remapper/internal/mapping"
	"method-remapper/internal/provider"
)

type hierarchy struct {
	B, C, D []byte
	p       *countingProvider
	table   *mapping.Table
}

// newHierarchy builds a/B declaring foo()V, a/C extending it and a/D calling
// foo()V through a/C.
func newHierarchy(t *testing.T) hierarchy {
	t.Helper()

	h := hierarchy{
		B: classfiletest.New("a/B").
			Method("foo", "()V").
			Method("self", "()V", classfiletest.Invoke(classfile.OpInvokevirtual, "a/B", "foo", "()V")).
			Bytes(t),
		C: classfiletest.New("a/C").Super("a/B").Bytes(t),
		D: classfiletest.New("a/D").
			Method("run", "()V",
				classfiletest.Invoke(classfile.OpInvokevirtual, "a/C", "foo", "()V"),
				classfiletest.Invoke(classfile.OpInvokevirtual, "a/C", "foo", "(I)V"),
				classfiletest.Invoke(classfile.OpInvokevirtual, "a/C", "foo", "()V"),
			).
			Bytes(t),
		table: table([3]string{"a/B", "foo()V", "bar"}),
	}
	h.p = counting(provider.Map{"a/B": h.B, "a/C": h.C, "a/D": h.D})

	return h
}

func TestRemapCallSites(t *testing.T) {
	h := newHierarchy(t)
	r := New(h.p, h.table, quietLogger())

	out, err := r.Remap(h.D)
	require.NoError(t, err)

	assert.Equal(t, []call{
		{Op: classfile.OpInvokevirtual, Tag: classfile.TagMethodref, Owner: "a/C", Sig: "bar()V"},
		{Op: classfile.OpInvokevirtual, Tag: classfile.TagMethodref, Owner: "a/C", Sig: "foo(I)V"},
		{Op: classfile.OpInvokevirtual, Tag: classfile.TagMethodref, Owner: "a/C", Sig: "bar()V"},
	}, calls(t, out))
	assert.Equal(t, []decl{{Sig: "run()V"}}, decls(t, out), "a/D has no explicit entry")
}

func TestRemapDeclarations(t *testing.T) {
	h := newHierarchy(t)
	r := New(h.p, h.table, quietLogger())

	out, err := r.Remap(h.B)
	require.NoError(t, err)

	assert.Equal(t, []decl{
		{Sig: "bar()V", Synthetic: true},
		{Sig: "self()V"},
	}, decls(t, out))
	assert.Equal(t, []call{
		{Op: classfile.OpInvokevirtual, Tag: classfile.TagMethodref, Owner: "a/B", Sig: "bar()V"},
	}, calls(t, out))
}

func TestRemapInheritingClassUnchanged(t *testing.T) {
	h := newHierarchy(t)
	r := New(h.p, h.table, quietLogger())

	out, err := r.Remap(h.C)
	require.NoError(t, err)
	assert.Equal(t, h.C, out)
}

func TestRemapUnknownOwner(t *testing.T) {
	in := classfiletest.New("a/D").
		Method("run", "()V", classfiletest.Invoke(classfile.OpInvokestatic, "lib/Util", "foo", "()V")).
		Bytes(t)

	r := New(counting(provider.Map{}), table([3]string{"a/B", "foo()V", "bar"}), quietLogger())

	out, err := r.Remap(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRemapIdempotent(t *testing.T) {
	h := newHierarchy(t)

	for name, in := range map[string][]byte{"a/B": h.B, "a/C": h.C, "a/D": h.D} {
		t.Run(name, func(t *testing.T) {
			r := New(h.p, h.table, quietLogger())

			once, err := r.Remap(in)
			require.NoError(t, err)

			twice, err := r.Remap(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		})
	}
}

func TestRemapDoesNotModifyInput(t *testing.T) {
	h := newHierarchy(t)
	r := New(h.p, h.table, quietLogger())

	before := bytes.Clone(h.D)

	_, err := r.Remap(h.D)
	require.NoError(t, err)
	assert.Equal(t, before, h.D)
}

func TestRemapInterfaceCalls(t *testing.T) {
	in := classfiletest.New("a/D").
		Method("run", "()V",
			classfiletest.Invoke(classfile.OpInvokeinterface, "a/I", "go", "()V"),
			classfiletest.InvokeRef(classfile.OpInvokestatic, classfile.TagInterfaceMethodref, "a/I", "make", "()La/I;"),
			classfiletest.Invoke(classfile.OpInvokespecial, "a/B", "foo", "()V"),
		).
		Bytes(t)

	tbl := table(
		[3]string{"a/I", "go()V", "start"},
		[3]string{"a/I", "make()La/I;", "create"},
		[3]string{"a/B", "foo()V", "bar"},
	)
	r := New(counting(provider.Map{}), tbl, quietLogger())

	out, err := r.Remap(in)
	require.NoError(t, err)
	assert.Equal(t, []call{
		{Op: classfile.OpInvokeinterface, Tag: classfile.TagInterfaceMethodref, Owner: "a/I", Sig: "start()V"},
		{Op: classfile.OpInvokestatic, Tag: classfile.TagInterfaceMethodref, Owner: "a/I", Sig: "create()La/I;"},
		{Op: classfile.OpInvokespecial, Tag: classfile.TagMethodref, Owner: "a/B", Sig: "bar()V"},
	}, calls(t, out))
}

func TestRemapSeedsCacheWithOwnMetadata(t *testing.T) {
	h := newHierarchy(t)
	r := New(h.p, h.table, quietLogger())

	_, err := r.Remap(h.D)
	require.NoError(t, err)

	assert.Zero(t, h.p.calls["a/D"], "the class being rewritten is not reloaded")

	_, ok := r.Resolver().Cached("a/D")
	assert.True(t, ok)
}

func TestRemapAncestorFailure(t *testing.T) {
	h := newHierarchy(t)
	h.p.fail["a/C"] = true
	r := New(h.p, h.table, quietLogger())

	out, err := r.Remap(h.D)
	require.ErrorIs(t, err, errBoom)
	assert.Nil(t, out)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "a/D", re.Class)
	assert.Equal(t, "a/C", re.Owner)
	assert.Equal(t, "remap a/D: resolve a/C: read failed", err.Error())
}

func TestRemapCycle(t *testing.T) {
	p := counting(provider.Map{
		"a/X": classfiletest.New("a/X").Super("a/Y").Bytes(t),
		"a/Y": classfiletest.New("a/Y").Super("a/X").Bytes(t),
	})
	in := classfiletest.New("a/D").
		Method("run", "()V", classfiletest.Invoke(classfile.OpInvokevirtual, "a/X", "foo", "()V")).
		Bytes(t)

	_, err := New(p, table(), quietLogger()).Remap(in)
	require.ErrorIs(t, err, ErrCyclicHierarchy)
}

func TestRemapMalformed(t *testing.T) {
	r := New(counting(provider.Map{}), table(), quietLogger())

	_, err := r.Remap([]byte{0xCA, 0xFE, 0xBA, 0xBE, 0})
	require.ErrorIs(t, err, classfile.ErrMalformed)
}

func TestRemapClass(t *testing.T) {
	h := newHierarchy(t)
	r := New(h.p, h.table, quietLogger())

	out, err := r.RemapClass("a/B")
	require.NoError(t, err)
	assert.Equal(t, "bar()V", decls(t, out)[0].Sig)

	_, err = r.RemapClass("a/Missing")
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestTransform(t *testing.T) {
	h := newHierarchy(t)
	r := New(h.p, h.table, quietLogger())

	out, err := r.Transform("a/D", nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = r.Transform("a/D", h.D)
	require.NoError(t, err)
	assert.Equal(t, "bar()V", calls(t, out)[0].Sig)

	_, err = r.Transform("a/Broken", []byte{1, 2, 3})
	require.ErrorIs(t, err, classfile.ErrMalformed)
	assert.Contains(t, err.Error(), "transform a/Broken")
}

func TestInheritedDeclarations(t *testing.T) {
	override := classfiletest.New("a/C").Super("a/B").Method("foo", "()V").Bytes(t)
	p := counting(provider.Map{
		"a/B": classfiletest.New("a/B").Method("foo", "()V").Bytes(t),
		"a/C": override,
	})
	tbl := table([3]string{"a/B", "foo()V", "bar"})

	out, err := New(p, tbl, quietLogger()).Remap(override)
	require.NoError(t, err)
	assert.Equal(t, []decl{{Sig: "foo()V"}}, decls(t, out))

	out, err = New(p, tbl, quietLogger(), WithInheritedDeclarations()).Remap(override)
	require.NoError(t, err)
	assert.Equal(t, []decl{{Sig: "bar()V", Synthetic: true}}, decls(t, out))
}

func TestRemapClassNamesMalformedClass(t *testing.T) {
	p := counting(provider.Map{"a/Bad": {0xCA, 0xFE, 0xBA, 0xBE, 0, 0}})

	_, err := New(p, table(), quietLogger()).RemapClass("a/Bad")
	require.ErrorIs(t, err, classfile.ErrMalformed)
	assert.Contains(t, err.Error(), "a/Bad")
}

func TestRemapClassKeepsResolutionError(t *testing.T) {
	h := newHierarchy(t)
	h.p.fail["a/C"] = true

	_, err := New(h.p, h.table, quietLogger()).RemapClass("a/D")

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "a/D", re.Class)
	assert.Equal(t, "a/C", re.Owner)
}

func TestRemapWithLongConstant(t *testing.T) {
	h := newHierarchy(t)
	in := classfiletest.New("a/D").
		Method("run", "()V",
			classfiletest.Ldc2(-1),
			classfiletest.Invoke(classfile.OpInvokevirtual, "a/C", "foo", "()V"),
			classfiletest.Ldc2(-1),
		).
		Bytes(t)

	r := New(h.p, h.table, quietLogger())

	once, err := r.Remap(in)
	require.NoError(t, err)
	assert.Equal(t, []call{
		{Op: classfile.OpInvokevirtual, Tag: classfile.TagMethodref, Owner: "a/C", Sig: "bar()V"},
	}, calls(t, once))

	cf, err := classfile.Parse(once)
	require.NoError(t, err)

	code, err := cf.Code(&cf.Methods[0])
	require.NoError(t, err)

	insns, err := classfile.Decode(code)
	require.NoError(t, err)

	c, err := cf.Pool.Entry(insns[0].Operand16(code))
	require.NoError(t, err)
	assert.Equal(t, classfile.TagLong, c.Tag)
	assert.Equal(t, insns[0].Operand16(code), insns[2].Operand16(code))

	twice, err := r.Remap(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}
