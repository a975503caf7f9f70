package mapping

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"method-remapper/internal/classfile/classfiletest"
	"method-remapper/internal/diagnostic"
	"method-remapper/internal/provider"
)

type failingProvider struct{}

func (failingProvider) ClassBytes(string) ([]byte, error) {
	return nil, errors.New("archive corrupt")
}

func codes(ds []diagnostic.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}

	return out
}

func testClasses(t *testing.T) provider.Map {
	return provider.Map{
		"a/Entity": classfiletest.New("a/Entity").
			Method("getName", "()Ljava/lang/String;").
			Method("setName", "(Ljava/lang/String;)V").
			Method("name", "()Ljava/lang/String;").
			Bytes(t),
		"a/Other": []byte("garbage"),
	}
}

func TestValidateClean(t *testing.T) {
	b := NewBuilder()
	b.Put("a/Entity", "getName()Ljava/lang/String;", "getEntityName")

	res := Validate(b.Build(), testClasses(t))
	assert.Empty(t, res.All())
	assert.True(t, res.IsValid())
	require.NoError(t, res.Error())
}

func TestValidate(t *testing.T) {
	b := NewBuilder()
	b.Put("a/Entity", "getNmae()Ljava/lang/String;", "x")
	b.Put("a/Entity", "getName()Ljava/lang/String;", "name")
	b.Put("a/Entity", "bad(V", "y")
	b.Put("a/Entity", "<init>()V", "z")
	b.Put("a/Entity", "setName(Ljava/lang/String;)V", "a.b")
	b.Put("a/Entiti", "run()V", "go")
	b.Put("a/Other", "run()V", "go")

	res := Validate(b.Build(), testClasses(t))

	assert.ElementsMatch(t, []string{
		"invalid_descriptor",
		"invalid_method_name",
		"invalid_new_name",
		"rename_collision",
		"owner_malformed",
	}, codes(res.Errors))

	assert.ElementsMatch(t, []string{
		"owner_not_found",
		"method_not_declared",
		"method_not_declared",
		"method_not_declared",
	}, codes(res.Warnings))

	for _, w := range res.Warnings {
		switch {
		case w.Code == "owner_not_found":
			assert.Equal(t, "a/Entiti", w.Owner)
			assert.Equal(t, []string{"a/Entity"}, w.Suggestions)
		case w.Signature == "getNmae()Ljava/lang/String;":
			assert.Equal(t, "getName()Ljava/lang/String;", w.Suggestions[0])
		}
	}

	require.Error(t, res.Error())
}

func TestValidateSwapIsNotACollision(t *testing.T) {
	b := NewBuilder()
	b.Put("a/Entity", "getName()Ljava/lang/String;", "name")
	b.Put("a/Entity", "name()Ljava/lang/String;", "getName")

	res := Validate(b.Build(), testClasses(t))
	assert.Empty(t, res.Errors)
}

func TestValidateProviderFailure(t *testing.T) {
	b := NewBuilder()
	b.Put("a/B", "foo()V", "bar")

	res := Validate(b.Build(), failingProvider{})
	assert.Equal(t, []string{"owner_unreadable"}, codes(res.Errors))
}

func TestValidateNilTable(t *testing.T) {
	res := Validate(nil, provider.Map{})
	assert.Equal(t, []string{"table_is_nil"}, codes(res.Errors))
}

func TestValidateRenameToSameName(t *testing.T) {
	b := NewBuilder()
	b.Put("a/Entity", "getName()Ljava/lang/String;", "getName")

	res := Validate(b.Build(), testClasses(t))
	assert.True(t, res.IsValid())
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{"rename_noop"}, codes(res.Infos))
	assert.Equal(t, "getName()Ljava/lang/String;", res.Infos[0].Signature)
}
