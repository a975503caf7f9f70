package remap

import (
	"bytes"
	"context"
	"fmt"

	"method-remapper/internal/classfile"
	"method-remapper/internal/mapping"
	"method-remapper/internal/provider"
)

// Remapper rewrites class files using a Resolver.
type Remapper struct {
	resolver *Resolver
}

// New creates a Remapper loading ancestors from p.
func New(p provider.Provider, t *mapping.Table, opts ...Option) *Remapper {
	return &Remapper{resolver: NewResolver(p, t, opts...)}
}

// Resolver returns the resolver whose cache this Remapper fills.
func (r *Remapper) Resolver() *Resolver {
	return r.resolver
}

// Provider returns the class source used for ancestors.
func (r *Remapper) Provider() provider.Provider {
	return r.resolver.provider
}

// RemapClass loads a class from the provider and remaps it.
func (r *Remapper) RemapClass(name string) ([]byte, error) {
	b, err := r.resolver.provider.ClassBytes(name)
	if err != nil {
		return nil, &Error{Class: name, Owner: name, Err: err}
	}

	out, err := r.Remap(b)
	if err != nil {
		return nil, classError(err, name)
	}

	return out, nil
}

// Transform remaps the bytes of a class being loaded by a host runtime.
// A nil class yields nil.
func (r *Remapper) Transform(name string, b []byte) ([]byte, error) {
	if b == nil {
		return nil, nil
	}

	out, err := r.Remap(b)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", name, err)
	}

	return out, nil
}

// Remap rewrites one class file. The input is not modified.
func (r *Remapper) Remap(b []byte) ([]byte, error) {
	cf, err := classfile.Parse(bytes.Clone(b))
	if err != nil {
		return nil, err
	}

	md, err := cf.Metadata()
	if err != nil {
		return nil, err
	}

	// Seeds the cache for this class before its call sites are resolved.
	effective, err := r.resolver.resolveWith(&md)
	if err != nil {
		return nil, classError(err, md.Name)
	}

	logger := r.resolver.config.logger

	own, explicit := r.resolver.table.Lookup(md.Name)
	if !explicit && r.resolver.config.inheritDeclarations {
		own, explicit = effective, len(effective) > 0
	}

	if explicit {
		logger.Debug("remapping", "class", md.Name, "mappings", len(own))

		if err := renameDeclarations(cf, own); err != nil {
			return nil, classError(err, md.Name)
		}
	} else {
		logger.Log(context.Background(), LevelTrace, "remapping", "class", md.Name)
	}

	if err := r.rewriteCallSites(cf, md.Name); err != nil {
		return nil, err
	}

	return cf.Bytes()
}

// renameDeclarations renames the methods declared by cf that appear in own
// and marks them synthetic.
func renameDeclarations(cf *classfile.ClassFile, own mapping.Methods) error {
	for i := range cf.Methods {
		m := &cf.Methods[i]

		name, desc, err := cf.MemberName(m)
		if err != nil {
			return err
		}

		newName, ok := own[mapping.NewSignature(name, desc)]
		if !ok || newName == name {
			continue
		}

		idx, err := cf.Pool.AddUtf8(newName)
		if err != nil {
			return err
		}

		m.NameIndex = idx
		m.AccessFlags |= classfile.AccSynthetic
	}

	return nil
}

// rewriteCallSites repoints method call instructions whose static owner
// resolves a mapping for the invoked signature.
func (r *Remapper) rewriteCallSites(cf *classfile.ClassFile, class string) error {
	// original member reference index -> replacement (equal when unmapped)
	repointed := make(map[uint16]uint16)

	for i := range cf.Methods {
		code, err := cf.Code(&cf.Methods[i])
		if err != nil {
			return classError(err, class)
		}

		if code == nil {
			continue
		}

		insns, err := classfile.Decode(code)
		if err != nil {
			return classError(err, class)
		}

		for _, in := range insns {
			if _, ok := classfile.InvokeKindOf(in.Opcode); !ok {
				continue
			}

			idx := in.Operand16(code)

			target, seen := repointed[idx]
			if !seen {
				target, err = r.callTarget(cf, idx)
				if err != nil {
					return classError(err, class)
				}

				repointed[idx] = target
			}

			if target != idx {
				in.SetOperand16(code, target)
			}
		}
	}

	return nil
}

// callTarget returns the member reference a call through idx should use.
func (r *Remapper) callTarget(cf *classfile.ClassFile, idx uint16) (uint16, error) {
	ref, err := cf.Pool.MemberRef(idx)
	if err != nil {
		return 0, err
	}

	if ref.Tag == classfile.TagFieldref {
		return 0, fmt.Errorf("%w: call instruction references field %s.%s", classfile.ErrMalformed, ref.Owner, ref.Name)
	}

	newName, ok, err := r.resolver.Mapping(ref.Owner, mapping.NewSignature(ref.Name, ref.Descriptor))
	if err != nil || !ok || newName == ref.Name {
		return idx, err
	}

	return cf.Pool.AddMemberRef(ref.Tag, ref.ClassIndex, newName, ref.Descriptor)
}
