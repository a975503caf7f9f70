package mapping

import (
	"errors"
	"fmt"

	"method-remapper/internal/classfile"
	"method-remapper/internal/diagnostic"
	"method-remapper/internal/match"
	"method-remapper/internal/provider"
)

// maxSuggestions bounds the near-miss names attached to a diagnostic.
const maxSuggestions = 3

// Validate checks a table against the classes p can load. It is a
// structural check of the mapping source; remapping itself never requires
// it to pass.
func Validate(t *Table, p provider.Provider) diagnostic.Diagnostics {
	var res diagnostic.Diagnostics

	if t == nil {
		res.AddError("table_is_nil", "mapping table is nil", "", "")
		return res
	}

	var known []string

	if l, ok := p.(provider.Lister); ok {
		names, err := l.Classes()
		if err != nil {
			res.AddWarning("list_failed", fmt.Sprintf("cannot list classes: %v", err), "", "")
		}

		known = names
	}

	for _, owner := range t.Owners() {
		methods, _ := t.Lookup(owner)

		for _, sig := range methods.Signatures() {
			validateEntry(&res, owner, sig, methods[sig])
		}

		validateOwner(&res, p, t, owner, known)
	}

	return res
}

func validateEntry(res *diagnostic.Diagnostics, owner string, sig Signature, newName string) {
	name, desc := sig.Split()

	if !classfile.ValidMethodName(name) {
		res.AddError("invalid_method_name", fmt.Sprintf("method name %q cannot be remapped", name), owner, string(sig))
	}

	if !classfile.ValidMethodDescriptor(desc) {
		res.AddError("invalid_descriptor", fmt.Sprintf("invalid method descriptor %q", desc), owner, string(sig))
	}

	if !classfile.ValidMethodName(newName) {
		res.AddError("invalid_new_name", fmt.Sprintf("new name %q is not a legal method name", newName), owner, string(sig))
	}

	if newName == name {
		res.AddInfo("rename_noop", "new name equals the current name; the entry only shadows inherited mappings", owner, string(sig))
	}
}

func validateOwner(res *diagnostic.Diagnostics, p provider.Provider, t *Table, owner string, known []string) {
	methods, _ := t.Lookup(owner)

	b, err := p.ClassBytes(owner)
	if errors.Is(err, provider.ErrNotFound) {
		res.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticWarning,
			Code:        "owner_not_found",
			Message:     "owner class not found; only call sites will be remapped",
			Owner:       owner,
			Suggestions: match.Suggest(owner, known, maxSuggestions),
		})

		return
	}

	if err != nil {
		res.AddError("owner_unreadable", err.Error(), owner, "")
		return
	}

	cf, err := classfile.Parse(b)
	if err != nil {
		res.AddError("owner_malformed", err.Error(), owner, "")
		return
	}

	declared := make(map[Signature]bool, len(cf.Methods))
	names := make([]string, 0, len(cf.Methods))

	for i := range cf.Methods {
		name, desc, err := cf.MemberName(&cf.Methods[i])
		if err != nil {
			res.AddError("owner_malformed", err.Error(), owner, "")
			return
		}

		sig := NewSignature(name, desc)
		declared[sig] = true
		names = append(names, string(sig))
	}

	for _, sig := range methods.Signatures() {
		if !declared[sig] {
			res.Add(diagnostic.Diagnostic{
				Severity:    diagnostic.DiagnosticWarning,
				Code:        "method_not_declared",
				Message:     "method is not declared on the owner; only inherited call sites will be remapped",
				Owner:       owner,
				Signature:   string(sig),
				Suggestions: match.Suggest(string(sig), names, maxSuggestions),
			})
		}

		_, desc := sig.Split()
		target := NewSignature(methods[sig], desc)

		if declared[target] && target != sig {
			if _, renamedToo := t.Get(owner, target); !renamedToo {
				res.AddError("rename_collision",
					fmt.Sprintf("renaming to %s collides with an existing declaration", target), owner, string(sig))
			}
		}
	}
}
