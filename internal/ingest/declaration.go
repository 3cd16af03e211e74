// Package ingest converts handler declarations supplied by an embedder
// into tree.ExecutableCommand leaves: it expands Cartesian path
// products, resolves each parameter's strategy objects via a
// registry.Bundle, and computes the effective path the command tree is
// built from.
package ingest

import (
	"fmt"
	"reflect"

	"lamp/internal/annotate"
	"lamp/internal/registry"
	"lamp/internal/tree"
	"lamp/pkg/lamperr"
	"lamp/pkg/lamptypes"
)

// ParameterDecl is one parameter of a declared method, as supplied by
// the embedder's declaration source (reflection-based or hand-written;
// ingestion never inspects the source itself, only this shape).
type ParameterDecl struct {
	Name        string
	Type        reflect.Type
	Annotations lamptypes.AnnotationList
	Default     lamptypes.DefaultValue
	Optional    bool
}

// MethodDecl is one handler declaration: zero or more subcommand paths
// (concatenated after the owning ClassDecl's paths), its parameters in
// declaration order, and the metadata the dispatcher needs after a
// successful parse.
type MethodDecl struct {
	Paths       []string
	Aliases     []string
	Parameters  []ParameterDecl
	ReturnType  reflect.Type
	Annotations lamptypes.AnnotationList
	Handler     tree.HandlerFunc
}

// ClassDecl is the enclosing declaration a set of MethodDecls share:
// outer path alternatives, a class-level permission/annotation set
// inherited by every method unless overridden, and the methods
// themselves.
type ClassDecl struct {
	Paths       []string
	Aliases     []string
	Annotations lamptypes.AnnotationList
	Methods     []MethodDecl
}

// deprecatedReplacer folds a DeprecatedAnnotation into the help-facing
// description instead of making the dispatcher special-case it at run
// time: a deprecated method keeps working exactly like any other, only
// its introspection text changes.
func deprecatedReplacer(ann lamptypes.Annotation) ([]lamptypes.Annotation, error) {
	dep, ok := ann.(lamptypes.DeprecatedAnnotation)
	if !ok {
		return nil, fmt.Errorf("deprecated replacer received %T", ann)
	}
	text := "deprecated"
	if dep.Reason != "" {
		text = "deprecated: " + dep.Reason
	}
	return []lamptypes.Annotation{lamptypes.DescriptionAnnotation{Text: text}}, nil
}

// Replacers is the annotation-replacer table applied, as a fix-point,
// to every element's merged annotation list before resolution.
var Replacers = annotate.Replacers{
	"deprecated": deprecatedReplacer,
}

func cartesian(outer, inner []string) []string {
	if len(outer) == 0 {
		return append([]string(nil), inner...)
	}
	if len(inner) == 0 {
		return append([]string(nil), outer...)
	}
	out := make([]string, 0, len(outer)*len(inner))
	for _, o := range outer {
		for _, i := range inner {
			out = append(out, o+" "+i)
		}
	}
	return out
}

// Ingest expands class into one ExecutableCommand per full path ×
// method combination, resolving every parameter against regs.
func Ingest(class ClassDecl, regs *registry.Bundle) ([]*tree.ExecutableCommand, error) {
	var out []*tree.ExecutableCommand
	for _, method := range class.Methods {
		fullPaths := cartesian(class.Paths, method.Paths)
		if len(fullPaths) == 0 {
			fullPaths = []string{""}
		}
		merged := class.Annotations
		for _, a := range method.Annotations.All() {
			merged = merged.With(a)
		}
		merged, err := annotate.Apply(merged, Replacers, 0)
		if err != nil {
			return nil, err
		}

		for _, raw := range fullPaths {
			cmd, err := ingestOne(raw, method, merged, regs)
			if err != nil {
				return nil, err
			}
			cmd.Aliases = append(append([]string{}, class.Aliases...), method.Aliases...)
			out = append(out, cmd)
		}
	}
	return out, nil
}

func ingestOne(raw string, method MethodDecl, methodAnns lamptypes.AnnotationList, regs *registry.Bundle) (*tree.ExecutableCommand, error) {
	path, err := lamptypes.ParsePath(raw)
	if err != nil {
		return nil, lamperr.MalformedPath(raw, err.Error())
	}

	byName := make(map[string]*ParameterDecl, len(method.Parameters))
	for i := range method.Parameters {
		byName[method.Parameters[i].Name] = &method.Parameters[i]
	}

	bindingsByName := make(map[string]*tree.ParamBinding, len(method.Parameters))
	used := make(map[string]bool, len(method.Parameters))

	var effective []tree.EffectiveSegment
	var positional []*tree.ParamBinding

	for _, seg := range path {
		if !seg.IsPlaceholder {
			effective = append(effective, tree.EffectiveSegment{IsLiteral: true, Literal: seg.Literal})
			continue
		}
		name := seg.Name()
		decl, ok := byName[name]
		if !ok {
			return nil, lamperr.UnresolvedPlaceholder(raw, name)
		}
		binding, err := resolveBinding(*decl, methodAnns, regs)
		if err != nil {
			return nil, err
		}
		if binding.IsContext {
			return nil, lamperr.MalformedPath(raw, "placeholder <"+name+"> resolves to a context parameter")
		}
		bindingsByName[name] = binding
		used[name] = true
		effective = append(effective, tree.EffectiveSegment{Binding: binding, Priority: binding.Parser.ParsePriority()})
		positional = append(positional, binding)
	}

	var allParams []*tree.ParamBinding
	for i := range method.Parameters {
		decl := method.Parameters[i]
		if b, ok := bindingsByName[decl.Name]; ok {
			allParams = append(allParams, b)
			continue
		}
		binding, err := resolveBinding(decl, methodAnns, regs)
		if err != nil {
			return nil, err
		}
		allParams = append(allParams, binding)
		if binding.IsContext {
			continue
		}
		if used[decl.Name] {
			continue
		}
		effective = append(effective, tree.EffectiveSegment{Binding: binding, Priority: binding.Parser.ParsePriority()})
		positional = append(positional, binding)
	}

	validators := map[string][]lamptypes.Validator{}
	for _, decl := range method.Parameters {
		if vs := regs.Validators.ResolveAll(decl.Type, decl.Annotations); len(vs) > 0 {
			validators[decl.Name] = vs
		}
	}

	var permission lamptypes.Permission
	if p, ok := regs.Permissions.Resolve(methodAnns); ok {
		permission = p
	}

	conditions := regs.Conditions.ResolveAll(methodAnns)

	var responseHandler lamptypes.ResponseHandler
	if method.ReturnType != nil {
		if h, ok := regs.ResponseHandlers.Resolve(method.ReturnType, methodAnns); ok {
			responseHandler = h
		}
	}

	cmd := &tree.ExecutableCommand{
		ID:              raw,
		Path:            path,
		Effective:       effective,
		Handler:         method.Handler,
		Positional:      positional,
		AllParameters:   allParams,
		Permission:      permission,
		Conditions:      conditions,
		Validators:      validators,
		Annotations:     methodAnns,
		ResponseHandler: responseHandler,
		Cooldown:        resolveCooldown(methodAnns),
	}
	return cmd, nil
}

func resolveBinding(decl ParameterDecl, methodAnns lamptypes.AnnotationList, regs *registry.Bundle) (*tree.ParamBinding, error) {
	if resolver, ok := regs.ContextParameters.Resolve(decl.Type, decl.Annotations); ok {
		return &tree.ParamBinding{Descriptor: declToDescriptor(decl), IsContext: true, Resolver: resolver}, nil
	}
	parser, ok := regs.ParameterTypes.Resolve(decl.Type, decl.Annotations)
	if !ok {
		return nil, lamperr.MalformedPath("", "no ParameterType resolved for parameter "+decl.Name)
	}
	var suggest lamptypes.SuggestionProvider
	if a, ok := decl.Annotations.Get("suggest-with"); ok {
		suggest = a.(lamptypes.SuggestWithAnnotation).Provider
	} else if sp, ok := regs.Suggestions.Resolve(decl.Type, decl.Annotations); ok {
		suggest = sp
	} else {
		suggest = parser.DefaultSuggestions()
	}
	return &tree.ParamBinding{Descriptor: declToDescriptor(decl), Parser: parser, Suggest: suggest}, nil
}

func resolveCooldown(methodAnns lamptypes.AnnotationList) *tree.CooldownSpec {
	a, ok := methodAnns.Get("cooldown")
	if !ok {
		return nil
	}
	cd, ok := a.(lamptypes.CooldownAnnotation)
	if !ok {
		return nil
	}
	return &tree.CooldownSpec{Duration: cd.Duration, Bound: true}
}

func declToDescriptor(decl ParameterDecl) lamptypes.ParameterDescriptor {
	return lamptypes.ParameterDescriptor{
		Name:        decl.Name,
		Type:        decl.Type,
		Annotations: decl.Annotations,
		Default:     decl.Default,
		Optional:    decl.Optional,
	}
}
