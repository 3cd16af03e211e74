package help

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lamp/internal/testsupport"
	"lamp/internal/tree"
	"lamp/pkg/lamptypes"
)

func mustPath(t *testing.T, raw string) lamptypes.CommandPath {
	t.Helper()
	p, err := lamptypes.ParsePath(raw)
	require.NoError(t, err)
	return p
}

func TestChildrenReturnsStrictDescendants(t *testing.T) {
	session := &tree.ExecutableCommand{Path: mustPath(t, "session")}
	sessionNew := &tree.ExecutableCommand{Path: mustPath(t, "session new")}
	sessionShow := &tree.ExecutableCommand{Path: mustPath(t, "session show")}
	other := &tree.ExecutableCommand{Path: mustPath(t, "model new")}
	all := []*tree.ExecutableCommand{session, sessionNew, sessionShow, other}

	got := Children(all, session)
	assert.ElementsMatch(t, []*tree.ExecutableCommand{sessionNew, sessionShow}, got)
}

func TestSiblingsSharesParentButDiffersInLastSegment(t *testing.T) {
	sessionNew := &tree.ExecutableCommand{Path: mustPath(t, "session new")}
	sessionShow := &tree.ExecutableCommand{Path: mustPath(t, "session show")}
	sessionNewDeep := &tree.ExecutableCommand{Path: mustPath(t, "session new deep")}
	all := []*tree.ExecutableCommand{sessionNew, sessionShow, sessionNewDeep}

	got := Siblings(all, sessionNew)
	assert.ElementsMatch(t, []*tree.ExecutableCommand{sessionShow}, got)
}

func TestRelatedIsUnionOfChildrenAndSiblings(t *testing.T) {
	session := &tree.ExecutableCommand{Path: mustPath(t, "session")}
	sibling := &tree.ExecutableCommand{Path: mustPath(t, "model")}
	child := &tree.ExecutableCommand{Path: mustPath(t, "session new")}
	all := []*tree.ExecutableCommand{session, sibling, child}

	got := Related(all, session)
	assert.ElementsMatch(t, []*tree.ExecutableCommand{child, sibling}, got)
}

func TestPageSlicesByOneIndexedPage(t *testing.T) {
	items := make([]*tree.ExecutableCommand, 5)
	for i := range items {
		items[i] = &tree.ExecutableCommand{ID: string(rune('a' + i))}
	}

	page1 := Page(items, 1, 2)
	require.Len(t, page1, 2)
	assert.Equal(t, "a", page1[0].ID)

	page3 := Page(items, 3, 2)
	require.Len(t, page3, 1)
	assert.Equal(t, "e", page3[0].ID)

	page4 := Page(items, 4, 2)
	assert.Empty(t, page4)
}

func TestSignatureRendersLiteralAndPlaceholderSegments(t *testing.T) {
	targetBinding := &tree.ParamBinding{Descriptor: lamptypes.ParameterDescriptor{Name: "target"}}
	c := &tree.ExecutableCommand{
		Effective: []tree.EffectiveSegment{
			{IsLiteral: true, Literal: "teleport"},
			{Binding: targetBinding},
		},
	}
	assert.Contains(t, Signature(c), "teleport")
	assert.Contains(t, Signature(c), "target")
}

func TestRenderPlainListsOneSignaturePerLine(t *testing.T) {
	a := &tree.ExecutableCommand{Effective: []tree.EffectiveSegment{{IsLiteral: true, Literal: "foo"}}}
	b := &tree.ExecutableCommand{Effective: []tree.EffectiveSegment{{IsLiteral: true, Literal: "bar"}}}
	out := RenderPlain([]*tree.ExecutableCommand{a, b})
	testsupport.AssertGolden(t, "foo\nbar\n", out)
}

func TestRenderStyledIncludesSignature(t *testing.T) {
	c := &tree.ExecutableCommand{Effective: []tree.EffectiveSegment{{IsLiteral: true, Literal: "foo"}}}
	out := RenderStyled([]*tree.ExecutableCommand{c})
	assert.Contains(t, out, "foo")
}

func TestRenderStyledIncludesDescription(t *testing.T) {
	c := &tree.ExecutableCommand{
		Path:        mustPath(t, "greet"),
		Effective:   []tree.EffectiveSegment{{IsLiteral: true, Literal: "greet"}},
		Annotations: lamptypes.NewAnnotationList(lamptypes.DescriptionAnnotation{Text: "say hello"}),
	}
	out := RenderStyled([]*tree.ExecutableCommand{c})
	assert.Contains(t, out, "greet")
	assert.Contains(t, out, "say hello")
}

func TestRenderYAMLIncludesPathSignatureAndDescription(t *testing.T) {
	c := &tree.ExecutableCommand{
		Path:        mustPath(t, "greet target"),
		Effective:   []tree.EffectiveSegment{{IsLiteral: true, Literal: "greet"}},
		Annotations: lamptypes.NewAnnotationList(lamptypes.DescriptionAnnotation{Text: "say hello"}),
		Aliases:     []string{"hi"},
	}
	out, err := RenderYAML([]*tree.ExecutableCommand{c})
	require.NoError(t, err)
	assert.Contains(t, out, "path: greet target")
	assert.Contains(t, out, "signature: greet")
	assert.Contains(t, out, "description: say hello")
	assert.Contains(t, out, "- hi")
}

func TestRenderYAMLOmitsEmptyOptionalFields(t *testing.T) {
	c := &tree.ExecutableCommand{
		Path:      mustPath(t, "foo"),
		Effective: []tree.EffectiveSegment{{IsLiteral: true, Literal: "foo"}},
	}
	out, err := RenderYAML([]*tree.ExecutableCommand{c})
	require.NoError(t, err)
	assert.NotContains(t, out, "description:")
	assert.NotContains(t, out, "aliases:")
}
