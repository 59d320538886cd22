package symtab

import (
	"testing"

	"github.com/slanglang/slang/internal/types"
)

func TestDefineAndResolveInSameScope(t *testing.T) {
	tbl := New()
	ok := tbl.Define(&Symbol{Name: "x", Kind: KindVariable, TypeID: types.I32})
	if !ok {
		t.Fatalf("expected Define to succeed")
	}
	sym, ok := tbl.Resolve("x")
	if !ok || sym.TypeID != types.I32 {
		t.Fatalf("Resolve(x) = %+v, %v", sym, ok)
	}
}

func TestDuplicateDefineInSameScopeFails(t *testing.T) {
	tbl := New()
	tbl.Define(&Symbol{Name: "x", Kind: KindVariable, TypeID: types.I32})
	ok := tbl.Define(&Symbol{Name: "x", Kind: KindVariable, TypeID: types.F64})
	if ok {
		t.Fatalf("expected second Define of same name in same scope to fail")
	}
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	outer := New()
	outer.Define(&Symbol{Name: "x", Kind: KindVariable, TypeID: types.I32})

	inner := NewEnclosed(outer)
	ok := inner.Define(&Symbol{Name: "x", Kind: KindVariable, TypeID: types.String})
	if !ok {
		t.Fatalf("expected shadowing define in inner scope to succeed")
	}

	sym, _ := inner.Resolve("x")
	if sym.TypeID != types.String {
		t.Fatalf("expected inner scope's x to shadow outer, got TypeID %v", sym.TypeID)
	}

	outerSym, _ := outer.Resolve("x")
	if outerSym.TypeID != types.I32 {
		t.Fatalf("expected outer scope's x to be unaffected, got TypeID %v", outerSym.TypeID)
	}
}

func TestResolveSearchesOutward(t *testing.T) {
	outer := New()
	outer.Define(&Symbol{Name: "g", Kind: KindVariable, TypeID: types.Bool})
	inner := NewEnclosed(NewEnclosed(outer))

	sym, ok := inner.Resolve("g")
	if !ok || sym.TypeID != types.Bool {
		t.Fatalf("expected nested scope to resolve outer symbol, got %+v, %v", sym, ok)
	}
}

func TestResolveUndefinedFails(t *testing.T) {
	tbl := New()
	_, ok := tbl.Resolve("nope")
	if ok {
		t.Fatalf("expected Resolve of undefined name to fail")
	}
}

func TestResolveLocalDoesNotSearchOutward(t *testing.T) {
	outer := New()
	outer.Define(&Symbol{Name: "g", Kind: KindVariable, TypeID: types.Bool})
	inner := NewEnclosed(outer)

	_, ok := inner.ResolveLocal("g")
	if ok {
		t.Fatalf("expected ResolveLocal to not search outward")
	}
}
