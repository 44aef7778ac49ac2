package namespace

import (
	"testing"

	"github.com/plang-lang/plang/internal/types"
)

func TestDefault_RegistersFilterFunctionFirst(t *testing.T) {
	d, ok := Default().Lookup("filter")
	if !ok {
		t.Fatal("expected \"filter\" to be registered by default")
	}
	if len(d.Params) != 2 || d.Params[0].Name != "func" || d.Params[1].Name != "list" {
		t.Fatalf("expected filter(func, list), got params %#v", d.Params)
	}
}

func TestRegister_RejectsLookupOfUnknownName(t *testing.T) {
	if _, ok := Default().Lookup("does_not_exist"); ok {
		t.Error("expected lookup of an unregistered name to fail")
	}
}

func TestAddSearchPath_PreservesOrder(t *testing.T) {
	r := Default()
	r.AddSearchPath("a")
	r.AddSearchPath("b")
	got := r.SearchPaths()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("SearchPaths() = %v, want [a b]", got)
	}
}

func TestClone_CopiesSearchPathsAndDescriptors(t *testing.T) {
	r := Default()
	r.AddSearchPath("./modules")
	r.Register(&Descriptor{Name: "custom", Returns: types.Null})

	c := r.Clone()
	if _, ok := c.Lookup("custom"); !ok {
		t.Error("expected Clone() to carry over a custom descriptor")
	}
	paths := c.SearchPaths()
	if len(paths) != 1 || paths[0] != "./modules" {
		t.Fatalf("Clone() search paths = %v, want [./modules]", paths)
	}

	c.AddSearchPath("./other")
	if len(r.SearchPaths()) != 1 {
		t.Error("mutating the clone's search paths must not affect the original registry")
	}
}
