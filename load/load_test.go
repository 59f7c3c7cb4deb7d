package load

import (
	"strings"
	"testing"

	"github.com/dyon-lang/dyon/runtime"
	"github.com/dyon-lang/dyon/syntax"
	"github.com/dyon-lang/dyon/value"
)

func TestLoadStrParseFailurePointsAtByteZero(t *testing.T) {
	m := runtime.NewModule()
	err := LoadStr("s", "xx", m)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.HasPrefix(err.Error(), "In `s:`") {
		t.Fatalf("expected error to begin with \"In `s:`\", got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "1:1") {
		t.Fatalf("expected diagnostic to point at the first byte (line 1:1), got %q", err.Error())
	}
}

func TestLoadStrAndRun(t *testing.T) {
	m := runtime.NewModule()
	src := "fn double(x) { return x * 2 }"
	if err := LoadStr("double.dyon", src, m); err != nil {
		t.Fatalf("load: %v", err)
	}
	rt := runtime.NewRuntime()
	v, err := rt.CallStrRet("double", []value.Value{value.F(21)}, m)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if f := v.(value.F64); f.V != 42 {
		t.Fatalf("expected 42, got %v", f.V)
	}
}

// TestLoadMetaReportsConversionErrorInComposite hand-builds a metadata
// tree containing a node shape the grammar itself could never produce, to
// exercise Convert's hard-error path (as opposed to merely skipping
// unrecognized top-level syntax) and confirm the loader still surfaces it
// through the composite ignored-metadata diagnostic, marked distinctly.
func TestLoadMetaReportsConversionErrorInComposite(t *testing.T) {
	root := &syntax.Node{Tag: syntax.TagRoot, Children: []*syntax.Node{
		{Tag: syntax.TagFn, Text: "broken", Children: []*syntax.Node{
			{Tag: syntax.TagBlock, Children: []*syntax.Node{
				{Tag: "bogus", Range: syntax.Range{Offset: 3, Length: 2}},
			}},
		}},
	}}
	src := "fn broken() { ?? }"
	m := runtime.NewModule()
	err := LoadMeta("broken.dyon", src, root, m)
	if err == nil {
		t.Fatal("expected a conversion error")
	}
	if !strings.Contains(err.Error(), "Conversion error:") {
		t.Fatalf("expected a Conversion error marker, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "START IGNORED") || !strings.Contains(err.Error(), "END IGNORED") {
		t.Fatalf("expected the composite ignored-metadata envelope, got %q", err.Error())
	}
}

func TestLoadStrFailsOnExtern(t *testing.T) {
	m := runtime.NewModule()
	src := "extern unused()\nfn f() { return 1 }"
	err := LoadStr("withextern.dyon", src, m)
	if err == nil {
		t.Fatal("expected an ignored-metadata error")
	}
	if !strings.Contains(err.Error(), "START IGNORED") || !strings.Contains(err.Error(), "END IGNORED") {
		t.Fatalf("expected composite ignored-metadata diagnostic, got %q", err.Error())
	}
}
