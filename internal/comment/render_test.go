package comment

import (
	"strings"
	"testing"
)

// buildSource assembles a file containing one named block and returns the
// full text plus the block parsed out of it the way the lexer would.
func buildSource(t *testing.T, name string, rows []string) (string, *Store) {
	t.Helper()

	var src strings.Builder
	src.WriteString("let x = 1\n")
	src.WriteString("// #" + name + "\n")
	start := src.Len()
	for i, row := range rows {
		if i > 0 {
			src.WriteString("\n")
		}
		src.WriteString("// `" + row + "|")
	}
	end := src.Len()
	src.WriteString("\nlet y = 2\n")

	block, err := NewBlock(name, "// ", rows, start, end)
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	store := NewStore()
	if err := store.Add(block); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return src.String(), store
}

func TestNewBlockRejectsUnevenRows(t *testing.T) {
	_, err := NewBlock("grid", "// ", []string{"abc", "de"}, 0, 0)
	if err == nil {
		t.Fatalf("expected a malformed row error, got nil")
	}
	if !strings.Contains(err.Error(), "malformed row 2") {
		t.Errorf("error wrong. got=%q", err.Error())
	}
}

func TestRenderUntouchedIsIdentical(t *testing.T) {
	src, store := buildSource(t, "grid", []string{"* .", ". *", "* ."})

	out, err := Render(src, store, PolicyPad)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if out != src {
		t.Errorf("untouched render differs.\ngot=%q\nwant=%q", out, src)
	}
}

func TestRenderReplacesOnlyTheSpan(t *testing.T) {
	src, store := buildSource(t, "grid", []string{"* .", ". *", "* ."})
	block, _ := store.Get("grid")
	block.Set("....*....")

	out, err := Render(src, store, PolicyPad)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := strings.Replace(src,
		"// `* .|\n// `. *|\n// `* .|",
		"// `...|\n// `.*.|\n// `...|", 1)
	if out != want {
		t.Errorf("render wrong.\ngot=%q\nwant=%q", out, want)
	}
	if !strings.HasPrefix(out, src[:block.Start]) {
		t.Errorf("bytes before the span changed")
	}
	if !strings.HasSuffix(out, src[block.End:]) {
		t.Errorf("bytes after the span changed")
	}
}

func TestRenderKeepsOtherBlocksVerbatim(t *testing.T) {
	src := "// #a\n// `xy|\nlet q = 1\n// #b\n// `zw|\n"
	aStart := strings.Index(src, "// `xy|")
	bStart := strings.Index(src, "// `zw|")

	a, _ := NewBlock("a", "// ", []string{"xy"}, aStart, aStart+len("// `xy|"))
	b, _ := NewBlock("b", "// ", []string{"zw"}, bStart, bStart+len("// `zw|"))
	store := NewStore()
	_ = store.Add(b) // out of file order on purpose
	_ = store.Add(a)

	a.Set("AB")
	out, err := Render(src, store, PolicyPad)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "// #a\n// `AB|\nlet q = 1\n// #b\n// `zw|\n"
	if out != want {
		t.Errorf("render wrong.\ngot=%q\nwant=%q", out, want)
	}
}

func TestRenderPadsShortFinalRow(t *testing.T) {
	src, store := buildSource(t, "grid", []string{"abc", "def"})
	block, _ := store.Get("grid")
	block.Set("abcd")

	out, err := Render(src, store, PolicyPad)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "// `abc|\n// `d  |") {
		t.Errorf("padded render wrong. got=%q", out)
	}
}

func TestRenderTruncatesPartialRow(t *testing.T) {
	src, store := buildSource(t, "grid", []string{"abc", "def"})
	block, _ := store.Get("grid")
	block.Set("abcd")

	out, err := Render(src, store, PolicyTruncate)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "// `abc|\nlet y") {
		t.Errorf("truncated render wrong. got=%q", out)
	}
}

func TestRenderFaultsOnPartialRow(t *testing.T) {
	_, store := buildSource(t, "grid", []string{"abc", "def"})
	block, _ := store.Get("grid")
	block.Set("abcd")

	if _, err := Render("irrelevant", store, PolicyFault); err == nil {
		t.Fatalf("expected a policy fault, got nil")
	}
}

func TestRenderWidthZeroBlock(t *testing.T) {
	src := "// #note\nlet x = 1\n"
	start := len("// #note\n")
	block, _ := NewBlock("note", "// ", nil, start, start)
	store := NewStore()
	_ = store.Add(block)

	block.Set("hello")
	out, err := Render(src, store, PolicyPad)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "// #note\n// `hello|\nlet x = 1\n"
	if out != want {
		t.Errorf("render wrong.\ngot=%q\nwant=%q", out, want)
	}
}

func TestRenderWidthZeroBlockAtEOF(t *testing.T) {
	src := "// #note"
	block, _ := NewBlock("note", "// ", nil, len(src), len(src))
	store := NewStore()
	_ = store.Add(block)

	block.Set("hi")
	out, err := Render(src, store, PolicyPad)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "// #note\n// `hi|\n"
	if out != want {
		t.Errorf("render wrong.\ngot=%q\nwant=%q", out, want)
	}
}

func TestEncodeUsesBlockTerminator(t *testing.T) {
	block, _ := NewBlock("a", "// ", []string{"ab"}, 0, 7)
	block.EOL = "\r\n"
	store := NewStore()
	_ = store.Add(block)

	block.Set("wxyz")
	out, err := Render("// `ab|", store, PolicyPad)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "// `wx|\r\n// `yz|"
	if out != want {
		t.Errorf("render wrong.\ngot=%q\nwant=%q", out, want)
	}
}

func TestStoreDuplicate(t *testing.T) {
	store := NewStore()
	a, _ := NewBlock("a", "// ", []string{"x"}, 0, 5)
	dup, _ := NewBlock("a", "// ", []string{"y"}, 10, 15)

	if err := store.Add(a); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := store.Add(dup); err == nil {
		t.Fatalf("expected a duplicate error, got nil")
	}
}

func TestPolicyFromString(t *testing.T) {
	tests := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{"", PolicyPad, false},
		{"pad", PolicyPad, false},
		{"truncate", PolicyTruncate, false},
		{"fault", PolicyFault, false},
		{"bogus", PolicyPad, true},
	}

	for _, tt := range tests {
		got, err := PolicyFromString(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("PolicyFromString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("PolicyFromString(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
