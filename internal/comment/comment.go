package comment

import (
	"fmt"
	"sort"
	"strings"
)

// Block is one named comment block: the flat string value the program sees
// plus the metadata needed to rewrite the block into its original location.
// The byte span [Start, End) covers the row lines only, never the marker
// line, so renaming a block is not something a program can do.
type Block struct {
	Name  string
	Width int    // fixed row width in runes, taken from the first row
	Lead  string // row line text before the opening backtick, e.g. "// "
	EOL   string // terminator between re-encoded row lines; "\n" when empty
	Start int    // byte offset just past the marker line's newline
	End   int    // byte offset at the end of the last row line, excluding any \r

	loaded string
	value  string
}

// NewBlock builds a block from its decoded rows. All rows must share the
// width of the first row.
func NewBlock(name, lead string, rows []string, start, end int) (*Block, error) {
	width := 0
	if len(rows) > 0 {
		width = len([]rune(rows[0]))
	}
	for i, row := range rows {
		if len([]rune(row)) != width {
			return nil, fmt.Errorf("malformed row %d in comment block #%s: width %d, expected %d",
				i+1, name, len([]rune(row)), width)
		}
	}
	flat := strings.Join(rows, "")
	return &Block{
		Name:   name,
		Width:  width,
		Lead:   lead,
		Start:  start,
		End:    end,
		loaded: flat,
		value:  flat,
	}, nil
}

// Value returns the block's current flat string.
func (b *Block) Value() string { return b.value }

// Loaded returns the flat string as it was read from the source file.
func (b *Block) Loaded() string { return b.loaded }

// Set replaces the block's current value. The on-disk text is untouched
// until Render runs.
func (b *Block) Set(v string) { b.value = v }

// Dirty reports whether the value has diverged from the loaded text.
func (b *Block) Dirty() bool { return b.value != b.loaded }

// Store holds every named block extracted from one source file, keyed by
// name. Names are unique per file.
type Store struct {
	blocks map[string]*Block
	order  []*Block
}

func NewStore() *Store {
	return &Store{blocks: make(map[string]*Block)}
}

func (s *Store) Add(b *Block) error {
	if _, ok := s.blocks[b.Name]; ok {
		return fmt.Errorf("duplicate comment block #%s", b.Name)
	}
	s.blocks[b.Name] = b
	s.order = append(s.order, b)
	return nil
}

func (s *Store) Get(name string) (*Block, bool) {
	b, ok := s.blocks[name]
	return b, ok
}

// Value returns the current flat string of the named block.
func (s *Store) Value(name string) (string, bool) {
	b, ok := s.blocks[name]
	if !ok {
		return "", false
	}
	return b.value, true
}

// SetValue rebinds the named block's current value.
func (s *Store) SetValue(name, v string) error {
	b, ok := s.blocks[name]
	if !ok {
		return fmt.Errorf("undefined comment block #%s", name)
	}
	b.Set(v)
	return nil
}

func (s *Store) Len() int { return len(s.order) }

// Blocks returns every block in ascending original start offset.
func (s *Store) Blocks() []*Block {
	out := make([]*Block, len(s.order))
	copy(out, s.order)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Names returns the block names in file order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.order))
	for _, b := range s.Blocks() {
		names = append(names, b.Name)
	}
	return names
}
