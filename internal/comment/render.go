package comment

import (
	"fmt"
	"strings"
)

// RowOpen and RowClose delimit a row's characters on its comment line.
// They are decoration, never part of the row content.
const (
	RowOpen  = '`'
	RowClose = '|'
)

// Policy decides what happens when a block's flat value does not divide
// evenly into rows of the original width.
type Policy int

const (
	// PolicyPad fills the final short row with spaces, preserving the
	// block's fixed width. This is the default.
	PolicyPad Policy = iota
	// PolicyTruncate drops the trailing partial row.
	PolicyTruncate
	// PolicyFault rejects the render with an error.
	PolicyFault
)

func (p Policy) String() string {
	switch p {
	case PolicyPad:
		return "pad"
	case PolicyTruncate:
		return "truncate"
	case PolicyFault:
		return "fault"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func PolicyFromString(s string) (Policy, error) {
	switch s {
	case "", "pad":
		return PolicyPad, nil
	case "truncate":
		return PolicyTruncate, nil
	case "fault":
		return PolicyFault, nil
	}
	return PolicyPad, fmt.Errorf("unknown writeback policy %q", s)
}

// Render produces the new source text: every byte outside a dirty block's
// recorded span is copied through unchanged, and each dirty block's span is
// replaced with its re-encoded current value. Blocks are visited in
// ascending start offset so the scan never moves backwards.
func Render(original string, store *Store, policy Policy) (string, error) {
	var out strings.Builder
	cursor := 0
	for _, b := range store.Blocks() {
		if !b.Dirty() {
			continue
		}
		if b.Start < cursor || b.End < b.Start || b.End > len(original) {
			return "", fmt.Errorf("comment block #%s has an invalid span [%d, %d)", b.Name, b.Start, b.End)
		}
		encoded, err := b.encode(policy)
		if err != nil {
			return "", err
		}
		out.WriteString(original[cursor:b.Start])
		if b.Start == b.End && encoded != "" {
			// A blockless marker grows rows on its own line. When the
			// marker ends the file without a newline, one is needed first
			// or the rows would glue onto the marker line and the block
			// would not survive a reload.
			if b.Start > 0 && original[b.Start-1] != '\n' {
				out.WriteString(b.eol())
			}
			out.WriteString(encoded)
			out.WriteString(b.eol())
		} else {
			out.WriteString(encoded)
		}
		cursor = b.End
	}
	out.WriteString(original[cursor:])
	return out.String(), nil
}

func (b *Block) eol() string {
	if b.EOL == "" {
		return "\n"
	}
	return b.EOL
}

// encode folds the flat value back into row lines using the width captured
// at extraction time. The flat value alone cannot recover row boundaries,
// which is why Width is remembered rather than re-derived.
func (b *Block) encode(policy Policy) (string, error) {
	value := []rune(b.value)
	width := b.Width
	if width == 0 {
		// A blockless marker gained a value: render it as a single row.
		if len(value) == 0 {
			return "", nil
		}
		width = len(value)
	}
	if rem := len(value) % width; rem != 0 {
		switch policy {
		case PolicyPad:
			pad := width - rem
			value = append(value, []rune(strings.Repeat(" ", pad))...)
		case PolicyTruncate:
			value = value[:len(value)-rem]
		case PolicyFault:
			return "", fmt.Errorf("comment block #%s: value length %d is not a multiple of row width %d",
				b.Name, len(value), width)
		}
	}
	var out strings.Builder
	for i := 0; i < len(value); i += width {
		if i > 0 {
			out.WriteString(b.eol())
		}
		out.WriteString(b.Lead)
		out.WriteRune(RowOpen)
		out.WriteString(string(value[i : i+width]))
		out.WriteRune(RowClose)
	}
	return out.String(), nil
}
