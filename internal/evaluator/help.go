package evaluator

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// HelpBlockName is a virtual comment block: reading #help in a file that
// does not define one yields generated documentation. A file may define its
// own #help block, which shadows this and is writable like any block.
const HelpBlockName = "help"

const welcomeText = `Help for the Zac programming language

Define a comment block with a marker line (like // #grid) and it becomes a
first-class string inside your program. You can read from it, and if you
write to it, the change is written back into the source file.`

const helpChunkSize = 6

func (e *Evaluator) helpText() string {
	names := make([]string, 0, len(e.builtins))
	for name := range e.builtins {
		names = append(names, name)
	}
	sort.Strings(names)

	var txt strings.Builder
	txt.WriteString(welcomeText)
	txt.WriteString("\n\nBuiltin functions:\n")
	txt.WriteString(tableize(names))
	if blocks := e.store.Names(); len(blocks) > 0 {
		txt.WriteString("\nComment blocks in this file:\n")
		txt.WriteString(tableize(blocks))
	}
	return strings.TrimRight(txt.String(), "\n ")
}

func tableize(names []string) string {
	var rows [][]string
	for i := 0; i < len(names); i += helpChunkSize {
		end := i + helpChunkSize
		if end > len(names) {
			end = len(names)
		}
		rows = append(rows, names[i:end])
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...)
	return t.String()
}
