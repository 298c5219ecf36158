// Package repl runs an interactive session against a persistent global
// environment. There is no source file behind the session, so the comment
// store starts empty and nothing is ever written back.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"zac/internal/comment"
	"zac/internal/evaluator"
	"zac/internal/lexer"
	"zac/internal/object"
	"zac/internal/parser"
	"zac/internal/util"
)

const prompt = ">> "

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func Start(cfg util.Configuration) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := cfg.ReplHistory
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Printf("Zac %s. Ctrl+D exits, :quit exits, #help for help.\n", cfg.Version)

	e := evaluator.New(comment.NewStore(), os.Stdout)
	env := object.NewEnvironment()

	for {
		line, err := ln.Prompt(promptStyle.Render(prompt))
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.TrimSpace(line) == ":quit" {
			return nil
		}
		ln.AppendHistory(line)

		lx := lexer.New(line)
		p := parser.New(lx, line)
		program := p.ParseProgram()

		if diags := lx.Errors(); len(diags) > 0 {
			fmt.Println(errorStyle.Render(diags[0].String()))
			continue
		}
		if errs := p.Errors(); len(errs) > 0 {
			for _, msg := range errs {
				fmt.Println(errorStyle.Render(msg))
			}
			continue
		}

		result := e.Eval(program, env)
		if result == nil {
			continue
		}
		if result.Type() == object.ERROR_OBJ {
			fmt.Println(errorStyle.Render(result.Inspect()))
			continue
		}
		fmt.Println(resultStyle.Render(result.Inspect()))
	}
}
