// internal/prompt/prompt.go
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks the user a yes/no question with a default answer
type Prompter interface {
	Confirm(question string, defaultYes bool) bool
}

// ConsolePrompter reads answers from an interactive terminal. Any failure of
// the prompt mechanism itself falls back to the default answer.
type ConsolePrompter struct {
	in  io.Reader
	out io.Writer
}

// NewConsolePrompter creates a prompter on stdin/stdout
func NewConsolePrompter() *ConsolePrompter {

	return &ConsolePrompter{in: os.Stdin, out: os.Stdout}
}

// Confirm asks the question and interprets the answer. An empty or
// unrecognized answer selects the default.
func (p *ConsolePrompter) Confirm(question string, defaultYes bool) bool {
	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	fmt.Fprintf(p.out, "%s %s: ", question, hint)

	reader := bufio.NewReader(p.in)
	line, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintln(p.out)

		return defaultYes
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":

		return true
	case "n", "no":

		return false
	default:

		return defaultYes
	}
}
