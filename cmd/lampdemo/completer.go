package main

import (
	"strings"

	"github.com/abiosoft/readline"

	"lamp"
	"lamp/pkg/lamptypes"
)

// shellCompleter implements readline.AutoCompleter by asking a Lamp's
// registered tree for completions of the word under the cursor. It is
// handed to ishell.NewWithConfig so pressing tab in the interactive
// shell resolves suggestions the same way Lamp.Suggest resolves them
// for any other actor.
type shellCompleter struct {
	lm *lamp.Lamp
}

func newShellCompleter(lm *lamp.Lamp) *shellCompleter {
	return &shellCompleter{lm: lm}
}

// completionActor is the identity used to resolve suggestions: it
// never receives a Reply or Error call, since Lamp.Suggest never
// executes a command, only inspects the tree.
type completionActor struct{}

func (completionActor) ID() string   { return "completion" }
func (completionActor) Reply(string) {}
func (completionActor) Error(string) {}

var _ lamptypes.Actor = completionActor{}

// Do implements readline.AutoCompleter. line and pos are runes of the
// full input and the cursor offset into it; it returns the suffixes
// that complete the word ending at pos, and how many runes of that
// word they replace.
func (c *shellCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	lineStr := string(line[:pos])

	wordStart := lastWordStart(lineStr)
	currentWord := lineStr[wordStart:]

	ctx := lamptypes.NewExecutionContext(completionActor{})
	completions := c.lm.Suggest(ctx, lineStr)

	var suggestions [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, currentWord) {
			suffix := strings.TrimPrefix(completion, currentWord)
			suggestions = append(suggestions, []rune(suffix))
		}
	}
	return suggestions, len([]rune(currentWord))
}

// lastWordStart finds where the word under the cursor begins, the
// same whitespace boundary Lamp's own tokenizer uses.
func lastWordStart(line string) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == ' ' {
			return i + 1
		}
	}
	return 0
}

var _ readline.AutoCompleter = (*shellCompleter)(nil)
