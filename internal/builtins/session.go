package builtins

import (
	"fmt"

	"github.com/quocvuong92/ai-terminal/internal/constants"
)

type clearCommand struct{}

func (clearCommand) Name() string { return "clear" }

func (clearCommand) Run(env *Env, _ []string) Result {
	fmt.Fprint(env.Out, constants.ClearScreen)
	return succeed("")
}

type exitCommand struct{}

func (exitCommand) Name() string { return "exit" }

func (exitCommand) Run(_ *Env, _ []string) Result {
	return Result{Output: constants.Farewell, Exit: true}
}

const helpText = `Available commands:
  ls, cd, pwd, mkdir, cat, echo, rm, mv, touch, clear, exit, help
AI Integration:
  Type any natural language sentence to get a command suggestion.
  Example: create a directory called my_project`

type helpCommand struct{}

func (helpCommand) Name() string { return "help" }

func (helpCommand) Run(_ *Env, _ []string) Result {
	return succeed(helpText)
}
