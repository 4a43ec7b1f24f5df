package main

import "github.com/quocvuong92/ai-terminal/cmd"

func main() {
	cmd.Execute()
}
