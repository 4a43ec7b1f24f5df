// Package cmd implements the command-line entry point for AI Terminal.
//
// # Architecture
//
//   - root.go: App struct, cobra root command, configuration and wiring
//   - interactive.go: go-prompt driver with completion, history and a live prompt
//   - plain.go: line reader for piped input and scripts
//
// Both drivers feed lines into a repl.Session, which owns dispatch between
// built-ins, the suggestion client and the shell executor. The driver is
// chosen by checking whether stdin and stdout are terminals.
//
// # Usage
//
//	// Main entry point
//	func main() {
//	    cmd.Execute()
//	}
package cmd
