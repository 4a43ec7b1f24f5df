package executor

import (
	"regexp"
	"strings"
)

// Risk rates what a suggested command line may do to the system. It is
// shown next to a suggestion and never replaces the confirmation prompt.
type Risk int

const (
	// ReadOnly commands only inspect state
	ReadOnly Risk = iota
	// Modifies commands may change files or processes
	Modifies
	// Dangerous commands can destroy data or escalate privileges
	Dangerous
)

// readOnlyCommands are programs that only read state
var readOnlyCommands = map[string]bool{
	"ls": true, "cat": true, "pwd": true, "echo": true, "help": true,
	"head": true, "tail": true, "grep": true, "find": true, "which": true,
	"whoami": true, "date": true, "wc": true, "sort": true, "uniq": true,
	"diff": true, "env": true, "printenv": true, "df": true, "du": true,
	"ps": true, "tree": true, "file": true, "stat": true, "uname": true,
	"basename": true, "dirname": true, "realpath": true, "hostname": true,
	"dir": true, "type": true, "where": true,
}

// readOnlyPatterns match read-only subcommands of common tools
var readOnlyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git\s+(status|log|diff|branch|show|remote)\b`),
	regexp.MustCompile(`^go\s+(list|version|env)\b`),
	regexp.MustCompile(`^docker\s+(ps|images|inspect|logs)\b`),
	regexp.MustCompile(`^kubectl\s+(get|describe|logs)\b`),
	regexp.MustCompile(`^(npm|pip)\s+(list|show|view)\b`),
}

// dangerousPatterns flag commands that deserve a second look
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`rm\s+(-[rRf]+\s+)*/(\s|$)`),    // rm of the filesystem root
	regexp.MustCompile(`rm\s+-[rRf]*[rR][rRf]*\s+[~$]`), // recursive rm of home or a variable
	regexp.MustCompile(`\bsudo\b`),
	regexp.MustCompile(`\bsu\b`),
	regexp.MustCompile(`\bdd\s+if=`),
	regexp.MustCompile(`\bmkfs`),
	regexp.MustCompile(`:\(\)\s*\{`),                     // fork bomb
	regexp.MustCompile(`(curl|wget).*\|\s*(sh|bash|zsh)`), // pipe download to shell
	regexp.MustCompile(`>\s*/dev/sd`),
	regexp.MustCompile(`>\s*/etc/`),
	regexp.MustCompile(`chmod\s+(-R\s+)?777`),
	regexp.MustCompile(`\bformat\s+[a-zA-Z]:`),
	regexp.MustCompile(`\b(del|rd|rmdir)\s+/[sSqQ]`),
}

// chainPattern matches pipes, sequencing and background operators
var chainPattern = regexp.MustCompile(`[;&|]`)

// Classify rates a command line
func Classify(command string) Risk {
	command = strings.TrimSpace(command)

	fields := strings.Fields(command)
	if len(fields) == 0 {
		return Dangerous
	}

	for _, p := range dangerousPatterns {
		if p.MatchString(command) {
			return Dangerous
		}
	}

	// A chain may hide a modifying command behind a read-only one
	if chainPattern.MatchString(command) {
		return Modifies
	}

	// echo with redirection writes a file
	if strings.Contains(command, ">") {
		return Modifies
	}

	if readOnlyCommands[fields[0]] {
		return ReadOnly
	}
	for _, p := range readOnlyPatterns {
		if p.MatchString(command) {
			return ReadOnly
		}
	}

	return Modifies
}

// Note returns the text shown next to a suggestion
func (r Risk) Note() string {
	switch r {
	case ReadOnly:
		return "read-only"
	case Modifies:
		return "may modify files or system state"
	case Dangerous:
		return "potentially dangerous, review carefully"
	default:
		return "unknown risk"
	}
}
