package shell

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
)

// Completer completes command names, file names for load, and the states of
// the current machine for break and unbreak.
func (s *Shell) Completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("info", readline.PcItem("--tree")),
		readline.PcItem("load", readline.PcItemDynamic(listFiles)),
		readline.PcItem("reload"),
		readline.PcItem("step"),
		readline.PcItem("run"),
		readline.PcItem("break", readline.PcItemDynamic(s.completeStates)),
		readline.PcItem("unbreak", readline.PcItemDynamic(s.completeBreakStates)),
		readline.PcItem("verbose", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("log"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
		readline.PcItem("help"),
	)
}

func (s *Shell) completeStates(string) []string {
	return s.Machine().AllStates()
}

func (s *Shell) completeBreakStates(string) []string {
	return s.Machine().BreakStates()
}

// listFiles lists the entries of the directory part of the last word of
// line, with a trailing slash for directories.
func listFiles(line string) []string {
	word := ""
	if fields := strings.Fields(line); len(fields) > 1 && !strings.HasSuffix(line, " ") {
		word = fields[len(fields)-1]
	}

	dir := filepath.Dir(word)
	if !strings.ContainsRune(word, filepath.Separator) {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if dir != "." {
			name = filepath.Join(dir, name)
		}
		if e.IsDir() {
			name += string(filepath.Separator)
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
