package agent

import (
	"slices"
	"strings"

	"github.com/chzyer/readline"
)

var outputTypeTokens = []string{"DICT", "TABLE", "LIST", "FORM", "REPORT", "MD", "MERMAID", "HTML", "ANY"}

// createCompleter builds tab completion for commands, spec names, aliases
// and output types. Spec names are looked up on every TAB, so reloads are
// picked up without rebuilding the completer.
func (r *REPL) createCompleter() *readline.PrefixCompleter {
	typeItems := func() []readline.PrefixCompleterInterface {
		items := make([]readline.PrefixCompleterInterface, len(outputTypeTokens))
		for i, t := range outputTypeTokens {
			items[i] = readline.PcItem(t)
		}
		return items
	}
	specsThenTypes := func() readline.PrefixCompleterInterface {
		return readline.PcItemDynamic(r.specNames, typeItems()...)
	}

	commandNames := r.commandRegistry.AllCompletions()
	commandCompleters := make([]readline.PrefixCompleterInterface, len(commandNames))
	for i, name := range commandNames {
		commandCompleters[i] = readline.PcItem(name)
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("help", commandCompleters...),
		readline.PcItem("?"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
		readline.PcItem("specs"),
		readline.PcItem("reload"),
		readline.PcItem("show", specsThenTypes()),
		readline.PcItem("describe", specsThenTypes()),
		readline.PcItem("resolve", specsThenTypes()),
		readline.PcItem("run", specsThenTypes()),
		readline.PcItem("report", specsThenTypes()),
		readline.PcItem("rotate", readline.PcItemDynamic(r.specNames)),
	)
}

// specNames returns spec names and aliases, quoting those with spaces.
func (r *REPL) specNames(string) []string {
	var names []string
	for _, fs := range r.workspace.Registry().List() {
		for _, name := range append([]string{fs.Name}, fs.Aliases...) {
			if strings.ContainsRune(name, ' ') {
				name = `"` + name + `"`
			}
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// filterInput blocks Ctrl+Z, which would suspend the process mid-prompt.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
