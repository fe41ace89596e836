package session

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// CommandInfo holds metadata about an interpreter command.
type CommandInfo struct {
	Name        string   // primary verb
	Aliases     []string // alternative verbs
	Usage       string   // shown on missing arguments and in help
	Summary     string   // one line for the command list
	Description []string // lines for "help <verb>"
}

// CommandRegistry lists every command in help order.
var CommandRegistry = []CommandInfo{
	{
		Name:        "ls",
		Aliases:     []string{"dir", "ll"},
		Usage:       "ls",
		Summary:     "list files in the current directory",
		Description: []string{"Lists every file in the current directory. Tab selects a name, ctrl+y copies it."},
	},
	{
		Name:    "cd",
		Usage:   "cd [directory]",
		Summary: "change directory (cd .. goes up one level)",
		Description: []string{
			"Enters the named directory.",
			"      Use \"..\" to go up one level.",
			"      Use \"/\" to return to the root.",
		},
	},
	{
		Name:        "open",
		Aliases:     []string{"cat", "read", "view"},
		Usage:       "open [file]",
		Summary:     "open a file (extension optional)",
		Description: []string{"Reads a file. The extension can be left out."},
	},
	{
		Name:        "search",
		Aliases:     []string{"find", "grep"},
		Usage:       "search [keyword]",
		Summary:     "search the whole database",
		Description: []string{"Searches file names and readable content across the whole database."},
	},
	{
		Name:        "decrypt",
		Aliases:     []string{"unlock"},
		Usage:       "decrypt [file] [password]",
		Summary:     "decrypt a file",
		Description: []string{"Unlocks an encrypted file with its password."},
	},
	{
		Name:        "ask",
		Aliases:     []string{"ai"},
		Usage:       "ask [question]",
		Summary:     "ask the analysis assistant",
		Description: []string{"Asks the analysis assistant about every clue the database currently shows."},
	},
	{
		Name:        "clear",
		Usage:       "clear",
		Summary:     "clear the screen",
		Description: []string{"Clears the screen."},
	},
	{
		Name:        "help",
		Usage:       "help [command]",
		Summary:     "show help for a command",
		Description: []string{"Shows the command list, or details for one command."},
	},
}

// lookupCommand finds a registry entry by verb or alias, case-insensitively.
func lookupCommand(verb string) (CommandInfo, bool) {
	verb = strings.ToLower(verb)
	for _, info := range CommandRegistry {
		if info.Name == verb {
			return info, true
		}
		for _, a := range info.Aliases {
			if a == verb {
				return info, true
			}
		}
	}
	return CommandInfo{}, false
}

// allVerbs returns every name and alias in registry order.
func allVerbs() []string {
	var verbs []string
	for _, info := range CommandRegistry {
		verbs = append(verbs, info.Name)
		verbs = append(verbs, info.Aliases...)
	}
	return verbs
}

// suggestVerb returns the best fuzzy match for an unknown verb, if any.
func suggestVerb(verb string) (string, bool) {
	matches := fuzzy.Find(strings.ToLower(verb), allVerbs())
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Str, true
}

func usage(verb string) *CommandError {
	info, _ := lookupCommand(verb)
	return fail(ErrPrecondition, "Usage: %s", info.Usage)
}

func helpEntries(topic string) ([]Entry, *CommandError) {
	if topic == "" {
		out := []Entry{{Kind: KindSystem, Content: "Available commands:"}}
		for _, info := range CommandRegistry {
			out = append(out, Entry{Kind: KindInfo, Content: fmt.Sprintf("  %-26s: %s", info.Usage, info.Summary)})
		}
		return out, nil
	}
	info, ok := lookupCommand(topic)
	if !ok {
		err := fail(ErrNotFound, "No help found for %q.", topic)
		if s, ok := suggestVerb(topic); ok {
			err.withHint("Did you mean '%s'?", s)
		}
		return nil, err
	}
	out := []Entry{{Kind: KindSystem, Content: "Command: " + info.Usage}}
	for i, line := range info.Description {
		if i == 0 {
			line = "Description: " + line
		}
		out = append(out, Entry{Kind: KindInfo, Content: line})
	}
	return out, nil
}
