package main

import "strings"

const commandPrefix = "."

type command struct {
	name string
	arg  string
}

// parseCommand splits ".name rest" into its name and trimmed argument.
func parseCommand(msg string) (command, bool) {
	msg = strings.TrimSpace(msg)
	if !strings.HasPrefix(msg, commandPrefix) {
		return command{}, false
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(msg, commandPrefix), " ")
	if name == "" {
		return command{}, false
	}
	return command{name: strings.ToLower(name), arg: strings.TrimSpace(arg)}, true
}
