package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/cakeplanner/internal/client/guard"
)

// command is one REPL verb.
type command struct {
	name  string
	args  string
	help  string
	admin bool
	// access gates the command; nil means anyone may run it.
	access  func(guard.View) guard.Decision
	minArgs int
	run     func(ctx context.Context, args []string) error
}

func (c command) usage() string {
	if c.args == "" {
		return c.name
	}
	return c.name + " " + c.args
}

// execIface is what the REPL needs from the application. The real App
// satisfies it; tests provide a stub.
type execIface interface {
	guard.View
	commands() []command
	describe(err error) string
}

// runREPL reads one command per line from reader and dispatches it. Words
// after the command name are passed as arguments. The loop ends on EOF,
// "exit" or "quit", or when ctx is done.
//
// Commands the current session may not use are refused with the redirect
// their guard chose. Errors returned by commands are printed and the loop
// carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(out, "cake (%s)> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		case "help", "?":
			printHelp(a, out)
			continue
		}

		cmd, ok := lookup(a.commands(), name)
		if !ok {
			fmt.Fprintln(out, "Unknown command:", name)
			continue
		}

		if cmd.access != nil {
			switch cmd.access(a) {
			case guard.RedirectLogin:
				if !a.IsAuthenticated() {
					fmt.Fprintln(out, "Please log in first (use 'login').")
					continue
				}
				fmt.Fprintf(out, "You are not allowed to use '%s'.\n", cmd.name)
				continue
			case guard.RedirectHome:
				fmt.Fprintf(out, "You are not allowed to use '%s'.\n", cmd.name)
				continue
			}
		}

		if len(args) < cmd.minArgs {
			fmt.Fprintln(out, "Usage:", cmd.usage())
			continue
		}

		if err := cmd.run(ctx, args); err != nil {
			fmt.Fprintln(out, "Error:", a.describe(err))
		}
	}
}

func lookup(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// printHelp lists the commands the current session can run.
func printHelp(a execIface, out io.Writer) {
	var user, admin []command
	for _, c := range a.commands() {
		if c.access != nil && c.access(a) != guard.Allow {
			continue
		}
		if c.admin {
			admin = append(admin, c)
		} else {
			user = append(user, c)
		}
	}

	fmt.Fprintln(out, "Available commands:")
	for _, c := range user {
		fmt.Fprintf(out, "  %-34s %s\n", c.usage(), c.help)
	}
	if len(admin) > 0 {
		fmt.Fprintln(out, "Administration:")
		for _, c := range admin {
			fmt.Fprintf(out, "  %-34s %s\n", c.usage(), c.help)
		}
	}
	fmt.Fprintf(out, "  %-34s %s\n", "exit", "leave the program")
}
