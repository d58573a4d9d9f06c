package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
)

// Version is reported by the health server; overridden at build time
var Version = "dev"

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet

	out io.Writer
}

// Env is what a command runs against. Zero fields fall back to the process.
type Env struct {
	Context context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	// Environ replaces os.Environ when non-nil
	Environ []string
}

func (e Env) withDefaults() Env {
	if e.Context == nil {
		e.Context = context.Background()
	}
	if e.Stdout == nil {
		e.Stdout = os.Stdout
	}
	if e.Stderr == nil {
		e.Stderr = os.Stderr
	}
	return e
}

// NewRootCommand creates the root command
func NewRootCommand(env Env) *Command {
	env = env.withDefaults()

	root := &Command{
		Name:        "ragstack",
		Description: "ragstack - settings and dependency checks for the RAG backend",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("ragstack", flag.ContinueOnError),
		out:         env.Stdout,
	}

	root.Subcommands["show"] = newShowCommand(env)
	root.Subcommands["check"] = newCheckCommand(env)
	root.Subcommands["serve"] = newServeCommand(env)

	return root
}

// Execute runs the subcommand named by args[0]
func (c *Command) Execute(args []string) error {
	if len(args) == 0 {
		return c.usage()
	}

	if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		return c.usage()
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		err := subcmd.Run(args[1:])
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	names := make([]string, 0, len(c.Subcommands))
	for name := range c.Subcommands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(c.out, "Usage: %s <command> [args]\n\n", c.Name)
	fmt.Fprintf(c.out, "Commands:\n")
	for _, name := range names {
		fmt.Fprintf(c.out, "  %-15s %s\n", name, c.Subcommands[name].Description)
	}
	return nil
}
