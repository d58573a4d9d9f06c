package cli

import (
	"fmt"
	"strings"
)

func newShowCommand(env Env) *Command {
	cmd := &Command{
		Name:        "show",
		Description: "Print resolved settings and where each value came from",
		Flags:       newFlagSet("show", env.Stderr),
	}

	var (
		common commonFlags
		format string
	)
	common.register(cmd.Flags)
	cmd.Flags.StringVar(&format, "format", "text", "Output format (text, json, yaml)")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}

		render, err := renderer(format)
		if err != nil {
			return err
		}

		logger := observabilityLogger(env, common.logLevel)
		settings, err := env.loadSettings(common, logger)
		if err != nil {
			return err
		}

		out, err := render(settings)
		if err != nil {
			return err
		}
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		_, err = fmt.Fprint(env.Stdout, out)
		return err
	}

	return cmd
}
