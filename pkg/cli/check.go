package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/platinummonkey/ragstack/pkg/health"
	"github.com/platinummonkey/ragstack/pkg/probe"
)

// ErrChecksFailed is returned by check when at least one probe failed
var ErrChecksFailed = errors.New("dependency checks failed")

func newCheckCommand(env Env) *Command {
	cmd := &Command{
		Name:        "check",
		Description: "Probe every configured dependency once",
		Flags:       newFlagSet("check", env.Stderr),
	}

	var (
		common  commonFlags
		probes  probeFlags
		timeout time.Duration
		only    string
	)
	common.register(cmd.Flags)
	probes.register(cmd.Flags)
	cmd.Flags.DurationVar(&timeout, "timeout", health.DefaultTimeout, "Timeout for each probe")
	cmd.Flags.StringVar(&only, "only", "", "Comma-separated probe names to run (default all)")

	cmd.Run = func(args []string) error {
		if err := cmd.Flags.Parse(args); err != nil {
			return err
		}

		log := setupLogger(env.Stderr, common.logLevel)
		logger := observabilityLogger(env, common.logLevel)

		settings, err := env.loadSettings(common, logger)
		if err != nil {
			return err
		}
		if ef := settings.EnvFile(); ef.Loaded {
			log.Debugf("Read environment file %s", ef.Path)
		}

		all := probe.FromSettings(env.Context, settings, probes.options()...)
		defer func() {
			if err := probe.CloseAll(all); err != nil {
				log.Warnf("Failed to close probes: %v", err)
			}
		}()

		names := splitList(only)
		selected := probe.Select(all, names...)
		if len(selected) != len(names) && len(names) > 0 {
			return fmt.Errorf("unknown probe in -only %q (known: %s)", only, strings.Join(probeNames(all), ", "))
		}

		log.Infof("Checking %d dependencies with a %v timeout", len(selected), timeout)
		status := health.NewChecker(selected,
			health.WithTimeout(timeout),
			health.WithLogger(logger),
		).Check(env.Context)

		printStatus(env, status)

		if failed := status.Failed(); len(failed) > 0 {
			return fmt.Errorf("%w: %s", ErrChecksFailed, strings.Join(failed, ", "))
		}
		log.Info("All dependencies reachable")
		return nil
	}

	return cmd
}

func probeNames(probes []probe.Probe) []string {
	names := make([]string, len(probes))
	for i, p := range probes {
		names[i] = p.Name()
	}
	return names
}

func printStatus(env Env, status health.Status) {
	names := make([]string, 0, len(status.Dependencies))
	for name := range status.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(env.Stdout, "%-10s %-10s %-10s %s\n", "PROBE", "STATUS", "LATENCY", "MESSAGE")
	for _, name := range names {
		dep := status.Dependencies[name]
		fmt.Fprintf(env.Stdout, "%-10s %-10s %-10s %s\n",
			name, dep.Status, dep.Latency.Round(time.Millisecond), dep.Message)
	}
	fmt.Fprintf(env.Stdout, "\noverall: %s\n", status.Status)
}
