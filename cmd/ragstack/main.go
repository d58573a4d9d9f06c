package main

import (
	"context"
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/platinummonkey/ragstack/pkg/cli"
)

func main() {
	root := cli.NewRootCommand(cli.Env{Context: context.Background()})
	if err := root.Execute(os.Args[1:]); err != nil {
		if !errors.Is(err, cli.ErrChecksFailed) {
			logrus.Error(err)
		}
		os.Exit(1)
	}
}
