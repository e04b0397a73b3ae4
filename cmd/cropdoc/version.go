package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/agrisense/cropdoc/internal/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(context.Context, *cli.Command) error {
			fmt.Println("cropdoc " + version.String())
			return nil
		},
	}
}
