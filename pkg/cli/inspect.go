package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/laurentbartholdi/ReleaseTools/pkg/cli/config"
)

func cmdInspect() *cli.Command {
	var releaseCfg config.Release

	return &cli.Command{
		Name:  "inspect",
		Usage: "Extract and print the package metadata without releasing anything",
		Flags: releaseCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, ctx, err := buildPipeline(ctx, &releaseCfg)
			if err != nil {
				return err
			}

			info, err := uc.Inspect(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("package:    %s\n", info.Name)
			fmt.Printf("version:    %s\n", info.Version)
			fmt.Printf("formats:    %s\n", strings.Join(info.Formats, " "))
			fmt.Printf("repository: %s\n", info.Repository)
			fmt.Printf("tag:        %s\n", info.Tag)
			fmt.Printf("basename:   %s\n", info.Basename)
			return nil
		},
	}
}
