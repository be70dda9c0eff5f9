package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/laurentbartholdi/ReleaseTools/pkg/cli/config"
)

func cmdSite() *cli.Command {
	var releaseCfg config.Release

	return &cli.Command{
		Name:  "site",
		Usage: "Update the package website from an existing export",
		Flags: releaseCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, ctx, err := buildPipeline(ctx, &releaseCfg)
			if err != nil {
				return err
			}
			return uc.UpdateSite(ctx)
		},
	}
}
