package main

import (
	"fmt"
	"strings"

	"github.com/kittenwhisky/yoto-maker/internal/catalog"
	"github.com/kittenwhisky/yoto-maker/internal/model"
	"github.com/kittenwhisky/yoto-maker/internal/tui"
	"github.com/spf13/cobra"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "catalog <playlist-url>",
		Short: "Write a playlist's titles and URLs to a CSV catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}

			req := model.CatalogRequest{
				PlaylistURL: tui.CleanInput(args[0]),
				OutputPath:  tui.CleanInput(output),
			}
			if req.OutputPath == "" {
				req.OutputPath = settings.Catalog.DefaultOutput
			}
			if strings.TrimSpace(req.PlaylistURL) == "" {
				return fmt.Errorf("playlist URL is required")
			}

			out := cmd.OutOrStdout()
			builder := catalog.NewBuilder(ctx.provider(), logger, func(msg string) {
				fmt.Fprintln(out, msg)
			})
			_, err = builder.Build(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file to write (default from config, tracks.csv)")
	return cmd
}
