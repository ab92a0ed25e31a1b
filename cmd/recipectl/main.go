package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"recipe-suggester/internal/core/cache"
	"recipe-suggester/internal/core/recipe"
	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "recipectl",
		Usage: "suggest a recipe from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, common.InitLogger(cmd.String("log-level"), "")
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			common.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "suggest",
				Usage: "build a recipe for a description",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "description",
						Aliases:  []string{"d"},
						Usage:    "what to cook, e.g. \"quick garlic pasta\"",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "max-time",
						Aliases: []string{"t"},
						Value:   common.DefaultMaxTime,
						Usage:   "maximum total time in minutes",
					},
					&cli.StringFlag{
						Name:  "flow",
						Usage: "auto, search or generate (defaults to RECIPE_FLOW)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return suggest(ctx, out, cmd.String("description"), int(cmd.Int("max-time")), cmd.String("flow"))
				},
			},
			{
				Name:  "id",
				Usage: "print the configured identity",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}
					return printJSON(out, common.IdentityResponse{
						EmplID:   cfg.Identity.EmplID,
						LastName: cfg.Identity.LastName,
					})
				},
			},
		},
	}
}

func suggest(ctx context.Context, out io.Writer, description string, maxTime int, flow string) error {
	req := common.RecipeRequest{Description: description, MaxTime: maxTime}
	if err := req.Normalize(); err != nil {
		return err
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if flow != "" {
		flow = strings.ToLower(strings.TrimSpace(flow))
		switch flow {
		case config.FlowAuto, config.FlowSearch, config.FlowGenerate:
			cfg.Pipeline.Flow = flow
		default:
			return common.NewValidationError(fmt.Sprintf("unknown flow %q", flow))
		}
	}

	store, err := cache.New(cfg.Cache)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	orchestrator, err := recipe.Build(cfg, store)
	if err != nil {
		return err
	}

	resp, err := orchestrator.Suggest(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(out, resp)
}

func printJSON(out io.Writer, v interface{}) error {
	text, err := common.ToIndentedJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

// formatError 以錯誤代碼標示已分類的錯誤
func formatError(err error) string {
	if ce, ok := common.AsCustomError(err); ok {
		return fmt.Sprintf("%s: %s", ce.Code, ce.Error())
	}
	return err.Error()
}
