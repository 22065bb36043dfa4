package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/quicknote/quicknote/internal"
	pkgconfig "github.com/quicknote/quicknote/pkg/config"
)

var version = "dev"

// loadConfig reads the YAML config named by --config. A missing file means defaults.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

// components builds the note service for one-shot commands, logging to stderr.
func components(cmd *cli.Command) (*internal.Components, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return internal.NewComponents(internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
}

// notePathArg returns the first argument, or the saved note file.
func notePathArg(ctx context.Context, cmd *cli.Command, c *internal.Components) (string, error) {
	if p := cmd.Args().First(); p != "" {
		return p, nil
	}
	saved, err := c.Service.GetSettings(ctx)
	if err != nil {
		return "", err
	}
	if saved == nil || *saved == "" {
		return "", fmt.Errorf("no note file configured; run `quicknote settings set <path>` or pass a path")
	}
	return *saved, nil
}

func listNotes(ctx context.Context, cmd *cli.Command) error {
	c, err := components(cmd)
	if err != nil {
		return err
	}
	path, err := notePathArg(ctx, cmd, c)
	if err != nil {
		return err
	}
	notes, err := c.Service.SearchNotes(ctx, path, cmd.String("query"))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(notes)
}

func getSettings(ctx context.Context, cmd *cli.Command) error {
	c, err := components(cmd)
	if err != nil {
		return err
	}
	path, err := c.Service.GetSettings(ctx)
	if err != nil {
		return err
	}
	if path == nil {
		fmt.Fprintln(os.Stderr, "no note file configured")
		return nil
	}
	fmt.Println(*path)
	return nil
}

func setSettings(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("usage: quicknote settings set <path>")
	}
	c, err := components(cmd)
	if err != nil {
		return err
	}
	_, err = c.Service.SaveEnteredPath(ctx, cmd.Args().First())
	return err
}

func openFile(ctx context.Context, cmd *cli.Command) error {
	c, err := components(cmd)
	if err != nil {
		return err
	}
	path, err := notePathArg(ctx, cmd, c)
	if err != nil {
		return err
	}
	return c.Service.OpenFile(ctx, path)
}

func main() {
	cmd := &cli.Command{
		Name:    "quicknote",
		Usage:   "Local backend for the QuickNote viewer: settings, note-file parsing and file opening",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP backend (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve QuickNote tools over MCP stdio",
				Action: serveMCP,
			},
			{
				Name:      "notes",
				Usage:     "Print parsed notes as JSON, newest first",
				ArgsUsage: "[path]",
				Action:    listNotes,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Only notes whose date or content contains this text",
					},
				},
			},
			{
				Name:  "settings",
				Usage: "Show or change the configured note file",
				Commands: []*cli.Command{
					{
						Name:   "get",
						Usage:  "Print the configured note file",
						Action: getSettings,
					},
					{
						Name:      "set",
						Usage:     "Set the note file",
						ArgsUsage: "<path>",
						Action:    setSettings,
					},
				},
			},
			{
				Name:      "open",
				Usage:     "Open the note file with the default application",
				ArgsUsage: "[path]",
				Action:    openFile,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
