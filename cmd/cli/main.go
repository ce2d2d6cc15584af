// Command cli implements the command-line front end of spec.md §6:
// three subcommands (standalone, html, configuration) over the core
// engine, built on urfave/cli/v2 the way the teacher's cmd/cli is.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/asyncwand/asyncwand/internal/config"
	"github.com/asyncwand/asyncwand/internal/reportio"
	"github.com/asyncwand/asyncwand/internal/runner"
)

// Version is the current version of the CLI.
const Version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "asyncwand",
		Usage:   "propagate async/await from a seed function through its callers",
		Version: Version,
		Commands: []*cli.Command{
			driverCommand("standalone", "analyze a single JavaScript file", config.DriverJavaScript),
			driverCommand("html", "analyze inline scripts extracted from an HTML file", config.DriverHTML),
			configurationCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "fnIndex", Value: 0, Usage: "index among function-like nodes on the seed line"},
		&cli.StringFlag{Name: "save-config", Usage: "write the resolved configuration document to FILE"},
		&cli.StringFlag{Name: "save-output", Usage: "write the rendered report to FILE instead of stdout"},
		&cli.StringSliceFlag{Name: "ignore", Usage: "PATH:LINE:TYPE:INDEX, repeatable"},
		&cli.StringFlag{Name: "format", Value: "json", Usage: "json or markdown"},
	}
}

// driverCommand builds the "standalone"/"html" subcommands: path is the
// entry file itself (a .js file or an .html file), and the driver's
// root/scripts/pathToHTML are derived from it.
func driverCommand(name, usage, driverType string) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "path line",
		Flags:     sharedFlags(),
		Action: func(c *cli.Context) error {
			path, line, err := requirePathLine(c)
			if err != nil {
				return err
			}

			ignore, err := parseIgnoreFlags(c)
			if err != nil {
				return err
			}

			doc := &config.Document{
				Driver: config.Driver{
					Type:   driverType,
					Root:   filepath.Dir(path),
					Ignore: ignore,
					MarkAsync: config.SeedRef{
						Path:          filepath.Base(path),
						Line:          line,
						FunctionIndex: c.Int("fnIndex"),
					},
				},
				Serializer: config.Serializer{Type: c.String("format")},
			}
			if driverType == config.DriverJavaScript {
				doc.Driver.Scripts = []string{filepath.Base(path)}
			} else {
				doc.Driver.PathToHTML = filepath.Base(path)
			}

			return runAndReport(c, doc)
		},
	}
}

// configurationCommand builds the "configuration" subcommand: path is
// the configuration document itself. line is accepted for a uniform
// three-subcommand signature per spec.md §6 but is not consulted —
// the seed location already lives in driver.markAsync within the file.
func configurationCommand() *cli.Command {
	return &cli.Command{
		Name:      "configuration",
		Usage:     "analyze a project described by a configuration document",
		ArgsUsage: "path line",
		Flags:     sharedFlags(),
		Action: func(c *cli.Context) error {
			path, _, err := requirePathLine(c)
			if err != nil {
				return err
			}

			doc, err := config.Load(path)
			if err != nil {
				return err
			}

			if c.IsSet("fnIndex") {
				doc.Driver.MarkAsync.FunctionIndex = c.Int("fnIndex")
			}
			extraIgnore, err := parseIgnoreFlags(c)
			if err != nil {
				return err
			}
			doc.Driver.Ignore = append(doc.Driver.Ignore, extraIgnore...)
			if c.IsSet("format") {
				doc.Serializer.Type = c.String("format")
			}

			return runAndReport(c, doc)
		},
	}
}

func requirePathLine(c *cli.Context) (string, int, error) {
	if c.Args().Len() < 2 {
		return "", 0, cli.Exit("expected arguments: path line", 2)
	}
	path := c.Args().Get(0)
	line, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return "", 0, cli.Exit("line must be an integer, got "+c.Args().Get(1), 2)
	}
	return path, line, nil
}

func parseIgnoreFlags(c *cli.Context) ([]config.IgnoreEntry, error) {
	var entries []config.IgnoreEntry
	for _, raw := range c.StringSlice("ignore") {
		entry, err := config.IgnoreEntryFromFlag(raw)
		if err != nil {
			return nil, cli.Exit(err.Error(), 2)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func runAndReport(c *cli.Context, doc *config.Document) error {
	if savePath := c.String("save-config"); savePath != "" {
		if err := config.PatchSaveConfig(savePath, doc.Driver.MarkAsync, doc.Driver.Ignore); err != nil {
			return err
		}
	}

	result, err := runner.Run(doc)
	if err != nil {
		return err
	}

	var rendered []byte
	switch doc.Serializer.Type {
	case "markdown":
		text, err := reportio.WriteMarkdown(result.Model)
		if err != nil {
			return err
		}
		rendered = []byte(text)
	default:
		rendered, err = reportio.WriteJSON(result.Model)
		if err != nil {
			return err
		}
	}

	if outPath := c.String("save-output"); outPath != "" {
		return os.WriteFile(outPath, rendered, 0o644)
	}
	fmt.Println(string(rendered))
	return nil
}
