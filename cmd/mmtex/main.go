package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/mmtex"
	"github.com/bodgit/mmtex/format"
	"github.com/urfave/cli/v2"
)

const defaultDB = "mmtex.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func open(c *cli.Context) (*mmtex.MmTex, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	f, err := format.ParseColorFormat(c.String("format"))
	if err != nil {
		return nil, err
	}

	return mmtex.New(c.String("db"), f, logger)
}

// run opens the library and hands it to fn once at least n arguments
// have been given
func run(n int, fn func(*cli.Context, *mmtex.MmTex) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < n {
			cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
		}

		m, err := open(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer m.Close()

		if err := fn(c, m); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	}
}

func argOrDefault(c *cli.Context, n int, def string) string {
	if c.NArg() > n {
		return c.Args().Get(n)
	}
	return def
}

func main() {
	app := cli.NewApp()

	app.Name = "mmtex"
	app.Usage = "MmTex texture conversion utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MMTEX_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to catalog database",
		},
		&cli.StringFlag{
			Name:    "format",
			EnvVars: []string{"MMTEX_FORMAT"},
			Value:   format.IndexedA3I5.String(),
			Usage:   "pixel format of the textures, A3I5 or A5I3",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "export",
			Usage:     "Export a texture to an image",
			ArgsUsage: "FILE [IMAGE]",
			Action: run(1, func(c *cli.Context, m *mmtex.MmTex) error {
				file := c.Args().First()
				return m.Export(file, argOrDefault(c, 1, file+".png"))
			}),
		},
		{
			Name:      "export-dir",
			Usage:     "Export every texture in a directory",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "type",
					Value: "png",
					Usage: "image type, png or bmp",
				},
			},
			Action: run(1, func(c *cli.Context, m *mmtex.MmTex) error {
				return m.ExportDir(c.Args().First(), "."+c.String("type"))
			}),
		},
		{
			Name:      "import",
			Usage:     "Import an image into a texture using its palette",
			ArgsUsage: "FILE IMAGE [OUTPUT]",
			Action: run(2, func(c *cli.Context, m *mmtex.MmTex) error {
				file := c.Args().First()
				return m.Import(file, c.Args().Get(1), argOrDefault(c, 2, file+"_new"))
			}),
		},
		{
			Name:      "import-dir",
			Usage:     "Import the images next to every texture in a directory",
			ArgsUsage: "DIRECTORY",
			Action: run(1, func(c *cli.Context, m *mmtex.MmTex) error {
				return m.ImportDir(c.Args().First())
			}),
		},
		{
			Name:      "create",
			Usage:     "Create a new texture from an image",
			ArgsUsage: "IMAGE OUTPUT",
			Action: run(2, func(c *cli.Context, m *mmtex.MmTex) error {
				return m.Create(c.Args().First(), c.Args().Get(1))
			}),
		},
		{
			Name:      "restore",
			Usage:     "Restore a texture from the catalog",
			ArgsUsage: "FILE [OUTPUT]",
			Action: run(1, func(c *cli.Context, m *mmtex.MmTex) error {
				file := c.Args().First()
				return m.Restore(file, argOrDefault(c, 1, file))
			}),
		},
		{
			Name:  "list",
			Usage: "List cataloged textures",
			Action: run(0, func(c *cli.Context, m *mmtex.MmTex) error {
				entries, err := m.List()
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Printf("%s\t%s\t%dx%d\t%d colors\t%s\n", e.Digest, e.Format, e.Width, e.Height, e.Colors, e.Path)
				}
				return nil
			}),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
