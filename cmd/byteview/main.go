package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bodgit/byteview"
	"github.com/bodgit/byteview/raster"
	"github.com/urfave/cli/v2"
)

const defaultDB = "byteview.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newViewer(c *cli.Context) (*byteview.Viewer, error) {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	return byteview.New(c.String("db"), logger)
}

func renderOptions(c *cli.Context) (byteview.RenderOptions, error) {
	depth, err := raster.ParseBitDepth(c.String("depth"))
	if err != nil {
		return byteview.RenderOptions{}, err
	}

	opts := byteview.RenderOptions{
		Depth:   depth,
		Palette: c.String("palette"),
		Scale:   c.Int("scale"),
	}

	if c.Bool("progress") {
		last := -1
		opts.Progress = func(percent int) {
			if percent != last {
				fmt.Fprintf(os.Stderr, "\r%3d%%", percent)
				last = percent
			}
		}
	}

	return opts, nil
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "depth",
			Aliases: []string{"d"},
			EnvVars: []string{"BYTEVIEW_DEPTH"},
			Value:   "8",
			Usage:   "bits per pixel, one of 1, 2, 4, 8, 16 or 32",
		},
		&cli.StringFlag{
			Name:    "palette",
			Aliases: []string{"p"},
			Usage:   "name of a stored palette, defaults to grayscale",
		},
		&cli.IntFlag{
			Name:    "scale",
			Aliases: []string{"s"},
			Value:   1,
			Usage:   "enlarge each pixel by this factor",
		},
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "byteview"
	app.Usage = "Render binary data as images"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"BYTEVIEW_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to palette database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "render",
			Usage:       "Render one or more files as a single image",
			Description: "The files are concatenated in order. Compressed .zst files are decompressed and .cue sheets are replaced with their first data track.",
			ArgsUsage:   "FILE...",
			Flags: append(renderFlags(),
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "image to write, defaults to the first FILE with .png appended",
				},
				&cli.BoolFlag{
					Name:  "progress",
					Usage: "report progress on stderr",
				},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := renderOptions(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				v, err := newViewer(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer v.Close()

				out := c.String("output")
				if out == "" {
					out = c.Args().First() + ".png"
				}

				d, err := v.Render(c.Context, out, c.Args().Slice(), opts)
				if opts.Progress != nil {
					fmt.Fprintln(os.Stderr)
				}
				if err != nil {
					return cli.Exit(err, 1)
				}

				fmt.Printf("%s: %dx%d, %s\n", out, d.Width, d.Height, raster.FormatPixelCount(d.Area()))

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Render every file in a directory tree",
			Description: "Each file is rendered to an image alongside it with .png appended to the name.",
			ArgsUsage:   "DIRECTORY",
			Flags:       renderFlags(),
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				opts, err := renderOptions(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				v, err := newViewer(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer v.Close()

				if err := v.Scan(c.Context, c.Args().First(), opts); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "address",
			Usage:     "Print the source address of a pixel",
			ArgsUsage: "WIDTH HEIGHT X Y",
			Flags:     renderFlags()[:1],
			Action: func(c *cli.Context) error {
				if c.NArg() != 4 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				var n [4]int
				for i := range n {
					if _, err := fmt.Sscan(c.Args().Get(i), &n[i]); err != nil {
						return cli.Exit(fmt.Errorf("bad argument %q: %w", c.Args().Get(i), err), 1)
					}
				}

				depth, err := raster.ParseBitDepth(c.String("depth"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				s, err := byteview.Locate(n[0], n[1], n[2], n[3], depth)
				if err != nil {
					return cli.Exit(err, 1)
				}
				fmt.Println(s)

				return nil
			},
		},
		{
			Name:  "palette",
			Usage: "Manage stored palettes",
			Subcommands: []*cli.Command{
				{
					Name:      "import",
					Usage:     "Derive a palette from an image",
					ArgsUsage: "NAME IMAGE",
					Flags: []cli.Flag{
						&cli.IntFlag{
							Name:    "colors",
							Aliases: []string{"c"},
							Value:   256,
							Usage:   "number of colors to derive",
						},
					},
					Action: func(c *cli.Context) error {
						if c.NArg() != 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						v, err := newViewer(c)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer v.Close()

						if _, err := v.DB().ImportImage(c.Args().Get(0), c.Args().Get(1), c.Int("colors")); err != nil {
							return cli.Exit(err, 1)
						}

						return nil
					},
				},
				{
					Name:  "list",
					Usage: "List stored palettes",
					Action: func(c *cli.Context) error {
						v, err := newViewer(c)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer v.Close()

						palettes, err := v.DB().ListPalettes()
						if err != nil {
							return cli.Exit(err, 1)
						}
						for _, p := range palettes {
							fmt.Printf("%s\t%d\n", p.Name, p.Colors)
						}

						return nil
					},
				},
				{
					Name:      "delete",
					Usage:     "Delete a stored palette",
					ArgsUsage: "NAME",
					Action: func(c *cli.Context) error {
						if c.NArg() != 1 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						v, err := newViewer(c)
						if err != nil {
							return cli.Exit(err, 1)
						}
						defer v.Close()

						if err := v.DB().DeletePalette(c.Args().First()); err != nil {
							return cli.Exit(err, 1)
						}

						return nil
					},
				},
			},
		},
		{
			Name:  "history",
			Usage: "List previously rendered images",
			Action: func(c *cli.Context) error {
				v, err := newViewer(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer v.Close()

				records, err := v.DB().Renders()
				if err != nil {
					return cli.Exit(err, 1)
				}
				for _, r := range records {
					fmt.Printf("%s\t%s\t%s\t%dx%d\t%s\n", r.Checksum, r.Depth, r.Palette, r.Width, r.Height, r.Source)
				}

				return nil
			},
		},
	}

	// Interrupting a render stops it early and writes what was drawn so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
