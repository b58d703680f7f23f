package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	mega65 "github.com/mega65-c65/MEGA65-image-converter"
	"github.com/mega65-c65/MEGA65-image-converter/raster"
	"github.com/mega65-c65/MEGA65-image-converter/toolchain"
)

const defaultDB = "ic65.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newConverter(c *cli.Context) (*mega65.Converter, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	history, err := mega65.OpenHistory(c.String("db"))
	if err != nil {
		return nil, err
	}

	tools := mega65.Toolchain{
		Raster:    toolchain.Magick{Logger: logger},
		Bitmap:    toolchain.PPMToILBM{Logger: logger},
		Disk:      toolchain.CC1541{Logger: logger},
		Tokenizer: toolchain.Petcat{Logger: logger},
	}
	if c.Bool("native") {
		tools.Raster = raster.Converter{
			Blur:   float32(c.Float64("blur")),
			Logger: logger,
		}
	}

	return mega65.New(tools, history, logger, os.Stdout), nil
}

func jobOptions(c *cli.Context) mega65.Job {
	return mega65.Job{
		Loader:  !c.Bool("no-loader"),
		Preview: c.Bool("preview"),
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "ic65"
	app.Usage = "MEGA65 image conversion and disk authoring utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"IC65_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to the conversion history database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.BoolFlag{
			Name:  "native",
			Usage: "render the raster in process instead of running ImageMagick",
		},
		&cli.Float64Flag{
			Name:  "blur",
			Usage: "smoothing sigma for the in-process renderer",
		},
		&cli.BoolFlag{
			Name:  "no-loader",
			Usage: "skip generating the BASIC loader",
		},
		&cli.BoolFlag{
			Name:  "preview",
			Usage: "write an upscaled preview PNG next to each source",
		},
	}

	app.Action = func(c *cli.Context) error {
		m, err := newConverter(c)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		defer m.Close()

		if err := m.Session(os.Stdin, jobOptions(c)); err != nil {
			return cli.NewExitError(err, 1)
		}

		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:        "convert",
			Usage:       "Convert a single image and author its disk",
			Description: "",
			ArgsUsage:   "IMAGE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "disk",
					Aliases: []string{"d"},
					Usage:   "name for the D81 disk image",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newConverter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				job := jobOptions(c)
				job.Image = c.Args().First()
				job.Disk = c.String("disk")
				if job.Disk == "" {
					job.Disk = strings.TrimSuffix(job.Image, filepath.Ext(job.Image))
				}

				if err := m.Run(job); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "batch",
			Usage:       "Convert every image under a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newConverter(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.Batch(c.Args().First(), jobOptions(c)); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "history",
			Usage:       "List catalogued conversions",
			Description: "",
			Action: func(c *cli.Context) error {
				h, err := mega65.OpenHistory(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer h.Close()

				convs, err := h.List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, conv := range convs {
					colors := "-"
					if conv.Colors.Valid {
						colors = strconv.FormatInt(conv.Colors.Int64, 10)
					}
					reduced := ""
					if conv.Reduced {
						reduced = " (reduced)"
					}
					fmt.Printf("%s  %s -> %s, %s colors%s\n", conv.Created.Format("2006-01-02 15:04"), conv.Source, conv.Disk, colors, reduced)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
