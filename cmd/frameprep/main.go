package main

import (
	_ "image/gif"
	_ "image/jpeg"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "frameprep"
	app.Usage = "prepare images for the tricolor picture frame"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:  "width",
			Value: 128,
			Usage: "panel width in pixels",
		},
		&cli.IntFlag{
			Name:  "height",
			Value: 296,
			Usage: "panel height in pixels",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert an image into a frame-ready bitmap",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "caption",
					Usage: "text drawn along the bottom edge",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				src, err := loadImage(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				canvas := fit(src, c.Int("width"), c.Int("height"))
				if text := c.String("caption"); text != "" {
					caption(canvas, text)
				}

				if err := writeBMP(c.Args().Get(1), canvas); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "preview",
			Usage:     "Render a bitmap the way the panel will show it",
			ArgsUsage: "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				data, err := os.ReadFile(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				img, err := preview(data, int16(c.Int("width")), int16(c.Int("height")))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := writePNG(c.Args().Get(1), img); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
