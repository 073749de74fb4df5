package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/achilleasa/polaris/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	sceneFlags := []cli.Flag{
		cli.BoolFlag{
			Name:  "random-scene",
			Usage: "ignore the scene argument and generate the random sphere scene",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "seed for the random scene, the BVH split axes and the sampler",
		},
	}

	app := cli.NewApp()
	app.Name = "polaris"
	app.Usage = "render sphere scenes using path tracing and a BVH"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
		cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "serve prometheus metrics on this address while rendering (e.g. :9090)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Load a scene definition from a JSON file or URL (or generate the random sphere
scene), build a BVH over its objects and render a single frame to a PNG file.`,
			ArgsUsage: "[scene_file.json]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 640,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 360,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "spp",
					Value: 32,
					Usage: "samples per pixel",
				},
				cli.IntFlag{
					Name:  "num-bounces",
					Value: 50,
					Usage: "max number of ray segments per sample",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: 2.0,
					Usage: "gamma used for encoding the output",
				},
				cli.IntFlag{
					Name:  "tracers",
					Value: runtime.NumCPU(),
					Usage: "number of CPU tracers",
				},
				cli.BoolFlag{
					Name:  "brute-force",
					Usage: "trace against the flat object list instead of a BVH",
				},
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			}, sceneFlags...),
			Action: cmd.RenderFrame,
		},
		{
			Name:      "info",
			Usage:     "display scene information",
			ArgsUsage: "[scene_file.json]",
			Flags:     sceneFlags,
			Action:    cmd.ShowSceneInfo,
		},
		{
			Name:  "bvh-stats",
			Usage: "display BVH shape and traversal statistics",
			Description: `
Build the BVH for a scene several times with different split axis sequences
and report the tree shape and the number of object tests per camera ray.`,
			ArgsUsage: "[scene_file.json]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "builds",
					Value: 5,
					Usage: "number of BVH builds",
				},
				cli.IntFlag{
					Name:  "rays",
					Value: 10000,
					Usage: "number of probe rays per build",
				},
			}, sceneFlags...),
			Action: cmd.ShowBVHStats,
		},
		{
			Name:      "check",
			Usage:     "verify that BVH and brute force traversal agree",
			ArgsUsage: "[scene_file.json]",
			Flags: append([]cli.Flag{
				cli.IntFlag{
					Name:  "rays",
					Value: 100000,
					Usage: "number of random rays",
				},
			}, sceneFlags...),
			Action: cmd.CheckBVH,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}
