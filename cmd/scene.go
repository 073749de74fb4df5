package cmd

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"

	"github.com/achilleasa/polaris/scene"
	"github.com/achilleasa/polaris/scene/reader"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Load the scene named by the first command argument. Without an argument
// (or when the random-scene flag is set) the random sphere scene is
// generated using the seed flag.
func loadScene(ctx *cli.Context) (*scene.Scene, error) {
	if ctx.Bool("random-scene") || ctx.NArg() == 0 {
		seed := ctx.Int64("seed")
		logger.Noticef("generating random scene (seed: %d)", seed)
		return scene.RandomScene(rand.New(rand.NewSource(seed))), nil
	}

	logger.Noticef("loading scene: %s", ctx.Args().First())
	return reader.ReadScene(ctx.Args().First())
}

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, err := loadScene(ctx)
	if err != nil {
		return err
	}

	logger.Noticef("scene information:\n%s", sceneInfo(sc))
	return nil
}

func sceneInfo(sc *scene.Scene) string {
	var buf bytes.Buffer

	names := make([]string, 0, len(sc.Materials))
	for name := range sc.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Material", "Type"})
	for _, name := range names {
		table.Append([]string{name, fmt.Sprintf("%T", sc.Materials[name])})
	}
	table.Render()

	var time0, time1 float64
	if sc.Camera != nil {
		time0, time1 = sc.Camera.Time0, sc.Camera.Time1
		fmt.Fprintf(&buf, "camera: %s\n", sc.Camera)
	}
	fmt.Fprintf(&buf, "background: %s\n", sc.BgColor)
	fmt.Fprintf(&buf, "objects: %d\n", sc.World.Len())
	if box, ok := sc.World.BoundingBox(time0, time1); ok {
		fmt.Fprintf(&buf, "bounds: %s\n", box)
	}

	return buf.String()
}
