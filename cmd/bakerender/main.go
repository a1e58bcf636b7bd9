// Command bakerender renders a design snapshot JSON to a PNG at the
// high-resolution export multiplier. Useful for debugging bakes without
// the GUI. Snapshots only reference image sources by name; pass -assets
// to point at a directory of those sources, otherwise image and pattern
// objects render as nothing.
package main

import (
	"flag"
	"log"
	"os"

	"mockup-studio/internal/assets"
	"mockup-studio/internal/design"
	"mockup-studio/internal/raster"
	"mockup-studio/internal/texture"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	width := flag.Float64("width", 614, "canvas width in pixels")
	height := flag.Float64("height", 230, "canvas height in pixels")
	mult := flag.Float64("mult", texture.ExportMultiplier, "resolution multiplier")
	assetDir := flag.String("assets", "", "directory of source images referenced by the snapshot")
	out := flag.String("o", "bake.png", "output PNG path")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: bakerender [flags] snapshot.json")
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read snapshot: %v", err)
	}

	surface := design.NewSurface(*width, *height)
	if *assetDir != "" {
		store := assets.NewStore()
		if err := store.LoadDir(*assetDir); err != nil {
			log.Fatalf("load assets: %v", err)
		}
		surface.SetPixelResolver(store.Lookup)
	}
	if err := surface.Restore(design.Snapshot(data)); err != nil {
		log.Fatalf("restore snapshot: %v", err)
	}

	img := raster.Render(surface, raster.Options{Multiplier: *mult})
	if err := raster.WritePNG(*out, img); err != nil {
		log.Fatalf("write png: %v", err)
	}
	log.Printf("rendered %s at %.0fx to %s", flag.Arg(0), *mult, *out)
}
