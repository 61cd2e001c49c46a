package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/echoflaresat/skycompass/earth"
	"github.com/echoflaresat/skycompass/gizmo"
	"github.com/echoflaresat/skycompass/overlay"
	"github.com/echoflaresat/skycompass/render"
)

type config struct {
	lat, lon, alt     *float64
	fov, tilt, yaw    *float64
	size, supersample *int
	workers           *int
	out               *string
	day, night        *string
	clouds            *string
	themeFile         *string
	timeStr           *string
	showGizmo         *bool
	showHelp          *bool
}

func defineFlags() config {
	return config{
		lat:  flag.Float64("lat", 0.0, "Camera latitude in degrees"),
		lon:  flag.Float64("lon", 20.0, "Camera longitude in degrees"),
		alt:  flag.Float64("alt", 880.0, "Camera altitude in kilometers"),
		fov:  flag.Float64("fov", 60.0, "Camera field of view in degrees"),
		yaw:  flag.Float64("yaw", 0.0, "Camera yaw in degrees"),
		tilt: flag.Float64("tilt", 40.0, "Camera tilt in degrees"),

		size:        flag.Int("size", 640, "Output image size (width/height in pixels)"),
		supersample: flag.Int("supersample", 3, "Supersampling factor (higher is slower but smoother)"),
		workers:     flag.Int("workers", runtime.GOMAXPROCS(0), "Render worker count"),
		timeStr:     flag.String("time", "", "Time in RFC3339 format (e.g., 2025-08-02T15:04:05Z); defaults to now"),

		out: flag.String("out", "earth_view.png", "Output PNG file path"),

		day:    flag.String("day", "assets/world.200408.tif", "Day texture path"),
		night:  flag.String("night", "assets/night.tif", "Night texture path"),
		clouds: flag.String("clouds", "assets/cloud.2001210.tif", "Clouds texture path"),

		themeFile: flag.String("theme", "", "Optional YAML theme file overriding the palette"),
		showGizmo: flag.Bool("gizmo", true, "Draw the sun/moon direction gizmo"),
		showHelp:  flag.Bool("h", false, "Show this help message"),
	}
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `Skycompass - Satellite View Generator with Sun/Moon Direction Gizmo

Usage:
  %[1]s [options]

`, os.Args[0])

	printGroup("Camera Options", []string{"lat", "lon", "alt", "fov", "tilt", "yaw"})
	printGroup("Rendering Options", []string{"size", "supersample", "workers", "time", "gizmo"})
	printGroup("Assets", []string{"day", "night", "clouds", "theme"})
	printGroup("Output", []string{"out"})
	printGroup("Misc", []string{"h"})
}

func printGroup(title string, keys []string) {
	fmt.Fprintf(os.Stderr, "%s:\n", title)
	for _, name := range keys {
		if f := flag.Lookup(name); f != nil {
			fmt.Fprintf(os.Stderr, "  -%-12s %s (default %q)\n", f.Name, f.Usage, f.DefValue)
		}
	}
	fmt.Fprintln(os.Stderr)
}

func main() {
	cfg := defineFlags()
	flag.Usage = printHelp
	flag.Parse()

	if *cfg.showHelp {
		printHelp()
		return
	}

	renderTime := parseTimeOrExit(*cfg.timeStr)

	theme, err := loadTheme(*cfg.themeFile)
	if err != nil {
		log.Fatalf("Failed to load theme: %v", err)
	}
	theme.Day = *cfg.day
	theme.Night = *cfg.night
	theme.Clouds = *cfg.clouds

	print("Generating " + *cfg.out + " ")
	img, err := renderImage(cfg, renderTime, theme)
	if err != nil {
		log.Fatal(err)
	}

	if err := writePNG(*cfg.out, img); err != nil {
		log.Fatalf("Failed to write PNG: %v", err)
	}
}

func parseTimeOrExit(timeStr string) time.Time {
	if timeStr == "" {
		return time.Now()
	}
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		log.Fatalf("Invalid time format: %v", err)
	}
	return t
}

// loadTheme returns the default palette, overridden by the YAML file at
// path when given.
func loadTheme(path string) (render.Theme, error) {
	theme := render.DefaultTheme()
	if path == "" {
		return theme, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return theme, err
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return theme, err
	}
	return theme, nil
}

// renderImage renders the Earth view for the configured pose and time, and
// composites the direction gizmo on top.
func renderImage(cfg config, renderTime time.Time, theme render.Theme) (image.Image, error) {
	sunDir := earth.SunDirectionECEF(renderTime)
	moonDir := earth.MoonDirectionECEF(renderTime)
	camera := render.NewCamera(*cfg.lat, *cfg.lon, *cfg.alt, *cfg.fov, *cfg.tilt, *cfg.yaw)

	img, err := render.RenderScene(
		camera,
		sunDir,
		*cfg.size,
		*cfg.supersample,
		theme,
		*cfg.workers,
	)
	if err != nil {
		return nil, err
	}

	if *cfg.showGizmo {
		overlay.New(gizmo.DefaultConfig()).Draw(img, camera, sunDir, moonDir)
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(f, img)
}
