/*
Renders a textured triangle with the lumen path tracer and writes the
result to output.png. Arguments prefixed with --rt: configure the rendering
library; everything else is parsed by the application.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/lumen/engine"
	"github.com/spaghettifunk/lumen/engine/core"
	"github.com/spaghettifunk/lumen/testbed"
)

func main() {
	os.Exit(run(os.Args, os.Stderr))
}

// parseFlags fills config from the arguments the library did not consume.
func parseFlags(args []string, config *engine.ApplicationConfig, stderr io.Writer) error {
	name := "lumen"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&config.OutputPath, "output", testbed.OutputPath, "image file to write (.png, .bmp, .tif)")
	fs.IntVar(&config.Width, "width", testbed.OutputWidth, "image width in pixels")
	fs.IntVar(&config.Height, "height", testbed.OutputHeight, "image height in pixels")
	fs.IntVar(&config.SamplesPerPixel, "spp", 0, "samples per pixel (0 keeps the scene value)")
	fs.StringVar(&config.RendererType, "renderer", "", "renderer: pathtracer or scivis")
	fs.BoolVar(&config.FlipY, "flip-y", false, "write the image upright instead of bottom row first")
	fs.StringVar(&config.ConfigPath, "config", "", "TOML scene file overlaid onto the built-in triangle")
	fs.BoolVar(&config.Watch, "watch", false, "re-render whenever the --config file changes")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments %v: %w", fs.Args(), core.ErrInvalidArgument)
	}
	// flags only override the scene when given explicitly
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	if config.ConfigPath != "" {
		if !explicit["output"] {
			config.OutputPath = ""
		}
		if !explicit["width"] {
			config.Width = 0
		}
		if !explicit["height"] {
			config.Height = 0
		}
	}
	if config.Watch && config.ConfigPath == "" {
		return fmt.Errorf("--watch needs --config: %w", core.ErrInvalidArgument)
	}
	if *logLevel != "" {
		lvl, err := core.ParseLogLevel(*logLevel)
		if err != nil {
			return err
		}
		config.LogLevel = lvl
		core.SetLogLevel(lvl)
	}
	return nil
}

func run(args []string, stderr io.Writer) int {
	tb := testbed.NewTestGame()

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogError(err.Error())
		return 1
	}

	rest, err := e.Initialize(args)
	if err != nil {
		fmt.Fprintln(stderr, engine.InitFailedMessage)
		_ = e.Shutdown()
		return 1
	}

	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError("shutdown: %s", err)
		}
	}()

	if err := parseFlags(rest, tb.ApplicationConfig, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		core.LogError(err.Error())
		return 2
	}

	// signal context to stop watch mode
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := e.Run(ctx); err != nil {
		core.LogError(err.Error())
		return 1
	}
	return 0
}
