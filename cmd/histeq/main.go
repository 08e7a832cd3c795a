// Command histeq equalizes the histogram of a grayscale image and shows or
// writes the result together with the input and output histograms.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/Fepozopo/histeq/pkg/cli"
)

func main() {
	cfg, err := cli.LoadEnvConfig()
	if err != nil {
		log.Printf("warning: %v", err)
	}

	flag.StringVar(&cfg.InputPath, "input", cfg.InputPath, "input image")
	flag.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, "write the equalized image here and exit")
	flag.StringVar(&cfg.PlotDir, "plots", cfg.PlotDir, "directory for input/output histogram plots")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of row bands processed concurrently")
	noPreview := flag.Bool("no-preview", !cfg.Preview, "disable terminal image preview")
	flag.BoolVar(&cfg.Interactive, "interactive", cfg.Interactive, "start the interactive prompt")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(cli.Version)
		return
	}
	cfg.Preview = !*noPreview
	if flag.NArg() > 0 {
		cfg.InputPath = flag.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "No input data: %v\n", err)
		os.Exit(1)
	}

	if cfg.Interactive {
		cli.RunCLI(cfg)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = cli.RunBatch(ctx, cfg)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "histeq: %v\n", err)
		os.Exit(1)
	}
}
