package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	var opts Options
	dither := flag.Bool("dither", false, "use Floyd-Steinberg error diffusion")
	verbose := flag.Bool("v", false, "log pipeline stages to stderr")
	flag.IntVar(&opts.Workers, "workers", defaultWorkers(), "goroutines for resampling, quantizing and encoding")
	flag.IntVar(&opts.MaxWidth, "width", 0, "maximum output width in pixels (default: terminal width)")
	flag.StringVar(&opts.SavePath, "o", "", "also save the sixel stream to `file` (.zst compresses it)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "Usage: sixview [flags] <image.png>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	if opts.Workers < 1 {
		fmt.Fprintln(os.Stderr, "workers must be at least 1")
		os.Exit(1)
	}
	if *dither {
		opts.Policy = PolicyDiffuse
	}
	setupLogging(*verbose)

	inputPath := flag.Arg(0)
	if err := view(inputPath, opts, *verbose, os.Stdout); err != nil {
		log.Errorf("%s: %v", inputPath, err)
		os.Exit(1)
	}
}

// view renders the PNG at inPath to out. With verbose set the header is read
// first so the source size is logged even if decoding fails later.
func view(inPath string, opts Options, verbose bool, out io.Writer) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	if verbose {
		if cfg, err := DecodeConfig(in); err == nil {
			log.Debugf("%s: %dx%d", inPath, cfg.Width, cfg.Height)
		}
		if _, err := in.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	return render(opts, bufio.NewReader(in), out)
}
