package cli

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Fepozopo/histeq/pkg/histeq"
	"github.com/Fepozopo/histeq/pkg/stdimg"
)

// Session is the state of one run: the loaded image, the image being edited
// and, once computed, its equalization.
type Session struct {
	Config Config

	Path   string
	Format string
	Input  *image.Gray
	Result *histeq.Result

	// Source is the image Result was computed from.
	Source *image.Gray

	// Current is what the REPL shows and saves.
	Current image.Image
}

// Open loads path into the session and drops any previous result.
func (s *Session) Open(path string) error {
	gray, format, err := LoadGray(path)
	if err != nil {
		return err
	}
	s.Path, s.Format, s.Input, s.Current = path, format, gray, gray
	s.Result, s.Source = nil, nil
	return nil
}

// Equalize runs the pipeline on the current image with the configured
// number of workers.
func (s *Session) Equalize(ctx context.Context) (*histeq.Result, error) {
	return s.equalize(ctx, s.Config.Workers)
}

func (s *Session) equalize(ctx context.Context, workers int) (*histeq.Result, error) {
	var src *image.Gray
	switch {
	case s.Current != nil:
		src = stdimg.ToGray(s.Current)
	case s.Input != nil:
		src = s.Input
	default:
		return nil, fmt.Errorf("no image loaded")
	}
	res, err := histeq.EqualizeWithOptions(ctx, src, histeq.Options{Workers: workers})
	if err != nil {
		return nil, fmt.Errorf("equalize %s: %w", s.Path, err)
	}
	s.Source, s.Result, s.Current = src, res, res.Image
	return res, nil
}

// Apply runs an engine command on the current image. equalize goes through
// the session so the plots follow it; identify leaves the image alone; any
// other command invalidates the last result.
func (s *Session) Apply(name string, args []string) error {
	if s.Current == nil {
		return fmt.Errorf("no image loaded")
	}
	switch name {
	case "equalize":
		workers := s.Config.Workers
		if len(args) >= 1 && args[0] != "" {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("invalid workers %q", args[0])
			}
			workers = v
		}
		_, err := s.equalize(context.Background(), workers)
		return err
	case "identify":
		return nil
	}
	out, err := stdimg.ApplyCommand(s.Current, name, args)
	if err != nil {
		return err
	}
	if out != nil {
		s.Current = out
		s.Result, s.Source = nil, nil
	}
	return nil
}

// Plots renders the input and output histogram plots of the last result,
// equalizing the current image first when there is none.
func (s *Session) Plots() (in, out *image.Gray, err error) {
	if s.Result == nil {
		if _, err := s.Equalize(context.Background()); err != nil {
			return nil, nil, err
		}
	}
	in, out = stdimg.RenderHistogramPlotsWithFont(s.Result, s.Config.PlotWidth, s.Config.PlotHeight, s.Config.PlotFont)
	return in, out, nil
}

// SavePlots writes input_histogram.png and output_histogram.png into dir.
func (s *Session) SavePlots(dir string) ([]string, error) {
	in, out, err := s.Plots()
	if err != nil {
		return nil, err
	}
	paths := []string{filepath.Join(dir, "input_histogram.png"), filepath.Join(dir, "output_histogram.png")}
	for i, img := range []image.Image{in, out} {
		if err := SaveImage(paths[i], img); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

// show previews the current image, or once equalized the image it came
// from, the output and both plots. Nothing is drawn when preview is off.
func (s *Session) show() {
	if !s.Config.Preview {
		return
	}
	if s.Result == nil {
		if err := PreviewImage(s.Current, "input"); err != nil {
			debugf("preview input: %v", err)
		}
		return
	}
	if err := PreviewImage(s.Source, "input"); err != nil {
		debugf("preview input: %v", err)
		return
	}
	_ = PreviewImage(s.Result.Image, "Histogram equalized output")
	if in, out, err := s.Plots(); err == nil {
		_ = PreviewImage(in, "input histogram")
		_ = PreviewImage(out, "output histogram")
	}
}

// RunBatch equalizes cfg.InputPath, writes cfg.OutputPath and the plots
// (when cfg.PlotDir is set) and prints the statistics of both images.
func RunBatch(ctx context.Context, cfg Config) error {
	s := &Session{Config: cfg}
	if err := s.Open(cfg.InputPath); err != nil {
		return fmt.Errorf("failed to read image %s: %w", cfg.InputPath, err)
	}
	res, err := s.Equalize(ctx)
	if err != nil {
		return err
	}
	if cfg.OutputPath != "" {
		if err := SaveImage(cfg.OutputPath, res.Image); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		fmt.Printf("Saved equalized image to %s\n", cfg.OutputPath)
	}
	if cfg.PlotDir != "" {
		paths, err := s.SavePlots(cfg.PlotDir)
		if err != nil {
			return fmt.Errorf("failed to write histogram plots: %w", err)
		}
		fmt.Printf("Saved histogram plots to %s\n", strings.Join(paths, ", "))
	}
	printStats("input", s.Input)
	printStats("output", res.Image)
	s.show()
	return nil
}

func printStats(label string, img image.Image) {
	if info, err := stdimg.Describe(img); err == nil {
		fmt.Printf("%s: %s\n", label, info)
	}
}

func usage() {
	fmt.Println("Commands available:")
	fmt.Println("  /  - select and apply command")
	fmt.Println("  e  - equalize the loaded image")
	fmt.Println("  o  - open another image at runtime")
	fmt.Println("  s  - save current image")
	fmt.Println("  p  - save input/output histogram plots")
	fmt.Println("  u  - check for updates")
	fmt.Println("  h  - show this help message")
	fmt.Println("  q  - quit")
}

// RunCLI starts the interactive loop. The input image of cfg is opened first
// if it exists.
func RunCLI(cfg Config) {
	s := &Session{Config: cfg}
	store := NewMetaStore(stdimg.Commands)

	if cfg.InputPath != "" {
		if err := s.Open(cfg.InputPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", cfg.InputPath, err)
		} else {
			s.show()
			printInfo(s)
		}
	}

	fmt.Println("Histogram Equalization")
	usage()

	for {
		line, err := PromptLine("> ")
		if err != nil {
			fmt.Println()
			return
		}
		if line == "" {
			continue
		}
		switch line[0] {
		case '/':
			if s.Current == nil {
				fmt.Println("No image loaded. Press 'o' to open an image first.")
				continue
			}
			applyInteractive(s, store)

		case 'e':
			if _, err := s.Equalize(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "equalize error: %v\n", err)
				continue
			}
			fmt.Println("Applied equalize")
			s.show()
			printInfo(s)

		case 's':
			if s.Current == nil {
				fmt.Println("No image loaded.")
				continue
			}
			out, _ := PromptLine("Enter output filename: ")
			if out == "" {
				fmt.Println("no filename provided")
				continue
			}
			if err := SaveImage(out, s.Current); err != nil {
				fmt.Fprintf(os.Stderr, "failed to write image: %v\n", err)
				continue
			}
			fmt.Printf("Saved to %s\n", out)

		case 'p':
			if s.Current == nil {
				fmt.Println("No image loaded.")
				continue
			}
			dir, _ := PromptLine("Enter directory for plots (empty for current): ")
			if dir == "" {
				dir = "."
			}
			paths, err := s.SavePlots(dir)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to write plots: %v\n", err)
				continue
			}
			fmt.Printf("Saved %s\n", strings.Join(paths, ", "))

		case 'o':
			path, _ := PromptLineOrFzf("Enter path to image to open ('/' to browse, empty to cancel): ")
			if path == "" {
				fmt.Println("open cancelled")
				continue
			}
			if err := s.Open(path); err != nil {
				fmt.Fprintf(os.Stderr, "failed to read image %s: %v\n", path, err)
				continue
			}
			fmt.Printf("Opened %s\n", path)
			s.show()
			printInfo(s)

		case 'u':
			if err := CheckForUpdates(); err != nil {
				fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			}

		case 'h':
			usage()

		case 'q':
			fmt.Println("Exiting...")
			return
		}
	}
}

func printInfo(s *Session) {
	if info, err := GetImageInfoImage(s.Current, s.Format); err == nil {
		fmt.Println(info)
	}
	printStats("intensity", s.Current)
}

// applyInteractive selects a command (fzf or typed), prompts for its
// arguments and applies it to the current image.
func applyInteractive(s *Session, store *MetaStore) {
	name, err := SelectCommandWithFzf(store.Commands)
	if err != nil || name == "" {
		fmt.Println("Command selection (fallback):")
		for i, c := range store.Commands {
			fmt.Printf("  %d) %s - %s\n", i+1, c.Name, c.Description)
		}
		selection, _ := PromptLine("Enter number or command name (leave empty to cancel): ")
		if selection == "" {
			fmt.Println("selection cancelled")
			return
		}
		if idx, perr := strconv.Atoi(selection); perr == nil {
			if idx < 1 || idx > len(store.Commands) {
				fmt.Println("invalid selection")
				return
			}
			name = store.Commands[idx-1].Name
		} else {
			c, lerr := store.Lookup(selection)
			if lerr != nil {
				fmt.Println(lerr)
				return
			}
			name = c.Name
		}
	}
	c, err := store.Lookup(name)
	if err != nil {
		fmt.Println(err)
		return
	}

	tooltip, _, _ := store.GetCommandHelp(c.Name)
	fmt.Println("\n" + tooltip + "\n")
	rawArgs := make([]string, len(c.Args))
	for i, a := range c.Args {
		val, perr := PromptLine(fmt.Sprintf("%s (%s): ", a.Name, a.Type))
		if perr != nil {
			fmt.Fprintf(os.Stderr, "input error: %v\n", perr)
		}
		rawArgs[i] = val
	}
	args, err := NormalizeArgs(store, c.Name, rawArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "input validation error: %v\n", err)
		fmt.Println("aborting command due to input errors")
		return
	}

	if err := s.Apply(c.Name, args); err != nil {
		fmt.Fprintf(os.Stderr, "apply command error: %v\n", err)
		return
	}
	if c.Name == "identify" {
		printInfo(s)
		return
	}
	fmt.Printf("Applied %s\n", c.Name)
	if c.Name == "equalize" {
		s.show()
	} else if s.Config.Preview {
		_ = PreviewImage(s.Current, c.Name)
	}
	printInfo(s)
}
