package stdimg

import (
	"context"
	"fmt"
	"image"
	"strconv"

	"github.com/Fepozopo/histeq/pkg/histeq"
)

// ApplyCommand applies a named command to img and returns a new image.
// identify returns a nil image; callers print Describe output instead.
func ApplyCommand(img image.Image, commandName string, args []string) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	src := ToGray(img)
	switch commandName {
	case "grayscale":
		if len(args) != 0 {
			return nil, fmt.Errorf("grayscale takes no args")
		}
		return src, nil

	case "equalize":
		workers := 1
		if len(args) >= 1 && args[0] != "" {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("invalid workers: %w", err)
			}
			if v < 1 {
				return nil, fmt.Errorf("workers must be >= 1, got %d", v)
			}
			workers = v
		}
		res, err := histeq.EqualizeWithOptions(context.Background(), src, histeq.Options{Workers: workers, SkipOutputStats: true})
		if err != nil {
			return nil, err
		}
		return res.Image, nil

	case "histogram", "outputHistogram":
		width, height, err := parsePlotSize(args)
		if err != nil {
			return nil, err
		}
		res, err := histeq.Equalize(src)
		if err != nil {
			return nil, err
		}
		in, out := RenderHistogramPlots(res, width, height)
		if commandName == "histogram" {
			return in, nil
		}
		return out, nil

	case "normalize":
		return Normalize(src), nil

	case "level":
		if len(args) < 2 {
			return nil, fmt.Errorf("level requires black and white points")
		}
		black, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid black point: %w", err)
		}
		white, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("invalid white point: %w", err)
		}
		gamma := 1.0
		if len(args) >= 3 && args[2] != "" {
			if gamma, err = strconv.ParseFloat(args[2], 64); err != nil {
				return nil, fmt.Errorf("invalid gamma: %w", err)
			}
		}
		if white <= black {
			return nil, fmt.Errorf("white point %d must exceed black point %d", white, black)
		}
		return Level(src, float64(black), gamma, float64(white)), nil

	case "gamma":
		if len(args) != 1 {
			return nil, fmt.Errorf("gamma requires 1 arg")
		}
		g, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gamma: %w", err)
		}
		if g <= 0 {
			return nil, fmt.Errorf("gamma must be > 0, got %v", g)
		}
		return Gamma(src, g), nil

	case "autoGamma":
		return AutoGamma(src), nil

	case "negate":
		return Negate(src), nil

	case "threshold":
		if len(args) != 1 {
			return nil, fmt.Errorf("threshold requires 1 arg")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid threshold: %w", err)
		}
		return Threshold(src, v), nil

	case "median":
		if len(args) != 1 {
			return nil, fmt.Errorf("median requires 1 arg")
		}
		r, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid radius: %w", err)
		}
		if r < 0 {
			return nil, fmt.Errorf("radius must be >= 0, got %d", r)
		}
		return MedianFilter(src, r), nil

	case "posterize":
		if len(args) != 1 {
			return nil, fmt.Errorf("posterize requires 1 arg")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid levels: %w", err)
		}
		return Posterize(src, n), nil

	case "noise":
		if len(args) < 2 {
			return nil, fmt.Errorf("noise requires type and amount")
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount: %w", err)
		}
		var seed int64 = 1
		if len(args) >= 3 && args[2] != "" {
			if seed, err = strconv.ParseInt(args[2], 10, 64); err != nil {
				return nil, fmt.Errorf("invalid seed: %w", err)
			}
		}
		return AddNoise(src, args[0], amount, seed)

	case "annotate":
		if len(args) < 1 || args[0] == "" {
			return nil, fmt.Errorf("annotate requires text")
		}
		return LabelImage(src, args[0]), nil

	case "flip":
		return Flip(src), nil

	case "flop":
		return Flop(src), nil

	case "identify":
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported command: %s", commandName)
	}
}

func parsePlotSize(args []string) (int, int, error) {
	width, height := DefaultPlotWidth, DefaultPlotHeight
	if len(args) >= 1 && args[0] != "" {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid width: %w", err)
		}
		width = v
	}
	if len(args) >= 2 && args[1] != "" {
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return 0, 0, fmt.Errorf("invalid height: %w", err)
		}
		height = v
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("plot size must be positive, got %dx%d", width, height)
	}
	return width, height, nil
}

// Describe summarizes the intensity statistics of img.
func Describe(img image.Image) (string, error) {
	g := ToGray(img)
	if g == nil || g.Bounds().Empty() {
		return "", fmt.Errorf("describe: %w", histeq.ErrEmptyImage)
	}
	hist := histeq.ComputeHistogram(g)
	total := hist.Sum()
	minV, maxV := -1, 0
	sum := 0
	used := 0
	for v, n := range hist {
		if n == 0 {
			continue
		}
		if minV < 0 {
			minV = v
		}
		maxV = v
		sum += v * n
		used++
	}
	return fmt.Sprintf("Pixels: %d, Min: %d, Max: %d, Mean: %.2f, Levels used: %d/%d",
		total, minV, maxV, float64(sum)/float64(total), used, histeq.Levels), nil
}
