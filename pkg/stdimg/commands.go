// Package stdimg: authoritative registry of engine commands.
//
// This file mirrors the commands implemented in ApplyCommand in
// pkg/stdimg/engine.go. Keep this list up-to-date when you add or
// modify commands so callers (CLI, docs, help text) can read a single
// source of truth.

package stdimg

// ArgSpec describes a single argument for a command. Fields are textual
// and intended for help/validation UI rather than machine-enforced typing.
type ArgSpec struct {
	Name        string // human name
	Type        string // "int", "float", "bool", "string", "path", etc.
	Required    bool
	Default     string // textual default (for help only)
	Description string
}

// CommandSpec defines a single command and its expected arguments.
type CommandSpec struct {
	Name        string
	Args        []ArgSpec
	Usage       string // short usage string
	Description string // brief description
}

// Commands is the authoritative list of commands implemented by the engine.
// Keep this synchronized with ApplyCommand in pkg/stdimg/engine.go.
var Commands = []CommandSpec{
	{
		Name:        "grayscale",
		Args:        []ArgSpec{},
		Usage:       "grayscale",
		Description: "Convert to 8-bit grayscale (BT.601 luma).",
	},
	{
		Name:        "equalize",
		Args:        []ArgSpec{{"workers", "int", false, "1", "row bands processed in parallel"}},
		Usage:       "equalize [workers]",
		Description: "Grayscale histogram equalization through the cumulative distribution.",
	},
	{
		Name:        "histogram",
		Args:        []ArgSpec{{"width", "int", false, "512", "plot width"}, {"height", "int", false, "160", "plot height"}},
		Usage:       "histogram [width] [height]",
		Description: "Render the intensity PDF of the current image as a bar plot.",
	},
	{
		Name:        "outputHistogram",
		Args:        []ArgSpec{{"width", "int", false, "512", "plot width"}, {"height", "int", false, "160", "plot height"}},
		Usage:       "outputHistogram [width] [height]",
		Description: "Render the intensity PDF the current image would have after equalization.",
	},
	{
		Name:        "normalize",
		Args:        []ArgSpec{},
		Usage:       "normalize",
		Description: "Linearly stretch the occupied intensity range to 0..255.",
	},
	{
		Name: "level",
		Args: []ArgSpec{
			{"black", "int", true, "0", "input level mapped to 0"},
			{"white", "int", true, "255", "input level mapped to 255"},
			{"gamma", "float", false, "1.0", "midtone gamma"},
		},
		Usage:       "level <black> <white> [gamma]",
		Description: "Levels adjustment between a black and white point.",
	},
	{
		Name:        "gamma",
		Args:        []ArgSpec{{"gamma", "float", true, "1.0", "gamma > 1 brightens"}},
		Usage:       "gamma <gamma>",
		Description: "Gamma correction.",
	},
	{
		Name:        "autoGamma",
		Args:        []ArgSpec{},
		Usage:       "autoGamma",
		Description: "Gamma correction that maps the mean intensity to mid-gray.",
	},
	{
		Name:        "negate",
		Args:        []ArgSpec{},
		Usage:       "negate",
		Description: "Invert intensities.",
	},
	{
		Name:        "threshold",
		Args:        []ArgSpec{{"value", "int", true, "128", "levels >= value become white"}},
		Usage:       "threshold <value>",
		Description: "Binary threshold.",
	},
	{
		Name:        "median",
		Args:        []ArgSpec{{"radius", "int", true, "1", "window radius in pixels"}},
		Usage:       "median <radius>",
		Description: "Median filter, removes impulse noise before equalizing.",
	},
	{
		Name:        "posterize",
		Args:        []ArgSpec{{"levels", "int", true, "4", "number of intensity levels"}},
		Usage:       "posterize <levels>",
		Description: "Quantize to evenly spaced intensity levels.",
	},
	{
		Name: "noise",
		Args: []ArgSpec{
			{"type", "string", false, "gaussian", "gaussian, uniform or impulse"},
			{"amount", "float", true, "8", "stddev, max deviation or percent of pixels"},
			{"seed", "int", false, "1", "random seed"},
		},
		Usage:       "noise [type] <amount> [seed]",
		Description: "Add reproducible noise.",
	},
	{
		Name:        "annotate",
		Args:        []ArgSpec{{"text", "string", true, "caption", "text drawn in the top-left corner"}},
		Usage:       "annotate <text>",
		Description: "Draw a caption with the built-in font.",
	},
	{
		Name:        "flip",
		Args:        []ArgSpec{},
		Usage:       "flip",
		Description: "Mirror vertically.",
	},
	{
		Name:        "flop",
		Args:        []ArgSpec{},
		Usage:       "flop",
		Description: "Mirror horizontally.",
	},
	{
		Name:        "identify",
		Args:        []ArgSpec{},
		Usage:       "identify",
		Description: "Print image information and histogram statistics.",
	},
}
