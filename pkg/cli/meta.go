package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/histeq/pkg/stdimg"
)

// ParamType is a small enum for parameter types used in metadata.
type ParamType string

const (
	ParamTypeInt    ParamType = "int"
	ParamTypeFloat  ParamType = "float"
	ParamTypeBool   ParamType = "bool"
	ParamTypeString ParamType = "string"
)

// ValidationRule is a machine-friendly representation of the constraints
// that a UI or client can use to validate input before invoking a command.
type ValidationRule struct {
	Type     ParamType `json:"type"`
	Required bool      `json:"required"`
	Min      *int      `json:"min,omitempty"`
	Example  string    `json:"example,omitempty"`
	Hint     string    `json:"hint,omitempty"`
}

// parseBoolLikeToString accepts common truthy/falsy forms and returns "true"/"false" string.
func parseBoolLikeToString(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return "true", nil
	case "0", "f", "false", "n", "no", "off":
		return "false", nil
	default:
		return "", fmt.Errorf("invalid boolean: %q", s)
	}
}

// GenerateTooltip produces a tooltip string from a stdimg.CommandSpec.
func GenerateTooltip(c stdimg.CommandSpec) string {
	var sb strings.Builder
	if c.Description != "" {
		sb.WriteString(c.Description)
	} else {
		sb.WriteString("No description")
	}
	if len(c.Args) == 0 {
		sb.WriteString(" (no parameters)")
		return sb.String()
	}
	sb.WriteString("\nparameters:\n")
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "- %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// zeroAllowed lists integer parameters that are intensity levels or radii.
var zeroAllowed = map[string]bool{"black": true, "white": true, "value": true, "radius": true}

// GenerateValidationRules creates ValidationRule entries from a stdimg.CommandSpec.
// Integer parameters are counts or sizes (>= 1) unless named in zeroAllowed.
func GenerateValidationRules(c stdimg.CommandSpec) map[string]ValidationRule {
	rules := make(map[string]ValidationRule, len(c.Args))
	for _, a := range c.Args {
		r := ValidationRule{Type: ParamTypeString, Required: a.Required, Hint: a.Description, Example: a.Default}
		switch strings.ToLower(a.Type) {
		case "int":
			lo := 1
			if zeroAllowed[a.Name] {
				lo = 0
			}
			r.Type = ParamTypeInt
			r.Min = &lo
		case "float":
			r.Type = ParamTypeFloat
		case "bool":
			r.Type = ParamTypeBool
		}
		rules[a.Name] = r
	}
	return rules
}

// MetaStore indexes command metadata by name.
type MetaStore struct {
	Commands []stdimg.CommandSpec
	byName   map[string]stdimg.CommandSpec
}

// NewMetaStore creates a MetaStore from a stdimg.CommandSpec list.
func NewMetaStore(cmds []stdimg.CommandSpec) *MetaStore {
	m := &MetaStore{Commands: cmds, byName: make(map[string]stdimg.CommandSpec, len(cmds))}
	for _, c := range cmds {
		m.byName[c.Name] = c
	}
	return m
}

// Lookup resolves a command by exact name, case-insensitive name or unique prefix.
func (m *MetaStore) Lookup(selection string) (stdimg.CommandSpec, error) {
	if c, ok := m.byName[selection]; ok {
		return c, nil
	}
	sel := strings.ToLower(strings.TrimSpace(selection))
	var matches []stdimg.CommandSpec
	for _, c := range m.Commands {
		name := strings.ToLower(c.Name)
		if name == sel {
			return c, nil
		}
		if strings.HasPrefix(name, sel) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return stdimg.CommandSpec{}, fmt.Errorf("unknown command: %s", selection)
	default:
		names := make([]string, len(matches))
		for i, c := range matches {
			names[i] = c.Name
		}
		return stdimg.CommandSpec{}, fmt.Errorf("ambiguous selection %q: %s", selection, strings.Join(names, ", "))
	}
}

// GetCommandHelp returns both tooltip and validation rules for a command.
func (m *MetaStore) GetCommandHelp(name string) (string, map[string]ValidationRule, error) {
	c, ok := m.byName[name]
	if !ok {
		return "", nil, fmt.Errorf("unknown command: %s", name)
	}
	return GenerateTooltip(c), GenerateValidationRules(c), nil
}

// NormalizeArgs validates raw arguments against the command metadata and
// returns them in canonical form. Empty optional values stay empty.
func NormalizeArgs(store *MetaStore, cmdName string, args []string) ([]string, error) {
	if store == nil {
		return nil, fmt.Errorf("metadata store is nil")
	}
	c, ok := store.byName[cmdName]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", cmdName)
	}
	rules := GenerateValidationRules(c)
	out := make([]string, len(c.Args))
	for i, a := range c.Args {
		raw := ""
		if i < len(args) {
			raw = strings.TrimSpace(args[i])
		}
		if raw == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			continue
		}
		vr := rules[a.Name]
		switch vr.Type {
		case ParamTypeInt:
			v, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, raw)
			}
			if vr.Min != nil && v < *vr.Min {
				return nil, fmt.Errorf("parameter %s: %d < min %d", a.Name, v, *vr.Min)
			}
			out[i] = strconv.Itoa(v)
		case ParamTypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected number, got %q", a.Name, raw)
			}
			out[i] = strconv.FormatFloat(f, 'g', -1, 64)
		case ParamTypeBool:
			bs, err := parseBoolLikeToString(raw)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			out[i] = bs
		default:
			out[i] = raw
		}
	}
	return out, nil
}
