package memsim

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Design is a TOML description of an elaborated hierarchy, used by the
// command-line tools and test fixtures in place of a real simulator.
type Design struct {
	Top     string       `toml:"top"`
	Objects []ObjectSpec `toml:"objects"`
}

// ObjectSpec declares one object. Paths are dotted and rooted at Top;
// parents must appear before children.
type ObjectSpec struct {
	Path    string `toml:"path"`
	Kind    string `toml:"kind"`
	Width   int    `toml:"width"`
	Left    *int   `toml:"left"`
	Right   *int   `toml:"right"`
	Const   bool   `toml:"const"`
	Value   string `toml:"value"`
	Count   int    `toml:"count"`
	Style   string `toml:"style"`
	DefName string `toml:"def_name"`
	DefFile string `toml:"def_file"`
}

// LoadDesign reads and validates a design description.
func LoadDesign(path string) (Design, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Design{}, fmt.Errorf("design: read %s: %w", path, err)
	}
	var d Design
	if err := toml.Unmarshal(raw, &d); err != nil {
		return Design{}, fmt.Errorf("design: parse %s: %w", path, err)
	}
	if d.Top == "" {
		d.Top = "top"
	}
	if err := ValidateDesign(d); err != nil {
		return Design{}, err
	}
	return d, nil
}

// ValidateDesign checks kinds and path rooting before any node is built.
func ValidateDesign(d Design) error {
	for i, o := range d.Objects {
		if o.Path == "" {
			return fmt.Errorf("design: objects[%d]: missing path", i)
		}
		if o.Path != d.Top && !strings.HasPrefix(o.Path, d.Top+".") {
			return fmt.Errorf("design: objects[%d]: path %q not rooted at %q", i, o.Path, d.Top)
		}
		switch o.Kind {
		case "module", "structure", "reg", "net", "integer", "enum", "real", "string":
		case "netarray":
			if o.Left == nil || o.Right == nil {
				return fmt.Errorf("design: objects[%d]: netarray %q needs left and right bounds", i, o.Path)
			}
		case "genarray":
			if o.Count <= 0 {
				return fmt.Errorf("design: objects[%d]: genarray %q needs a positive count", i, o.Path)
			}
		default:
			return fmt.Errorf("design: objects[%d]: unknown kind %q", i, o.Kind)
		}
	}
	return nil
}

// FromDesign builds a Sim from a validated design.
func FromDesign(d Design) (*Sim, error) {
	if err := ValidateDesign(d); err != nil {
		return nil, err
	}
	b := NewBuilder(d.Top)
	for _, o := range d.Objects {
		if o.Path == d.Top {
			continue
		}
		width := o.Width
		if width == 0 {
			width = 1
		}
		switch o.Kind {
		case "module":
			b.Module(o.Path)
		case "structure":
			b.Struct(o.Path)
		case "reg":
			b.Reg(o.Path, width, parseUintValue(o.Value))
		case "net":
			b.Net(o.Path, width, parseUintValue(o.Value))
		case "integer":
			b.Integer(o.Path, parseIntValue(o.Value))
		case "enum":
			b.Enum(o.Path, parseIntValue(o.Value))
		case "real":
			b.Real(o.Path, parseRealValue(o.Value))
		case "string":
			b.Str(o.Path, o.Value)
		case "netarray":
			b.NetArray(o.Path, *o.Left, *o.Right, width)
		case "genarray":
			style := o.Style
			if style == "" {
				style = StyleBracket
			}
			b.GenArray(o.Path, o.Count, style)
		}
		if o.Const {
			b.MarkConst(o.Path)
		}
		if o.DefName != "" || o.DefFile != "" {
			b.WithDef(o.Path, o.DefName, o.DefFile)
		}
	}
	return b.Build()
}

func parseUintValue(s string) uint64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseIntValue(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseRealValue(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
