package encode

import (
	"strings"

	"github.com/signadot/usd-format/go-usd/value"

	"github.com/fatih/color"
)

// Colorable selects a color. Type is value.TypeInvalid for everything
// but attribute and metadata values.
type Colorable struct {
	Type value.ValueType
	Attr ColorAttr
}

type ColorAttr int

const (
	CommentColor ColorAttr = iota
	KeywordColor
	TypeColor
	NameColor
	PropertyColor
	ValueColor
	PathColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	able := Colorable{}
	able.Attr = CommentColor
	colors.Map[able] = color.BlueString
	able.Attr = KeywordColor
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()
	able.Attr = TypeColor
	colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
	able.Attr = NameColor
	colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
	able.Attr = PropertyColor
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Attr = PathColor
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()
	able.Attr = SepColor
	colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()

	able.Attr = ValueColor
	for _, t := range value.Types() {
		able.Type = t
		switch {
		case t == value.TypeBool:
			colors.Map[able] = color.CyanString
		case value.IsNumeric(t):
			colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
		default:
			colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
		}
	}
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t value.ValueType, a ColorAttr, s string) string {
	res := c.Get(t, a)(s)
	return res
}

func (c *Colors) Get(t value.ValueType, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
