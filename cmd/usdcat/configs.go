package main

import (
	"fmt"
	"io"
	"os"

	usd "github.com/signadot/usd-format/go-usd"
	"github.com/signadot/usd-format/go-usd/encode"
	"github.com/signadot/usd-format/go-usd/format"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode usda with color'"`
	Lenient bool `cli:"name=lenient desc='skip unsupported content with warnings'"`
	Indent  int  `cli:"name=indent desc='usda indentation width'"`
	Verbose bool `cli:"name=v aliases=verbose desc='log to stderr'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	// RC holds settings from usdcat.yaml, applied below flags.
	RC *RC

	Log *zap.Logger

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// isSet reports whether flag name was given on the command line.
func (cfg *MainConfig) isSet(name string) bool {
	for _, opt := range cfg.Main.Opts {
		if opt.Name != name {
			continue
		}
		return opt.Value != nil
	}
	return false
}

func (cfg *MainConfig) lenient() bool {
	if cfg.isSet("lenient") || cfg.RC == nil {
		return cfg.Lenient
	}
	return cfg.RC.Lenient
}

func (cfg *MainConfig) indent() int {
	if cfg.isSet("indent") || cfg.RC == nil {
		return cfg.Indent
	}
	return cfg.RC.Indent
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	if cfg.RC != nil && cfg.RC.Format != "" {
		if f, err := format.ParseFormat(cfg.RC.Format); err == nil {
			return f
		}
	}
	return format.USDA
}

func (cfg *MainConfig) loadOpts() []usd.Option {
	res := []usd.Option{
		usd.Lenient(cfg.lenient()),
		usd.WithLogger(cfg.logger()),
	}
	if cfg.InFormat != nil {
		res = append(res, usd.WithFormat(*cfg.InFormat))
	}
	return res
}

func (cfg *MainConfig) saveOpts() []usd.Option {
	res := []usd.Option{usd.WithLogger(cfg.logger())}
	if n := cfg.indent(); n > 0 {
		res = append(res, usd.Indent(n))
	}
	return res
}

func (cfg *MainConfig) logger() *zap.Logger {
	if cfg.Log == nil {
		return zap.NewNop()
	}
	return cfg.Log
}

// textOpts are the encoding options of plain usda text.
func (cfg *MainConfig) textOpts() []encode.EncodeOption {
	if n := cfg.indent(); n > 0 {
		return []encode.EncodeOption{encode.Indent(n)}
	}
	return nil
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := cfg.textOpts()
	if cfg.colored(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// colored reports whether output to w is colored: the -color flag wins,
// then usdcat.yaml, then whether w is a terminal.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color || cfg.isSet("color") {
		return cfg.Color
	}
	if cfg.RC != nil && cfg.RC.Color != nil {
		return *cfg.RC.Color
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type DetectConfig struct {
	*MainConfig

	Detect *cli.Command
}

type CatConfig struct {
	*MainConfig
	NoHeader bool `cli:"name=noheader desc='omit the #usda line'"`

	Cat *cli.Command
}

type TreeConfig struct {
	*MainConfig
	Props bool `cli:"name=p aliases=props desc='list properties'"`

	Tree *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type FindConfig struct {
	*MainConfig
	Count bool `cli:"name=n desc='print the number of matches only'"`

	Find *cli.Command
}

type DumpConfig struct {
	*MainConfig
	JSON     bool `cli:"name=j aliases=json desc='dump json instead of yaml'"`
	NoValues bool `cli:"name=novalues desc='omit attribute values'"`

	Dump *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Text    bool `cli:"name=text desc='diff the usda renderings line by line'"`

	Diff *cli.Command
}

type ConvertConfig struct {
	*MainConfig

	Convert *cli.Command
}
