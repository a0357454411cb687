package main

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/encode"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/libdiff"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	a, err := getStageFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	defer a.Free()
	b, err := getStageFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[1], err)
	}
	defer b.Free()
	if cfg.Reverse {
		a, b = b, a
	}
	var differs bool
	if cfg.Text {
		differs, err = diffText(cfg, cc, a, b)
	} else {
		differs, err = diffStages(cfg, cc, a, b)
	}
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffStages(cfg *DiffConfig, cc *cli.Context, a, b *ir.Stage) (bool, error) {
	changes, err := libdiff.Diff(a, b)
	if err != nil {
		return false, err
	}
	colors := diffColors(cfg, cc)
	for _, c := range changes {
		line := c.String()
		if colors != nil {
			line = colors[c.Op].Sprint(line)
		}
		if _, err := fmt.Fprintln(cc.Out, line); err != nil {
			return false, err
		}
	}
	return len(changes) > 0, nil
}

func diffText(cfg *DiffConfig, cc *cli.Context, a, b *ir.Stage) (bool, error) {
	ta, err := encode.String(a, cfg.textOpts()...)
	if err != nil {
		return false, err
	}
	tb, err := encode.String(b, cfg.textOpts()...)
	if err != nil {
		return false, err
	}
	d := libdiff.Text(ta, tb)
	if d == "" {
		return false, nil
	}
	_, err = cc.Out.Write([]byte(d))
	return true, err
}

// diffColors returns per-op colors when the output is colored, else nil.
func diffColors(cfg *DiffConfig, cc *cli.Context) map[libdiff.Op]*color.Color {
	if !cfg.colored(cc.Out) {
		return nil
	}
	return map[libdiff.Op]*color.Color{
		libdiff.Insert:  color.New(color.FgGreen),
		libdiff.Delete:  color.New(color.FgRed),
		libdiff.Replace: color.New(color.FgYellow),
	}
}
