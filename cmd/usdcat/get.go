package main

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/encode"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/libdiff"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a scene path", cli.ErrUsage)
	}
	path, err := spath.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return eachStage(cfg.MainConfig, cc, args[1:], func(_ string, st *ir.Stage) error {
		if path.IsPropertyPath() {
			prop, err := st.PropertyAtPath(path)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cc.Out, "%s: %s\n", path, libdiff.Property(prop))
			return err
		}
		if path.IsRoot() {
			return encode.Encode(st, cc.Out, cfg.encOpts(cc.Out)...)
		}
		p, err := st.PrimAtPath(path)
		if err != nil {
			return err
		}
		return encode.EncodePrim(p, cc.Out, cfg.encOpts(cc.Out)...)
	})
}
