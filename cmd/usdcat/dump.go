package main

import (
	"github.com/signadot/usd-format/go-usd/dump"
	"github.com/signadot/usd-format/go-usd/ir"

	"github.com/scott-cotton/cli"
)

func dumpStages(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		return err
	}
	opts := []dump.DumpOption{dump.Values(!cfg.NoValues)}
	if n := cfg.indent(); n > 0 {
		opts = append(opts, dump.Indent(n))
	}
	i := 0
	return eachStage(cfg.MainConfig, cc, args, func(_ string, st *ir.Stage) error {
		var d []byte
		if cfg.JSON {
			d, err = dump.JSON(st, opts...)
		} else {
			d, err = dump.YAML(st, opts...)
		}
		if err != nil {
			return err
		}
		if i > 0 && !cfg.JSON {
			if _, err := cc.Out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		i++
		_, err = cc.Out.Write(d)
		return err
	})
}
