package main

import (
	"fmt"

	usd "github.com/signadot/usd-format/go-usd"
	"github.com/signadot/usd-format/go-usd/encode"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"

	"github.com/scott-cotton/cli"
)

func cat(cfg *CatConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Cat.Parse(cc, args)
	if err != nil {
		return err
	}
	f := cfg.outFormat()
	if f != format.USDA && len(args) > 1 {
		return fmt.Errorf("%w: %s output takes one input", cli.ErrUsage, f)
	}
	i := 0
	return eachStage(cfg.MainConfig, cc, args, func(_ string, st *ir.Stage) error {
		if i > 0 {
			if _, err := cc.Out.Write([]byte("\n")); err != nil {
				return err
			}
		}
		i++
		if f != format.USDA {
			d, err := usd.SaveToMemory(st, f, cfg.saveOpts()...)
			if err != nil {
				return err
			}
			_, err = cc.Out.Write(d)
			return err
		}
		opts := append(cfg.encOpts(cc.Out), encode.EncodeHeader(!cfg.NoHeader))
		return encode.Encode(st, cc.Out, opts...)
	})
}
