package main

import (
	"fmt"

	usd "github.com/signadot/usd-format/go-usd"

	"github.com/scott-cotton/cli"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: convert requires 2 args, got %v", cli.ErrUsage, args)
	}
	st, err := getStageFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return fmt.Errorf("error loading %s: %w", args[0], err)
	}
	defer st.Free()
	opts := cfg.saveOpts()
	if cfg.OutFormat != nil {
		opts = append(opts, usd.WithFormat(*cfg.OutFormat))
	}
	return usd.SaveToFile(st, args[1], opts...)
}
