package main

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/query"

	"github.com/scott-cotton/cli"
)

func find(cfg *FindConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Find.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: find requires a query", cli.ErrUsage)
	}
	q, err := query.Compile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	multi := len(args) > 2
	return eachStage(cfg.MainConfig, cc, args[1:], func(file string, st *ir.Stage) error {
		paths, err := q.Find(st)
		if err != nil {
			return err
		}
		prefix := ""
		if multi {
			prefix = file + ":"
		}
		if cfg.Count {
			_, err := fmt.Fprintf(cc.Out, "%s%d\n", prefix, len(paths))
			return err
		}
		for _, p := range paths {
			if _, err := fmt.Fprintf(cc.Out, "%s%s\n", prefix, p); err != nil {
				return err
			}
		}
		return nil
	})
}
