package main

import (
	"fmt"
	"strings"

	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/libdiff"

	"github.com/scott-cotton/cli"
)

func tree(cfg *TreeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tree.Parse(cc, args)
	if err != nil {
		return err
	}
	multi := len(args) > 1
	return eachStage(cfg.MainConfig, cc, args, func(file string, st *ir.Stage) error {
		if multi {
			fmt.Fprintf(cc.Out, "%s:\n", file)
		}
		return st.Traverse(func(p *ir.Prim, path spath.Path) (bool, error) {
			pad := strings.Repeat("  ", path.Depth()-1)
			head := p.Specifier.String()
			if tn := p.TypeName(); tn != "" {
				head += " " + tn
			}
			fmt.Fprintf(cc.Out, "%s%s (%s)\n", pad, p.Name(), head)
			if cfg.Props {
				for name, prop := range p.Properties() {
					fmt.Fprintf(cc.Out, "%s  .%s: %s\n", pad, name, libdiff.Property(prop))
				}
			}
			return true, nil
		})
	})
}
