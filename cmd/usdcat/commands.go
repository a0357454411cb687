package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: auto, usda/a, usdc/c, usdz/z",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: usda/a, usdc/c, usdz/z",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "usdcat").
		WithSynopsis("usdcat [opts] command [opts]").
		WithDescription("usdcat reads, inspects and converts USD files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return usdcatMain(cfg, cc, args)
		}).
		WithSubs(
			DetectCommand(cfg),
			CatCommand(cfg),
			TreeCommand(cfg),
			GetCommand(cfg),
			FindCommand(cfg),
			DumpCommand(cfg),
			DiffCommand(cfg),
			ConvertCommand(cfg))
}

func DetectCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DetectConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Detect, "detect").
		WithAliases("det").
		WithSynopsis("detect [files]").
		WithDescription("print the format of each file").
		WithRun(func(cc *cli.Context, args []string) error {
			return detect(cfg, cc, args)
		})
}

func CatCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CatConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cat, "cat").
		WithAliases("c").
		WithSynopsis("cat [opts] [files]").
		WithDescription("load stages and write them in the output format, usda by default").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return cat(cfg, cc, args)
		})
}

func TreeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TreeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Tree, "tree").
		WithAliases("t").
		WithSynopsis("tree [opts] [files]").
		WithDescription("show the prim hierarchy").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tree(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <path> [files]").
		WithDescription("show the prim or property at a scene path").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func FindCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FindConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Find, "find").
		WithAliases("f").
		WithSynopsis("find [opts] <query> [files]").
		WithDescription(findDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return find(cfg, cc, args)
		})
}

const findDescription = `find prims matching a boolean expression.

The expression sees these variables for each prim:

  name         the prim name
  type         the type name, "" when untyped
  specifier    def, over or class
  path         the scene path, e.g. /World/Ball
  depth        1 for root prims
  props        the property names
  numChildren  the number of child prims
  has(p)       whether the prim has property p

Example:

  usdcat find 'type == "Mesh" && has("points")' scene.usda`

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Dump, "dump").
		WithSynopsis("dump [opts] [files]").
		WithDescription("dump stages as a yaml or json tree").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return dumpStages(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [opts] a b").
		WithDescription("diff two stages, exiting 1 when they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("conv").
		WithSynopsis("convert <in> <out>").
		WithDescription("convert a file; the output format comes from -O or the extension of out").
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}
