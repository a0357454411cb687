package main

import (
	"fmt"
	"io"

	"github.com/signadot/usd-format/go-usd/format"

	"github.com/scott-cotton/cli"
)

func detect(cfg *DetectConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Detect.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		d, err := io.ReadAll(cc.In)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		_, err = fmt.Fprintf(cc.Out, "-: %s\n", format.Detect(d, ""))
		return err
	}
	for _, file := range args {
		f, err := format.DetectFile(file)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cc.Out, "%s: %s\n", file, f); err != nil {
			return err
		}
	}
	return nil
}
