package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	usd "github.com/signadot/usd-format/go-usd"
	"github.com/signadot/usd-format/go-usd/ir"

	"github.com/scott-cotton/cli"
)

// getStageFile loads the stage in path, or from stdin when path is "-".
// Warnings go to stderr.
func getStageFile(cfg *MainConfig, cc *cli.Context, path string) (*ir.Stage, error) {
	var (
		st       *ir.Stage
		warnings string
		err      error
	)
	if path != "-" {
		st, warnings, err = usd.LoadFromFile(path, cfg.loadOpts()...)
	} else {
		var d []byte
		d, err = io.ReadAll(cc.In)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		st, warnings, err = usd.LoadFromMemory(d, cfg.loadOpts()...)
	}
	if err != nil {
		return nil, err
	}
	for _, w := range strings.Split(warnings, "\n") {
		if w != "" {
			fmt.Fprintf(os.Stderr, "%s: warning: %s\n", path, w)
		}
	}
	return st, nil
}

// eachStage runs f on the stage of each file, or of stdin when there
// are none.
func eachStage(cfg *MainConfig, cc *cli.Context, files []string, f func(file string, st *ir.Stage) error) error {
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		st, err := getStageFile(cfg, cc, file)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}
		err = f(file, st)
		st.Free()
		if err != nil {
			return fmt.Errorf("error processing %s: %w", file, err)
		}
	}
	return nil
}
