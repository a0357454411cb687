package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// RC is the optional usdcat.yaml file, looked up in the current
// directory then in $HOME/.config/usdcat. USDCAT_* environment variables
// override it.
type RC struct {
	Indent  int    `mapstructure:"indent"`
	Color   *bool  `mapstructure:"color"`
	Lenient bool   `mapstructure:"lenient"`
	Format  string `mapstructure:"format"`
}

func loadRC(dirs ...string) (*RC, error) {
	v := viper.New()
	v.SetDefault("indent", 2)
	v.SetDefault("lenient", false)
	v.SetDefault("format", "usda")

	v.SetConfigName("usdcat")
	v.SetConfigType("yaml")
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix("usdcat")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("reading usdcat config: %w", err)
		}
	}
	rc := &RC{}
	if err := v.Unmarshal(rc); err != nil {
		return nil, fmt.Errorf("decoding usdcat config: %w", err)
	}
	if v.IsSet("color") {
		c := v.GetBool("color")
		rc.Color = &c
	}
	return rc, nil
}

func rcDirs() []string {
	res := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		res = append(res, filepath.Join(home, ".config", "usdcat"))
	}
	return res
}
