package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Parse  bool
	Tokens bool
	Crate  bool
	Load   bool
	Usdz   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("USD_DEBUG_PARSE")
	d.Tokens = boolEnv("USD_DEBUG_TOKENS")
	d.Crate = boolEnv("USD_DEBUG_CRATE")
	d.Load = boolEnv("USD_DEBUG_LOAD")
	d.Usdz = boolEnv("USD_DEBUG_USDZ")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Tokens() bool {
	return d.Tokens
}
func Crate() bool {
	return d.Crate
}
func Load() bool {
	return d.Load
}
func Usdz() bool {
	return d.Usdz
}

// Logf writes a debug line to stderr.
func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
	if len(format) == 0 || format[len(format)-1] != '\n' {
		os.Stderr.Write([]byte{'\n'})
	}
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
