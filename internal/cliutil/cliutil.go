// Package cliutil parses the compiler's command line and opens its
// output destination: `<mode> <input_path> -o <output_path>` where mode
// is "-koopa" or "-riscv". Uses github.com/spf13/pflag rather than a
// hand-rolled scan of os.Args — a closer idiomatic fit for a
// flag-plus-positional grammar than hand-rolling getopt.
package cliutil

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Mode selects the compiler's output format.
type Mode int

const (
	ModeKoopa Mode = iota
	ModeRiscV
)

// Options is the parsed command line: mode, input source path, and
// output path.
type Options struct {
	Mode Mode
	Src  string
	Out  string
}

// ParseArgs parses os.Args[1:] into Options. The mode token (-koopa or
// -riscv) is registered as a pflag boolean pair rather than read off
// fs.Args() directly: pflag's shorthand-flag grammar would otherwise
// try to split a bare "-koopa" into single-letter shorthands ('k', 'o',
// 'o', ...), so the single positional mode token is rewritten to its
// long-flag spelling ("--koopa"/"--riscv") before parsing. One
// positional token (the input path) and exactly one of the two mode
// flags are required; anything else is a fatal error.
func ParseArgs(args []string) (Options, error) {
	fs := pflag.NewFlagSet("sysyc", pflag.ContinueOnError)
	koopa := fs.Bool("koopa", false, "emit textual IR")
	riscv := fs.Bool("riscv", false, "emit RISC-V 32 assembly")
	out := fs.StringP("o", "o", "", "output file path")

	normalized := make([]string, len(args))
	for i, a := range args {
		switch a {
		case "-koopa":
			normalized[i] = "--koopa"
		case "-riscv":
			normalized[i] = "--riscv"
		default:
			normalized[i] = a
		}
	}
	if err := fs.Parse(normalized); err != nil {
		return Options{}, err
	}

	pos := fs.Args()
	if len(pos) != 1 {
		return Options{}, fmt.Errorf("expected <mode> <input_path> -o <output_path>, got %d positional argument(s)", len(pos))
	}
	if *out == "" {
		return Options{}, fmt.Errorf("missing required -o <output_path>")
	}
	if *koopa == *riscv {
		return Options{}, fmt.Errorf("expected exactly one of -koopa or -riscv")
	}

	opt := Options{Src: pos[0], Out: *out}
	if *koopa {
		opt.Mode = ModeKoopa
	} else {
		opt.Mode = ModeRiscV
	}
	return opt, nil
}

// ReadSource reads opt.Src whole, as UTF-8 source text.
func ReadSource(opt Options) (string, error) {
	b, err := os.ReadFile(opt.Src)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteOutput writes text to opt.Out, truncating/creating it as needed.
func WriteOutput(opt Options, text string) error {
	return os.WriteFile(opt.Out, []byte(text), 0644)
}
