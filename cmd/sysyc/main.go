// Command sysyc compiles a SysY source file to either textual IR or
// RISC-V 32 assembly, selected by the -koopa/-riscv mode flag. The
// driver reads the source, runs each compiler stage in order, wraps
// each stage's failure with fmt.Errorf, and aborts with a nonzero exit
// code on the first one that fails.
package main

import (
	"fmt"
	"os"

	"sysyc/internal/back/riscv"
	"sysyc/internal/cliutil"
	"sysyc/internal/diag"
	"sysyc/internal/front"
	"sysyc/internal/irprint"
	"sysyc/internal/parser"
)

func run(opt cliutil.Options) error {
	src, err := cliutil.ReadSource(opt)
	if err != nil {
		return fmt.Errorf("could not read source code: %s", err)
	}

	bag := &diag.Bag{}
	cu := parser.Parse(src, bag)
	if bag.HasErrors() {
		return fmt.Errorf("parse error: %s", bag.First())
	}

	prog := front.Lower(cu, bag)
	if bag.HasErrors() {
		return fmt.Errorf("semantic error: %s", bag.First())
	}

	var out string
	switch opt.Mode {
	case cliutil.ModeKoopa:
		out = irprint.Print(prog)
	case cliutil.ModeRiscV:
		out = riscv.Generate(prog)
	}

	if err := cliutil.WriteOutput(opt, out); err != nil {
		return fmt.Errorf("could not write output: %s", err)
	}
	return nil
}

func main() {
	opt, err := cliutil.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "command line argument error: %s\n", err)
		os.Exit(1)
	}

	if err := run(opt); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
