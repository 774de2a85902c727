package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"kiln/internal/compiler"
	"kiln/internal/logger"
	"kiln/pkg/color"
)

// Main entry point for the kiln toolchain.
func main() {
	options := compiler.Compiler{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode (logs, stack machine code, generated assembly)")
	flag.BoolVar(&options.ShouldInterpret, "r", false, "Run with interpreter")
	flag.BoolVar(&options.ShouldCompile, "c", false, "Compile to binary (default when -r is not given)")
	flag.BoolVar(&options.ShouldRun, "x", false, "Run the compiled binary")
	flag.BoolVar(&options.KeepAsm, "S", false, "Keep the generated assembly next to the output")
	flag.BoolVar(&options.DumpTokens, "t", false, "Print the token stream")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.StringVar(&options.TargetArch, "a", compiler.DefaultTarget, "Target ("+strings.Join(compiler.Targets, ", ")+")")
	flag.StringVar(&options.OutputFile, "o", "a.out", "Output binary name")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]
	if !options.ShouldInterpret {
		options.ShouldCompile = true
	}
	if options.ShouldRun {
		options.ShouldCompile = true
	}

	code, err := options.Compile()
	if err != nil {
		var reported *compiler.ReportedError
		if !errors.As(err, &reported) {
			log.Error("Compilation failed", "error", err)
		}
		os.Exit(1)
	}

	os.Exit(code)
}
