package compiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"

	"kiln/pkg/codegen"
	"kiln/pkg/color"
	"kiln/pkg/interpreter"
	"kiln/pkg/lexer"
	"kiln/pkg/parser"
	"kiln/pkg/resolver"
)

type Compiler struct {
	Help            bool   // Show help message
	Verbose         bool   // Enable verbose output
	ShouldInterpret bool   // Whether to interpret the code
	ShouldCompile   bool   // Whether to compile the code
	ShouldRun       bool   // Whether to run the compiled binary
	KeepAsm         bool   // Keep the generated assembly next to the output
	DumpTokens      bool   // Print the token stream before parsing
	NoColor         bool   // Disable colored output
	TargetArch      string // Target for compilation (e.g., "x86_64-linux")
	SourceFile      string // Path to the source file
	OutputFile      string // Path to the output file

	Stdout io.Writer // program output and listings, os.Stdout when nil
	Stderr io.Writer // diagnostics, os.Stderr when nil
}

// irSource is implemented by targets that go through an intermediate language
type irSource interface {
	IR() string
}

func (opts *Compiler) stdout() io.Writer {
	if opts.Stdout == nil {
		return os.Stdout
	}
	return opts.Stdout
}

func (opts *Compiler) stderr() io.Writer {
	if opts.Stderr == nil {
		return os.Stderr
	}
	return opts.Stderr
}

// Compile reads the source file and runs the pipeline on it. The returned
// code is the program's exit code when it was interpreted or run.
func (opts *Compiler) Compile() (int, error) {
	log.Info("Processing file", "file", opts.SourceFile)

	input, err := os.ReadFile(opts.SourceFile)
	if err != nil {
		return 1, fmt.Errorf("failed to read file: %w", err)
	}

	return opts.CompileSource(string(input))
}

// CompileSource lexes, parses and resolves src, then interprets and/or
// compiles it. Source errors are rendered to Stderr and returned wrapped in
// a ReportedError.
func (opts *Compiler) CompileSource(src string) (int, error) {
	if opts.DumpTokens {
		if err := opts.dumpTokens(src); err != nil {
			return 1, opts.report(src, err)
		}
	}

	tree, err := parser.Parse(src)
	if err != nil {
		return 1, opts.report(src, err)
	}

	prog, err := resolver.Resolve(tree)
	if err != nil {
		return 1, opts.report(src, err)
	}

	if opts.Verbose {
		if err := opts.printStackCode(prog); err != nil {
			return 1, opts.report(src, err)
		}
	}

	code := 0
	if opts.ShouldCompile {
		if code, err = opts.build(prog); err != nil {
			return 1, opts.report(src, err)
		}
	}

	if opts.ShouldInterpret {
		if opts.Verbose {
			fmt.Fprintln(opts.stdout(), color.GreenText("\n=== Program Output ==="))
		}

		intr := interpreter.NewInterpreter(prog, interpreter.WithWriter(opts.stdout()))
		if code, err = intr.Run(); err != nil {
			return 1, opts.report(src, err)
		}
	}

	return code, nil
}

// report shows err as a diagnostic
func (opts *Compiler) report(src string, err error) error {
	fmt.Fprintln(opts.stderr(), Render(src, err))
	return &ReportedError{Err: err}
}

// build generates, assembles and links prog, then runs it if asked
func (opts *Compiler) build(prog *resolver.Program) (int, error) {
	target := opts.TargetArch
	if target == "" {
		target = DefaultTarget
	}

	arch, err := newAssembly(target, prog, opts.OutputFile)
	if err != nil {
		return 1, err
	}

	if err := arch.Generate(); err != nil {
		return 1, fmt.Errorf("assembly generation failed: %w", err)
	}

	if opts.Verbose {
		if ir, ok := arch.(irSource); ok {
			fmt.Fprintln(opts.stdout(), color.GreenText("\n=== Generated QBE IL ==="))
			fmt.Fprintln(opts.stdout(), ir.IR())
		}
		fmt.Fprintln(opts.stdout(), color.GreenText("\n=== Generated Assembly code ==="))
		fmt.Fprintln(opts.stdout(), arch.GetCode())
	}

	if opts.KeepAsm {
		asmFile := opts.OutputFile + asmExtension(target)
		if err := os.WriteFile(asmFile, []byte(arch.GetCode()), 0o644); err != nil {
			return 1, fmt.Errorf("failed to write assembly file: %w", err)
		}
		log.Info("Kept assembly", "file", asmFile)
	}

	if err := arch.Build(); err != nil {
		return 1, fmt.Errorf("assembly build failed: %w", err)
	}
	log.Info("Built executable", "target", target, "file", opts.OutputFile)

	if !opts.ShouldRun {
		return 0, nil
	}

	return opts.runBinary()
}

// runBinary executes the built program and returns its exit code
func (opts *Compiler) runBinary() (int, error) {
	path, err := filepath.Abs(opts.OutputFile)
	if err != nil {
		return 1, err
	}

	cmd := exec.Command(path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = opts.stdout()
	cmd.Stderr = opts.stderr()

	err = cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 1, fmt.Errorf("failed to run %s: %w", opts.OutputFile, err)
	}

	return 0, nil
}

// dumpTokens prints every token with its position
func (opts *Compiler) dumpTokens(src string) error {
	out := opts.stdout()
	fmt.Fprintln(out, color.GreenText("=== Tokens ==="))

	for tok, err := range lexer.NewLexer(src).All() {
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n",
			color.Position(tok.Pos.Line, tok.Pos.Column),
			color.YellowText(tok.Type.String()),
			color.BlueText(tok.Lexeme))
	}

	return nil
}

// printStackCode lists the target-neutral stack machine code
func (opts *Compiler) printStackCode(prog *resolver.Program) error {
	pb, err := codegen.Record(prog)
	if err != nil {
		return err
	}

	out := opts.stdout()
	fmt.Fprintln(out, color.GreenText("\n=== Stack Machine Code ==="))
	for i, instr := range pb {
		arg := ""
		if instr.Arg != nil {
			arg = fmt.Sprintf("%v", instr.Arg)
		}

		fmt.Fprintf(out, "%s: (%s, %s)\n",
			color.CyanText(fmt.Sprintf("%d", i)),
			color.YellowText(string(instr.Op)),
			color.BlueText(arg))
	}

	return nil
}
