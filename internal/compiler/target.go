package compiler

import (
	"errors"
	"fmt"
	"strings"

	"kiln/pkg/codegen/assembly"
	arm64_macos "kiln/pkg/codegen/assembly/arm64/macos"
	"kiln/pkg/codegen/assembly/qbe"
	x86_64_linux "kiln/pkg/codegen/assembly/x86_64/linux"
	"kiln/pkg/resolver"
)

// DefaultTarget is the target used when none is given
const DefaultTarget = x86_64_linux.Target

// Targets lists every supported target
var Targets = []string{x86_64_linux.Target, arm64_macos.Target, qbe.Target}

var ErrUnknownTarget = errors.New("unknown target")

// newAssembly creates the generator for target writing to output
func newAssembly(target string, prog *resolver.Program, output string) (assembly.Assembly, error) {
	switch target {
	case x86_64_linux.Target:
		return x86_64_linux.NewX86_64Linux(prog, output), nil
	case arm64_macos.Target:
		return arm64_macos.NewArm64Macos(prog, output), nil
	case qbe.Target:
		return qbe.NewQBE(prog, output), nil
	default:
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownTarget, target, strings.Join(Targets, ", "))
	}
}

// asmExtension is the suffix for kept assembly files
func asmExtension(target string) string {
	if target == x86_64_linux.Target {
		return ".asm"
	}
	return ".s"
}
