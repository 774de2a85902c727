//go:build windows

package qbe

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
)

// compileIR runs the system qbe, since libqbe is not available on Windows
func compileIR(machine, ir string) (string, error) {
	log.Warn("self-contained QBE backend is not supported on Windows, using the system qbe")
	if _, err := exec.LookPath("qbe"); err != nil {
		return "", fmt.Errorf("QBE not found in PATH: %w", err)
	}

	input, err := os.CreateTemp("", "kiln-qbe-*.ssa")
	if err != nil {
		return "", err
	}
	defer os.Remove(input.Name())

	if _, err := input.WriteString(ir); err != nil {
		input.Close()
		return "", err
	}
	input.Close()

	output := input.Name() + ".s"
	defer os.Remove(output)

	cmd := exec.Command("qbe", "-o", output, "-t", machine, input.Name())
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("qbe failed: %w\nOutput: %s", err, out)
	}

	asm, err := os.ReadFile(output)
	if err != nil {
		return "", err
	}
	return string(asm), nil
}
