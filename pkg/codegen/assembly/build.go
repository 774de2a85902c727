package assembly

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Linker turns the assembly file asm into the executable exe. Intermediate
// files go in dir, which is removed afterwards.
type Linker func(dir, asm, exe string) error

// Build assembles and links code for target into output, reusing a cached
// executable when the same code was built before.
func Build(target, code, asmName, output string, link Linker) error {
	cache := DefaultCache()
	key := Key(target, code)

	if cache != nil {
		if cached, ok := cache.Lookup(key); ok {
			log.Debug("build cache hit", "target", target, "key", key)
			return copyFile(cached, output)
		}
	}

	tempDir, err := os.MkdirTemp("", "kiln_build_")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	asmFile := filepath.Join(tempDir, asmName)
	if err := os.WriteFile(asmFile, []byte(code), 0o644); err != nil {
		return fmt.Errorf("failed to write assembly file: %w", err)
	}

	execFile := filepath.Join(tempDir, "program")
	if err := link(tempDir, asmFile, execFile); err != nil {
		return err
	}

	if cache != nil {
		if err := cache.Store(key, execFile); err != nil {
			log.Warn("could not cache executable", "err", err)
		}
	}

	if err := copyFile(execFile, output); err != nil {
		return fmt.Errorf("failed to copy executable: %w", err)
	}

	return nil
}

// Run invokes an external tool, folding its output into the error on failure
func Run(name string, args ...string) error {
	log.Debug("running", "cmd", name, "args", args)

	cmd := exec.Command(name, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w\nOutput: %s", name, err, output)
	}

	return nil
}

// Available reports whether every tool is on PATH
func Available(tools ...string) bool {
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			return false
		}
	}

	return true
}
