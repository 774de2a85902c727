package arm64_macos

import (
	"path/filepath"

	"kiln/pkg/codegen/assembly"
)

// Build assembles and links the ARM64 assembly code into an executable for macOS
func (a *arm64Macos) Build() error {
	return assembly.Build(Target, a.GetCode(), "program.s", a.output, func(dir, asm, exe string) error {
		// Assemble to object file using as
		obj := filepath.Join(dir, "program.o")
		if err := assembly.Run("as", "-arch", "arm64", "-o", obj, asm); err != nil {
			return err
		}

		// Link to executable using clang (more reliable than ld)
		return assembly.Run("clang", "-arch", "arm64", "-o", exe, obj)
	})
}
