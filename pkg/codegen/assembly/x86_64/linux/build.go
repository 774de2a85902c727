package x86_64_linux

import (
	"path/filepath"

	"kiln/pkg/codegen/assembly"
)

// Build assembles with nasm and links with ld into a static ELF executable
func (a *x86_64Linux) Build() error {
	return assembly.Build(Target, a.GetCode(), "program.asm", a.output, func(dir, asm, exe string) error {
		obj := filepath.Join(dir, "program.o")
		if err := assembly.Run("nasm", "-f", "elf64", "-o", obj, asm); err != nil {
			return err
		}
		return assembly.Run("ld", "-o", exe, obj)
	})
}
