package qbe

import "kiln/pkg/codegen/assembly"

// Build assembles and links the generated assembly against libc with cc
func (b *qbeBackend) Build() error {
	return assembly.Build(Target+"-"+b.machine, b.GetCode(), "program.s", b.output, func(dir, asm, exe string) error {
		return assembly.Run("cc", "-o", exe, asm)
	})
}
