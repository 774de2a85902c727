//go:build !windows

package qbe

import (
	"bytes"
	"strings"

	"modernc.org/libqbe"
)

func compileIR(machine, ir string) (string, error) {
	var asmBuf bytes.Buffer
	if err := libqbe.Main(machine, "input.ssa", strings.NewReader(ir), &asmBuf, nil); err != nil {
		return "", err
	}

	return asmBuf.String(), nil
}
