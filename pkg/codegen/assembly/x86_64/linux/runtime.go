package x86_64_linux

// dumpRoutine prints rdi as a signed decimal line with write(2). The digits
// are built backwards below the frame base; the magnitude is divided
// unsigned so MinInt64 prints correctly.
var dumpRoutine = []string{
	"dump:",
	"\tpush\trbp",
	"\tmov\trbp, rsp",
	"\tsub\trsp, 32",
	"\tmov\trax, rdi",
	"\tlea\trsi, [rbp - 1]",
	"\tmov\tbyte [rsi], 10",
	"\txor\tr9, r9",
	"\ttest\trax, rax",
	"\tjns\t.digits",
	"\tneg\trax",
	"\tmov\tr9, 1",
	".digits:",
	"\tmov\tr8, 10",
	".loop:",
	"\txor\trdx, rdx",
	"\tdiv\tr8",
	"\tadd\tdl, '0'",
	"\tdec\trsi",
	"\tmov\t[rsi], dl",
	"\ttest\trax, rax",
	"\tjnz\t.loop",
	"\ttest\tr9, r9",
	"\tjz\t.write",
	"\tdec\trsi",
	"\tmov\tbyte [rsi], '-'",
	".write:",
	"\tmov\trdx, rbp",
	"\tsub\trdx, rsi",
	"\tmov\trax, 1",
	"\tmov\trdi, 1",
	"\tsyscall",
	"\tleave",
	"\tret",
}

func (a *x86_64Linux) emitDumpRoutine() {
	a.addText("")
	for _, line := range dumpRoutine {
		a.addText(line)
	}
}
