/*
 * ps2recomp - Branch and delay-slot lowering
 *
 * Copyright 2025, PS2 Recompiler Project
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ps2xrecomp/ps2recomp/internal/decoder"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// emitBranch lowers one instruction with HasDelaySlot set, folding in the
// instruction that follows it in program order (which may be nil at the
// very end of a decoded range — a malformed binary, handled defensively).
//
// The two MIPS delay-slot rules this all hangs on:
//   - non-likely branches (BEQ/BNE/BLEZ/BGTZ/BLTZ/BGEZ/BC1/BC2 and the
//     *AL link variants) always execute the delay slot, whether or not
//     the branch is taken.
//   - likely branches (the 'L' suffix forms) execute the delay slot only
//     when the branch is taken; otherwise it is nullified.
//
// J/JAL/JR/JALR are unconditional, so their delay slot always executes;
// the only question is what control transfer follows it.
func emitBranch(b *strings.Builder, inst rtypes.Instruction, delaySlot *rtypes.Instruction, targets map[uint32]bool, returnAddrs map[uint32]bool, symbols SymbolTable, fn rtypes.Function) {
	slot := ""
	if delaySlot != nil && !delaySlot.HasDelaySlot {
		slot = translateInstruction(*delaySlot, symbols, fn, targets)
	}

	switch {
	case inst.IsCall:
		emitCall(b, inst, slot, targets, symbols, fn)
	case inst.Opcode == decoder.OpJ:
		target := decoder.GetJumpTarget(inst)
		b.WriteString(slot)
		emitStaticGoto(b, target, targets, symbols, fn)
	case inst.Opcode == decoder.OpSpecial && inst.Function == decoder.SpecialJr && inst.Rs == 31:
		// "jr $ra": see emitReturn.
		b.WriteString(slot)
		emitReturn(b, returnAddrs)
	case inst.Opcode == decoder.OpSpecial && inst.Function == decoder.SpecialJr:
		b.WriteString(slot)
		emitComputedJump(b, inst, targets)
	case inst.Opcode == decoder.OpCop0 && inst.Function == decoder.Cop0CoEret:
		// No delay slot on ERET; reached only if a malformed stream set
		// HasDelaySlot anyway. Treat as a bare return.
		b.WriteString("    return;\n")
	default:
		emitConditionalBranch(b, inst, slot, targets)
	}
}

// emitReturn lowers "jr $ra". Ordinarily $ra holds the address the
// original caller linked on entry, so this is a plain return. But a
// function that JALs into its own body as a local subroutine (spec.md
// §4.3 step 5, §8 Scenario 5) reaches the same "jr $ra" to come back
// from that call, with $ra now holding one of returnAddrs instead of
// the function's true caller. When returnAddrs is non-empty we cannot
// tell which case we're in statically, so the dynamic target is read
// into jumpTarget and dispatched back to the matching label; falling
// through the switch (an external caller, or $ra unmodified) still
// reaches the trailing return:
//
//	switch (jumpTarget) { case 0x00001308u: goto L_00001308; default: break; }
//	return;
func emitReturn(b *strings.Builder, returnAddrs map[uint32]bool) {
	if len(returnAddrs) == 0 {
		b.WriteString("    return;\n")
		return
	}

	fmt.Fprintf(b, "    {\n        uint32_t jumpTarget = %s;\n", gpr("GPR_U32", 31))
	b.WriteString("        switch (jumpTarget) {\n")
	for _, addr := range sortedAddrs(returnAddrs) {
		fmt.Fprintf(b, "        case 0x%08Xu: goto L_%08X;\n", addr, addr)
	}
	b.WriteString("        default: break;\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("    return;\n")
}

// emitConditionalBranch handles BEQ/BNE/BLEZ/BGTZ and their likely/link
// REGIMM and coprocessor-condition cousins.
func emitConditionalBranch(b *strings.Builder, inst rtypes.Instruction, slot string, targets map[uint32]bool) {
	cond := branchCondition(inst)
	target := decoder.GetBranchTarget(inst)
	likely := isLikelyBranch(inst)

	if likely {
		fmt.Fprintf(b, "    if (%s) {\n", cond)
		for _, line := range strings.Split(strings.TrimRight(slot, "\n"), "\n") {
			if line != "" {
				fmt.Fprintf(b, "    %s\n", line)
			}
		}
		emitIndentedGoto(b, target, targets)
		b.WriteString("    }\n")
		return
	}

	b.WriteString(slot)
	fmt.Fprintf(b, "    if (%s) {\n", cond)
	emitIndentedGoto(b, target, targets)
	b.WriteString("    }\n")
}

func emitIndentedGoto(b *strings.Builder, target uint32, targets map[uint32]bool) {
	if targets[target] {
		fmt.Fprintf(b, "        goto L_%08X;\n", target)
		return
	}
	fmt.Fprintf(b, "        runtime->BranchOutOfRange(ctx, 0x%08X);\n", target)
	b.WriteString("        return;\n")
}

func emitStaticGoto(b *strings.Builder, target uint32, targets map[uint32]bool, symbols SymbolTable, fn rtypes.Function) {
	if targets[target] {
		fmt.Fprintf(b, "    goto L_%08X;\n", target)
		return
	}
	// Tail jump to another recompiled function: run it and return, since
	// this recompiled function's C++ frame has no guest-visible state
	// left to preserve once control has left its own address range.
	if name, ok := symbols[target]; ok {
		fmt.Fprintf(b, "    %s(rdram, ctx, runtime);\n", name)
		b.WriteString("    return;\n")
		return
	}
	fmt.Fprintf(b, "    runtime->CallFunction(rdram, ctx, 0x%08X);\n", target)
	b.WriteString("    return;\n")
}

// emitComputedJump handles "jr $reg" where reg isn't $ra: almost always a
// compiler-generated jump table. We cannot know the table's contents
// without a data-flow pass the decoder doesn't do, so we dispatch over
// every internal target this function's own branches/jumps reach — the
// best static approximation available — and fall back to the runtime's
// indirect dispatcher for anything outside that set.
func emitComputedJump(b *strings.Builder, inst rtypes.Instruction, targets map[uint32]bool) {
	reg := gpr("GPR_U32", inst.Rs)
	fmt.Fprintf(b, "    switch (%s) {\n", reg)
	for _, addr := range sortedAddrs(targets) {
		fmt.Fprintf(b, "    case 0x%08X: goto L_%08X;\n", addr, addr)
	}
	b.WriteString("    default:\n")
	fmt.Fprintf(b, "        runtime->UnknownIndirectJump(ctx, %s);\n", reg)
	b.WriteString("        return;\n")
	b.WriteString("    }\n")
}

func emitCall(b *strings.Builder, inst rtypes.Instruction, slot string, targets map[uint32]bool, symbols SymbolTable, fn rtypes.Function) {
	link := linkRegister(inst)

	body := func(w *strings.Builder) {
		if link != 0 {
			fmt.Fprintf(w, "    %s", setGPR("GPR_U32", link, fmt.Sprintf("0x%08X", inst.Address+8)))
		}
		w.WriteString(slot)
		emitCallTarget(w, inst, targets, symbols)
	}

	if unconditionalCall(inst) {
		body(b)
		return
	}

	cond := branchCondition(inst)
	var inner strings.Builder
	if isLikelyBranch(inst) {
		body(&inner)
	} else {
		if link != 0 {
			fmt.Fprintf(b, "    %s", setGPR("GPR_U32", link, fmt.Sprintf("0x%08X", inst.Address+8)))
		}
		b.WriteString(slot)
		emitCallTarget(&inner, inst, targets, symbols)
	}
	fmt.Fprintf(b, "    if (%s) {\n", cond)
	indent(b, inner.String())
	b.WriteString("    }\n")
}

func unconditionalCall(inst rtypes.Instruction) bool {
	return inst.Opcode == decoder.OpJal ||
		(inst.Opcode == decoder.OpSpecial && inst.Function == decoder.SpecialJalr)
}

func linkRegister(inst rtypes.Instruction) uint8 {
	switch {
	case inst.Opcode == decoder.OpJal:
		return 31
	case inst.Opcode == decoder.OpSpecial && inst.Function == decoder.SpecialJalr:
		return inst.Rd
	default: // REGIMM *AL branches always link $ra
		return 31
	}
}

func emitCallTarget(b *strings.Builder, inst rtypes.Instruction, targets map[uint32]bool, symbols SymbolTable) {
	if inst.Opcode == decoder.OpSpecial && inst.Function == decoder.SpecialJalr {
		fmt.Fprintf(b, "    runtime->CallIndirect(rdram, ctx, %s);\n", gpr("GPR_U32", inst.Rs))
		return
	}
	if inst.Opcode == decoder.OpJal {
		target := decoder.GetJumpTarget(inst)
		if name, ok := symbols[target]; ok {
			fmt.Fprintf(b, "    %s(rdram, ctx, runtime);\n", name)
			return
		}
		fmt.Fprintf(b, "    runtime->CallFunction(rdram, ctx, 0x%08X);\n", target)
		return
	}
	// REGIMM *AL conditional-link branches still transfer control like
	// an ordinary branch once taken, not a true call into C++.
	target := decoder.GetBranchTarget(inst)
	emitIndentedGoto(b, target, targets)
}

func branchCondition(inst rtypes.Instruction) string {
	rs := gpr("GPR_S32", inst.Rs)
	rt := gpr("GPR_S32", inst.Rt)

	switch inst.Opcode {
	case decoder.OpBeq, decoder.OpBeql:
		return fmt.Sprintf("%s == %s", rs, rt)
	case decoder.OpBne, decoder.OpBnel:
		return fmt.Sprintf("%s != %s", rs, rt)
	case decoder.OpBlez, decoder.OpBlezl:
		return fmt.Sprintf("%s <= 0", rs)
	case decoder.OpBgtz, decoder.OpBgtzl:
		return fmt.Sprintf("%s > 0", rs)
	case decoder.OpCop1:
		return "FPU_GET_COND(ctx)"
	case decoder.OpCop2:
		return "VU0_GET_COND(ctx)"
	case decoder.OpRegimm:
		switch inst.Rt {
		case decoder.RegimmBltz, decoder.RegimmBltzl, decoder.RegimmBltzal, decoder.RegimmBltzall:
			return fmt.Sprintf("%s < 0", rs)
		default: // Bgez/Bgezl/Bgezal/Bgezall
			return fmt.Sprintf("%s >= 0", rs)
		}
	default:
		return "false /* unrecognised branch opcode */"
	}
}

func isLikelyBranch(inst rtypes.Instruction) bool {
	switch inst.Opcode {
	case decoder.OpBeql, decoder.OpBnel, decoder.OpBlezl, decoder.OpBgtzl:
		return true
	case decoder.OpRegimm:
		switch inst.Rt {
		case decoder.RegimmBltzl, decoder.RegimmBgezl, decoder.RegimmBltzall, decoder.RegimmBgezall:
			return true
		}
	}
	return false
}

func sortedAddrs(m map[uint32]bool) []uint32 {
	out := make([]uint32, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func indent(b *strings.Builder, s string) {
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		if line == "" {
			continue
		}
		fmt.Fprintf(b, "    %s\n", line)
	}
}
