/*
 * ps2recomp - Per-function code generator
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

// Package codegen turns a decoded instruction stream for one guest
// function into a C++ function body written against the PS2Runtime
// macro vocabulary (abi.go). It never touches the guest ELF or the
// configuration; the orchestrator hands it a Function, the
// Instructions belonging to that function's address range, and a
// symbol table for resolving static call targets.
package codegen

import (
	"fmt"
	"strings"

	"github.com/ps2xrecomp/ps2recomp/internal/decoder"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// SymbolTable maps a guest address to the C++ symbol that recompiles the
// function starting there. Addresses missing from the table are called
// indirectly through the runtime's registration table.
type SymbolTable map[uint32]string

// GenerateFunction emits one C++ function body. insts must be exactly
// the instructions belonging to fn's [Start, End) range, in address
// order, as produced by the orchestrator after entry discovery has
// resliced overlapping functions apart.
func GenerateFunction(fn rtypes.Function, insts []rtypes.Instruction, symbols SymbolTable) string {
	var b strings.Builder

	fmt.Fprintf(&b, "void %s(uint8_t* rdram, R5900Context* ctx, PS2Runtime* runtime) {\n", fn.Name)

	if fn.IsSkipped {
		b.WriteString(emitWrapperBody(fmt.Sprintf("ps2_stubs::TODO_NAMED(\"%s\");\n", fn.Name)))
		b.WriteString("}\n\n")
		return b.String()
	}

	if fn.IsStub {
		b.WriteString(emitWrapperBody(resolveStubCall(fn.Name)))
		b.WriteString("}\n\n")
		return b.String()
	}

	targets := internalTargets(fn, insts)
	returnAddrs := returnAddresses(fn, insts)
	for a := range returnAddrs {
		targets[a] = true
	}

	for i := 0; i < len(insts); i++ {
		inst := insts[i]

		if targets[inst.Address] {
			fmt.Fprintf(&b, "L_%08X:\n", inst.Address)
		}

		fmt.Fprintf(&b, "    // 0x%08X: %s\n", inst.Address, traceComment(inst))

		if inst.IsMmio {
			emitMMIO(&b, inst)
			continue
		}

		if inst.HasDelaySlot {
			var delaySlot *rtypes.Instruction
			if i+1 < len(insts) {
				delaySlot = &insts[i+1]
			}
			emitBranch(&b, inst, delaySlot, targets, returnAddrs, symbols, fn)
			if delaySlot != nil {
				i++ // the delay slot was folded into the branch emission above
			}
			continue
		}

		b.WriteString(translateInstruction(inst, symbols, fn, targets))
	}

	if !endsInControlTransfer(insts) {
		b.WriteString("    // Fell through the end of the decoded range.\n")
		b.WriteString("    return;\n")
	}

	b.WriteString("}\n\n")
	return b.String()
}

// internalTargets returns the set of addresses inside [fn.Start, fn.End)
// that are the target of some branch or static jump within insts. Entry
// discovery's reslicing (spec.md §4.6) only carves off targets that land
// inside a DIFFERENT known function, so a function that JALs into its
// own body as a local subroutine keeps that call (and its return
// address) in this same instruction stream; those targets still need
// labels here.
func internalTargets(fn rtypes.Function, insts []rtypes.Instruction) map[uint32]bool {
	targets := make(map[uint32]bool)
	within := func(addr uint32) bool { return addr >= fn.Start && addr < fn.End }

	for _, inst := range insts {
		if inst.IsBranch {
			if t := decoder.GetBranchTarget(inst); within(t) {
				targets[t] = true
			}
		}
		if inst.IsJump {
			if t := decoder.GetJumpTarget(inst); t != 0 && within(t) {
				targets[t] = true
			}
		}
	}
	return targets
}

// returnAddresses returns, for every static JAL inside insts whose
// target also lies inside [fn.Start, fn.End), the address immediately
// following the JAL's delay slot. A "jr $ra" reached from one of these
// local subroutine calls must come back to that exact address rather
// than falling out of the enclosing host function (spec.md §4.3 step 5,
// §8 Scenario 5).
func returnAddresses(fn rtypes.Function, insts []rtypes.Instruction) map[uint32]bool {
	within := func(addr uint32) bool { return addr >= fn.Start && addr < fn.End }
	addrs := make(map[uint32]bool)
	for _, inst := range insts {
		if inst.Opcode != decoder.OpJal {
			continue
		}
		if t := decoder.GetJumpTarget(inst); t != 0 && within(t) {
			addrs[inst.Address+8] = true
		}
	}
	return addrs
}

func endsInControlTransfer(insts []rtypes.Instruction) bool {
	if len(insts) == 0 {
		return false
	}
	last := insts[len(insts)-1]
	return last.IsReturn || (last.IsJump && !last.IsCall)
}

func traceComment(inst rtypes.Instruction) string {
	switch {
	case inst.IsMMI:
		return fmt.Sprintf("mmi raw=0x%08X type=%d func=0x%02X", inst.Raw, inst.MMIType, inst.MMIFunction)
	case inst.IsVU:
		return fmt.Sprintf("vu raw=0x%08X func=0x%02X", inst.Raw, inst.VUFunction)
	default:
		return fmt.Sprintf("op=0x%02X rs=%d rt=%d rd=%d sa=%d func=0x%02X raw=0x%08X",
			inst.Opcode, inst.Rs, inst.Rt, inst.Rd, inst.Sa, inst.Function, inst.Raw)
	}
}

// translateInstruction dispatches a non-branch instruction to its family
// handler. Every opcode the decoder recognises has a home here, even if
// that home only emits an "Unhandled" comment (spec.md §7's policy on
// incomplete coverage: never block the build, always say so).
func translateInstruction(inst rtypes.Instruction, symbols SymbolTable, fn rtypes.Function, targets map[uint32]bool) string {
	switch {
	case inst.IsMMI:
		return translateMMI(inst)
	case inst.IsVU:
		return translateVU(inst)
	}

	switch inst.Opcode {
	case decoder.OpSpecial:
		return translateSpecial(inst)
	case decoder.OpRegimm:
		return translateRegimmNonBranch(inst)
	case decoder.OpCop0:
		return translateCop0(inst)
	case decoder.OpCop1:
		return translateCop1(inst)
	default:
		return translateScalar(inst)
	}
}

func emitMMIO(b *strings.Builder, inst rtypes.Instruction) {
	addr := fmt.Sprintf("0x%08X", inst.MmioAddress)
	if inst.IsLoad {
		var width int
		switch {
		case inst.Opcode == decoder.OpLb || inst.Opcode == decoder.OpLbu:
			width = 8
		case inst.Opcode == decoder.OpLh || inst.Opcode == decoder.OpLhu:
			width = 16
		case inst.Opcode == decoder.OpLd:
			width = 64
		default:
			width = 32
		}
		fmt.Fprintf(b, "    %s", setGPR("GPR_U32", inst.Rt, mmioRead(width, addr)))
		return
	}
	if inst.IsStore {
		var width int
		switch inst.Opcode {
		case decoder.OpSb:
			width = 8
		case decoder.OpSh:
			width = 16
		case decoder.OpSd:
			width = 64
		default:
			width = 32
		}
		fmt.Fprintf(b, "    %s", mmioWrite(width, addr, gpr("GPR_U32", inst.Rt)))
		return
	}
	b.WriteString("    // MMIO-tagged instruction with neither load nor store semantics.\n")
}
