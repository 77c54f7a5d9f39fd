/*
 * ps2recomp - R5900 instruction decoder
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

// Package decoder lifts one raw R5900 (MIPS III + PS2 extensions) word
// into a fully classified rtypes.Instruction. Decode is pure: it takes
// an address and a word and returns a value, never touching memory or
// any other state. Code generation, delay-slot lowering and entry
// discovery all depend on the flags this package sets, so every opcode
// family the silicon defines is represented here even when the
// generator only emits a "// Unhandled" comment for it.
package decoder

import "github.com/ps2xrecomp/ps2recomp/internal/rtypes"

// Decode lifts one guest word at address into an Instruction. It never
// fails: unrecognised encodings come back with every classification
// flag false, which the code generator turns into an "Unhandled" comment
// rather than an error.
func Decode(address, raw uint32) rtypes.Instruction {
	inst := rtypes.Instruction{
		Address: address,
		Raw:     raw,

		Opcode:   uint8((raw >> 26) & 0x3F),
		Rs:       uint8((raw >> 21) & 0x1F),
		Rt:       uint8((raw >> 16) & 0x1F),
		Rd:       uint8((raw >> 11) & 0x1F),
		Sa:       uint8((raw >> 6) & 0x1F),
		Function: uint8(raw & 0x3F),

		Immediate: raw & 0xFFFF,
		Target:    raw & 0x03FFFFFF,
	}
	inst.SImmediate = signExtend16(uint16(inst.Immediate))
	inst.VectorInfo.VectorField = 0xF

	switch inst.Opcode {
	case OpSpecial:
		decodeSpecial(&inst)
	case OpRegimm:
		decodeRegimm(&inst)
	case OpJ:
		inst.IsJump = true
		inst.HasDelaySlot = true
	case OpJal:
		inst.IsJump = true
		inst.IsCall = true
		inst.HasDelaySlot = true
		inst.ModificationInfo.ModifiesGPR = true // $ra
	case OpBeq, OpBne, OpBlez, OpBgtz, OpBeql, OpBnel, OpBlezl, OpBgtzl:
		inst.IsBranch = true
		inst.HasDelaySlot = true
	case OpAddi, OpAddiu, OpSlti, OpSltiu, OpAndi, OpOri, OpXori, OpLui, OpDaddi, OpDaddiu:
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case OpMMI:
		decodeMMI(&inst)
		inst.IsMMI = true
		inst.IsMultimedia = true
	case OpLq:
		inst.IsLoad = true
		inst.IsMultimedia = true
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case OpSq:
		inst.IsStore = true
		inst.IsMultimedia = true
		inst.ModificationInfo.ModifiesMemory = true
	case OpLb, OpLh, OpLw, OpLbu, OpLhu, OpLwu, OpLd:
		inst.IsLoad = true
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case OpLwl, OpLwr, OpLdl, OpLdr:
		inst.IsLoad = true
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
		inst.ModificationInfo.ModifiesMemory = false
	case OpSb, OpSh, OpSw, OpSd:
		inst.IsStore = true
		inst.ModificationInfo.ModifiesMemory = true
	case OpSwl, OpSwr, OpSdl, OpSdr:
		inst.IsStore = true
		inst.ModificationInfo.ModifiesMemory = true
	case OpCache:
		inst.ModificationInfo.ModifiesControl = true
	case OpPref:
		// No architectural effect modelled.
	case OpLl, OpLld:
		inst.IsLoad = true
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
		inst.ModificationInfo.ModifiesControl = true // LL bit
	case OpSc, OpScd:
		inst.IsStore = true
		inst.ModificationInfo.ModifiesMemory = true
		inst.ModificationInfo.ModifiesControl = true
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true // success flag
		}
	case OpLwc1, OpLdc1:
		inst.IsLoad = true
		inst.ModificationInfo.ModifiesFPR = true
	case OpSwc1, OpSdc1:
		inst.IsStore = true
		inst.ModificationInfo.ModifiesMemory = true
	case OpLwc2, OpLdc2:
		inst.IsLoad = true
		inst.IsVU = true
		inst.IsMultimedia = true
		inst.ModificationInfo.ModifiesVFR = true
	case OpSwc2, OpSdc2:
		inst.IsStore = true
		inst.IsVU = true
		inst.IsMultimedia = true
		inst.ModificationInfo.ModifiesMemory = true
	case OpCop0:
		decodeCop0(&inst)
	case OpCop1:
		decodeCop1(&inst)
	case OpCop2:
		decodeCop2(&inst)
	default:
		// Unknown opcode: every flag stays false, the generator emits a
		// comment and moves on (spec.md §7).
	}

	return inst
}

func signExtend16(v uint16) uint32 {
	return uint32(int32(int16(v)))
}

// GetBranchTarget returns the absolute target of a conditional branch,
// or 0 if inst is not a branch.
func GetBranchTarget(inst rtypes.Instruction) uint32 {
	if !inst.IsBranch {
		return 0
	}
	return inst.Address + 4 + (inst.SImmediate << 2)
}

// GetJumpTarget returns the absolute target of a static J/JAL, or 0 for
// register jumps (JR/JALR), whose target is only known at runtime.
func GetJumpTarget(inst rtypes.Instruction) uint32 {
	if !inst.IsJump {
		return 0
	}
	if inst.Opcode != OpJ && inst.Opcode != OpJal {
		return 0
	}
	return ((inst.Address + 4) & 0xF0000000) | (inst.Target << 2)
}

func decodeSpecial(inst *rtypes.Instruction) {
	switch inst.Function {
	case SpecialJr:
		inst.IsJump = true
		inst.HasDelaySlot = true
		if inst.Rs == 31 {
			inst.IsReturn = true
		}
	case SpecialJalr:
		inst.IsJump = true
		inst.IsCall = true
		inst.HasDelaySlot = true
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case SpecialSyscall, SpecialBreak:
		inst.ModificationInfo.ModifiesControl = true
	case SpecialMfhi, SpecialMflo, SpecialMfsa:
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case SpecialMthi, SpecialMtlo, SpecialMtsa:
		inst.ModificationInfo.ModifiesControl = true
	case SpecialMult, SpecialMultu, SpecialDiv, SpecialDivu:
		inst.ModificationInfo.ModifiesControl = true // HI/LO
		if inst.Rd != 0 {
			// R5900 extension: MULT/MULTU/DIV/DIVU also write rd.
			inst.ModificationInfo.ModifiesGPR = true
		}
	case SpecialMovz, SpecialMovn,
		SpecialAdd, SpecialAddu, SpecialSub, SpecialSubu,
		SpecialAnd, SpecialOr, SpecialXor, SpecialNor,
		SpecialSlt, SpecialSltu,
		SpecialSll, SpecialSrl, SpecialSra, SpecialSllv, SpecialSrlv, SpecialSrav:
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case SpecialDadd, SpecialDaddu, SpecialDsub, SpecialDsubu,
		SpecialDsll, SpecialDsrl, SpecialDsra,
		SpecialDsll32, SpecialDsrl32, SpecialDsra32,
		SpecialDsllv, SpecialDsrlv, SpecialDsrav:
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case SpecialTge, SpecialTgeu, SpecialTlt, SpecialTltu, SpecialTeq, SpecialTne:
		inst.ModificationInfo.ModifiesControl = true
	case SpecialSync:
		inst.ModificationInfo.ModifiesControl = true
	}
}

func decodeRegimm(inst *rtypes.Instruction) {
	switch inst.Rt {
	case RegimmBltz, RegimmBgez, RegimmBltzl, RegimmBgezl:
		inst.IsBranch = true
		inst.HasDelaySlot = true
	case RegimmBltzal, RegimmBgezal, RegimmBltzall, RegimmBgezall:
		inst.IsBranch = true
		inst.HasDelaySlot = true
		inst.IsCall = true
		inst.ModificationInfo.ModifiesGPR = true // $ra
	case RegimmTgei, RegimmTgeiu, RegimmTlti, RegimmTltiu, RegimmTeqi, RegimmTnei:
		inst.ModificationInfo.ModifiesControl = true
	case RegimmMtsab, RegimmMtsah:
		inst.IsMultimedia = true
		inst.ModificationInfo.ModifiesControl = true // SA
	}
}

func decodeCop0(inst *rtypes.Instruction) {
	switch inst.Rs {
	case Cop0Mf:
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case Cop0Mt:
		inst.ModificationInfo.ModifiesControl = true
	case Cop0Bc:
		inst.IsBranch = true
		inst.HasDelaySlot = true
	default:
		if inst.Rs >= Cop0Co {
			switch inst.Function {
			case Cop0CoEret:
				inst.IsReturn = true
				inst.HasDelaySlot = false
			case Cop0CoTlbr, Cop0CoTlbwi, Cop0CoTlbwr, Cop0CoTlbp, Cop0CoEi, Cop0CoDi:
				inst.ModificationInfo.ModifiesControl = true
			}
		}
	}
}

func decodeCop1(inst *rtypes.Instruction) {
	switch inst.Rs {
	case Cop1Mf, Cop1Cf:
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case Cop1Mt:
		inst.ModificationInfo.ModifiesFPR = true
	case Cop1Ct:
		inst.ModificationInfo.ModifiesControl = true
	case Cop1Bc:
		inst.IsBranch = true
		inst.HasDelaySlot = true
	case Cop1S, Cop1W:
		inst.ModificationInfo.ModifiesFPR = true
		if inst.Function >= Cop1SCF {
			inst.ModificationInfo.ModifiesControl = true // FCR31 condition bit
			inst.ModificationInfo.ModifiesFPR = false
		}
	}
}

func decodeCop2(inst *rtypes.Instruction) {
	inst.IsVU = true
	inst.IsMultimedia = true
	inst.VectorInfo.IsVector = true

	switch {
	case inst.Rs == Cop2Qmfc2 || inst.Rs == Cop2Cfc2:
		if inst.Rt != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case inst.Rs == Cop2Qmtc2:
		inst.ModificationInfo.ModifiesVFR = true
	case inst.Rs == Cop2Ctc2:
		inst.ModificationInfo.ModifiesControl = true
	case inst.Rs == Cop2Bc:
		inst.IsBranch = true
		inst.HasDelaySlot = true
	case inst.Rs >= Cop2Co:
		decodeVU(inst)
	}
}

// decodeVU classifies COP2 CO-group (rs >= 0x10) macro-mode operations.
// function >= 0x3C selects Special2; otherwise Special1 (spec.md §4.1,
// REDESIGN note on the Special2 reconstruction).
func decodeVU(inst *rtypes.Instruction) {
	inst.VectorInfo.VectorField = uint8((inst.Raw >> 21) & 0xF)

	if inst.Function >= 0x3C {
		inst.VUFunction = reconstructSpecial2(inst.Raw)
		decodeVUSpecial2(inst)
	} else {
		inst.VUFunction = inst.Function
		decodeVUSpecial1(inst)
	}
}

// reconstructSpecial2 derives the Special2 function code from the raw
// word: ((raw>>6)&0x1F)<<2 | (raw&0x3). This matches the documented VU0
// macro-mode layout; see spec.md's Open Questions about cross-checking
// against the ISA reference for misencoded instructions.
func reconstructSpecial2(raw uint32) uint8 {
	return uint8((((raw >> 6) & 0x1F) << 2) | (raw & 0x3))
}

func decodeVUSpecial1(inst *rtypes.Instruction) {
	switch inst.VUFunction {
	case VU0S1Viadd, VU0S1Visub, VU0S1Viaddi, VU0S1Viand, VU0S1Vior:
		inst.ModificationInfo.ModifiesVIR = true
	case VU0S1Vcallms, VU0S1Vcallmsr:
		inst.ModificationInfo.ModifiesControl = true
	default:
		inst.ModificationInfo.ModifiesVFR = true
		inst.VectorInfo.ModifiesMAC = true
	}
}

func decodeVUSpecial2(inst *rtypes.Instruction) {
	switch inst.VUFunction {
	case VU0S2Vmtir, VU0S2Vilwr:
		inst.ModificationInfo.ModifiesVIR = true
	case VU0S2Viswr:
		inst.ModificationInfo.ModifiesMemory = true
	case VU0S2Vlqi, VU0S2Vlqd:
		inst.ModificationInfo.ModifiesVFR = true
		inst.ModificationInfo.ModifiesVIR = true
	case VU0S2Vsqi, VU0S2Vsqd:
		inst.ModificationInfo.ModifiesMemory = true
		inst.ModificationInfo.ModifiesVIR = true
	case VU0S2Vrnext, VU0S2Vrget, VU0S2Vrinit, VU0S2Vrxor:
		inst.ModificationInfo.ModifiesControl = true // R register
	case VU0S2Vdiv, VU0S2Vsqrt, VU0S2Vrsqrt:
		inst.VectorInfo.UsesQReg = true
		inst.VectorInfo.Fsf = uint8((inst.Raw >> 10) & 0x3)
		inst.VectorInfo.Ftf = uint8((inst.Raw >> 8) & 0x3)
		inst.ModificationInfo.ModifiesControl = true
	case VU0S2Vclipw:
		inst.ModificationInfo.ModifiesControl = true // CLIP flags
	case VU0S2Vnop:
		// No effect.
	default:
		inst.ModificationInfo.ModifiesVFR = true
	}
}
