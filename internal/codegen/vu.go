/*
 * ps2recomp - COP2 VU0 macro-mode code generation
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

	"github.com/ps2xrecomp/ps2recomp/internal/decoder"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// vfr/vir read VU0 vector-float and vector-integer registers. VU0_VF's
// result exposes .x/.y/.z/.w float lanes, mirroring how GPR_VEC exposes
// byte/half/word lanes to mmi.go - neither is a macro call the runtime
// needs to special-case, just a struct the generator indexes into.
func vfr(n uint8) string { return fmt.Sprintf("VU0_VF(ctx, %d)", n) }
func vir(n uint8) string { return fmt.Sprintf("VU0_VI(ctx, %d)", n) }

// setVfr writes fd with the destination mask applied. Masking is the
// runtime's job, not the generator's: PS2_VBLEND (one of the four
// sanctioned PS2_V* macros, spec.md §6) selects value's lanes where the
// mask bit is set and fd's own current lanes everywhere else, so a
// "vadd.xy" only ever touches the two lanes it names.
func setVfr(inst rtypes.Instruction, reg uint8, value string) string {
	mask := inst.VectorInfo.VectorField
	return fmt.Sprintf("    SET_VU0_VF(ctx, %d, PS2_VBLEND(%s, %s, 0x%X));\n", reg, vfr(reg), value, mask)
}

func setVir(reg uint8, value string) string {
	if reg == 0 {
		return ""
	}
	return fmt.Sprintf("    SET_VU0_VI(ctx, %d, %s);\n", reg, value)
}

func vuAcc() string { return "VU0_GET_ACC(ctx)" }

// setVuAcc writes the accumulator through the same masked-blend idiom as
// setVfr, since vADDA/vMADDA/... accumulate into it lane-by-lane too.
func setVuAcc(mask uint8, value string) string {
	return fmt.Sprintf("    VU0_SET_ACC(ctx, PS2_VBLEND(%s, %s, 0x%X));\n", vuAcc(), value, mask)
}

// translateVU dispatches COP2 CO-group macro-mode instructions. Every
// IsVU instruction arrives here, but only COP2 with rs >= Cop2Co is
// macro-mode opcode space: the register transfer forms (QMFC2/QMTC2/
// CFC2/CTC2) and the COP2 loads/stores are not translated and get an
// "Unhandled" comment.
func translateVU(inst rtypes.Instruction) string {
	if inst.Opcode != decoder.OpCop2 || inst.Rs < decoder.Cop2Co {
		return fmt.Sprintf("    // Unhandled COP2 transfer/load/store op=0x%02X rs=0x%02X raw=0x%08X\n", inst.Opcode, inst.Rs, inst.Raw)
	}
	if inst.Function >= 0x3C {
		return translateVUSpecial2(inst)
	}
	return translateVUSpecial1(inst)
}

func translateVUSpecial1(inst rtypes.Instruction) string {
	fs, fd := vfr(inst.Rs), inst.Rd
	rhs := vuOperand(inst)

	switch {
	case inst.VUFunction == decoder.VU0S1Viadd:
		return setVir(inst.Rd, fmt.Sprintf("%s + %s", vir(inst.Rs), vir(inst.Rt)))
	case inst.VUFunction == decoder.VU0S1Visub:
		return setVir(inst.Rd, fmt.Sprintf("%s - %s", vir(inst.Rs), vir(inst.Rt)))
	case inst.VUFunction == decoder.VU0S1Viaddi:
		return setVir(inst.Rd, fmt.Sprintf("%s + (int16_t)0x%04X", vir(inst.Rs), inst.SImmediate&0xFFFF))
	case inst.VUFunction == decoder.VU0S1Viand:
		return setVir(inst.Rd, fmt.Sprintf("%s & %s", vir(inst.Rs), vir(inst.Rt)))
	case inst.VUFunction == decoder.VU0S1Vior:
		return setVir(inst.Rd, fmt.Sprintf("%s | %s", vir(inst.Rs), vir(inst.Rt)))
	case inst.VUFunction == decoder.VU0S1Vcallms:
		return fmt.Sprintf("    runtime->VUCallMicroSubroutine(ctx, 0x%08X);\n", inst.Immediate<<3)
	case inst.VUFunction == decoder.VU0S1Vcallmsr:
		return fmt.Sprintf("    runtime->VUCallMicroSubroutine(ctx, %s);\n", vir(inst.Rs))
	}

	switch inst.VUFunction {
	case decoder.VU0S1Vaddx, decoder.VU0S1Vaddy, decoder.VU0S1Vaddz, decoder.VU0S1Vaddw, decoder.VU0S1Vadd, decoder.VU0S1Vaddq, decoder.VU0S1Vaddi:
		return setVfr(inst, fd, fmt.Sprintf("PS2_VADD(%s, %s)", fs, rhs))
	case decoder.VU0S1Vsubx, decoder.VU0S1Vsuby, decoder.VU0S1Vsubz, decoder.VU0S1Vsubw, decoder.VU0S1Vsub, decoder.VU0S1Vsubq, decoder.VU0S1Vsubi:
		return setVfr(inst, fd, fmt.Sprintf("PS2_VSUB(%s, %s)", fs, rhs))
	case decoder.VU0S1Vmaddx, decoder.VU0S1Vmaddy, decoder.VU0S1Vmaddz, decoder.VU0S1Vmaddw, decoder.VU0S1Vmadd, decoder.VU0S1Vmaddq, decoder.VU0S1Vmaddi:
		return setVfr(inst, fd, fmt.Sprintf("PS2_VADD(%s, PS2_VMUL(%s, %s))", vuAcc(), fs, rhs))
	case decoder.VU0S1Vmsubx, decoder.VU0S1Vmsuby, decoder.VU0S1Vmsubz, decoder.VU0S1Vmsubw, decoder.VU0S1Vmsub, decoder.VU0S1Vmsubq, decoder.VU0S1Vmsubi:
		return setVfr(inst, fd, fmt.Sprintf("PS2_VSUB(%s, PS2_VMUL(%s, %s))", vuAcc(), fs, rhs))
	case decoder.VU0S1Vmulx, decoder.VU0S1Vmuly, decoder.VU0S1Vmulz, decoder.VU0S1Vmulw, decoder.VU0S1Vmul, decoder.VU0S1Vmulq, decoder.VU0S1Vmuli:
		return setVfr(inst, fd, fmt.Sprintf("PS2_VMUL(%s, %s)", fs, rhs))
	case decoder.VU0S1Vmaxx, decoder.VU0S1Vmaxy, decoder.VU0S1Vmaxz, decoder.VU0S1Vmaxw, decoder.VU0S1Vmax, decoder.VU0S1Vmaxi:
		return emitVuLanewise(inst, fd, fs, rhs, ">", false)
	case decoder.VU0S1Vminix, decoder.VU0S1Vminiy, decoder.VU0S1Viniz, decoder.VU0S1Viniw, decoder.VU0S1Vmini, decoder.VU0S1Vminii:
		return emitVuLanewise(inst, fd, fs, rhs, "<", false)
	case decoder.VU0S1Vopmsub:
		return emitOuterProduct(inst, fd, fs, vfr(inst.Rt), true)
	default:
		return fmt.Sprintf("    // Unhandled VU Special1 function 0x%02X\n", inst.VUFunction)
	}
}

// vuOperand resolves the right-hand operand of a VU arithmetic
// instruction: a component-broadcast read of vt for the *x/*y/*z/*w
// forms (the runtime's overloaded PS2_V* macros accept a single-float
// broadcast operand same as a full vector, spec.md §4.5), the Q or I
// register for the *q/*i forms, and a plain vfr read otherwise.
func vuOperand(inst rtypes.Instruction) string {
	ft := vfr(inst.Rt)
	switch inst.VUFunction {
	case decoder.VU0S1Vaddq, decoder.VU0S1Vmaddq, decoder.VU0S1Vsubq, decoder.VU0S1Vmsubq, decoder.VU0S1Vmulq:
		return "VU0_GET_Q(ctx)"
	case decoder.VU0S1Vaddi, decoder.VU0S1Vmaddi, decoder.VU0S1Vsubi, decoder.VU0S1Vmsubi, decoder.VU0S1Vmuli, decoder.VU0S1Vmaxi, decoder.VU0S1Vminii:
		return "VU0_GET_I(ctx)"
	case decoder.VU0S1Vaddx, decoder.VU0S1Vsubx, decoder.VU0S1Vmaddx, decoder.VU0S1Vmsubx, decoder.VU0S1Vmaxx, decoder.VU0S1Vminix, decoder.VU0S1Vmulx:
		return ft + ".x"
	case decoder.VU0S1Vaddy, decoder.VU0S1Vsuby, decoder.VU0S1Vmaddy, decoder.VU0S1Vmsuby, decoder.VU0S1Vmaxy, decoder.VU0S1Vminiy, decoder.VU0S1Vmuly:
		return ft + ".y"
	case decoder.VU0S1Vaddz, decoder.VU0S1Vsubz, decoder.VU0S1Vmaddz, decoder.VU0S1Vmsubz, decoder.VU0S1Vmaxz, decoder.VU0S1Viniz, decoder.VU0S1Vmulz:
		return ft + ".z"
	case decoder.VU0S1Vaddw, decoder.VU0S1Vsubw, decoder.VU0S1Vmaddw, decoder.VU0S1Vmsubw, decoder.VU0S1Vmaxw, decoder.VU0S1Viniw, decoder.VU0S1Vmulw:
		return ft + ".w"
	default:
		return ft
	}
}

// emitVuLanewise inlines VMAX/VMINI: no macro in the closed vocabulary
// covers per-lane selection, so each lane is compared directly, matching
// the algorithmic description in spec.md §4.5 rather than a fabricated
// PS2_VMAX/VMIN call. op is ">" for max, "<" for min; rhs may be a full
// vector or a single broadcast float (see vuOperand), so it is applied
// per lane by name when it is a register read and as-is when it already
// names a single component.
func emitVuLanewise(inst rtypes.Instruction, fd uint8, fs, rhs string, op string, accumulate bool) string {
	lane := func(field string) string {
		a := fs + "." + field
		b := rhs
		if !isSingleComponent(rhs) {
			b = rhs + "." + field
		}
		return fmt.Sprintf("(%s %s %s) ? %s : %s", a, op, b, a, b)
	}
	var body string
	body += fmt.Sprintf("        __r.x = %s;\n", lane("x"))
	body += fmt.Sprintf("        __r.y = %s;\n", lane("y"))
	body += fmt.Sprintf("        __r.z = %s;\n", lane("z"))
	body += fmt.Sprintf("        __r.w = %s;\n", lane("w"))
	return fmt.Sprintf("    {\n        auto __r = %s;\n%s    }\n", fs, body) +
		setVfr(inst, fd, "__r")
}

func isSingleComponent(expr string) bool {
	for _, suffix := range []string{".x", ".y", ".z", ".w"} {
		if len(expr) >= len(suffix) && expr[len(expr)-len(suffix):] == suffix {
			return true
		}
	}
	return expr == "VU0_GET_Q(ctx)" || expr == "VU0_GET_I(ctx)"
}

// emitOuterProduct inlines VOPMULA/VOPMSUB: the VU's cross-product
// instruction, defined componentwise (fs x ft). VOPMULA writes the
// product into ACC; VOPMSUB writes ACC minus the product into fd - no
// sanctioned macro models a 3-lane cross product, so it is written out
// directly.
func emitOuterProduct(inst rtypes.Instruction, fd uint8, fs, ft string, subtractFromAcc bool) string {
	var b string
	b += fmt.Sprintf("        __r.x = %s.y * %s.z - %s.z * %s.y;\n", fs, ft, fs, ft)
	b += fmt.Sprintf("        __r.y = %s.z * %s.x - %s.x * %s.z;\n", fs, ft, fs, ft)
	b += fmt.Sprintf("        __r.z = %s.x * %s.y - %s.y * %s.x;\n", fs, ft, fs, ft)
	b += fmt.Sprintf("        __r.w = %s.w;\n", vuAcc())
	head := fmt.Sprintf("    {\n        auto __r = %s;\n%s    }\n", fs, b)
	if subtractFromAcc {
		return head + setVfr(inst, fd, fmt.Sprintf("PS2_VSUB(%s, __r)", vuAcc()))
	}
	return head + setVuAcc(inst.VectorInfo.VectorField, "__r")
}

func translateVUSpecial2(inst rtypes.Instruction) string {
	fs, ft, fd := vfr(inst.Rs), vfr(inst.Rt), inst.Rd
	mask := inst.VectorInfo.VectorField

	switch inst.VUFunction {
	case decoder.VU0S2Vaddax, decoder.VU0S2Vadday, decoder.VU0S2Vaddaz, decoder.VU0S2Vaddaw, decoder.VU0S2Vadda, decoder.VU0S2Vaddaq, decoder.VU0S2Vaddai:
		return setVuAcc(mask, fmt.Sprintf("PS2_VADD(%s, %s)", fs, ft))
	case decoder.VU0S2Vsubax, decoder.VU0S2Vsubay, decoder.VU0S2Vsubaz, decoder.VU0S2Vsubaw, decoder.VU0S2Vsuba, decoder.VU0S2Vsubaq, decoder.VU0S2Vsubai:
		return setVuAcc(mask, fmt.Sprintf("PS2_VSUB(%s, %s)", fs, ft))
	case decoder.VU0S2Vmaddax, decoder.VU0S2Vmadday, decoder.VU0S2Vmaddaz, decoder.VU0S2Vmaddaw, decoder.VU0S2Vmadda, decoder.VU0S2Vmaddaq, decoder.VU0S2Vmaddai:
		return setVuAcc(mask, fmt.Sprintf("PS2_VADD(%s, PS2_VMUL(%s, %s))", vuAcc(), fs, ft))
	case decoder.VU0S2Vmsubax, decoder.VU0S2Vmsubay, decoder.VU0S2Vmsubaz, decoder.VU0S2Vmsubaw, decoder.VU0S2Vmsuba, decoder.VU0S2Vmsubaq, decoder.VU0S2Vmsubai:
		return setVuAcc(mask, fmt.Sprintf("PS2_VSUB(%s, PS2_VMUL(%s, %s))", vuAcc(), fs, ft))
	case decoder.VU0S2Vmulax, decoder.VU0S2Vmulay, decoder.VU0S2Vmulaz, decoder.VU0S2Vmulaw, decoder.VU0S2Vmula, decoder.VU0S2Vmulaq, decoder.VU0S2Vmulai:
		return setVuAcc(mask, fmt.Sprintf("PS2_VMUL(%s, %s)", fs, ft))
	case decoder.VU0S2Vopmula:
		return emitOuterProduct(inst, fd, fs, ft, false)
	case decoder.VU0S2Vitof0, decoder.VU0S2Vitof4, decoder.VU0S2Vitof12, decoder.VU0S2Vitof15:
		return fmt.Sprintf("    runtime->VU0IntToFloat(ctx, %d, %d, %d, 0x%X);\n", inst.Rs, fd, itofShift(inst.VUFunction), mask)
	case decoder.VU0S2Vftoi0, decoder.VU0S2Vftoi4, decoder.VU0S2Vftoi12, decoder.VU0S2Vftoi15:
		return fmt.Sprintf("    runtime->VU0FloatToInt(ctx, %d, %d, %d, 0x%X);\n", inst.Rs, fd, itofShift(inst.VUFunction), mask)
	case decoder.VU0S2Vabs:
		return fmt.Sprintf("    {\n        auto __r = %s;\n        __r.x = fabsf(__r.x); __r.y = fabsf(__r.y); __r.z = fabsf(__r.z); __r.w = fabsf(__r.w);\n        %s    }\n",
			fs, setVfr(inst, fd, "__r"))
	case decoder.VU0S2Vclipw:
		return fmt.Sprintf("    VU0_SET_CLIP(ctx, (fabsf(%s.x) > fabsf(%s.w)) | ((fabsf(%s.y) > fabsf(%s.w)) << 1) | ((fabsf(%s.z) > fabsf(%s.w)) << 2));\n",
			fs, ft, fs, ft, fs, ft)
	case decoder.VU0S2Vnop:
		return "    // vnop\n"
	case decoder.VU0S2Vmove:
		return setVfr(inst, fd, fs)
	case decoder.VU0S2Vmr32:
		return fmt.Sprintf("    {\n        auto __r = %s;\n        __r.x = %s.y; __r.y = %s.z; __r.z = %s.w; __r.w = %s.x;\n        %s    }\n",
			fs, fs, fs, fs, fs, setVfr(inst, fd, "__r"))
	case decoder.VU0S2Vlqi:
		return setVfr(inst, fd, fmt.Sprintf("runtime->VU0LoadQuad(rdram, ctx, %s)", vir(inst.Rs))) +
			fmt.Sprintf("    SET_VU0_VI(ctx, %d, %s + 1);\n", inst.Rs, vir(inst.Rs))
	case decoder.VU0S2Vsqi:
		return fmt.Sprintf("    runtime->VU0StoreQuad(rdram, ctx, %s, %s);\n", vir(inst.Rt), fs) +
			fmt.Sprintf("    SET_VU0_VI(ctx, %d, %s + 1);\n", inst.Rt, vir(inst.Rt))
	case decoder.VU0S2Vlqd:
		return fmt.Sprintf("    SET_VU0_VI(ctx, %d, %s - 1);\n", inst.Rs, vir(inst.Rs)) +
			setVfr(inst, fd, fmt.Sprintf("runtime->VU0LoadQuad(rdram, ctx, %s)", vir(inst.Rs)))
	case decoder.VU0S2Vsqd:
		return fmt.Sprintf("    SET_VU0_VI(ctx, %d, %s - 1);\n", inst.Rt, vir(inst.Rt)) +
			fmt.Sprintf("    runtime->VU0StoreQuad(rdram, ctx, %s, %s);\n", vir(inst.Rt), fs)
	case decoder.VU0S2Vdiv:
		return fmt.Sprintf("    runtime->VU0Div(ctx, %s, %d, %s, %d);\n", fs, inst.VectorInfo.Fsf, ft, inst.VectorInfo.Ftf)
	case decoder.VU0S2Vsqrt:
		return fmt.Sprintf("    runtime->VU0Sqrt(ctx, %s, %d);\n", ft, inst.VectorInfo.Ftf)
	case decoder.VU0S2Vrsqrt:
		return fmt.Sprintf("    runtime->VU0Rsqrt(ctx, %s, %d, %s, %d);\n", fs, inst.VectorInfo.Fsf, ft, inst.VectorInfo.Ftf)
	case decoder.VU0S2Vwaitq:
		return "    // vwaitq: Q pipeline already resolved synchronously\n"
	case decoder.VU0S2Vmtir:
		return setVir(inst.Rt, fmt.Sprintf("(int16_t)%s.x", fs))
	case decoder.VU0S2Vmfir:
		return setVfr(inst, fd, fmt.Sprintf("(float)%s", vir(inst.Rs)))
	case decoder.VU0S2Vilwr:
		return setVir(inst.Rt, read(16, vir(inst.Rs)))
	case decoder.VU0S2Viswr:
		return write(16, vir(inst.Rs), vir(inst.Rt))
	case decoder.VU0S2Vrnext:
		return setVfr(inst, fd, "runtime->VU0RandNext(ctx)")
	case decoder.VU0S2Vrget:
		return setVfr(inst, fd, "runtime->VU0RandGet(ctx)")
	case decoder.VU0S2Vrinit:
		return fmt.Sprintf("    runtime->VU0RandInit(ctx, %s);\n", fs)
	case decoder.VU0S2Vrxor:
		return fmt.Sprintf("    runtime->VU0RandXor(ctx, %s);\n", fs)
	default:
		return fmt.Sprintf("    // Unhandled VU Special2 function 0x%02X\n", inst.VUFunction)
	}
}

func itofShift(fn uint8) int {
	switch fn {
	case decoder.VU0S2Vitof4, decoder.VU0S2Vftoi4:
		return 4
	case decoder.VU0S2Vitof12, decoder.VU0S2Vftoi12:
		return 12
	case decoder.VU0S2Vitof15, decoder.VU0S2Vftoi15:
		return 15
	default:
		return 0
	}
}
