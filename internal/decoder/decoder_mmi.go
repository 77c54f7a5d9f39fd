/*
 * ps2recomp - MMI instruction classification
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

package decoder

import "github.com/ps2xrecomp/ps2recomp/internal/rtypes"

// decodeMMI dispatches opcode MMI (0x1C) by the top-level function
// field, then by sa within the MMI0/1/2/3 sub-groups, per spec.md §4.1.
func decodeMMI(inst *rtypes.Instruction) {
	switch inst.Function {
	case MMIMadd, MMIMaddu, MMIMsub, MMIMsubu:
		inst.ModificationInfo.ModifiesControl = true // HI/LO
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case MMIPlzcw:
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case MMIMMI0:
		inst.MMIType = 0
		inst.MMIFunction = inst.Sa
		inst.ModificationInfo.ModifiesGPR = inst.Rd != 0
	case MMIMMI1:
		inst.MMIType = 1
		inst.MMIFunction = inst.Sa
		if inst.Sa == MMI1Qfsrv {
			inst.ModificationInfo.ModifiesControl = true // SA
		}
		inst.ModificationInfo.ModifiesGPR = inst.Rd != 0
	case MMIMMI2:
		inst.MMIType = 2
		inst.MMIFunction = inst.Sa
		switch inst.Sa {
		case MMI2Pmaddw, MMI2Pmsubw, MMI2Pmaddh, MMI2Phmadh, MMI2Pmsubh, MMI2Phmsbh,
			MMI2Pmultw, MMI2Pdivw, MMI2Pmulth, MMI2Pdivbw:
			inst.ModificationInfo.ModifiesControl = true // HI/LO
		case MMI2Pmfhi, MMI2Pmflo:
			inst.ModificationInfo.ModifiesControl = true
		}
		inst.ModificationInfo.ModifiesGPR = inst.Rd != 0
	case MMIMMI3:
		inst.MMIType = 3
		inst.MMIFunction = inst.Sa
		switch inst.Sa {
		case MMI3Pmadduw, MMI3Pmultuw, MMI3Pdivuw, MMI3Pmthi, MMI3Pmtlo:
			inst.ModificationInfo.ModifiesControl = true
		}
		inst.ModificationInfo.ModifiesGPR = inst.Rd != 0
	case MMIMfhi1, MMIMflo1:
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case MMIMthi1, MMIMtlo1:
		inst.ModificationInfo.ModifiesControl = true
	case MMIMult1, MMIMultu1, MMIDiv1, MMIDivu1, MMIMadd1, MMIMaddu1:
		inst.ModificationInfo.ModifiesControl = true // HI1/LO1
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case MMIPmfhl:
		inst.PMFHLVariation = inst.Sa
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	case MMIPmthl:
		inst.PMFHLVariation = inst.Sa
		inst.ModificationInfo.ModifiesControl = true
	case MMIPsllh, MMIPsrlh, MMIPsrah, MMIPsllw, MMIPsrlw, MMIPsraw:
		if inst.Rd != 0 {
			inst.ModificationInfo.ModifiesGPR = true
		}
	}
}
