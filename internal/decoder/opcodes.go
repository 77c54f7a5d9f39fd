/*
 * ps2recomp - R5900 opcode tables
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

// Primary opcode field (bits 31..26).
const (
	OpSpecial = 0x00
	OpRegimm  = 0x01
	OpJ       = 0x02
	OpJal     = 0x03
	OpBeq     = 0x04
	OpBne     = 0x05
	OpBlez    = 0x06
	OpBgtz    = 0x07

	OpAddi  = 0x08
	OpAddiu = 0x09
	OpSlti  = 0x0A
	OpSltiu = 0x0B
	OpAndi  = 0x0C
	OpOri   = 0x0D
	OpXori  = 0x0E
	OpLui   = 0x0F

	OpCop0 = 0x10
	OpCop1 = 0x11
	OpCop2 = 0x12

	OpBeql  = 0x14
	OpBnel  = 0x15
	OpBlezl = 0x16
	OpBgtzl = 0x17

	OpDaddi  = 0x18
	OpDaddiu = 0x19
	OpLdl    = 0x1A
	OpLdr    = 0x1B
	OpMMI    = 0x1C

	OpLq = 0x1E
	OpSq = 0x1F

	OpLb  = 0x20
	OpLh  = 0x21
	OpLwl = 0x22
	OpLw  = 0x23
	OpLbu = 0x24
	OpLhu = 0x25
	OpLwr = 0x26
	OpLwu = 0x27

	OpSb    = 0x28
	OpSh    = 0x29
	OpSwl   = 0x2A
	OpSw    = 0x2B
	OpSdl   = 0x2C
	OpSdr   = 0x2D
	OpSwr   = 0x2E
	OpCache = 0x2F

	OpLl   = 0x30
	OpLwc1 = 0x31
	OpLwc2 = 0x32
	OpPref = 0x33
	OpLld  = 0x34
	OpLdc1 = 0x35
	OpLdc2 = 0x36
	OpLd   = 0x37

	OpSc   = 0x38
	OpSwc1 = 0x39
	OpSwc2 = 0x3A
	OpScd  = 0x3C
	OpSdc1 = 0x3D
	OpSdc2 = 0x3E
	OpSd   = 0x3F
)

// SPECIAL function field (bits 5..0), opcode == OpSpecial.
const (
	SpecialSll = 0x00

	SpecialSrl  = 0x02
	SpecialSra  = 0x03
	SpecialSllv = 0x04

	SpecialSrlv = 0x06
	SpecialSrav = 0x07

	SpecialJr      = 0x08
	SpecialJalr    = 0x09
	SpecialMovz    = 0x0A
	SpecialMovn    = 0x0B
	SpecialSyscall = 0x0C
	SpecialBreak   = 0x0D

	SpecialSync = 0x0F

	SpecialMfhi  = 0x10
	SpecialMthi  = 0x11
	SpecialMflo  = 0x12
	SpecialMtlo  = 0x13
	SpecialDsllv = 0x14

	SpecialDsrlv = 0x16
	SpecialDsrav = 0x17

	SpecialMult  = 0x18
	SpecialMultu = 0x19
	SpecialDiv   = 0x1A
	SpecialDivu  = 0x1B

	SpecialAdd  = 0x20
	SpecialAddu = 0x21
	SpecialSub  = 0x22
	SpecialSubu = 0x23
	SpecialAnd  = 0x24
	SpecialOr   = 0x25
	SpecialXor  = 0x26
	SpecialNor  = 0x27

	SpecialMfsa  = 0x28
	SpecialMtsa  = 0x29
	SpecialSlt   = 0x2A
	SpecialSltu  = 0x2B
	SpecialDadd  = 0x2C
	SpecialDaddu = 0x2D
	SpecialDsub  = 0x2E
	SpecialDsubu = 0x2F

	SpecialTge  = 0x30
	SpecialTgeu = 0x31
	SpecialTlt  = 0x32
	SpecialTltu = 0x33
	SpecialTeq  = 0x34

	SpecialTne = 0x36

	SpecialDsll = 0x38

	SpecialDsrl   = 0x3A
	SpecialDsra   = 0x3B
	SpecialDsll32 = 0x3C

	SpecialDsrl32 = 0x3E
	SpecialDsra32 = 0x3F
)

// REGIMM rt field (bits 20..16), opcode == OpRegimm.
const (
	RegimmBltz  = 0x00
	RegimmBgez  = 0x01
	RegimmBltzl = 0x02
	RegimmBgezl = 0x03

	RegimmTgei  = 0x08
	RegimmTgeiu = 0x09
	RegimmTlti  = 0x0A
	RegimmTltiu = 0x0B
	RegimmTeqi  = 0x0C

	RegimmTnei = 0x0E

	RegimmBltzal  = 0x10
	RegimmBgezal  = 0x11
	RegimmBltzall = 0x12
	RegimmBgezall = 0x13

	RegimmMtsab = 0x18
	RegimmMtsah = 0x19
)

// MMI top-level function field (bits 5..0), opcode == OpMMI.
const (
	MMIMadd  = 0x00
	MMIMaddu = 0x01
	MMIMsub  = 0x02
	MMIMsubu = 0x03
	MMIPlzcw = 0x04

	MMIMMI0 = 0x08
	MMIMMI2 = 0x09

	MMIMfhi1 = 0x10
	MMIMthi1 = 0x11
	MMIMflo1 = 0x12
	MMIMtlo1 = 0x13

	MMIMult1  = 0x18
	MMIMultu1 = 0x19
	MMIDiv1   = 0x1A
	MMIDivu1  = 0x1B

	MMIMadd1  = 0x20
	MMIMaddu1 = 0x21

	MMIMMI1 = 0x28
	MMIMMI3 = 0x29

	MMIPmfhl = 0x30
	MMIPmthl = 0x31

	MMIPsllh = 0x34

	MMIPsrlh = 0x36
	MMIPsrah = 0x37

	MMIPsllw = 0x3C

	MMIPsrlw = 0x3E
	MMIPsraw = 0x3F
)

// MMI0 sub-function (sa field), MMI function == MMIMMI0.
const (
	MMI0Paddw  = 0x00
	MMI0Psubw  = 0x01
	MMI0Pcgtw  = 0x02
	MMI0Pmaxw  = 0x03
	MMI0Paddh  = 0x04
	MMI0Psubh  = 0x05
	MMI0Pcgth  = 0x06
	MMI0Pmaxh  = 0x07
	MMI0Paddb  = 0x08
	MMI0Psubb  = 0x09
	MMI0Pcgtb  = 0x0A
	MMI0Paddsw = 0x10
	MMI0Psubsw = 0x11
	MMI0Pextlw = 0x12
	MMI0Ppacw  = 0x13
	MMI0Paddsh = 0x14
	MMI0Psubsh = 0x15
	MMI0Pextlh = 0x16
	MMI0Ppach  = 0x17
	MMI0Paddsb = 0x18
	MMI0Psubsb = 0x19
	MMI0Pextlb = 0x1A
	MMI0Ppacb  = 0x1B
	MMI0Pext5  = 0x1E
	MMI0Ppac5  = 0x1F
)

// MMI1 sub-function (sa field), MMI function == MMIMMI1.
const (
	MMI1Pabsw  = 0x01
	MMI1Pceqw  = 0x02
	MMI1Pminw  = 0x03
	MMI1Padsbh = 0x04
	MMI1Pabsh  = 0x05
	MMI1Pceqh  = 0x06
	MMI1Pminh  = 0x07
	MMI1Pceqb  = 0x0A
	MMI1Padduw = 0x10
	MMI1Psubuw = 0x11
	MMI1Pextuw = 0x12
	MMI1Padduh = 0x14
	MMI1Psubuh = 0x15
	MMI1Pextuh = 0x16
	MMI1Paddub = 0x18
	MMI1Psubub = 0x19
	MMI1Pextub = 0x1A
	MMI1Qfsrv  = 0x1B
)

// MMI2 sub-function (sa field), MMI function == MMIMMI2.
const (
	MMI2Pmaddw  = 0x00
	MMI2Psllvw  = 0x02
	MMI2Psrlvw  = 0x03
	MMI2Pmsubw  = 0x04
	MMI2Pmfhi   = 0x08
	MMI2Pmflo   = 0x09
	MMI2Pinth   = 0x0A
	MMI2Pmultw  = 0x0C
	MMI2Pdivw   = 0x0D
	MMI2Pcpyld  = 0x0E
	MMI2Pand    = 0x12
	MMI2Pxor    = 0x13
	MMI2Pmaddh  = 0x14
	MMI2Phmadh  = 0x15
	MMI2Pmsubh  = 0x18
	MMI2Phmsbh  = 0x19
	MMI2Pexeh   = 0x1A
	MMI2Prevh   = 0x1B
	MMI2Pmulth  = 0x1C
	MMI2Pdivbw  = 0x1D
	MMI2Pexew   = 0x1E
	MMI2Prot3w  = 0x1F
)

// MMI3 sub-function (sa field), MMI function == MMIMMI3.
const (
	MMI3Pmadduw = 0x00
	MMI3Psravw  = 0x03
	MMI3Pmthi   = 0x08
	MMI3Pmtlo   = 0x09
	MMI3Pinteh  = 0x0A
	MMI3Pmultuw = 0x0C
	MMI3Pdivuw  = 0x0D
	MMI3Pcpyud  = 0x0E
	MMI3Por     = 0x12
	MMI3Pnor    = 0x13
	MMI3Pexch   = 0x1A
	MMI3Pcpyh   = 0x1B
	MMI3Pexcw   = 0x1E
)

// PMFHL/PMTHL sub-function (sa field).
const (
	PmfhlLw  = 0x00
	PmfhlUw  = 0x01
	PmfhlSlw = 0x02
	PmfhlLh  = 0x03
	PmfhlSh  = 0x04
)

// COP0 format field (rs, bits 25..21).
const (
	Cop0Mf = 0x00
	Cop0Mt = 0x04
	Cop0Bc = 0x08
	Cop0Co = 0x10
)

// COP0 CO function (bits 5..0), rs == Cop0Co.
const (
	Cop0CoTlbr  = 0x01
	Cop0CoTlbwi = 0x02
	Cop0CoTlbwr = 0x06
	Cop0CoTlbp  = 0x08
	Cop0CoEret  = 0x18
	Cop0CoEi    = 0x38
	Cop0CoDi    = 0x39
)

// COP0 register numbers.
const (
	Cop0RegIndex    = 0
	Cop0RegRandom   = 1
	Cop0RegEntryLo0 = 2
	Cop0RegEntryLo1 = 3
	Cop0RegContext  = 4
	Cop0RegPageMask = 5
	Cop0RegWired    = 6
	Cop0RegBadVAddr = 8
	Cop0RegCount    = 9
	Cop0RegEntryHi  = 10
	Cop0RegCompare  = 11
	Cop0RegStatus   = 12
	Cop0RegCause    = 13
	Cop0RegEPC      = 14
	Cop0RegPRId     = 15
	Cop0RegConfig   = 16
	Cop0RegBadPAddr = 23
	Cop0RegDebug    = 24
	Cop0RegPerf     = 25
	Cop0RegTagLo    = 28
	Cop0RegTagHi    = 29
	Cop0RegErrorEPC = 30
)

// COP1 format field (rs, bits 25..21).
const (
	Cop1Mf = 0x00
	Cop1Cf = 0x02
	Cop1Mt = 0x04
	Cop1Ct = 0x06
	Cop1Bc = 0x08
	Cop1S  = 0x10
	Cop1W  = 0x14
)

// COP1.S function field (bits 5..0), rs == Cop1S.
const (
	Cop1SAdd  = 0x00
	Cop1SSub  = 0x01
	Cop1SMul  = 0x02
	Cop1SDiv  = 0x03
	Cop1SSqrt = 0x04
	Cop1SAbs  = 0x05
	Cop1SMov  = 0x06
	Cop1SNeg  = 0x07

	Cop1SRoundW = 0x0C
	Cop1STruncW = 0x0D
	Cop1SCeilW  = 0x0E
	Cop1SFloorW = 0x0F

	Cop1SRsqrt = 0x16
	Cop1SAdda  = 0x18
	Cop1SSuba  = 0x19
	Cop1SMula  = 0x1A
	Cop1SMadd  = 0x1C
	Cop1SMsub  = 0x1D
	Cop1SMadda = 0x1E
	Cop1SMsuba = 0x1F

	Cop1SCvtW = 0x24

	Cop1SMax = 0x28
	Cop1SMin = 0x29

	Cop1SCF = 0x30 // first of the C.cond.S compare family
)

// COP1.W function field (bits 5..0), rs == Cop1W.
const (
	Cop1WCvtS = 0x20
)

// COP2 format field (rs, bits 25..21).
const (
	Cop2Qmfc2 = 0x01
	Cop2Cfc2  = 0x02
	Cop2Qmtc2 = 0x05
	Cop2Ctc2  = 0x06
	Cop2Bc    = 0x08
	Cop2Co    = 0x10
)

// VU0 control register numbers (CFC2/CTC2).
const (
	VU0CRStatus = 0
	VU0CRMAC    = 1
	VU0CRR      = 3
	VU0CRI      = 4
	VU0CRClip   = 5
	VU0CRCMSAR0 = 13
	VU0CRFBRST  = 18
)

// VU0 macro-mode Special1 function (bits 5..0), Special2 not selected.
const (
	VU0S1Vaddx  = 0x00
	VU0S1Vaddy  = 0x01
	VU0S1Vaddz  = 0x02
	VU0S1Vaddw  = 0x03
	VU0S1Vsubx  = 0x04
	VU0S1Vsuby  = 0x05
	VU0S1Vsubz  = 0x06
	VU0S1Vsubw  = 0x07
	VU0S1Vmaddx = 0x08
	VU0S1Vmaddy = 0x09
	VU0S1Vmaddz = 0x0A
	VU0S1Vmaddw = 0x0B
	VU0S1Vmsubx = 0x0C
	VU0S1Vmsuby = 0x0D
	VU0S1Vmsubz = 0x0E
	VU0S1Vmsubw = 0x0F
	VU0S1Vmaxx  = 0x10
	VU0S1Vmaxy  = 0x11
	VU0S1Vmaxz  = 0x12
	VU0S1Vmaxw  = 0x13
	VU0S1Vminix = 0x14
	VU0S1Vminiy = 0x15
	VU0S1Viniz  = 0x16
	VU0S1Viniw  = 0x17
	VU0S1Vmulx  = 0x18
	VU0S1Vmuly  = 0x19
	VU0S1Vmulz  = 0x1A
	VU0S1Vmulw  = 0x1B
	VU0S1Vmulq  = 0x1C
	VU0S1Vmaxi  = 0x1D
	VU0S1Vmuli  = 0x1E
	VU0S1Vminii = 0x1F
	VU0S1Vaddq  = 0x20
	VU0S1Vmaddq = 0x21
	VU0S1Vaddi  = 0x22
	VU0S1Vmaddi = 0x23
	VU0S1Vsubq  = 0x24
	VU0S1Vmsubq = 0x25
	VU0S1Vsubi  = 0x26
	VU0S1Vmsubi = 0x27
	VU0S1Vadd   = 0x28
	VU0S1Vmadd  = 0x29
	VU0S1Vmul   = 0x2A
	VU0S1Vmax   = 0x2B
	VU0S1Vsub   = 0x2C
	VU0S1Vmsub  = 0x2D
	VU0S1Vopmsub = 0x2E
	VU0S1Vmini  = 0x2F
	VU0S1Viadd  = 0x30
	VU0S1Visub  = 0x31
	VU0S1Viaddi = 0x32
	VU0S1Viand  = 0x34
	VU0S1Vior   = 0x35
	VU0S1Vcallms  = 0x38
	VU0S1Vcallmsr = 0x39
)

// VU0 macro-mode Special2 function (reconstructed per spec.md §4.1, function >= 0x3C raw).
const (
	VU0S2Vaddax  = 0x00
	VU0S2Vadday  = 0x01
	VU0S2Vaddaz  = 0x02
	VU0S2Vaddaw  = 0x03
	VU0S2Vsubax  = 0x04
	VU0S2Vsubay  = 0x05
	VU0S2Vsubaz  = 0x06
	VU0S2Vsubaw  = 0x07
	VU0S2Vmaddax = 0x08
	VU0S2Vmadday = 0x09
	VU0S2Vmaddaz = 0x0A
	VU0S2Vmaddaw = 0x0B
	VU0S2Vmsubax = 0x0C
	VU0S2Vmsubay = 0x0D
	VU0S2Vmsubaz = 0x0E
	VU0S2Vmsubaw = 0x0F
	VU0S2Vitof0  = 0x10
	VU0S2Vitof4  = 0x11
	VU0S2Vitof12 = 0x12
	VU0S2Vitof15 = 0x13
	VU0S2Vftoi0  = 0x14
	VU0S2Vftoi4  = 0x15
	VU0S2Vftoi12 = 0x16
	VU0S2Vftoi15 = 0x17
	VU0S2Vmulax  = 0x18
	VU0S2Vmulay  = 0x19
	VU0S2Vmulaz  = 0x1A
	VU0S2Vmulaw  = 0x1B
	VU0S2Vmulaq  = 0x1C
	VU0S2Vabs    = 0x1D
	VU0S2Vmulai  = 0x1E
	VU0S2Vclipw  = 0x1F
	VU0S2Vaddaq  = 0x20
	VU0S2Vmaddaq = 0x21
	VU0S2Vaddai  = 0x22
	VU0S2Vmaddai = 0x23
	VU0S2Vsubaq  = 0x24
	VU0S2Vmsubaq = 0x25
	VU0S2Vsubai  = 0x26
	VU0S2Vmsubai = 0x27
	VU0S2Vadda   = 0x28
	VU0S2Vmadda  = 0x29
	VU0S2Vmula   = 0x2A
	VU0S2Vsuba   = 0x2C
	VU0S2Vmsuba  = 0x2D
	VU0S2Vopmula = 0x2E
	VU0S2Vnop    = 0x2F
	VU0S2Vmove   = 0x30
	VU0S2Vmr32   = 0x31
	VU0S2Vlqi    = 0x34
	VU0S2Vsqi    = 0x35
	VU0S2Vlqd    = 0x36
	VU0S2Vsqd    = 0x37
	VU0S2Vdiv    = 0x38
	VU0S2Vsqrt   = 0x39
	VU0S2Vrsqrt  = 0x3A
	VU0S2Vwaitq  = 0x3B
	VU0S2Vmtir   = 0x3C
	VU0S2Vmfir   = 0x3D
	VU0S2Vilwr   = 0x3E
	VU0S2Viswr   = 0x3F
	VU0S2Vrnext  = 0x40
	VU0S2Vrget   = 0x41
	VU0S2Vrinit  = 0x42
	VU0S2Vrxor   = 0x43
)
