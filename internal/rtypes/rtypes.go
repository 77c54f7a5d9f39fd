/*
 * ps2recomp - Core data model
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

// Package rtypes holds the data model shared by the decoder, the code
// generator, entry discovery and the orchestrator: the decoded
// instruction record, function/section/symbol/relocation records handed
// in by the ELF collaborator, and the recompiler configuration.
package rtypes

// VectorInfo carries the COP2 VU0 macro-mode vector sub-fields that only
// apply to a subset of instructions.
type VectorInfo struct {
	IsVector    bool  // This instruction operates on a VU0 vector register.
	UsesQReg    bool  // Reads or writes ctx->vu0_q.
	UsesPReg    bool  // Reads or writes ctx->vu0_p.
	ModifiesMAC bool  // Updates vu0_mac_flags.
	VectorField uint8 // 4-bit xyzw destination/broadcast mask; 0xF = all lanes.
	Fsf         uint8 // 2-bit source field select (VDIV/VSQRT/VRSQRT).
	Ftf         uint8 // 2-bit target field select (VDIV/VRSQRT).
}

// ModificationInfo records which guest register files this instruction
// writes, so the orchestrator and generator can special-case $zero writes
// and memory-mapped loads/stores without re-deriving it from the opcode.
type ModificationInfo struct {
	ModifiesGPR     bool // Writes a scalar/128-bit GPR lane (never true for rd/rt == 0).
	ModifiesFPR     bool // Writes a COP1 FPU register.
	ModifiesVFR     bool // Writes a VU0 vector float register.
	ModifiesVIR     bool // Writes a VU0 integer register (vi[0..15]).
	ModifiesVIC     bool // Writes a VU0 control register (STATUS/MAC/CLIP/...).
	ModifiesMemory  bool // Writes guest RAM.
	ModifiesControl bool // Writes HI/LO/SA/COP0/COP1 FCR31/trap or exception state.
}

// Instruction is the decoder's pure output: one 32-bit guest word lifted
// into operand fields plus the side-effect/classification flags the
// generator and the control-flow stages consume.
type Instruction struct {
	Address uint32 // Guest PC of this word.
	Raw     uint32 // Original encoding, after patching.

	Opcode   uint8 // bits 31..26
	Rs       uint8 // bits 25..21
	Rt       uint8 // bits 20..16
	Rd       uint8 // bits 15..11
	Sa       uint8 // bits 10..6
	Function uint8 // bits 5..0

	Immediate  uint32 // Zero-extended 16-bit field.
	SImmediate uint32 // Sign-extended 16-bit field, stored as a u32 bit pattern.
	Target     uint32 // 26-bit jump field.

	IsMMI        bool
	IsVU         bool
	IsBranch     bool
	IsJump       bool
	IsCall       bool
	IsReturn     bool
	HasDelaySlot bool
	IsMultimedia bool
	IsLoad       bool
	IsStore      bool

	MMIType        uint8 // 0..3, selects the MMI0/1/2/3 sub-table.
	MMIFunction    uint8 // function code within the selected MMI group.
	PMFHLVariation uint8 // PMFHL/PMTHL mode: LW/UW/SLW/LH/SH.
	VUFunction     uint8 // Special1/Special2 reconstructed function code.

	VectorInfo       VectorInfo
	ModificationInfo ModificationInfo

	// Set by the orchestrator from RecompilerConfig.MMIOByInstructionAddress,
	// never by Decode itself.
	IsMmio      bool
	MmioAddress uint32
}

// Section describes one ELF section the core cares about: its guest
// address range, whether it holds code/data/BSS, and (for non-BSS
// sections) the bytes backing it.
type Section struct {
	Name       string
	Addr       uint32
	Size       uint32
	IsCode     bool
	IsData     bool
	IsBSS      bool
	IsReadOnly bool
	Data       []byte // nil for BSS.
}

// Symbol is an ELF symbol table entry, possibly overlaid by a Ghidra map.
type Symbol struct {
	Name       string
	Addr       uint32
	Size       uint32
	IsFunction bool
	IsImported bool
	IsExported bool
}

// Relocation is an ELF relocation entry, consumed by the orchestrator
// when resolving indirect call targets and data references.
type Relocation struct {
	Offset     uint32
	Info       uint32
	Symbol     uint32
	Type       uint32
	Addend     int32
	SymbolName string
}

// Function is a guest function's address range and its classification,
// as produced by the ELF collaborator and then mutated in place by the
// orchestrator (§4.7) and entry discovery (§4.6).
type Function struct {
	Name  string
	Start uint32
	End   uint32 // half-open: [Start, End)

	IsRecompiled bool
	IsStub       bool
	IsSkipped    bool
}

// Selector is one entry of a skip/stub list: "name", "name@addr", or a
// bare "addr".
type Selector struct {
	Name    string
	Addr    uint32
	HasAddr bool
}

// RecompilerConfig is the parsed form of config.toml (§3).
type RecompilerConfig struct {
	InputPath     string
	OutputPath    string
	GhidraMapPath string

	SingleFileOutput bool

	SkipFunctions       []Selector
	StubImplementations []Selector

	Patches map[uint32]uint32

	PatchSyscalls bool
	PatchCop0     bool
	PatchCache    bool

	MMIOByInstructionAddress map[uint32]uint32
}

// BootstrapInfo is the derived ELF bootstrap record handed to the
// runtime: entry point, BSS range, _gp, and the symbolic entry name.
type BootstrapInfo struct {
	Valid     bool
	Entry     uint32
	BSSStart  uint32
	BSSEnd    uint32
	GP        uint32
	EntryName string
}
