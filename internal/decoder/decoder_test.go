package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeJAL(t *testing.T) {
	// jal 0x00400000 encoded at 0x1000.
	raw := uint32(0x03<<26) | (0x00400000 >> 2)
	inst := Decode(0x1000, raw)

	require.True(t, inst.IsJump)
	require.True(t, inst.IsCall)
	require.True(t, inst.HasDelaySlot)
	require.Equal(t, uint32(0x00400000), GetJumpTarget(inst))
}

func TestDecodeBEQBackwardBranch(t *testing.T) {
	raw := uint32(OpBeq)<<26 | uint32(1)<<21 | uint32(2)<<16 | 0xFFFC
	inst := Decode(0x2100, raw)

	require.True(t, inst.IsBranch)
	require.True(t, inst.HasDelaySlot)
	require.Equal(t, uint32(0x20F4), GetBranchTarget(inst))
}

func TestDecodeJumpTargetSegmentWrap(t *testing.T) {
	raw := uint32(OpJ)<<26 | (0x0123456)
	inst := Decode(0x8FFFFFFC, raw)

	require.Equal(t, uint32(0x9048D158), GetJumpTarget(inst))
}

func TestDecodeJRReturn(t *testing.T) {
	raw := uint32(OpSpecial)<<26 | uint32(31)<<21 | SpecialJr
	inst := Decode(0x1314, raw)

	require.True(t, inst.IsJump)
	require.True(t, inst.IsReturn)
	require.True(t, inst.HasDelaySlot)
}

func TestDecodeERETClearsDelaySlot(t *testing.T) {
	raw := uint32(OpCop0)<<26 | uint32(Cop0Co)<<21 | Cop0CoEret
	inst := Decode(0x4000, raw)

	require.True(t, inst.IsReturn)
	require.False(t, inst.HasDelaySlot)
}

func TestDecodeMultWritesRdOnR5900(t *testing.T) {
	raw := uint32(OpSpecial)<<26 | uint32(4)<<21 | uint32(5)<<16 | uint32(6)<<11 | SpecialMult
	inst := Decode(0x2000, raw)

	require.True(t, inst.ModificationInfo.ModifiesGPR)
	require.True(t, inst.ModificationInfo.ModifiesControl)
}

func TestDecodeZeroRegisterWriteSuppressed(t *testing.T) {
	raw := uint32(OpSpecial)<<26 | uint32(4)<<21 | uint32(5)<<16 | uint32(0)<<11 | SpecialAdd
	inst := Decode(0x2000, raw)

	require.False(t, inst.ModificationInfo.ModifiesGPR)
}

func TestDecodeMMI0PaddwClassification(t *testing.T) {
	raw := uint32(OpMMI)<<26 | uint32(MMI0Paddw)<<6 | MMIMMI0
	inst := Decode(0x3000, raw)

	require.True(t, inst.IsMMI)
	require.True(t, inst.IsMultimedia)
	require.EqualValues(t, 0, inst.MMIType)
	require.EqualValues(t, MMI0Paddw, inst.MMIFunction)
}

func TestDecodeVUSpecial2Reconstruction(t *testing.T) {
	// VDIV (Special2 0x38): raw function must encode to >= 0x3C so the
	// decoder selects the Special2 table, then reconstruct to 0x38.
	rawFunc := uint32(0x0E) // (0x0E<<2)|0x0 = 0x38 once reconstructed; bits 5..0 carry 0x3C directly.
	raw := uint32(OpCop2)<<26 | uint32(Cop2Co)<<21 | (rawFunc << 6) | 0x3C
	inst := Decode(0x5000, raw)

	require.True(t, inst.IsVU)
	require.EqualValues(t, VU0S2Vdiv, inst.VUFunction)
}

func TestDecodeLoadStoreFlags(t *testing.T) {
	raw := uint32(OpLw)<<26 | uint32(4)<<21 | uint32(5)<<16
	inst := Decode(0x100, raw)
	require.True(t, inst.IsLoad)
	require.True(t, inst.ModificationInfo.ModifiesGPR)

	raw = uint32(OpSw)<<26 | uint32(4)<<21 | uint32(5)<<16
	inst = Decode(0x104, raw)
	require.True(t, inst.IsStore)
	require.True(t, inst.ModificationInfo.ModifiesMemory)
}

func TestGetBranchTargetNonBranchIsZero(t *testing.T) {
	raw := uint32(OpAddiu)<<26 | uint32(4)<<21 | uint32(5)<<16 | 1
	inst := Decode(0x10, raw)
	require.Equal(t, uint32(0), GetBranchTarget(inst))
}

func TestDecodeIsDeterministic(t *testing.T) {
	raw := uint32(OpAddiu)<<26 | uint32(4)<<21 | uint32(5)<<16 | 123
	a := Decode(0x100, raw)
	b := Decode(0x100, raw)
	require.Equal(t, a, b)
}
