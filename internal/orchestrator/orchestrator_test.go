package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ps2xrecomp/ps2recomp/internal/discovery"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

func TestMatchesSelectorByAddress(t *testing.T) {
	sels := []rtypes.Selector{{Addr: 0x1000, HasAddr: true}}
	fn := rtypes.Function{Name: "anything", Start: 0x1000}
	require.True(t, matchesSelector(sels, fn))

	fn.Start = 0x1004
	require.False(t, matchesSelector(sels, fn))
}

func TestMatchesSelectorByName(t *testing.T) {
	sels := []rtypes.Selector{{Name: "memset"}}
	require.True(t, matchesSelector(sels, rtypes.Function{Name: "memset", Start: 0x2000}))
	require.False(t, matchesSelector(sels, rtypes.Function{Name: "memcpy", Start: 0x2000}))
}

func TestCodeSectionsOfFiltersNonCode(t *testing.T) {
	sections := []rtypes.Section{
		{Name: ".text", IsCode: true},
		{Name: ".data", IsData: true},
		{Name: ".bss", IsBSS: true},
	}
	out := codeSectionsOf(sections)
	require.Len(t, out, 1)
	require.Equal(t, ".text", out[0].Name)
}

func TestRangeDecoderAppliesPatchBeforeDecode(t *testing.T) {
	section := rtypes.Section{
		Addr: 0x1000,
		Size: 8,
		Data: []byte{0x21, 0x18, 0x40, 0x00, 0xFF, 0xFF, 0xFF, 0xFF},
	}
	patches := map[uint32]uint32{0x1004: 0x00000000}

	decodeRange := rangeDecoder([]rtypes.Section{section}, patches)
	insts := decodeRange(0x1000, 0x1008)

	require.Len(t, insts, 2)
	require.Equal(t, uint32(0x00401821), insts[0].Raw)
	require.Equal(t, uint32(0), insts[1].Raw)
}

func TestApplyMMIOTagsMatchingInstructions(t *testing.T) {
	funcs := []discovery.DecodedFunction{{
		Fn: rtypes.Function{Start: 0x1000, End: 0x1008},
		Insts: []rtypes.Instruction{
			{Address: 0x1000},
			{Address: 0x1004},
		},
	}}

	applyMMIO(funcs, map[uint32]uint32{0x1004: 0x10002000})

	require.False(t, funcs[0].Insts[0].IsMmio)
	require.True(t, funcs[0].Insts[1].IsMmio)
	require.Equal(t, uint32(0x10002000), funcs[0].Insts[1].MmioAddress)
}
