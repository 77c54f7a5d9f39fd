package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ps2xrecomp/ps2recomp/internal/decoder"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

func jal(addr, target uint32) rtypes.Instruction {
	raw := uint32(decoder.OpJal)<<26 | (target >> 2)
	return decoder.Decode(addr, raw)
}

func nop(addr uint32) rtypes.Instruction {
	return decoder.Decode(addr, 0)
}

func TestResliceSplitsOnInternalCallTarget(t *testing.T) {
	// fn_1000 spans 0x1000..0x1010, but a call from elsewhere targets
	// 0x1008, which sits strictly inside it - it must be carved off.
	insts := []rtypes.Instruction{
		nop(0x1000),
		nop(0x1004),
		nop(0x1008),
		nop(0x100C),
	}
	funcs := []DecodedFunction{
		{Fn: rtypes.Function{Name: "fn_1000", Start: 0x1000, End: 0x1010}, Insts: insts},
		{Fn: rtypes.Function{Name: "fn_2000", Start: 0x2000, End: 0x2008}, Insts: []rtypes.Instruction{
			jal(0x2000, 0x1008),
			nop(0x2004),
		}},
	}

	out, changed := reslice(funcs)
	require.True(t, changed)

	var starts []uint32
	for _, df := range out {
		starts = append(starts, df.Fn.Start)
	}
	require.Contains(t, starts, uint32(0x1000))
	require.Contains(t, starts, uint32(0x1008))
}

func TestResliceLeavesLocalSubroutineCallIntact(t *testing.T) {
	// fn_1000 JALs into its own body at 0x1008 as a local subroutine and
	// returns from there with "jr $ra" (not modelled here; the decoded
	// stream itself is enough to exercise reslice). spec.md §4.6 only
	// resplits targets landing inside a DIFFERENT known function, so this
	// self-targeting call must not be carved apart - codegen's "jr $ra"
	// switch (spec.md §8 Scenario 5) depends on this function surviving
	// as one piece.
	insts := []rtypes.Instruction{
		nop(0x1000),
		nop(0x1004),
		jal(0x1000, 0x1008),
		nop(0x1004),
		nop(0x1008),
		nop(0x100C),
	}
	funcs := []DecodedFunction{
		{Fn: rtypes.Function{Name: "fn_1000", Start: 0x1000, End: 0x1010}, Insts: insts},
	}

	out, changed := reslice(funcs)
	require.False(t, changed)
	require.Len(t, out, 1)
}

func TestResliceLeavesLoopsAlone(t *testing.T) {
	beq := decoder.Decode(0x1008, uint32(decoder.OpBeq)<<26|uint32(1)<<21|uint32(2)<<16|0xFFFE) // branches backward, not a call
	insts := []rtypes.Instruction{
		nop(0x1000),
		nop(0x1004),
		beq,
		nop(0x100C),
	}
	funcs := []DecodedFunction{
		{Fn: rtypes.Function{Name: "fn_1000", Start: 0x1000, End: 0x1010}, Insts: insts},
	}

	out, changed := reslice(funcs)
	require.False(t, changed)
	require.Len(t, out, 1)
}
