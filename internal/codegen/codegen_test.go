package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ps2xrecomp/ps2recomp/internal/decoder"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

func addiu(rt, rs uint8, imm uint16) rtypes.Instruction {
	raw := uint32(decoder.OpAddiu)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | uint32(imm)
	return decoder.Decode(0, raw) // address patched by caller where it matters
}

func at(inst rtypes.Instruction, addr uint32) rtypes.Instruction {
	inst.Address = addr
	return inst
}

func TestGenerateFunctionStraightLine(t *testing.T) {
	insts := []rtypes.Instruction{
		at(addiu(4, 0, 1), 0x1000),
		at(addiu(5, 4, 2), 0x1004),
	}
	fn := rtypes.Function{Name: "fn_00001000", Start: 0x1000, End: 0x1008}

	out := GenerateFunction(fn, insts, SymbolTable{})

	require.Contains(t, out, "void fn_00001000(uint8_t* rdram, R5900Context* ctx, PS2Runtime* runtime) {")
	require.Contains(t, out, "SET_GPR_U32(ctx, 4,")
	require.Contains(t, out, "SET_GPR_U32(ctx, 5,")
	require.Contains(t, out, "return;")
}

func TestGenerateFunctionBranchWithDelaySlot(t *testing.T) {
	beq := decoder.Decode(0x2000, uint32(decoder.OpBeq)<<26|uint32(4)<<21|uint32(5)<<16|1)
	delay := at(addiu(6, 0, 1), 0x2004)
	tail := at(addiu(6, 0, 2), 0x2008)

	fn := rtypes.Function{Name: "fn_00002000", Start: 0x2000, End: 0x200C}
	out := GenerateFunction(fn, []rtypes.Instruction{beq, delay, tail}, SymbolTable{})

	require.Contains(t, out, "L_00002008:")
	require.Contains(t, out, "if (")
	require.Contains(t, out, "goto L_00002008;")
	// the delay slot must be emitted unconditionally, ahead of the if.
	ifIdx := indexOf(out, "if (")
	delayIdx := indexOf(out, "SET_GPR_U32(ctx, 6, GPR_S32(ctx, 0) + (int32_t)0x00000001)")
	require.Less(t, delayIdx, ifIdx)
}

func TestGenerateFunctionStaticCallKnownSymbol(t *testing.T) {
	jal := decoder.Decode(0x3000, uint32(decoder.OpJal)<<26|(0x00400000>>2))
	delay := at(addiu(4, 0, 0), 0x3004)

	fn := rtypes.Function{Name: "fn_00003000", Start: 0x3000, End: 0x3008}
	symbols := SymbolTable{0x00400000: "fn_00400000"}
	out := GenerateFunction(fn, []rtypes.Instruction{jal, delay}, symbols)

	require.Contains(t, out, "SET_GPR_U32(ctx, 31, 0x00003008)")
	require.Contains(t, out, "fn_00400000(rdram, ctx, runtime);")
}

func TestGenerateFunctionUnknownCallFallsBackToRuntime(t *testing.T) {
	jal := decoder.Decode(0x3000, uint32(decoder.OpJal)<<26|(0x00500000>>2))
	delay := at(addiu(4, 0, 0), 0x3004)

	fn := rtypes.Function{Name: "fn_00003000", Start: 0x3000, End: 0x3008}
	out := GenerateFunction(fn, []rtypes.Instruction{jal, delay}, SymbolTable{})

	require.Contains(t, out, "runtime->CallFunction(rdram, ctx, 0x00500000);")
}

func TestGenerateFunctionStubBody(t *testing.T) {
	fn := rtypes.Function{Name: "fn_00004000", Start: 0x4000, End: 0x4004, IsStub: true}
	out := GenerateFunction(fn, nil, SymbolTable{})

	require.Contains(t, out, `ps2_stubs::TODO_NAMED("fn_00004000");`)
	require.Contains(t, out, "ctx->pc = GPR_U64(ctx, 31);")
}

func TestGenerateFunctionStubResolvesSyscallName(t *testing.T) {
	fn := rtypes.Function{Name: "sceKernelCreateThread", Start: 0x4000, End: 0x4004, IsStub: true}
	out := GenerateFunction(fn, nil, SymbolTable{})

	require.Contains(t, out, "ps2_syscalls::sceKernelCreateThread(rdram, ctx, runtime);")
}

func TestGenerateFunctionLocalJalReturnEmitsSwitch(t *testing.T) {
	// A local subroutine at 0x1200 is JALed from 0x1300 and returns with
	// "jr $ra"; spec.md §8 Scenario 5 requires the switch/goto dispatch
	// rather than a bare return, since $ra may hold 0x1308 instead of the
	// enclosing function's own caller.
	jr := decoder.Decode(0x1200, uint32(decoder.OpSpecial)<<26|uint32(31)<<21|decoder.SpecialJr)
	jrDelay := at(addiu(0, 0, 0), 0x1204)
	jal := decoder.Decode(0x1300, uint32(decoder.OpJal)<<26|(0x1200>>2))
	jalDelay := at(addiu(0, 0, 0), 0x1304)
	tail := at(addiu(4, 0, 9), 0x1308)

	fn := rtypes.Function{Name: "fn_00001000", Start: 0x1000, End: 0x130C}
	out := GenerateFunction(fn, []rtypes.Instruction{jr, jrDelay, jal, jalDelay, tail}, SymbolTable{})

	require.Contains(t, out, "L_00001308:")
	require.Contains(t, out, "switch (jumpTarget) {")
	require.Contains(t, out, "case 0x00001308u: goto L_00001308;")
	require.Contains(t, out, "default: break;")
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
