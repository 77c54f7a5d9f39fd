/*
 * ps2recomp - Runtime ABI macro vocabulary
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

import "fmt"

// This file is the generator's only window onto the runtime ABI: a
// fixed macro/capability vocabulary (spec.md §6) that the runtime
// defines and the generator only ever calls. None of these names are
// declared anywhere in this module; they resolve against
// ps2_runtime_macros.h and PS2Runtime at C++ compile time.

// gpr returns an expression reading guest GPR n through the given
// width/signedness macro (GPR_U32/S32/U64/S64/VEC). Reading $zero is the
// macro's own job (it always returns 0), so no special case is needed
// on the read side.
func gpr(kind string, n uint8) string {
	return fmt.Sprintf("%s(ctx, %d)", kind, n)
}

// setGPR emits "SET_<kind>(ctx, n, value);" unless n is $zero, in which
// case it emits nothing: spec.md's invariant that writes to $zero are
// silently dropped at code-gen time, not deferred to the macro.
func setGPR(kind string, n uint8, value string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("SET_%s(ctx, %d, %s);\n", kind, n, value)
}

func read(width int, addr string) string {
	return fmt.Sprintf("READ%d(%s)", width, addr)
}

func write(width int, addr, value string) string {
	return fmt.Sprintf("WRITE%d(%s, %s);\n", width, addr, value)
}

// mmioRead/mmioWrite are substituted for read/write when the decoded
// instruction carries an MMIO tag (spec.md §4.2's "MMIO-tagged
// instruction" rule). The runtime dispatches these through whatever
// peripheral handles the address.
func mmioRead(width int, addr string) string {
	return fmt.Sprintf("runtime->Load%d(rdram, ctx, %s)", width, addr)
}

func mmioWrite(width int, addr, value string) string {
	return fmt.Sprintf("runtime->Store%d(rdram, ctx, %s, %s);\n", width, addr, value)
}
