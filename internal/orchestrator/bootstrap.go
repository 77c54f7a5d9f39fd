/*
 * ps2recomp - Bootstrap record derivation
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

package orchestrator

import (
	"fmt"

	"github.com/ps2xrecomp/ps2recomp/internal/relf"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// deriveBootstrap builds the record the runtime needs to set up the
// guest's initial machine state: the entry point, the BSS range to
// zero, _gp, and a human-readable name for the entry symbol (falling
// back to a synthesized one when the ELF doesn't name it, mirroring
// sanitizeName's fallback for anonymous functions).
func deriveBootstrap(img *relf.Image) rtypes.BootstrapInfo {
	info := rtypes.BootstrapInfo{
		Valid: true,
		Entry: img.Entry,
		GP:    img.GP,
	}

	for _, s := range img.Sections {
		if s.IsBSS {
			if info.BSSStart == 0 || s.Addr < info.BSSStart {
				info.BSSStart = s.Addr
			}
			if end := s.Addr + s.Size; end > info.BSSEnd {
				info.BSSEnd = end
			}
		}
	}

	for _, sym := range img.Symbols {
		if sym.Addr == img.Entry && sym.IsFunction {
			info.EntryName = sym.Name
			break
		}
	}
	if info.EntryName == "" {
		info.EntryName = fmt.Sprintf("entry_%08X", img.Entry)
	}

	return info
}
