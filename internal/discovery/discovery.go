/*
 * ps2recomp - Entry discovery and function reslicing
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

// Package discovery finds guest function entry points beyond what the
// ELF symbol table names, and resplits existing functions when a static
// call or jump target lands strictly inside one of them. Both passes
// iterate to a fixed point: discovering one entry point can expose
// targets that require another resplit, and vice versa.
package discovery

import (
	"sort"

	"github.com/ps2xrecomp/ps2recomp/internal/decoder"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// DecodedFunction pairs a Function record with the instructions the
// orchestrator already decoded for it, so discovery doesn't need to
// re-decode when it resplits.
type DecodedFunction struct {
	Fn    rtypes.Function
	Insts []rtypes.Instruction
}

// Run discovers additional entry points reachable by static JAL/J
// targets that fall inside code sections and are not already a known
// function start (a target inside a known function's body counts too),
// then resplits any function whose body a discovered (or pre-existing)
// entry point lands inside. It iterates until neither pass finds
// anything new, decoding newly discovered ranges with decodeRange
// (normally decoder.Decode wrapped to walk a code section).
func Run(funcs []DecodedFunction, codeSections []rtypes.Section, decodeRange func(start, end uint32) []rtypes.Instruction) []DecodedFunction {
	for {
		entries := discoverEntries(funcs, codeSections)
		newEntries := newAddresses(entries, funcs)

		for _, addr := range newEntries {
			end := nextBoundary(addr, funcs, codeSections)
			insts := decodeRange(addr, end)
			funcs = append(funcs, DecodedFunction{
				Fn: rtypes.Function{
					Name:  syntheticName(addr),
					Start: addr,
					End:   end,
				},
				Insts: insts,
			})
		}

		resliced, changed := reslice(funcs)
		funcs = resliced
		if len(newEntries) == 0 && !changed {
			break
		}
	}

	sort.Slice(funcs, func(i, j int) bool { return funcs[i].Fn.Start < funcs[j].Fn.Start })
	return funcs
}

// discoverEntries collects every static J/JAL target reachable from the
// currently known functions that isn't already a known function start,
// whether or not the jump is a call (spec.md §4.6 scans "static jump
// targets (J/JAL)", not call targets specifically — a tail-position
// plain `j` is exactly the case its own rationale names).
func discoverEntries(funcs []DecodedFunction, codeSections []rtypes.Section) map[uint32]bool {
	entries := make(map[uint32]bool)
	for _, df := range funcs {
		for _, inst := range df.Insts {
			if !inst.IsJump {
				continue
			}
			target := decoder.GetJumpTarget(inst)
			if target == 0 {
				continue
			}
			if inSection(target, codeSections) {
				entries[target] = true
			}
		}
	}
	return entries
}

func newAddresses(entries map[uint32]bool, funcs []DecodedFunction) []uint32 {
	known := make(map[uint32]bool, len(funcs))
	for _, df := range funcs {
		known[df.Fn.Start] = true
	}
	var out []uint32
	for addr := range entries {
		if !known[addr] {
			out = append(out, addr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func inSection(addr uint32, sections []rtypes.Section) bool {
	for _, s := range sections {
		if !s.IsCode {
			continue
		}
		if addr >= s.Addr && addr < s.Addr+s.Size {
			return true
		}
	}
	return false
}

func nextBoundary(addr uint32, funcs []DecodedFunction, codeSections []rtypes.Section) uint32 {
	best := uint32(0)
	for _, s := range codeSections {
		if s.IsCode && addr >= s.Addr && addr < s.Addr+s.Size {
			best = s.Addr + s.Size
			break
		}
	}
	for _, df := range funcs {
		if df.Fn.Start > addr && df.Fn.Start < best {
			best = df.Fn.Start
		}
	}
	return best
}

// reslice splits any function whose body a static J/JAL target from a
// DIFFERENT known function lands strictly inside. A call or jump from
// function G that targets the middle of function F means F is really
// two functions back to back; this carves the tail off into its own
// Function record. Targets a function sends to its own body (a local
// subroutine called with JAL and returned from with "jr $ra", spec.md
// §4.3 step 5) are deliberately left alone — reslicing only tears apart
// cross-function references, matching spec.md §4.6's "lies inside a
// different known function" condition. Reports whether anything changed
// so Run knows whether another fixed-point iteration is needed.
func reslice(funcs []DecodedFunction) ([]DecodedFunction, bool) {
	starts := make(map[uint32]bool, len(funcs))
	for _, df := range funcs {
		starts[df.Fn.Start] = true
	}

	// splitTargets[F.Start] holds every target strictly inside F that is
	// reached by a J/JAL from some OTHER function.
	splitTargets := make(map[uint32]map[uint32]bool, len(funcs))
	for _, src := range funcs {
		for _, inst := range src.Insts {
			if !inst.IsJump {
				continue
			}
			target := decoder.GetJumpTarget(inst)
			if target == 0 {
				continue
			}
			for _, dst := range funcs {
				if dst.Fn.Start == src.Fn.Start {
					continue
				}
				if target > dst.Fn.Start && target < dst.Fn.End {
					if splitTargets[dst.Fn.Start] == nil {
						splitTargets[dst.Fn.Start] = make(map[uint32]bool)
					}
					splitTargets[dst.Fn.Start][target] = true
				}
			}
		}
	}

	changed := false
	var out []DecodedFunction

	for _, df := range funcs {
		splitAt := uint32(0)
		for target := range splitTargets[df.Fn.Start] {
			if splitAt == 0 || target < splitAt {
				splitAt = target
			}
		}

		if splitAt == 0 {
			out = append(out, df)
			continue
		}

		changed = true
		head, tail := splitInsts(df.Insts, splitAt)
		out = append(out, DecodedFunction{
			Fn:    rtypes.Function{Name: df.Fn.Name, Start: df.Fn.Start, End: splitAt},
			Insts: head,
		})
		if !starts[splitAt] {
			out = append(out, DecodedFunction{
				Fn:    rtypes.Function{Name: syntheticName(splitAt), Start: splitAt, End: df.Fn.End},
				Insts: tail,
			})
		}
	}

	return out, changed
}

func splitInsts(insts []rtypes.Instruction, at uint32) (head, tail []rtypes.Instruction) {
	for i, inst := range insts {
		if inst.Address >= at {
			return insts[:i], insts[i:]
		}
	}
	return insts, nil
}

func syntheticName(addr uint32) string {
	return "fn_" + hex8(addr)
}

func hex8(v uint32) string {
	const digits = "0123456789ABCDEF"
	out := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		out[i] = digits[v&0xF]
		v >>= 4
	}
	return string(out)
}
