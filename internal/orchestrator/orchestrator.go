/*
 * ps2recomp - Recompilation orchestrator
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

// Package orchestrator ties the collaborators together: it loads the
// recompiler config and the ELF, optionally overlays a Ghidra map,
// applies instruction patches, decodes every known function, runs entry
// discovery/reslicing to a fixed point, classifies and names the
// resulting functions, and drives the code generator over each one.
package orchestrator

import (
	"fmt"
	"sort"

	"github.com/ps2xrecomp/ps2recomp/internal/codegen"
	"github.com/ps2xrecomp/ps2recomp/internal/decoder"
	"github.com/ps2xrecomp/ps2recomp/internal/discovery"
	"github.com/ps2xrecomp/ps2recomp/internal/rconfig"
	"github.com/ps2xrecomp/ps2recomp/internal/relf"
	"github.com/ps2xrecomp/ps2recomp/internal/rghidra"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// GeneratedFunction is one function's emitted C++ body plus the record
// codegen produced it from, so emit.go can decide single-file vs
// per-function layout without recomputing anything.
type GeneratedFunction struct {
	Fn     rtypes.Function
	Source string
}

// Result is everything a recompilation run produced: the generated
// functions in address order, the bootstrap record, and the config that
// drove the run (emit.go reads SingleFileOutput from it; the caller
// reads OutputPath to pick Emit's output directory).
type Result struct {
	Config     rtypes.RecompilerConfig
	Bootstrap  rtypes.BootstrapInfo
	Functions  []GeneratedFunction
	SymbolAddr map[string]uint32
}

// Run executes one full recompilation: config -> ELF -> optional Ghidra
// overlay -> patches -> decode -> discovery -> classify/name -> codegen.
func Run(configPath string) (*Result, error) {
	cfg, err := rconfig.Load(configPath)
	if err != nil {
		return nil, err
	}

	img, err := relf.Load(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load %s: %w", cfg.InputPath, err)
	}

	if cfg.GhidraMapPath != "" {
		entries, err := loadGhidraMap(cfg.GhidraMapPath)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: ghidra map: %w", err)
		}
		img.Symbols = rghidra.Overlay(img.Symbols, entries)
	}

	codeSections := codeSectionsOf(img.Sections)
	decodeRange := rangeDecoder(codeSections, cfg.Patches)

	var funcs []discovery.DecodedFunction
	for _, sym := range img.Symbols {
		if !sym.IsFunction || sym.Size == 0 {
			continue
		}
		fn := rtypes.Function{Name: sym.Name, Start: sym.Addr, End: sym.Addr + sym.Size}
		funcs = append(funcs, discovery.DecodedFunction{
			Fn:    fn,
			Insts: decodeRange(fn.Start, fn.End),
		})
	}

	funcs = discovery.Run(funcs, codeSections, decodeRange)

	namer := newUniqueNamer()
	symbols := make(codegen.SymbolTable, len(funcs))
	for i := range funcs {
		funcs[i].Fn.IsSkipped = matchesSelector(cfg.SkipFunctions, funcs[i].Fn)
		funcs[i].Fn.IsStub = !funcs[i].Fn.IsSkipped && matchesSelector(cfg.StubImplementations, funcs[i].Fn)
		funcs[i].Fn.Name = namer.name(funcs[i].Fn.Name, funcs[i].Fn.Start)
		symbols[funcs[i].Fn.Start] = funcs[i].Fn.Name
	}

	applyMMIO(funcs, cfg.MMIOByInstructionAddress)

	result := &Result{
		Config:     cfg,
		Bootstrap:  deriveBootstrap(img),
		SymbolAddr: make(map[string]uint32, len(funcs)),
	}
	for _, df := range funcs {
		result.Functions = append(result.Functions, GeneratedFunction{
			Fn:     df.Fn,
			Source: codegen.GenerateFunction(df.Fn, df.Insts, symbols),
		})
		result.SymbolAddr[df.Fn.Name] = df.Fn.Start
	}

	sort.Slice(result.Functions, func(i, j int) bool {
		return result.Functions[i].Fn.Start < result.Functions[j].Fn.Start
	})

	return result, nil
}

// matchesSelector reports whether fn satisfies any of sels, matching by
// address when the selector carries one and falling back to a name
// comparison otherwise (selectors with both match on address only: a
// renamed Ghidra symbol shouldn't defeat an address-qualified entry).
func matchesSelector(sels []rtypes.Selector, fn rtypes.Function) bool {
	for _, sel := range sels {
		if sel.HasAddr {
			if sel.Addr == fn.Start {
				return true
			}
			continue
		}
		if sel.Name == fn.Name {
			return true
		}
	}
	return false
}

func codeSectionsOf(sections []rtypes.Section) []rtypes.Section {
	var out []rtypes.Section
	for _, s := range sections {
		if s.IsCode {
			out = append(out, s)
		}
	}
	return out
}

// rangeDecoder returns a decodeRange closure over the code sections and
// the configured word patches, applying a patch before decode so the
// decoder never sees the original syscall/COP0/cache-op encoding when
// the config asks for it to be neutralized.
func rangeDecoder(codeSections []rtypes.Section, patches map[uint32]uint32) func(start, end uint32) []rtypes.Instruction {
	return func(start, end uint32) []rtypes.Instruction {
		var out []rtypes.Instruction
		for addr := start; addr < end; addr += 4 {
			raw, ok := wordAt(codeSections, addr)
			if !ok {
				break
			}
			if patched, ok := patches[addr]; ok {
				raw = patched
			}
			out = append(out, decoder.Decode(addr, raw))
		}
		return out
	}
}

func wordAt(sections []rtypes.Section, addr uint32) (uint32, bool) {
	for _, s := range sections {
		if addr < s.Addr || addr+4 > s.Addr+s.Size {
			continue
		}
		off := addr - s.Addr
		if int(off)+4 > len(s.Data) {
			return 0, false
		}
		return uint32(s.Data[off]) | uint32(s.Data[off+1])<<8 | uint32(s.Data[off+2])<<16 | uint32(s.Data[off+3])<<24, true
	}
	return 0, false
}

// applyMMIO tags every decoded instruction whose address appears in the
// config's mmio_by_instruction_address map, so codegen emits the
// runtime Load/Store override instead of the plain READ/WRITE macro.
func applyMMIO(funcs []discovery.DecodedFunction, mmio map[uint32]uint32) {
	if len(mmio) == 0 {
		return
	}
	for i := range funcs {
		for j := range funcs[i].Insts {
			inst := &funcs[i].Insts[j]
			if addr, ok := mmio[inst.Address]; ok {
				inst.IsMmio = true
				inst.MmioAddress = addr
			}
		}
	}
}
