/*
 * ps2recomp - ELF loading
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

// Package relf loads a PS2 ELF32/MIPS executable into the core's
// section/symbol/relocation model (internal/rtypes). It is the ELF
// collaborator spec.md names and never implements: the recompiler core
// only ever sees what this package hands it.
package relf

import (
	"debug/elf"
	"fmt"

	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// Image is a loaded ELF: its sections (code/data/BSS), its symbol
// table, its relocations, and the guest entry point.
type Image struct {
	Sections  []rtypes.Section
	Symbols   []rtypes.Symbol
	Relocs    []rtypes.Relocation
	Entry     uint32
	GP        uint32
}

// Load parses path as an ELF32/MIPS executable. debug/elf already
// exposes everything the core's Section/Symbol/Relocation model needs
// for a well-formed input, so this package is a thin adapter rather
// than a parser in its own right (see DESIGN.md for why no third-party
// library replaces debug/elf here).
func Load(path string) (*Image, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("relf: open %s: %w", path, err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 || f.Machine != elf.EM_MIPS {
		return nil, fmt.Errorf("relf: %s is not an ELF32/MIPS image (class=%v machine=%v)", path, f.Class, f.Machine)
	}

	img := &Image{Entry: uint32(f.Entry)}

	for _, sec := range f.Sections {
		if sec.Addr == 0 && sec.Type != elf.SHT_NOBITS {
			continue // non-allocated sections (.comment, .symtab, ...) aren't guest memory
		}
		rs := rtypes.Section{
			Name:       sec.Name,
			Addr:       uint32(sec.Addr),
			Size:       uint32(sec.Size),
			IsCode:     sec.Flags&elf.SHF_EXECINSTR != 0,
			IsBSS:      sec.Type == elf.SHT_NOBITS,
			IsReadOnly: sec.Flags&elf.SHF_WRITE == 0,
		}
		rs.IsData = !rs.IsCode && !rs.IsBSS
		if !rs.IsBSS {
			data, err := sec.Data()
			if err != nil {
				return nil, fmt.Errorf("relf: read section %s: %w", sec.Name, err)
			}
			rs.Data = data
		}
		img.Sections = append(img.Sections, rs)

		if sec.Name == ".reginfo" {
			// The MIPS .reginfo section's ri_gp_value field also carries
			// _gp, but it is not read here: img.GP comes only from the
			// _gp symbol below.
			continue
		}
	}

	syms, err := f.Symbols()
	if err != nil && err != elf.ErrNoSymbols {
		return nil, fmt.Errorf("relf: read symbols: %w", err)
	}
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		rsym := rtypes.Symbol{
			Name:       s.Name,
			Addr:       uint32(s.Value),
			Size:       uint32(s.Size),
			IsFunction: elf.ST_TYPE(s.Info) == elf.STT_FUNC,
			IsImported: s.Section == elf.SHN_UNDEF,
			IsExported: elf.ST_BIND(s.Info) == elf.STB_GLOBAL && s.Section != elf.SHN_UNDEF,
		}
		img.Symbols = append(img.Symbols, rsym)
		if s.Name == "_gp" {
			img.GP = uint32(s.Value)
		}
	}

	for _, sec := range f.Sections {
		if sec.Type != elf.SHT_REL && sec.Type != elf.SHT_RELA {
			continue
		}
		relocs, err := decodeRelocs(f, sec)
		if err != nil {
			return nil, fmt.Errorf("relf: decode relocations in %s: %w", sec.Name, err)
		}
		img.Relocs = append(img.Relocs, relocs...)
	}

	return img, nil
}

func decodeRelocs(f *elf.File, sec *elf.Section) ([]rtypes.Relocation, error) {
	data, err := sec.Data()
	if err != nil {
		return nil, err
	}

	symtab, err := f.Symbols()
	if err != nil && err != elf.ErrNoSymbols {
		return nil, err
	}

	const relEntSize = 8 // Elf32_Rel: r_offset, r_info
	var out []rtypes.Relocation
	for off := 0; off+relEntSize <= len(data); off += relEntSize {
		offset := f.ByteOrder.Uint32(data[off:])
		info := f.ByteOrder.Uint32(data[off+4:])
		symIdx := info >> 8
		relType := info & 0xFF

		name := ""
		if int(symIdx) < len(symtab) {
			name = symtab[symIdx].Name
		}

		out = append(out, rtypes.Relocation{
			Offset:     offset,
			Info:       info,
			Symbol:     symIdx,
			Type:       relType,
			SymbolName: name,
		})
	}
	return out, nil
}
