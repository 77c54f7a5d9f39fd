/*
 * ps2recomp - Ghidra symbol map overlay
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

// Package rghidra overlays a Ghidra-exported function/symbol map on top
// of the raw ELF symbol table: Ghidra routinely recovers function
// boundaries and names a bare ELF symbol table lacks (stripped
// binaries, inlined statics). This is not a Ghidra analysis engine —
// spec.md's Non-goals exclude that — just the narrow map format the
// orchestrator merges in before entry discovery runs.
//
// The map file is line-oriented, one symbol per line:
//
//	<hex-address> <name> [size-in-hex]
//
// parsed with the teacher's rune-scanning style (config/configparser),
// not a general-purpose tabular parser — the format is small and fixed.
package rghidra

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// Entry is one overlay record: an address, a recovered name, and an
// optional size (0 if the map didn't carry one).
type Entry struct {
	Addr uint32
	Name string
	Size uint32
}

// Parse reads a Ghidra map from r, line by line. Blank lines and lines
// starting with '#' are skipped; the first malformed line stops the
// parse with an error naming its 1-based line number.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("rghidra: line %d: %w", lineNo, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("rghidra: %w", err)
	}
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Entry{}, fmt.Errorf("expected \"<addr> <name> [size]\", got %q", line)
	}

	addr, err := parseHex(fields[0])
	if err != nil {
		return Entry{}, fmt.Errorf("address %q: %w", fields[0], err)
	}

	var size uint32
	if len(fields) >= 3 {
		size, err = parseHex(fields[2])
		if err != nil {
			return Entry{}, fmt.Errorf("size %q: %w", fields[2], err)
		}
	}

	return Entry{Addr: addr, Name: fields[1], Size: size}, nil
}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Overlay merges entries onto the ELF-derived symbol table: a Ghidra
// entry at an address already named by the ELF symbol table replaces
// that symbol's name (Ghidra's recovery is assumed more precise for
// stripped/optimized binaries); an address the ELF table never named
// becomes a new function symbol.
func Overlay(symbols []rtypes.Symbol, entries []Entry) []rtypes.Symbol {
	byAddr := make(map[uint32]int, len(symbols))
	for i, s := range symbols {
		byAddr[s.Addr] = i
	}

	out := append([]rtypes.Symbol(nil), symbols...)
	for _, e := range entries {
		if i, ok := byAddr[e.Addr]; ok {
			out[i].Name = e.Name
			if e.Size != 0 {
				out[i].Size = e.Size
			}
			continue
		}
		out = append(out, rtypes.Symbol{
			Name:       e.Name,
			Addr:       e.Addr,
			Size:       e.Size,
			IsFunction: true,
			IsExported: true,
		})
	}
	return out
}
