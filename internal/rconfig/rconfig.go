/*
 * ps2recomp - Recompiler configuration loading
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

// Package rconfig loads config.toml into an rtypes.RecompilerConfig.
// Decoding is BurntSushi/toml's job; the selector grammar ("name",
// "name@addr", bare "addr") is small and fixed enough that, like the
// teacher's configparser, it gets its own small hand-written parser
// rather than a second parsing library.
package rconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

// document is the raw shape config.toml decodes into before validation
// turns its string fields into rtypes.Selector/address values.
type document struct {
	InputPath        string `toml:"input_path"`
	OutputPath       string `toml:"output_path"`
	GhidraMapPath    string `toml:"ghidra_map_path"`
	SingleFileOutput bool   `toml:"single_file_output"`

	SkipFunctions       []string `toml:"skip_functions"`
	StubImplementations []string `toml:"stub_implementations"`

	Patches map[string]string `toml:"patches"`

	PatchSyscalls bool `toml:"patch_syscalls"`
	PatchCop0     bool `toml:"patch_cop0"`
	PatchCache    bool `toml:"patch_cache"`

	MMIOByInstructionAddress map[string]string `toml:"mmio_by_instruction_address"`
}

// Load decodes path and validates every selector/address field,
// returning a fully normalized RecompilerConfig. Errors are wrapped
// with fmt.Errorf the way the teacher wraps configparser errors; the
// caller (cmd/ps2recomp) is the one that logs and os.Exit(1)s.
func Load(path string) (rtypes.RecompilerConfig, error) {
	var doc document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return rtypes.RecompilerConfig{}, fmt.Errorf("rconfig: decode %s: %w", path, err)
	}

	cfg := rtypes.RecompilerConfig{
		InputPath:        doc.InputPath,
		OutputPath:       doc.OutputPath,
		GhidraMapPath:    doc.GhidraMapPath,
		SingleFileOutput: doc.SingleFileOutput,
		PatchSyscalls:    doc.PatchSyscalls,
		PatchCop0:        doc.PatchCop0,
		PatchCache:       doc.PatchCache,
		Patches:          make(map[uint32]uint32, len(doc.Patches)),
		MMIOByInstructionAddress: make(map[uint32]uint32, len(doc.MMIOByInstructionAddress)),
	}

	if cfg.InputPath == "" {
		return rtypes.RecompilerConfig{}, fmt.Errorf("rconfig: input_path is required")
	}

	for _, raw := range doc.SkipFunctions {
		sel, err := parseSelector(raw)
		if err != nil {
			return rtypes.RecompilerConfig{}, fmt.Errorf("rconfig: skip_functions: %w", err)
		}
		cfg.SkipFunctions = append(cfg.SkipFunctions, sel)
	}
	for _, raw := range doc.StubImplementations {
		sel, err := parseSelector(raw)
		if err != nil {
			return rtypes.RecompilerConfig{}, fmt.Errorf("rconfig: stub_implementations: %w", err)
		}
		cfg.StubImplementations = append(cfg.StubImplementations, sel)
	}

	for k, v := range doc.Patches {
		addr, err := parseAddress(k)
		if err != nil {
			return rtypes.RecompilerConfig{}, fmt.Errorf("rconfig: patches key %q: %w", k, err)
		}
		val, err := parseAddress(v)
		if err != nil {
			return rtypes.RecompilerConfig{}, fmt.Errorf("rconfig: patches value %q: %w", v, err)
		}
		cfg.Patches[addr] = val
	}

	for k, v := range doc.MMIOByInstructionAddress {
		addr, err := parseAddress(k)
		if err != nil {
			return rtypes.RecompilerConfig{}, fmt.Errorf("rconfig: mmio_by_instruction_address key %q: %w", k, err)
		}
		mmio, err := parseAddress(v)
		if err != nil {
			return rtypes.RecompilerConfig{}, fmt.Errorf("rconfig: mmio_by_instruction_address value %q: %w", v, err)
		}
		cfg.MMIOByInstructionAddress[addr] = mmio
	}

	return cfg, nil
}

// selectorScanner holds a trimmed selector string, the same shape as
// configparser's optionLine; parseSelector splits it at the first '@'
// and does not use pos.
type selectorScanner struct {
	text string
	pos  int
}

func parseSelector(raw string) (rtypes.Selector, error) {
	s := &selectorScanner{text: strings.TrimSpace(raw)}
	if s.text == "" {
		return rtypes.Selector{}, fmt.Errorf("empty selector")
	}

	at := strings.IndexByte(s.text, '@')
	switch {
	case at == 0:
		return rtypes.Selector{}, fmt.Errorf("selector %q has no name before '@'", raw)
	case at > 0:
		name := s.text[:at]
		addr, err := parseAddress(s.text[at+1:])
		if err != nil {
			return rtypes.Selector{}, fmt.Errorf("selector %q: %w", raw, err)
		}
		return rtypes.Selector{Name: name, Addr: addr, HasAddr: true}, nil
	default:
		if addr, err := parseAddress(s.text); err == nil {
			return rtypes.Selector{Addr: addr, HasAddr: true}, nil
		}
		return rtypes.Selector{Name: s.text}, nil
	}
}

func parseAddress(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("not a hex address: %w", err)
	}
	return uint32(v), nil
}
