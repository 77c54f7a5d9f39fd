/*
 * ps2recomp - Function name sanitisation
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
	"strings"
)

// reserved is the set of ELF symbol names that collide with a C/C++
// identifier the generated translation unit already declares for its
// own purposes, or with a reserved word. Each gets a fixed rename
// rather than a mangled one, so the mapping is stable across runs.
var reserved = map[string]string{
	"main":          "ps2_main",
	"__is_pointer":  "ps2_is_pointer",
	"class":         "ps2_class",
	"namespace":     "ps2_namespace",
	"template":      "ps2_template",
	"this":          "ps2_this",
	"new":           "ps2_new",
	"delete":        "ps2_delete",
	"export":        "ps2_export",
}

// sanitizeName turns a guest symbol (or a lack of one) into a valid,
// unique C++ identifier. Ghidra/ELF names are assumed reasonably sane
// (this isn't an obfuscated binary), so sanitisation only needs to
// handle the reserved-word collisions and characters C++ rejects
// outright ('.', '$', '@', leading digits) — not a general slugifier.
func sanitizeName(original string, addr uint32) string {
	name := original
	if name == "" {
		return fmt.Sprintf("fn_%08X", addr)
	}

	if renamed, ok := reserved[name]; ok {
		return renamed
	}

	var b strings.Builder
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return fmt.Sprintf("fn_%08X", addr)
	}
	if renamed, ok := reserved[cleaned]; ok {
		return renamed
	}
	return cleaned
}

// uniqueNamer hands out sanitizeName's result, disambiguating repeats
// (two stripped statics named "loc" in different translation units,
// once merged, must not collide) by suffixing the guest address.
type uniqueNamer struct {
	seen map[string]bool
}

func newUniqueNamer() *uniqueNamer {
	return &uniqueNamer{seen: make(map[string]bool)}
}

func (u *uniqueNamer) name(original string, addr uint32) string {
	base := sanitizeName(original, addr)
	if !u.seen[base] {
		u.seen[base] = true
		return base
	}
	withAddr := fmt.Sprintf("%s_%08X", base, addr)
	u.seen[withAddr] = true
	return withAddr
}
