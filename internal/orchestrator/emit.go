/*
 * ps2recomp - Output emission
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
	"os"
	"path/filepath"
	"strings"
)

const generatedHeader = "#include \"ps2recomp/ps2_runtime.h\"\n\n"

// Emit writes a Result to disk: either one source file per function
// under outputDir, or a single aggregate translation unit, per
// cfg.SingleFileOutput. Either mode is followed by the two forward
// declaration headers the runtime links against.
func Emit(res *Result, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("orchestrator: create %s: %w", outputDir, err)
	}

	if res.Config.SingleFileOutput {
		if err := emitSingleFile(res, outputDir); err != nil {
			return err
		}
	} else if err := emitPerFunction(res, outputDir); err != nil {
		return err
	}

	if err := emitHeaders(res, outputDir); err != nil {
		return err
	}
	return nil
}

func emitSingleFile(res *Result, outputDir string) error {
	var b strings.Builder
	b.WriteString(generatedHeader)
	for _, gf := range res.Functions {
		b.WriteString(gf.Source)
		b.WriteString("\n")
	}
	path := filepath.Join(outputDir, "ps2_recompiled.cpp")
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func emitPerFunction(res *Result, outputDir string) error {
	for _, gf := range res.Functions {
		var b strings.Builder
		b.WriteString(generatedHeader)
		b.WriteString(gf.Source)
		path := filepath.Join(outputDir, gf.Fn.Name+".cpp")
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("orchestrator: write %s: %w", path, err)
		}
	}
	return nil
}

// emitHeaders writes the two forward-declaration headers the runtime
// includes: one for ordinary recompiled functions, one for stub/skip
// wrappers, so a caller never needs to parse generated .cpp files to
// find a symbol.
func emitHeaders(res *Result, outputDir string) error {
	var fns, stubs strings.Builder

	fns.WriteString("#pragma once\n#include \"ps2recomp/ps2_runtime.h\"\n\n")
	stubs.WriteString("#pragma once\n#include \"ps2recomp/ps2_runtime.h\"\n\n")

	for _, gf := range res.Functions {
		decl := fmt.Sprintf("void %s(uint8_t* rdram, R5900Context* ctx, PS2Runtime* runtime);\n", gf.Fn.Name)
		if gf.Fn.IsStub || gf.Fn.IsSkipped {
			stubs.WriteString(decl)
		} else {
			fns.WriteString(decl)
		}
	}

	if err := os.WriteFile(filepath.Join(outputDir, "ps2_recompiled_functions.h"), []byte(fns.String()), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputDir, "ps2_recompiled_stubs.h"), []byte(stubs.String()), 0o644)
}
