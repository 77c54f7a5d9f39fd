/*
 * ps2recomp - Interactive inspection shell
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

package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/ps2xrecomp/ps2recomp/internal/orchestrator"
)

// runRepl opens a read-only shell over a finished recompilation result:
// "list" dumps every function name and address, "show <name>" prints a
// function's generated source, "stats" repeats the skip/stub summary.
// It never mutates result; there is nothing here to recompile.
func runRepl(result *orchestrator.Result) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(in string) []string {
		return completeReplCmd(in)
	})

	for {
		cmd, err := line.Prompt("ps2recomp> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			fmt.Println("error reading line: " + err.Error())
			return
		}
		line.AppendHistory(cmd)

		if quit := dispatchReplCmd(cmd, result); quit {
			return
		}
	}
}

func completeReplCmd(in string) []string {
	var out []string
	for _, c := range []string{"list", "show ", "stats", "quit"} {
		if strings.HasPrefix(c, in) {
			out = append(out, c)
		}
	}
	return out
}

func dispatchReplCmd(cmd string, result *orchestrator.Result) (quit bool) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true
	case "stats":
		printReplStats(result)
	case "list":
		printReplList(result)
	case "show":
		if len(fields) < 2 {
			fmt.Println("usage: show <function>")
			return false
		}
		printReplShow(result, fields[1])
	default:
		fmt.Println("unknown command: " + fields[0])
	}
	return false
}

func printReplStats(result *orchestrator.Result) {
	skipped, stubbed := 0, 0
	for _, gf := range result.Functions {
		switch {
		case gf.Fn.IsSkipped:
			skipped++
		case gf.Fn.IsStub:
			stubbed++
		}
	}
	fmt.Printf("total=%d skipped=%d stubbed=%d\n", len(result.Functions), skipped, stubbed)
}

func printReplList(result *orchestrator.Result) {
	names := make([]string, 0, len(result.Functions))
	for _, gf := range result.Functions {
		names = append(names, fmt.Sprintf("0x%08X %s", gf.Fn.Start, gf.Fn.Name))
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Println(n)
	}
}

func printReplShow(result *orchestrator.Result, name string) {
	for _, gf := range result.Functions {
		if gf.Fn.Name == name {
			fmt.Print(gf.Source)
			return
		}
	}
	fmt.Println("no such function: " + name)
}
