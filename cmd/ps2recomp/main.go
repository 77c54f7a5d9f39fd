/*
 * ps2recomp - Command-line driver
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
	"fmt"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/ps2xrecomp/ps2recomp/internal/orchestrator"
	"github.com/ps2xrecomp/ps2recomp/internal/rlog"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "config.toml", "Recompiler configuration file")
	optLogFile := getopt.StringLong("log", 'l', "ps2recomp.log", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror all log output to stderr")
	optRepl := getopt.BoolLong("repl", 0, "Drop into an interactive inspection shell after recompiling")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()
	if args := getopt.Args(); len(args) > 0 {
		*optConfig = args[0]
	}

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ps2recomp: can't create log file %s: %v\n", *optLogFile, err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(rlog.New(file, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(Logger)

	if *optConfig == "" {
		Logger.Error("no configuration file specified")
		os.Exit(1)
	}
	if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
		Logger.Error("configuration file not found", "path", *optConfig)
		os.Exit(1)
	}

	Logger.Info("ps2recomp starting", "config", *optConfig)

	result, err := orchestrator.Run(*optConfig)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	skipped, stubbed := 0, 0
	for _, gf := range result.Functions {
		switch {
		case gf.Fn.IsSkipped:
			skipped++
		case gf.Fn.IsStub:
			stubbed++
		}
	}
	Logger.Info("decoded and translated functions",
		"total", len(result.Functions), "skipped", skipped, "stubbed", stubbed)

	outputDir := result.Config.OutputPath
	if outputDir == "" {
		outputDir = "."
	}
	if err := orchestrator.Emit(result, outputDir); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	Logger.Info("wrote output", "dir", outputDir)

	if *optRepl {
		runRepl(result)
	}
}
