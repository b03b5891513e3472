// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ezrec/comp/cpu"
	"github.com/ezrec/comp/emulator"
	"github.com/ezrec/comp/io"
)

func main() {
	var compile string
	var save bool
	var output string
	var verbose bool
	var dump bool
	var timeout time.Duration

	flag.StringVar(&compile, "a", "", ".asm file to assemble")
	flag.BoolVar(&save, "s", false, "Save memory image, do not execute")
	flag.StringVar(&output, "o", "", "Memory image output (default: next free saved-N)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "d", false, "Dump the machine state after the run")
	flag.DurationVar(&timeout, "t", 0, "Run time limit")

	flag.Parse()

	if flag.NArg() > 1 {
		logrus.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args()[1:])
	}

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	// Load a memory image.
	if flag.NArg() == 1 {
		image := flag.Arg(0)
		err := emu.LoadFile(image)
		if err != nil {
			logrus.Fatalf("%v: %v", image, err)
		}
	}

	// Assemble over the image.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		prog, err := asm.Parse(inf)
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}

		emu.Program = prog
		err = prog.Apply(emu.Cpu.Memory)
		if err != nil {
			logrus.Fatalf("%v: %v", compile, err)
		}
	}

	if save {
		var err error
		if len(output) == 0 {
			output, err = emu.SaveNext("")
		} else {
			err = emu.Cpu.Memory.SaveFile(output)
		}
		if err != nil {
			logrus.Fatalf("%v: %v", output, err)
		}
		logrus.Infof("saved %v", output)
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		emu.Input = &io.Tape{Input: os.Stdin}
	}

	emu.Cpu.Memory.Printer = &io.Tee{
		Channels: []io.Channel{&emu.Printer, &io.Tape{Output: os.Stdout}},
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err := emu.Run(ctx)
	if err != nil {
		logrus.Fatal(err)
	}

	if dump {
		pp.Println(emu.State())
	}

	if len(output) != 0 {
		err = emu.Cpu.Memory.SaveFile(output)
		if err != nil {
			logrus.Fatalf("%v: %v", output, err)
		}
	}
}
