// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator owns the memory, engine and editor of a comp machine,
// and exposes the query and command surfaces a driver needs.
//
// Editing and execution never overlap. The first Step of a run takes a
// snapshot of memory, and the run ends with the snapshot restored and a
// fresh CPU, so a run never changes what the editor sees.
package emulator

import (
	"context"
	"errors"
	"fmt"
	goio "io"
	"os"
	"slices"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/comp/cpu"
	"github.com/ezrec/comp/editor"
	"github.com/ezrec/comp/io"
	"github.com/ezrec/comp/ram"
	"github.com/ezrec/comp/word"
)

const (
	PRINTER_CAPACITY = 4096     // Words held by the printer buffer.
	SAVE_FILE_NAME   = "saved-" // Prefix for SaveNext file names.
)

// Emulator state. Memory + CPU + editor cursor + ports.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.

	Cursor  *editor.Cursor // Editing position over the memory.
	Program *cpu.Program   // Listing of the assembled program, if any.

	Printer io.Temporary // Latest words written to the last data slot.
	Input   io.Channel   // Source for reads of the last data slot.

	// Pace, if set, is called after every step of Run. Returning false
	// cancels the run.
	Pace func(emu *Emulator) bool

	Runs int // Completed runs.

	running  bool
	snapshot ram.Snapshot
	cancel   atomic.Bool
}

// NewEmulator creates a new emulator with empty memory.
func NewEmulator() (emu *Emulator) {
	mem := ram.NewMemory()

	emu = &Emulator{
		Cpu:     cpu.NewCpu(mem),
		Cursor:  editor.NewCursor(mem),
		Program: &cpu.Program{},
	}

	emu.Printer.Capacity = PRINTER_CAPACITY
	emu.Printer.Scroll = true
	mem.Printer = &emu.Printer

	return
}

// Running returns true while a run is in progress.
func (emu *Emulator) Running() bool {
	return emu.running
}

// LineNo returns the source line of the word at the program counter.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}
	dbg := emu.Program.Debug(word.At(word.CODE, int(emu.Cpu.Pc)))
	if dbg.Opcode == nil {
		return 0
	}
	return dbg.LineNo
}

// begin starts a run, saving the memory.
func (emu *Emulator) begin() {
	if emu.running {
		return
	}

	mem := emu.Cpu.Memory
	mem.Verbose = emu.Verbose
	mem.Input = emu.Input

	if emu.Runs > 0 {
		io.Feed(mem.Printer)
	}

	emu.snapshot = mem.Snapshot()
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.running = true

	if emu.Verbose {
		logrus.WithField("run", emu.Runs).Info("emulator: begin")
	}
}

// Stop ends the current run, if any. Memory is restored to its state
// before the run, and the CPU is replaced.
func (emu *Emulator) Stop() {
	if !emu.running {
		return
	}

	mem := emu.Cpu.Memory
	mem.Restore(emu.snapshot)

	if emu.Verbose {
		logrus.WithFields(logrus.Fields{
			"run":   emu.Runs,
			"ticks": emu.Cpu.Ticks,
		}).Info("emulator: stop")
	}

	emu.Cpu = cpu.NewCpu(mem)
	emu.running = false
	emu.Runs++
}

// Cancel requests the current session to end before its next step. It
// applies to Run and to sessions driven by Step; a Cancel made while idle
// ends the next session before its first step.
func (emu *Emulator) Cancel() {
	emu.cancel.Store(true)
}

// Step executes a single instruction, starting a run if needed. When the
// CPU halts, or a Cancel is pending, the run ends.
func (emu *Emulator) Step() (running bool, err error) {
	emu.begin()

	if emu.cancel.Swap(false) {
		if emu.Verbose {
			logrus.WithField("ticks", emu.Cpu.Ticks).Info("emulator: cancelled")
		}
		emu.Stop()
		return
	}

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()

	running = emu.Cpu.Step()
	if emu.Cpu.Fault != nil {
		err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: emu.Cpu.Fault}
		emu.Cpu.Fault = nil
	}

	if !running {
		emu.Stop()
	}

	return
}

// Run executes until the CPU halts, the context is done, Cancel is called,
// or Pace returns false. The run always ends with memory restored.
// Cancellation is not an error; port failures end the run and are
// returned.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	emu.begin()
	defer emu.Stop()

	for {
		if ctx.Err() != nil {
			if emu.Verbose {
				logrus.WithField("ticks", emu.Cpu.Ticks).Info("emulator: done")
			}
			return
		}

		var running bool
		running, err = emu.Step()
		if err != nil || !running {
			return
		}

		if emu.Pace != nil && !emu.Pace(emu) {
			return
		}
	}
}

// View is the read-only state a renderer draws from.
type View struct {
	Code   [word.RAM_SIZE]word.Word
	Data   [word.RAM_SIZE]word.Word
	Output word.Word // Last data slot.

	Pc       uint8
	Register word.Word
	Ticks    int
	Running  bool

	Space  word.Space      // Space the cursor edits.
	Cursor editor.Position // Cursor position in that space.

	Bound   [word.RAM_SIZE]bool // Data slots bound to a logic operation.
	Printed []word.Word         // Printer contents.
	Feeds   []int               // Run separators in Printed.
}

// State returns the query snapshot of the machine.
func (emu *Emulator) State() (view View) {
	mem := emu.Cpu.Memory

	view = View{
		Code:     mem.Code,
		Data:     mem.Data,
		Output:   mem.Output,
		Pc:       emu.Cpu.Pc,
		Register: emu.Cpu.Register,
		Ticks:    emu.Cpu.Ticks,
		Running:  emu.running,
		Space:    emu.Cursor.Space,
		Cursor:   emu.Cursor.At(),
		Printed:  slices.Clone(emu.Printer.Data),
		Feeds:    slices.Clone(emu.Printer.Feeds),
	}

	for index := range word.RAM_SIZE {
		view.Bound[index] = editor.Bound(mem, uint8(index))
	}

	return
}

// editable returns ErrRunning while a run is in progress.
func (emu *Emulator) editable() (err error) {
	if emu.running {
		err = ErrRunning
	}
	return
}

// MoveCursor moves the editing cursor.
func (emu *Emulator) MoveCursor(dir editor.Direction) bool {
	return emu.Cursor.Move(dir)
}

// SwitchSpace toggles the address space the cursor edits.
func (emu *Emulator) SwitchSpace() {
	emu.Cursor.SwitchSpace()
}

// ToggleBit flips the bit under the cursor.
func (emu *Emulator) ToggleBit() (err error) {
	err = emu.editable()
	if err != nil {
		return
	}
	emu.Cursor.ToggleBit()
	return
}

// SetWord replaces the word under the cursor.
func (emu *Emulator) SetWord(value word.Word) (err error) {
	err = emu.editable()
	if err != nil {
		return
	}
	emu.Cursor.SetWord(value)
	return
}

// Insert inserts an empty word at an address.
func (emu *Emulator) Insert(adr word.Address) (result editor.EditResult, err error) {
	err = emu.editable()
	if err != nil {
		return
	}
	emu.Cursor.Verbose = emu.Verbose
	result = emu.Cursor.InsertAt(adr)
	err = result.Err()
	return
}

// Delete deletes the word at an address.
func (emu *Emulator) Delete(adr word.Address) (result editor.EditResult, err error) {
	err = emu.editable()
	if err != nil {
		return
	}
	emu.Cursor.Verbose = emu.Verbose
	result = emu.Cursor.DeleteAt(adr)
	err = result.Err()
	return
}

// Load replaces the memory with an image, and forgets the program listing.
func (emu *Emulator) Load(input goio.Reader) (err error) {
	err = emu.editable()
	if err != nil {
		return
	}
	err = emu.Cpu.Memory.Load(input)
	if err != nil {
		return
	}
	emu.Program = &cpu.Program{}
	return
}

// LoadFile replaces the memory with an image file, and forgets the program
// listing.
func (emu *Emulator) LoadFile(path string) (err error) {
	err = emu.editable()
	if err != nil {
		return
	}
	err = emu.Cpu.Memory.LoadFile(path)
	if err != nil {
		return
	}
	emu.Program = &cpu.Program{}
	return
}

// Save writes the memory as an image. During a run the saved image is the
// memory the run started from.
func (emu *Emulator) Save(output goio.Writer) (err error) {
	mem := emu.Cpu.Memory
	if emu.running {
		mem = &ram.Memory{}
		mem.Restore(emu.snapshot)
	}
	err = mem.Save(output)
	return
}

// SaveNext saves the memory to the first unused file name made of the
// base and a counter, and returns the name.
func (emu *Emulator) SaveNext(base string) (path string, err error) {
	if len(base) == 0 {
		base = SAVE_FILE_NAME
	}

	for n := 1; ; n++ {
		path = fmt.Sprintf("%s%d", base, n)
		_, err = os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			return
		}
	}

	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = emu.Save(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	return
}
