package emulator

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/comp/cpu"
	"github.com/ezrec/comp/editor"
	"github.com/ezrec/comp/io"
	"github.com/ezrec/comp/word"
)

const sumSource = `
; Print the sum of every input word.
.equ SUM 4
.equ ZERO 5
        read ZERO
        write SUM
loop:   read INPUT
        ifmin done
        add SUM
        write SUM
        jump loop
done:   read SUM
        halt

.data
.org ZERO
        word 0
`

const countSource = `
loop:   inc 0
        jump loop
`

func doAssemble(emu *Emulator, source string, t *testing.T) {
	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		t.Fatalf("%v", err)
	}
	emu.Program = prog
	err = prog.Apply(emu.Cpu.Memory)
	if err != nil {
		t.Fatalf("%v", err)
	}
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.False(emu.Running())
	assert.NotNil(emu.Cpu)
	assert.Equal(emu.Cpu.Memory, emu.Cursor.Memory)
	assert.Equal(PRINTER_CAPACITY, emu.Printer.Capacity)
	assert.True(emu.Printer.Scroll)
	assert.Equal(0, emu.LineNo())
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Verbose = true
	doAssemble(emu, sumSource, t)
	emu.Input = &io.Rom{Data: []word.Word{10, 20, 30}}

	original := emu.Cpu.Memory.Snapshot()

	err := emu.Run(context.Background())
	assert.NoError(err)
	assert.False(emu.Running())
	assert.Equal(1, emu.Runs)
	assert.Equal([]word.Word{60}, emu.Printer.Data)
	assert.Empty(emu.Printer.Feeds)

	// The run leaves no trace in memory, and the CPU is fresh.
	assert.Equal(original, emu.Cpu.Memory.Snapshot())
	assert.Equal(0, emu.Cpu.Ticks)
	assert.Equal(uint8(0), emu.Cpu.Pc)

	// The input is not rewound, so the second run sums nothing.
	err = emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(2, emu.Runs)
	assert.Equal([]word.Word{60, 0}, emu.Printer.Data)
	assert.Equal([]int{1}, emu.Printer.Feeds)
}

func TestEmulatorPrinterTee(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, sumSource, t)
	emu.Input = &io.Rom{Data: []word.Word{10, 20, 30}}

	output := &bytes.Buffer{}
	emu.Cpu.Memory.Printer = &io.Tee{
		Channels: []io.Channel{&emu.Printer, &io.Tape{Output: output}},
	}

	assert.NoError(emu.Run(context.Background()))
	assert.NoError(emu.Run(context.Background()))

	view := emu.State()
	assert.Equal([]word.Word{60, 0}, view.Printed)
	assert.Equal([]int{1}, view.Feeds)
	assert.Equal("--****--  60\n\n--------   0\n", output.String())
}

func TestEmulatorRunAtomic(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(3))

	emu := NewEmulator()
	doAssemble(emu, countSource, t)
	original := emu.Cpu.Memory.Snapshot()

	for n := range 50 {
		limit := rng.Intn(100)
		steps := 0
		emu.Pace = func(emu *Emulator) bool {
			steps++
			return steps < limit
		}

		err := emu.Run(context.Background())
		assert.NoError(err)
		assert.Equal(max(limit, 1), steps)
		assert.Equal(original, emu.Cpu.Memory.Snapshot(), n)
		assert.Equal(n+1, emu.Runs)
	}
}

func TestEmulatorCancel(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, countSource, t)

	steps := 0
	emu.Pace = func(emu *Emulator) bool {
		steps++
		if steps == 7 {
			emu.Cancel()
		}
		return true
	}

	err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(7, steps)
	assert.False(emu.Running())
	assert.Equal(word.EMPTY, emu.Cpu.Memory.Data[0])

	// A new run clears the prior cancel.
	steps = 0
	emu.Pace = func(emu *Emulator) bool {
		steps++
		return steps < 3
	}
	err = emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(3, steps)
}

func TestEmulatorCancelPending(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, countSource, t)

	steps := 0
	emu.Pace = func(emu *Emulator) bool {
		steps++
		return true
	}

	// A cancel made before the run ends it before the first step.
	emu.Cancel()
	err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(0, steps)
	assert.Equal(1, emu.Runs)
	assert.False(emu.Running())

	// Sessions driven by Step end on the next step after a cancel.
	running, err := emu.Step()
	assert.NoError(err)
	assert.True(running)
	assert.Equal(word.Word(1), emu.Cpu.Memory.Data[0])

	emu.Cancel()
	running, err = emu.Step()
	assert.NoError(err)
	assert.False(running)
	assert.False(emu.Running())
	assert.Equal(2, emu.Runs)
	assert.Equal(word.EMPTY, emu.Cpu.Memory.Data[0])
}

func TestEmulatorPrintForever(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, "loop: print 0\njump loop\n.data\nword 3\n", t)

	steps := 0
	emu.Pace = func(emu *Emulator) bool {
		steps++
		return steps < 20000
	}

	err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(20000, steps)
	assert.Equal(PRINTER_CAPACITY, len(emu.Printer.Data))
	assert.Equal(word.Word(3), emu.Printer.Data[PRINTER_CAPACITY-1])
}

func TestEmulatorLoadForgetsProgram(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, countSource, t)
	assert.Equal(2, emu.LineNo())

	// A failed load keeps both the memory and the listing.
	assert.Error(emu.LoadFile(filepath.Join(t.TempDir(), "missing")))
	assert.Equal(2, emu.LineNo())

	assert.NoError(emu.Load(strings.NewReader("*-------\n")))
	assert.Equal(0, emu.LineNo())
	assert.Empty(emu.Program.Opcodes)
	assert.Equal(word.Word(0x80), emu.Cpu.Memory.Code[0])
}

func TestEmulatorContext(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, countSource, t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	steps := 0
	emu.Pace = func(emu *Emulator) bool {
		steps++
		if steps == 5 {
			cancel()
		}
		return true
	}

	err := emu.Run(ctx)
	assert.NoError(err)
	assert.Equal(5, steps)
	assert.Equal(1, emu.Runs)

	// An already cancelled context still completes a session.
	err = emu.Run(ctx)
	assert.NoError(err)
	assert.Equal(5, steps)
	assert.Equal(2, emu.Runs)
}

func TestEmulatorStep(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, countSource, t)

	var before bytes.Buffer
	assert.NoError(emu.Save(&before))

	running, err := emu.Step()
	assert.NoError(err)
	assert.True(running)
	assert.True(emu.Running())
	assert.Equal(word.Word(1), emu.Cpu.Memory.Data[0])
	assert.Equal(3, emu.LineNo())

	view := emu.State()
	assert.True(view.Running)
	assert.Equal(uint8(1), view.Pc)
	assert.Equal(word.Word(1), view.Register)
	assert.Equal(1, view.Ticks)

	// Edits are refused during a session.
	assert.ErrorIs(emu.SetWord(0x42), ErrRunning)
	assert.ErrorIs(emu.ToggleBit(), ErrRunning)
	_, err = emu.Insert(word.At(word.CODE, 0))
	assert.ErrorIs(err, ErrRunning)
	_, err = emu.Delete(word.At(word.CODE, 0))
	assert.ErrorIs(err, ErrRunning)
	assert.ErrorIs(emu.Load(strings.NewReader("")), ErrRunning)

	// Saving during a session saves the memory the session began from.
	var during bytes.Buffer
	assert.NoError(emu.Save(&during))
	assert.Equal(before.String(), during.String())

	emu.Stop()
	assert.False(emu.Running())
	assert.Equal(1, emu.Runs)
	assert.Equal(word.EMPTY, emu.Cpu.Memory.Data[0])
	assert.NoError(emu.SetWord(0x42))

	// Stopping outside of a session does nothing.
	emu.Stop()
	assert.Equal(1, emu.Runs)
}

func TestEmulatorStepHalt(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	doAssemble(emu, "read 3\nhalt\n.data\n.org 3\nword 9\n", t)

	running, err := emu.Step()
	assert.NoError(err)
	assert.True(running)

	running, err = emu.Step()
	assert.NoError(err)
	assert.False(running)
	assert.False(emu.Running())
	assert.Equal(1, emu.Runs)
	assert.Equal([]word.Word{9}, emu.Printer.Data)
	assert.Equal(word.EMPTY, emu.Cpu.Memory.Output)
}

func TestEmulatorPortFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Printer.Capacity = 1
	emu.Printer.Scroll = false
	doAssemble(emu, "print 0\nprint 0\nhalt\n", t)

	err := emu.Run(context.Background())
	assert.Error(err)
	assert.ErrorIs(err, cpu.ErrPort)
	assert.ErrorIs(err, io.ErrChannelFull)

	var rerr *ErrRuntime
	if assert.ErrorAs(err, &rerr) {
		assert.Equal(uint8(1), rerr.Pc)
		assert.Equal(2, rerr.LineNo)
	}

	assert.False(emu.Running())
	assert.Equal(1, emu.Runs)
}

func TestEmulatorEdit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	mem := emu.Cpu.Memory
	mem.Code[0] = 0x42 // jump 2
	mem.Code[2] = 0x72 // and
	mem.Code[3] = 0x1f // halt

	view := emu.State()
	assert.Equal([word.RAM_SIZE]bool{2: true}, view.Bound)
	assert.Equal(word.CODE, view.Space)

	result, err := emu.Insert(word.At(word.CODE, 1))
	assert.NoError(err)
	assert.Equal(editor.EDIT_SHIFTED, result)
	assert.Equal(word.Word(0x43), mem.Code[0])

	result, err = emu.Delete(word.At(word.CODE, 1))
	assert.NoError(err)
	assert.Equal(editor.EDIT_SHIFTED, result)
	assert.Equal(word.Word(0x42), mem.Code[0])

	result, err = emu.Insert(word.At(word.DATA, 2))
	assert.ErrorIs(err, editor.ErrRejected)
	assert.Equal(editor.EDIT_REJECTED, result)

	assert.True(emu.MoveCursor(editor.DOWN))
	assert.NoError(emu.ToggleBit())
	assert.Equal(word.Word(0x80), mem.Code[1])

	emu.SwitchSpace()
	assert.NoError(emu.SetWord(0x11))
	assert.Equal(word.Word(0x11), mem.Data[0])

	view = emu.State()
	assert.Equal(word.DATA, view.Space)
	assert.Equal(editor.Position{}, view.Cursor)
	assert.Equal(word.Word(0x11), view.Data[0])
}

func TestEmulatorSaveNext(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	base := filepath.Join(dir, "saved-")
	assert.NoError(os.WriteFile(base+"1", nil, 0o644))

	emu := NewEmulator()
	emu.Cpu.Memory.Code[0] = 0x1f
	emu.Cpu.Memory.Data[4] = 0x33

	path, err := emu.SaveNext(base)
	assert.NoError(err)
	assert.Equal(base+"2", path)

	path, err = emu.SaveNext(base)
	assert.NoError(err)
	assert.Equal(base+"3", path)

	other := NewEmulator()
	assert.NoError(other.LoadFile(path))
	assert.Equal(emu.Cpu.Memory.Snapshot(), other.Cpu.Memory.Snapshot())
}
