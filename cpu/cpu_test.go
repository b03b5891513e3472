package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/comp/io"
	"github.com/ezrec/comp/ram"
	"github.com/ezrec/comp/word"
)

func newTestCpu(code []word.Word, data map[int]word.Word) (cpu *Cpu) {
	mem := ram.NewMemory()
	copy(mem.Code[:], code)
	for index, value := range data {
		mem.Data[index] = value
	}
	cpu = NewCpu(mem)
	return
}

func TestCpuSequential(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name   string
		code   word.Word
		reg    word.Word
		data   map[int]word.Word
		expReg word.Word
		expMem map[int]word.Word
	}{
		{"read", 0x03, 0, map[int]word.Word{3: 0x42}, 0x42, nil},
		{"write", 0x14, 0x11, nil, 0x11, map[int]word.Word{4: 0x11}},
		{"add", 0x22, 250, map[int]word.Word{2: 10}, 255, nil},
		{"add-max", 0x22, 255, map[int]word.Word{2: 1}, 255, nil},
		{"sub", 0x32, 5, map[int]word.Word{2: 10}, 0, nil},
		{"sub-plain", 0x32, 15, map[int]word.Word{2: 10}, 5, nil},
		{"not", 0x70, 0x0f, nil, 0xf0, nil},
		{"init", 0x71, 0x00, map[int]word.Word{0: 0x01, 1: 0x33}, 0x33, map[int]word.Word{0: 0x33, 1: 0x33}},
		{"and", 0x72, 0xff, map[int]word.Word{2: 0x0f}, 0x0f, nil},
		{"or", 0x73, 0xf0, map[int]word.Word{3: 0x0f}, 0xff, nil},
		{"shl", 0x74, 0x81, nil, 0x02, nil},
		{"shr", 0x75, 0x81, nil, 0x40, nil},
		{"readreg", 0x77, 0x34, map[int]word.Word{4: 0x99}, 0x99, nil},
		{"xor", 0x7d, 0xff, map[int]word.Word{5: 0x0f}, 0xf0, nil},
		{"read*", 0x86, 0, map[int]word.Word{6: 0x03, 3: 0x77}, 0x77, nil},
		{"read*-high", 0x86, 0, map[int]word.Word{6: 0xf3, 3: 0x77}, 0x77, nil},
		{"write*", 0x96, 0x55, map[int]word.Word{6: 0x03}, 0x55, map[int]word.Word{3: 0x55}},
		{"inc", 0xa3, 0, map[int]word.Word{3: 9}, 10, map[int]word.Word{3: 10}},
		{"inc-wrap", 0xa3, 0, map[int]word.Word{3: 255}, 0, map[int]word.Word{3: 0}},
		{"dec", 0xab, 0, map[int]word.Word{3: 9}, 8, map[int]word.Word{3: 8}},
		{"dec-wrap", 0xab, 0, map[int]word.Word{3: 0}, 255, map[int]word.Word{3: 255}},
		{"ifmax-fallthrough", 0x59, 3, nil, 3, nil},
	}

	for _, entry := range table {
		cpu := newTestCpu([]word.Word{entry.code}, entry.data)
		cpu.Register = entry.reg

		running := cpu.Step()
		assert.True(running, entry.name)
		assert.Equal(uint8(1), cpu.Pc, entry.name)
		assert.Equal(entry.expReg, cpu.Register, entry.name)
		assert.Equal(1, cpu.Ticks, entry.name)
		for index, value := range entry.expMem {
			assert.Equal(value, cpu.Memory.Data[index], entry.name)
		}
	}
}

func TestCpuBranch(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name  string
		code  word.Word
		reg   word.Word
		expPc uint8
	}{
		{"jump", 0x45, 0, 5},
		{"ifmax-taken", 0x59, 255, 9},
		{"ifmax-not", 0x59, 254, 1},
		{"ifnotmax-taken", 0xc9, 254, 9},
		{"ifnotmax-not", 0xc9, 255, 1},
		{"ifmin-taken", 0x69, 0, 9},
		{"ifmin-not", 0x69, 1, 1},
		{"ifnotmin-taken", 0xd9, 1, 9},
		{"ifnotmin-not", 0xd9, 0, 1},
		{"jumpreg", 0x76, 0x37, 7},
	}

	for _, entry := range table {
		cpu := newTestCpu([]word.Word{entry.code}, nil)
		cpu.Register = entry.reg

		running := cpu.Step()
		assert.True(running, entry.name)
		assert.Equal(entry.expPc, cpu.Pc, entry.name)
		assert.Equal(entry.reg, cpu.Register, entry.name)
	}
}

func TestCpuBranchComplementary(t *testing.T) {
	assert := assert.New(t)

	mem := ram.NewMemory()
	target := word.At(word.CODE, 9)

	pairs := [][2]CodeOp{
		{OP_IF_MAX, OP_IF_NOT_MAX},
		{OP_IF_MIN, OP_IF_NOT_MIN},
	}

	for _, pair := range pairs {
		for n := range word.MAX_VALUE + 1 {
			state := State{Pc: 0, Register: word.Word(n)}
			taken := 0
			for _, op := range pair {
				ins := Decode(MakeCode(op, target.Index).Word)
				next, halt, err := ins.Execute(ins.Resolve(state.Register, mem), state, mem)
				assert.NoError(err)
				assert.False(halt)
				if next.Pc == target.Index {
					taken++
				}
			}
			assert.Equal(1, taken, "%v %d", pair, n)
		}
	}
}

func TestCpuHalt(t *testing.T) {
	assert := assert.New(t)

	// write 15
	cpu := newTestCpu([]word.Word{0x1f, 0x00}, nil)
	printer := &io.Temporary{}
	cpu.Memory.Printer = printer
	cpu.Register = 0x2a

	assert.False(cpu.Step())
	assert.True(cpu.Halted)
	assert.Equal(word.Word(0x2a), cpu.Memory.Output)
	assert.Equal([]word.Word{0x2a}, printer.Data)
	assert.Equal(1, cpu.Ticks)

	// Halted CPUs do not step.
	assert.False(cpu.Step())
	assert.Equal(1, cpu.Ticks)

	// write* through a pointer to 15
	cpu = newTestCpu([]word.Word{0x92}, map[int]word.Word{2: 0x0f})
	cpu.Register = 0x07
	assert.False(cpu.Step())
	assert.Equal(word.Word(0x07), cpu.Memory.Output)

	// jump 15
	cpu = newTestCpu([]word.Word{0x4f}, nil)
	assert.False(cpu.Step())
	assert.Equal(word.LAST_ADDRESS, cpu.Pc)

	// Falls off the end of the code space.
	cpu = newTestCpu(nil, nil)
	steps := 0
	for cpu.Step() {
		steps++
	}
	assert.Equal(word.RAM_SIZE-1, steps)
	assert.Equal(word.RAM_SIZE, cpu.Ticks)

	// Print does not halt.
	cpu = newTestCpu([]word.Word{0xb3}, map[int]word.Word{3: 0x21})
	assert.True(cpu.Step())
	assert.Equal(word.Word(0x21), cpu.Memory.Output)

	// Reset clears the halt.
	cpu.Halted = true
	cpu.Reset()
	assert.False(cpu.Halted)
	assert.Equal(uint8(0), cpu.Pc)
	assert.Equal(0, cpu.Ticks)
}

func TestCpuInput(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu([]word.Word{0x0f, 0x0f, 0x0f}, nil)
	cpu.Memory.Input = &io.Rom{Data: []word.Word{7, 9}}

	assert.True(cpu.Step())
	assert.Equal(word.Word(7), cpu.Register)
	assert.True(cpu.Step())
	assert.Equal(word.Word(9), cpu.Register)
	assert.True(cpu.Step())
	assert.Equal(word.EMPTY, cpu.Register)
}

func TestCpuPortFault(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu([]word.Word{0xb3, 0xb3, 0x03}, map[int]word.Word{3: 0x21})
	cpu.Memory.Printer = &io.Temporary{Capacity: 1}

	assert.True(cpu.Step())
	assert.NoError(cpu.Fault)

	assert.True(cpu.Step())
	assert.True(errors.Is(cpu.Fault, ErrPort))
	assert.True(errors.Is(cpu.Fault, io.ErrChannelFull))
	assert.Equal(uint8(2), cpu.Pc)
}

func TestCpuProgram(t *testing.T) {
	assert := assert.New(t)

	// Count data[3] down to zero, then return it.
	cpu := newTestCpu([]word.Word{
		0xab, // dec 3
		0xd0, // ifnotmin 0
		0x1f, // halt
	}, map[int]word.Word{3: 3})
	printer := &io.Temporary{}
	cpu.Memory.Printer = printer

	for cpu.Step() {
	}

	assert.Equal(7, cpu.Ticks)
	assert.Equal(word.EMPTY, cpu.Register)
	assert.Equal([]word.Word{0}, printer.Data)
	assert.Equal(word.EMPTY, cpu.Memory.Data[3])
}

func TestCpuString(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu([]word.Word{0x03}, nil)
	text := cpu.String()
	assert.Contains(text, "reg = data[3];")
	assert.Contains(text, "ticks: 0")
}

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	mem := ram.NewMemory()
	mem.Code[0] = 0x03
	mem.Code[2] = 0x1f

	text := Disassemble(mem)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(3, len(lines))
	assert.Contains(lines[0], "------**")
	assert.Contains(lines[0], "reg = data[3];")
	assert.Contains(lines[2], "return reg;")

	mem.Clear()
	assert.Equal("", Disassemble(mem))

	count := 0
	for range Effective(mem) {
		count++
	}
	assert.Equal(0, count)
}
