package cpu

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/comp/ram"
	"github.com/ezrec/comp/word"
)

// Cpu is the execution engine attached to a memory.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *ram.Memory // Memory the CPU executes from.

	Pc       uint8     // Current program counter.
	Register word.Word // Accumulator.
	Halted   bool      // Set once a halt condition is reached.

	Ticks int   // Instructions executed since reset.
	Fault error // Last port failure, if any.
}

// NewCpu creates a new CPU attached to a memory.
func NewCpu(mem *ram.Memory) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: mem,
	}

	return
}

// Reset the CPU state. Memory is untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		logrus.Info("cpu: reset")
	}

	cpu.Pc = word.FIRST_ADDRESS
	cpu.Register = word.EMPTY
	cpu.Halted = false
	cpu.Ticks = 0
	cpu.Fault = nil
}

// State returns the architectural state.
func (cpu *Cpu) State() State {
	return State{Pc: cpu.Pc, Register: cpu.Register}
}

// Fetch decodes the instruction at the program counter.
func (cpu *Cpu) Fetch() Instruction {
	return Decode(cpu.Memory.Peek(word.At(word.CODE, int(cpu.Pc))))
}

// Step executes a single instruction, and returns false once the CPU has
// halted. A halt is reached by a write to the last data address, or by the
// program counter reaching the last code address.
//
// Step never fails: every word decodes to an instruction. Port failures
// are logged and kept in Fault.
func (cpu *Cpu) Step() (running bool) {
	if cpu.Halted {
		return
	}

	if cpu.Pc == word.LAST_ADDRESS {
		cpu.Halted = true
		return
	}

	ins := cpu.Fetch()
	adr := ins.Resolve(cpu.Register, cpu.Memory)

	next, halt, err := ins.Execute(adr, cpu.State(), cpu.Memory)
	if err != nil {
		err = errors.Join(ErrPort, err)
		cpu.Fault = err
		logrus.WithFields(logrus.Fields{
			"pc":  cpu.Pc,
			"op":  ins.Op,
			"adr": adr,
		}).WithError(err).Warn("cpu: port")
	}

	if cpu.Verbose {
		logrus.WithFields(logrus.Fields{
			"pc":  cpu.Pc,
			"op":  ins.Op,
			"adr": adr,
			"reg": next.Register,
		}).Infof("cpu: %v", ins.Code)
	}

	cpu.Pc = next.Pc
	cpu.Register = next.Register
	cpu.Ticks++

	if halt || cpu.Pc == word.LAST_ADDRESS {
		if cpu.Verbose {
			logrus.WithField("reg", cpu.Register).Info("cpu: halt")
		}
		cpu.Halted = true
		return
	}

	running = true
	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	ins := cpu.Fetch()
	text += fmt.Sprintf("%5s: %d\n", "pc", cpu.Pc)
	text += fmt.Sprintf("%5s: %v %3d\n", "reg", cpu.Register, cpu.Register.Uint())
	text += fmt.Sprintf("%5s: %v\n", "next", ins.Code)
	text += fmt.Sprintf("%5s: %d\n", "ticks", cpu.Ticks)
	return
}
