package cpu

import "github.com/mnoll/gbcore/internal/interrupt"

// Step executes exactly one instruction (or one HALT tick, or one interrupt
// service) and returns the number of M-cycles it consumed. STOP does not
// pause the CPU: execution carries on with the next instruction. All bus
// peripherals are advanced inline via c.bus.Tick() as each memory access or
// internal cycle occurs, so the returned count is purely informational.
func (c *CPU) Step(ic *interrupt.Controller) int {
	before := c.cycleCounter
	c.stepOnce(ic)
	return c.cycleCounter - before
}

func (c *CPU) stepOnce(ic *interrupt.Controller) {
	if c.eiPending > 0 {
		c.eiPending--
		if c.eiPending == 0 {
			c.IME = true
		}
	}

	if c.stuck {
		c.idle()
		return
	}

	if c.halted {
		if ic.Pending() != 0 {
			c.halted = false
		} else {
			c.idle()
			return
		}
	}

	if c.IME && ic.Pending() != 0 {
		c.serviceInterrupt(ic)
		return
	}

	op := c.fetch8()
	c.exec(op, ic)
}

// serviceInterrupt runs the 5 M-cycle dispatch sequence spec.md §4.1/§4.7
// prescribes: 2 internal cycles, 2 cycles pushing PC, 1 cycle loading the
// vector.
func (c *CPU) serviceInterrupt(ic *interrupt.Controller) {
	src, ok := ic.Highest()
	if !ok {
		c.idle()
		return
	}
	c.IME = false
	ic.Clear(src)

	c.idle()
	c.idle()
	c.SP--
	c.write8(c.SP, byte(c.PC>>8))
	c.SP--
	c.write8(c.SP, byte(c.PC))
	c.idle()
	c.PC = src.Vector()
}
