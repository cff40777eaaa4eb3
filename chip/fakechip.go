package chip

// FakeChip is a test double implementing Emulator: it records every
// register write as soon as its value phase arrives, reports the
// addressDelay/valueDelay busy cycles through Cycles (counted down by
// Clock), and produces silence on Clock, so tests can assert on the
// sequence of register writes a Driver produced without needing to model
// real FM synthesis output.
type FakeChip struct {
	Variant int
	Writes  []FakeWrite

	pendingAddr int
	haveAddr    bool
	cycles      int
}

// FakeWrite is one two-phase write FakeChip observed, collapsed into the
// (register, value) pair it represents.
type FakeWrite struct {
	Register int
	Value    uint8
}

func (f *FakeChip) Reset(variant int) {
	f.Variant = variant
	f.Writes = nil
	f.haveAddr = false
	f.cycles = 0
}

func (f *FakeChip) Write(port int, value uint8) {
	switch port {
	case 0:
		f.pendingAddr = int(value)
		f.haveAddr = true
		f.cycles = addressDelay
	case 1:
		if f.haveAddr {
			f.Writes = append(f.Writes, FakeWrite{Register: f.pendingAddr, Value: value})
			f.haveAddr = false
		}
		f.cycles = valueDelay
	}
}

func (f *FakeChip) Clock(out *[2]int16) {
	if f.cycles > 0 {
		f.cycles--
	}
	out[0], out[1] = 0, 0
}

func (f *FakeChip) Cycles() int { return f.cycles }
