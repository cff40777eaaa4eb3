package chip

import (
	"testing"

	"github.com/embertrack/ember"
)

func TestNoteOnWritesFrequencyAndKeyOnRegisters(t *testing.T) {
	fake := &FakeChip{}
	d := NewDriver(fake)

	instr := &ember.Instrument{}
	d.SetChannelInstrument(0, instr)

	d.NoteOn(0, 48)
	d.Tick()

	drainFifo(t, d, fake, 1024)

	if !hasWrite(fake.Writes, 0x10) {
		t.Fatalf("expected a write to register 0x10 (frequency low byte), got %+v", fake.Writes)
	}
	if !hasWriteWithBit(fake.Writes, 0x20, 1<<4) {
		t.Fatalf("expected register 0x20 to have the key-on bit set, got %+v", fake.Writes)
	}
}

func TestNoteOffClearsKeyOnBit(t *testing.T) {
	fake := &FakeChip{}
	d := NewDriver(fake)
	instr := &ember.Instrument{}
	d.SetChannelInstrument(0, instr)

	d.NoteOn(0, 48)
	d.Tick()
	drainFifo(t, d, fake, 1024)

	d.NoteOff(0)
	d.flush()
	drainFifo(t, d, fake, 1024)

	v, ok := lastValue(fake.Writes, 0x20)
	if !ok {
		t.Fatalf("expected at least one write to 0x20")
	}
	if v&(1<<4) != 0 {
		t.Fatalf("expected key-on bit cleared after NoteOff, register value %#x", v)
	}
}

func TestVolumeMacroStepsAndWritesRegister(t *testing.T) {
	fake := &FakeChip{}
	d := NewDriver(fake)

	instr := &ember.Instrument{
		VolumeMacro: ember.Macro{Values: []int{15, 10, 5}, Loop: -1, Release: -1},
	}
	d.SetChannelInstrument(0, instr)
	d.NoteOn(0, 48)

	d.Tick()
	drainFifo(t, d, fake, 1024)

	if !hasWrite(fake.Writes, 0x30) {
		t.Fatalf("expected volume macro step to write register 0x30, got %+v", fake.Writes)
	}
}

func TestPortaToNoteReachesTarget(t *testing.T) {
	fake := &FakeChip{}
	d := NewDriver(fake)
	instr := &ember.Instrument{}
	d.SetChannelInstrument(0, instr)
	d.NoteOn(0, 40)

	result := d.Dispatch(ChipCommand{Kind: ChipPortaToNote, Channel: 0, Note: 48, Value: 100})
	if result != 2 {
		t.Fatalf("expected portaToNote with a large step to reach the target immediately, got %d", result)
	}
}

func TestDispatchOutOfRangeChannelIsNoOp(t *testing.T) {
	fake := &FakeChip{}
	d := NewDriver(fake)
	result := d.Dispatch(ChipCommand{Kind: ChipNoteOn, Channel: 999, Note: 48})
	if result != 0 {
		t.Fatalf("expected out-of-range channel dispatch to return 0, got %d", result)
	}
}

func drainFifo(t *testing.T, d *Driver, fake *FakeChip, maxSteps int) {
	t.Helper()
	var out [2]int16
	for i := 0; i < maxSteps && len(d.fifo) > 0; i++ {
		d.Clock(&out)
	}
}

func hasWrite(writes []FakeWrite, reg int) bool {
	for _, w := range writes {
		if w.Register == reg {
			return true
		}
	}
	return false
}

func hasWriteWithBit(writes []FakeWrite, reg int, bit uint8) bool {
	for _, w := range writes {
		if w.Register == reg && w.Value&bit != 0 {
			return true
		}
	}
	return false
}

func lastValue(writes []FakeWrite, reg int) (uint8, bool) {
	for i := len(writes) - 1; i >= 0; i-- {
		if writes[i].Register == reg {
			return writes[i].Value, true
		}
	}
	return 0, false
}
