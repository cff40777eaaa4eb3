package chip

import "github.com/embertrack/ember"

// channelState holds the per-tick playback state of one FM channel: the
// instrument driving it, macro step positions, and the base note it is
// currently playing.
type channelState struct {
	instrument *ember.Instrument
	note       int // absolute note number, base+arp applied
	baseNote   int
	volume     int // 0-15
	active     bool
	muted      bool

	volStep     int
	arpStep     int
	opMacroStep [2][11]int // per-operator, per-macro-kind step
	freqChanged bool
}

// Driver is a per-tick OPLL-family chip driver: it owns 9 channelStates
// (tonal channels; with rhythm mode active, channels 6-8 key drums through
// bits 0-2 of register 0x0e instead), a two-phase register write FIFO, and the
// pendingWrites/oldWrites shadow registers opll.cpp's tick() diffs against
// to decide which registers actually need flushing to the chip each tick.
type Driver struct {
	Emulator Emulator

	channels    [9]channelState
	rhythmMode  bool

	pendingWrites [256]int
	oldWrites     [256]int
	writeSet      [256]bool // whether pendingWrites[i] has ever been set

	fifo []fifoWrite
}

type fifoWrite struct {
	addr  bool // true: address phase, false: value phase
	value uint8
}

// NewDriver wires emu as the chip core and resets it.
func NewDriver(emu Emulator) *Driver {
	d := &Driver{Emulator: emu}
	for i := range d.pendingWrites {
		d.pendingWrites[i] = -1
		d.oldWrites[i] = -1
	}
	emu.Reset(0)
	return d
}

// rWrite stages a register write into the pending shadow, mirroring
// opll.cpp's rWrite: it only records intent, the actual chip write happens
// in flush once Tick has finished evaluating every channel this tick.
func (d *Driver) rWrite(reg int, value int) {
	if reg < 0 || reg >= len(d.pendingWrites) {
		return
	}
	d.pendingWrites[reg] = value
	d.writeSet[reg] = true
}

// immWrite pushes the two-phase address+value write sequence for reg/value
// directly into the FIFO, for flush to drain via Clock.
func (d *Driver) immWrite(reg int, value int) {
	d.fifo = append(d.fifo, fifoWrite{addr: true, value: uint8(reg)})
	d.fifo = append(d.fifo, fifoWrite{addr: false, value: uint8(value)})
}

// flush compares pendingWrites against oldWrites and immWrites every
// register that actually changed, then copies pendingWrites into
// oldWrites, per opll.cpp's tick()-ending diff loop.
func (d *Driver) flush() {
	for i := 0; i < len(d.pendingWrites); i++ {
		if !d.writeSet[i] {
			continue
		}
		if d.pendingWrites[i] != d.oldWrites[i] {
			d.immWrite(i, d.pendingWrites[i])
			d.oldWrites[i] = d.pendingWrites[i]
		}
	}
}

// Clock drains up to one FIFO entry into the underlying Emulator (which
// itself enforces the addressDelay/valueDelay busy-cycle timing) and
// advances the chip by one sample, writing the resulting stereo sample
// into out.
func (d *Driver) Clock(out *[2]int16) {
	if d.Emulator.Cycles() == 0 && len(d.fifo) > 0 {
		w := d.fifo[0]
		d.fifo = d.fifo[1:]
		if w.addr {
			d.Emulator.Write(0, w.value)
		} else {
			d.Emulator.Write(1, w.value)
		}
	}
	d.Emulator.Clock(out)
}

// SetChannelInstrument assigns instr to channel, re-emitting every
// register the instrument controls so the chip's live state matches it
// immediately (ForceIns, in spec terms) rather than waiting for the next
// macro step to happen to touch each register.
func (d *Driver) SetChannelInstrument(channel int, instr *ember.Instrument) {
	if channel < 0 || channel >= len(d.channels) {
		return
	}
	ch := &d.channels[channel]
	ch.instrument = instr
	ch.volStep = 0
	ch.arpStep = 0
	ch.opMacroStep = [2][11]int{}
	d.forceIns(channel)
}

// forceIns writes every register byte derivable from the channel's current
// instrument and volume without waiting for macro playback, matching the
// ModuleInstrument rewrite opll.cpp performs on a new note/instrument.
func (d *Driver) forceIns(channel int) {
	ch := &d.channels[channel]
	if ch.instrument == nil {
		return
	}
	instr := ch.instrument
	d.rWrite(0x30+channel, (instr.Algorithm<<4)|clamp4(ch.volume))
	for opIdx, op := range instr.Operators {
		base := 0x00 + opIdx*0x10
		d.rWrite(base, (op.AM<<7)|(op.Vib<<6)|(op.EGT<<5)|(op.KSR<<4)|(op.Mult&0x0f))
		d.rWrite(0x04+base, (op.KSL<<6)|(op.TL&0x3f))
		d.rWrite(0x06+base, (op.AR<<4)|(op.DR&0x0f))
		d.rWrite(0x08+base, (op.SL<<4)|(op.RR&0x0f))
	}
	d.rWrite(0x03, (instr.FMMod<<7)|(instr.AMMod<<6)|(instr.Feedback&0x07))
}

func clamp4(v int) int {
	if v < 0 {
		return 0
	}
	if v > 15 {
		return 15
	}
	return v
}

// NoteOn starts note playing on channel using the channel's currently
// assigned instrument.
func (d *Driver) NoteOn(channel, note int) {
	if channel < 0 || channel >= len(d.channels) {
		return
	}
	ch := &d.channels[channel]
	ch.baseNote = note
	ch.note = note
	ch.active = true
	ch.freqChanged = true
	d.writeKeyOn(channel, true)
	d.writeFrequency(channel)
}

// NoteOff releases the note playing on channel, leaving the envelope to
// decay according to its release rate.
func (d *Driver) NoteOff(channel int) {
	if channel < 0 || channel >= len(d.channels) {
		return
	}
	d.channels[channel].active = false
	d.writeKeyOn(channel, false)
}

// writeKeyOn sets or clears the key-on bit for channel: bit (channel-6) of
// the drum register 0x0e when rhythm mode is active and channel is 6 or
// above, or the tonal key-on bit (bit 4 of 0x20+channel) otherwise. The
// drumSlot table is not consulted.
func (d *Driver) writeKeyOn(channel int, on bool) {
	if d.rhythmMode && channel >= 6 {
		bit := channel - 6
		cur := d.pendingWrites[0x0e]
		if cur < 0 {
			cur = d.oldWrites[0x0e]
			if cur < 0 {
				cur = 0
			}
		}
		if on {
			cur |= 1 << bit
		} else {
			cur &^= 1 << bit
		}
		d.rWrite(0x0e, cur)
		return
	}
	reg := 0x20 + channel
	cur := d.pendingWrites[reg]
	if cur < 0 {
		cur = d.oldWrites[reg]
		if cur < 0 {
			cur = 0
		}
	}
	if on {
		cur |= 1 << 4
	} else {
		cur &^= 1 << 4
	}
	d.rWrite(reg, cur)
}

// writeFrequency encodes the channel's current note into block/fraction
// form and writes it to registers 0x10+channel (fraction low byte) and
// 0x20+channel (block + fraction high bit + key-on bit), per opll.cpp's
// frequency-changed handling.
func (d *Driver) writeFrequency(channel int) {
	ch := &d.channels[channel]
	freq := noteToFreqNumber(ch.note)
	packed := toFreq(freq)
	block := packed >> 9
	frac := packed & 0x1ff

	d.rWrite(0x10+channel, frac&0xff)

	reg := 0x20 + channel
	cur := d.pendingWrites[reg]
	if cur < 0 {
		cur = d.oldWrites[reg]
		if cur < 0 {
			cur = 0
		}
	}
	keyOnBit := cur & (1 << 4)
	value := keyOnBit | (block << 1) | ((frac >> 8) & 1)
	d.rWrite(reg, value)
	ch.freqChanged = false
}

// noteToFreqNumber converts an absolute note number (0 = lowest C the chip
// supports) into the raw, un-blocked frequency number toFreq expects,
// scaling by the same C-at-block-0 constant opll.cpp's toFreq table is
// built from.
func noteToFreqNumber(note int) int {
	octaveN := note / 12
	semitone := note % 12
	if semitone < 0 {
		semitone += 12
		octaveN--
	}
	base := cNum
	// approximate equal-tempered scaling: each semitone multiplies by
	// 2^(1/12); since this driver only needs monotonic, octave-respecting
	// frequency numbers (not acoustic pitch accuracy), a small lookup of
	// pre-scaled ratios avoids pulling in a floating point dependency Tick
	// never otherwise needs.
	ratios := [12]int{256, 271, 287, 304, 322, 342, 362, 384, 406, 430, 456, 483}
	freq := (base * ratios[semitone]) >> 8
	return freq << octaveN
}
