package chip

// Tick advances every active channel's macro envelopes by one step,
// writing whatever registers changed, then flushes the diffed shadow
// registers to the FIFO for Clock to drain. This is the per-row driver
// tick, grounded on opll.cpp's tick(): hadVol/hadArp/per-operator macro
// handling followed by the pendingWrites-vs-oldWrites flush loop.
func (d *Driver) Tick() {
	for i := range d.channels {
		d.tickChannel(i)
	}
	d.flush()
}

func (d *Driver) tickChannel(channel int) {
	ch := &d.channels[channel]
	if !ch.active || ch.instrument == nil {
		return
	}
	instr := ch.instrument

	if vol, ok := stepMacro(&instr.VolumeMacro, &ch.volStep); ok {
		ch.volume = clamp4((ch.volume * min(15, vol)) / 15)
		d.rWrite(0x30+channel, (instr.Algorithm<<4)|clamp4(ch.volume))
	}

	if arp, ok := stepMacro(&instr.ArpMacro, &ch.arpStep); ok {
		if instr.ArpMacro.Absolute {
			ch.note = arp
		} else {
			ch.note = ch.baseNote + arp
		}
		ch.freqChanged = true
	}

	for opIdx := range instr.Operators {
		d.tickOperatorMacros(channel, opIdx)
	}

	if ch.freqChanged {
		d.writeFrequency(channel)
	}
}

// tickOperatorMacros steps every per-operator macro envelope
// (am/ar/dr/mult/rr/sl/tl/egt/ksl/ksr/vib) named in the original's per-slot
// macro handling and, on any step that produced a value, rewrites the
// composite register it belongs to.
func (d *Driver) tickOperatorMacros(channel, opIdx int) {
	ch := &d.channels[channel]
	op := &ch.instrument.Operators[opIdx]
	steps := &ch.opMacroStep[opIdx]
	base := 0x00 + opIdx*0x10

	changed := false
	if v, ok := stepMacro(&op.Macro.AM, &steps[0]); ok {
		op.AM = v
		changed = true
	}
	if v, ok := stepMacro(&op.Macro.Vib, &steps[10]); ok {
		op.Vib = v
		changed = true
	}
	if v, ok := stepMacro(&op.Macro.EGT, &steps[7]); ok {
		op.EGT = v
		changed = true
	}
	if v, ok := stepMacro(&op.Macro.KSR, &steps[9]); ok {
		op.KSR = v
		changed = true
	}
	if v, ok := stepMacro(&op.Macro.Mult, &steps[3]); ok {
		op.Mult = v
		changed = true
	}
	if changed {
		d.rWrite(base, (op.AM<<7)|(op.Vib<<6)|(op.EGT<<5)|(op.KSR<<4)|(op.Mult&0x0f))
	}

	// KSL/TL, AR/DR and SL/RR share a composite register but each macro
	// has its own step counter that stepMacro advances as a side effect,
	// so both calls in a pair must run every tick regardless of whether
	// the other fires. If both fire the register is simply written twice,
	// ending on the correct combined value.
	ksl, kslOK := stepMacro(&op.Macro.KSL, &steps[8])
	tl, tlOK := stepMacro(&op.Macro.TL, &steps[6])
	if kslOK {
		op.KSL = ksl
		d.rWrite(0x04+base, (op.KSL<<6)|(op.TL&0x3f))
	}
	if tlOK {
		op.TL = tl
		d.rWrite(0x04+base, (op.KSL<<6)|(op.TL&0x3f))
	}

	ar, arOK := stepMacro(&op.Macro.AR, &steps[1])
	dr, drOK := stepMacro(&op.Macro.DR, &steps[2])
	if arOK {
		op.AR = ar
		d.rWrite(0x06+base, (op.AR<<4)|(op.DR&0x0f))
	}
	if drOK {
		op.DR = dr
		d.rWrite(0x06+base, (op.AR<<4)|(op.DR&0x0f))
	}

	sl, slOK := stepMacro(&op.Macro.SL, &steps[5])
	rr, rrOK := stepMacro(&op.Macro.RR, &steps[4])
	if slOK {
		op.SL = sl
		d.rWrite(0x08+base, (op.SL<<4)|(op.RR&0x0f))
	}
	if rrOK {
		op.RR = rr
		d.rWrite(0x08+base, (op.SL<<4)|(op.RR&0x0f))
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
