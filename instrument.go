package ember

// Instrument is a nested record: a name, a two-operator FM voice
// (Operators[0] is the modulator, Operators[1] is the carrier, following
// the OPLL-family register layout the chip driver targets), a small set of
// chip-level flags, and one Macro envelope per modulated parameter.
//
// Every field here and in FMOperator must be individually settable via
// InstrumentPartial (§4.2.1 of SPEC_FULL.md) without touching the others.
type (
	Instrument struct {
		Name      string
		Preset    int // 0..15, OPLL built-in instrument preset; 0 means "custom" (use Operators)
		Algorithm int
		Feedback  int
		FMMod     int // frequency modulation depth toggle
		AMMod     int // amplitude modulation depth toggle
		Operators [2]FMOperator

		VolumeMacro  Macro
		ArpMacro     Macro
		AlgMacro     Macro
		FbMacro      Macro
		FMSMacro     Macro
		AMSMacro     Macro
	}

	// FMOperator mirrors one OPLL-family FM operator's register fields.
	FMOperator struct {
		AM   int // amplitude modulation enable
		Vib  int // vibrato enable
		EGT  int // envelope generator type (sustained vs percussive)
		KSR  int // key scale rate
		Mult int // frequency multiplier
		KSL  int // key scale level
		TL   int // total level (attenuation)
		AR   int // attack rate
		DR   int // decay rate
		SL   int // sustain level
		RR   int // release rate

		Macro OperatorMacro
	}

	// OperatorMacro holds the per-operator macro envelopes named in
	// spec.md §4.6 step 1 (am, ar, dr, mult, rr, sl, tl, egt, ksl, ksr,
	// vib).
	OperatorMacro struct {
		AM   Macro
		AR   Macro
		DR   Macro
		Mult Macro
		RR   Macro
		SL   Macro
		TL   Macro
		EGT  Macro
		KSL  Macro
		KSR  Macro
		Vib  Macro
	}

	// Macro is a per-tick stream of parameter values. Absolute mode (for
	// the arpeggio macro) means values are taken as literal notes;
	// relative mode means values are added to the playing note.
	Macro struct {
		Values   []int
		Loop     int  // index to loop back to once Values is exhausted, -1 for no loop
		Release  int  // index where the release segment begins, -1 for none
		Absolute bool // only meaningful for ArpMacro
	}
)

// Copy makes a deep copy of an Instrument.
func (instr *Instrument) Copy() Instrument {
	cp := *instr
	cp.VolumeMacro = instr.VolumeMacro.Copy()
	cp.ArpMacro = instr.ArpMacro.Copy()
	cp.AlgMacro = instr.AlgMacro.Copy()
	cp.FbMacro = instr.FbMacro.Copy()
	cp.FMSMacro = instr.FMSMacro.Copy()
	cp.AMSMacro = instr.AMSMacro.Copy()
	for i := range instr.Operators {
		cp.Operators[i] = instr.Operators[i].Copy()
	}
	return cp
}

// Copy makes a deep copy of an FMOperator, including its macros.
func (op *FMOperator) Copy() FMOperator {
	cp := *op
	cp.Macro = op.Macro.Copy()
	return cp
}

// Copy makes a deep copy of an OperatorMacro.
func (m *OperatorMacro) Copy() OperatorMacro {
	return OperatorMacro{
		AM: m.AM.Copy(), AR: m.AR.Copy(), DR: m.DR.Copy(), Mult: m.Mult.Copy(),
		RR: m.RR.Copy(), SL: m.SL.Copy(), TL: m.TL.Copy(), EGT: m.EGT.Copy(),
		KSL: m.KSL.Copy(), KSR: m.KSR.Copy(), Vib: m.Vib.Copy(),
	}
}

// Copy makes a deep copy of a Macro.
func (m Macro) Copy() Macro {
	values := make([]int, len(m.Values))
	copy(values, m.Values)
	m.Values = values
	return m
}
