package ember

// InstrumentPartial is the wire and in-memory form of a partial update to an
// Instrument: every scalar field is wrapped in a pointer (nil means "leave
// unchanged"), nested structs get their own partial type, and the fixed
// two-element Operators array is keyed by index on the wire since Go has no
// generic "array of partial" the way the original's reflection-driven
// Partial<T> synthesized one (see SPEC_FULL.md §4.2.1).
type (
	InstrumentPartial struct {
		Name      *string
		Preset    *int
		Algorithm *int
		Feedback  *int
		FMMod     *int
		AMMod     *int
		Operators map[int]FMOperatorPartial

		VolumeMacro *MacroPartial
		ArpMacro    *MacroPartial
		AlgMacro    *MacroPartial
		FbMacro     *MacroPartial
		FMSMacro    *MacroPartial
		AMSMacro    *MacroPartial
	}

	FMOperatorPartial struct {
		AM   *int
		Vib  *int
		EGT  *int
		KSR  *int
		Mult *int
		KSL  *int
		TL   *int
		AR   *int
		DR   *int
		SL   *int
		RR   *int

		Macro *OperatorMacroPartial
	}

	OperatorMacroPartial struct {
		AM   *MacroPartial
		AR   *MacroPartial
		DR   *MacroPartial
		Mult *MacroPartial
		RR   *MacroPartial
		SL   *MacroPartial
		TL   *MacroPartial
		EGT  *MacroPartial
		KSL  *MacroPartial
		KSR  *MacroPartial
		Vib  *MacroPartial
	}

	// MacroPartial updates a Macro as a whole leaf value: a macro's
	// Values/Loop/Release/Absolute are edited together in the GUI (as one
	// envelope), so unlike the scalar instrument fields there is no need
	// to go any finer-grained than "replace the whole macro".
	MacroPartial struct {
		Macro Macro
	}
)

// Apply mutates instr in place, applying every non-nil field of p.
func (p *InstrumentPartial) Apply(instr *Instrument) {
	if p.Name != nil {
		instr.Name = *p.Name
	}
	if p.Preset != nil {
		instr.Preset = *p.Preset
	}
	if p.Algorithm != nil {
		instr.Algorithm = *p.Algorithm
	}
	if p.Feedback != nil {
		instr.Feedback = *p.Feedback
	}
	if p.FMMod != nil {
		instr.FMMod = *p.FMMod
	}
	if p.AMMod != nil {
		instr.AMMod = *p.AMMod
	}
	for idx, opPartial := range p.Operators {
		if idx < 0 || idx >= len(instr.Operators) {
			continue
		}
		opPartial.Apply(&instr.Operators[idx])
	}
	applyMacroPartial(p.VolumeMacro, &instr.VolumeMacro)
	applyMacroPartial(p.ArpMacro, &instr.ArpMacro)
	applyMacroPartial(p.AlgMacro, &instr.AlgMacro)
	applyMacroPartial(p.FbMacro, &instr.FbMacro)
	applyMacroPartial(p.FMSMacro, &instr.FMSMacro)
	applyMacroPartial(p.AMSMacro, &instr.AMSMacro)
}

// Apply mutates op in place, applying every non-nil field of p.
func (p *FMOperatorPartial) Apply(op *FMOperator) {
	if p.AM != nil {
		op.AM = *p.AM
	}
	if p.Vib != nil {
		op.Vib = *p.Vib
	}
	if p.EGT != nil {
		op.EGT = *p.EGT
	}
	if p.KSR != nil {
		op.KSR = *p.KSR
	}
	if p.Mult != nil {
		op.Mult = *p.Mult
	}
	if p.KSL != nil {
		op.KSL = *p.KSL
	}
	if p.TL != nil {
		op.TL = *p.TL
	}
	if p.AR != nil {
		op.AR = *p.AR
	}
	if p.DR != nil {
		op.DR = *p.DR
	}
	if p.SL != nil {
		op.SL = *p.SL
	}
	if p.RR != nil {
		op.RR = *p.RR
	}
	if p.Macro != nil {
		p.Macro.Apply(&op.Macro)
	}
}

// Apply mutates m in place, applying every non-nil field of p.
func (p *OperatorMacroPartial) Apply(m *OperatorMacro) {
	applyMacroPartial(p.AM, &m.AM)
	applyMacroPartial(p.AR, &m.AR)
	applyMacroPartial(p.DR, &m.DR)
	applyMacroPartial(p.Mult, &m.Mult)
	applyMacroPartial(p.RR, &m.RR)
	applyMacroPartial(p.SL, &m.SL)
	applyMacroPartial(p.TL, &m.TL)
	applyMacroPartial(p.EGT, &m.EGT)
	applyMacroPartial(p.KSL, &m.KSL)
	applyMacroPartial(p.KSR, &m.KSR)
	applyMacroPartial(p.Vib, &m.Vib)
}

func applyMacroPartial(p *MacroPartial, m *Macro) {
	if p == nil {
		return
	}
	*m = p.Macro.Copy()
}

// InvertInstrument builds the InstrumentPartial that, applied to after,
// would restore before — i.e. it snapshots every field of before as an
// explicit partial. This module does not currently use it (UpdateInstrument
// reverts from a whole-Instrument snapshot, see SPEC_FULL.md §4.2's Open
// Question resolution), but it is kept as the alternative strategy §9
// names, exercised directly by its own test.
func InvertInstrument(before *Instrument) InstrumentPartial {
	name, preset, alg, fb, fmMod, amMod := before.Name, before.Preset, before.Algorithm, before.Feedback, before.FMMod, before.AMMod
	p := InstrumentPartial{
		Name: &name, Preset: &preset, Algorithm: &alg, Feedback: &fb, FMMod: &fmMod, AMMod: &amMod,
		Operators:   map[int]FMOperatorPartial{},
		VolumeMacro: &MacroPartial{Macro: before.VolumeMacro.Copy()},
		ArpMacro:    &MacroPartial{Macro: before.ArpMacro.Copy()},
		AlgMacro:    &MacroPartial{Macro: before.AlgMacro.Copy()},
		FbMacro:     &MacroPartial{Macro: before.FbMacro.Copy()},
		FMSMacro:    &MacroPartial{Macro: before.FMSMacro.Copy()},
		AMSMacro:    &MacroPartial{Macro: before.AMSMacro.Copy()},
	}
	for i, op := range before.Operators {
		p.Operators[i] = invertOperator(op)
	}
	return p
}

func invertOperator(op FMOperator) FMOperatorPartial {
	am, vib, egt, ksr, mult, ksl, tl, ar, dr, sl, rr := op.AM, op.Vib, op.EGT, op.KSR, op.Mult, op.KSL, op.TL, op.AR, op.DR, op.SL, op.RR
	return FMOperatorPartial{
		AM: &am, Vib: &vib, EGT: &egt, KSR: &ksr, Mult: &mult, KSL: &ksl, TL: &tl, AR: &ar, DR: &dr, SL: &sl, RR: &rr,
		Macro: &OperatorMacroPartial{
			AM:   &MacroPartial{Macro: op.Macro.AM.Copy()},
			AR:   &MacroPartial{Macro: op.Macro.AR.Copy()},
			DR:   &MacroPartial{Macro: op.Macro.DR.Copy()},
			Mult: &MacroPartial{Macro: op.Macro.Mult.Copy()},
			RR:   &MacroPartial{Macro: op.Macro.RR.Copy()},
			SL:   &MacroPartial{Macro: op.Macro.SL.Copy()},
			TL:   &MacroPartial{Macro: op.Macro.TL.Copy()},
			EGT:  &MacroPartial{Macro: op.Macro.EGT.Copy()},
			KSL:  &MacroPartial{Macro: op.Macro.KSL.Copy()},
			KSR:  &MacroPartial{Macro: op.Macro.KSR.Copy()},
			Vib:  &MacroPartial{Macro: op.Macro.Vib.Copy()},
		},
	}
}
