package ember

import "testing"

func TestInvertInstrumentRestoresOriginal(t *testing.T) {
	before := Instrument{
		Name: "lead", Preset: 3, Algorithm: 1,
		VolumeMacro: Macro{Values: []int{15, 10}, Loop: 0, Release: -1},
	}
	before.Operators[0].TL = 20
	before.Operators[1].Macro.AR = Macro{Values: []int{1, 2, 3}, Loop: -1, Release: -1}

	after := before.Copy()
	newName := "bass"
	after.Name = newName
	after.Operators[0].TL = 40

	inverse := InvertInstrument(&before)
	inverse.Apply(&after)

	if after.Name != "lead" {
		t.Fatalf("expected name restored to lead, got %q", after.Name)
	}
	if after.Operators[0].TL != 20 {
		t.Fatalf("expected operator 0 TL restored to 20, got %d", after.Operators[0].TL)
	}
	if len(after.VolumeMacro.Values) != 2 || after.VolumeMacro.Values[0] != 15 {
		t.Fatalf("expected volume macro restored, got %+v", after.VolumeMacro)
	}
}

func TestInstrumentPartialApplyOnlyTouchesSetFields(t *testing.T) {
	instr := Instrument{Name: "lead", Preset: 2, Algorithm: 1}
	newPreset := 5
	partial := InstrumentPartial{Preset: &newPreset}

	partial.Apply(&instr)

	if instr.Preset != 5 {
		t.Fatalf("expected Preset updated to 5, got %d", instr.Preset)
	}
	if instr.Name != "lead" {
		t.Fatalf("expected Name left untouched, got %q", instr.Name)
	}
	if instr.Algorithm != 1 {
		t.Fatalf("expected Algorithm left untouched, got %d", instr.Algorithm)
	}
}
