package ember

import "testing"

func TestOrderAddAndRevert(t *testing.T) {
	song := NewSong()
	song.Orders[0][0] = 5

	cmd := &OrderAdd{DuplicateFrom: 0, Where: 1}
	if !cmd.Exec(song, OriginLocal) {
		t.Fatalf("OrderAdd.Exec reported no change")
	}
	if song.Orders[0][1] != 5 {
		t.Fatalf("expected duplicated pattern 5 at order 1, got %d", song.Orders[0][1])
	}

	cmd.Revert(song, OriginLocal)
	if song.Orders[0][1] != EmptyOrder {
		t.Fatalf("expected order 1 reverted to empty, got %d", song.Orders[0][1])
	}
	if song.Orders[0][0] != 5 {
		t.Fatalf("expected order 0 untouched, got %d", song.Orders[0][0])
	}
}

func TestOrderSwapDegenerate(t *testing.T) {
	song := NewSong()
	song.Orders[0][3] = 7

	cmd := &OrderSwap{A: 3, B: 3}
	if !cmd.Exec(song, OriginLocal) {
		t.Fatalf("OrderSwap(a, a) should report modified=true even though nothing changed")
	}
	if song.Orders[0][3] != 7 {
		t.Fatalf("expected order 3 unchanged, got %d", song.Orders[0][3])
	}
}

func TestOrderSetPartialCommitWart(t *testing.T) {
	song := NewSong()

	cmd := &OrderSet{NewPatterns: []OrderPattern{
		{Order: 0, Channel: 0, Pattern: 1},
		{Order: 1, Channel: 0, Pattern: 2},
		{Order: 2, Channel: 0, Pattern: 9999}, // out of range, stops the batch here
		{Order: 3, Channel: 0, Pattern: 3},
	}}

	if !cmd.Exec(song, OriginLocal) {
		t.Fatalf("expected modified=true since two cells were written before the stop")
	}
	if song.Orders[0][0] != 1 || song.Orders[0][1] != 2 {
		t.Fatalf("expected orders 0 and 1 written, got %d %d", song.Orders[0][0], song.Orders[0][1])
	}
	if song.Orders[0][3] != EmptyOrder {
		t.Fatalf("expected order 3 untouched after the out-of-range stop, got %d", song.Orders[0][3])
	}

	cmd.Revert(song, OriginLocal)
	if song.Orders[0][0] != EmptyOrder || song.Orders[0][1] != EmptyOrder {
		t.Fatalf("expected revert to undo only the cells that were actually written")
	}
}

func TestPatternSetDataOnlyRecordsChangedCells(t *testing.T) {
	song := NewSong()
	p := song.Pattern(0, 0, true)
	p.Data[0][0] = 4

	cmd := &PatternSetData{Edits: []PatternDataEdit{
		{Channel: 0, PatternIndex: 0, Row: 0, Field: 0, NewValue: 4}, // no-op, unchanged
		{Channel: 0, PatternIndex: 0, Row: 0, Field: 1, NewValue: 9},
	}}
	if !cmd.Exec(song, OriginLocal) {
		t.Fatalf("expected modified=true")
	}
	if len(cmd.reverts) != 1 {
		t.Fatalf("expected exactly one revert entry, got %d", len(cmd.reverts))
	}

	cmd.Revert(song, OriginLocal)
	if p.Data[0][1] != EmptyCell {
		t.Fatalf("expected field 1 reverted to EmptyCell, got %d", p.Data[0][1])
	}
	if p.Data[0][0] != 4 {
		t.Fatalf("expected field 0 untouched, got %d", p.Data[0][0])
	}
}

func TestUpdateInstrumentRevert(t *testing.T) {
	song := NewSong()
	song.Instruments = append(song.Instruments, Instrument{Name: "lead"})

	newName := "bass"
	cmd := &UpdateInstrument{Index: 0, Edit: InstrumentPartial{Name: &newName}}
	if !cmd.Exec(song, OriginLocal) {
		t.Fatalf("expected modified=true")
	}
	if song.Instruments[0].Name != "bass" {
		t.Fatalf("expected name updated to bass, got %q", song.Instruments[0].Name)
	}

	cmd.Revert(song, OriginLocal)
	if song.Instruments[0].Name != "lead" {
		t.Fatalf("expected name reverted to lead, got %q", song.Instruments[0].Name)
	}
}

func TestInstrumentAddDeleteRoundTrip(t *testing.T) {
	song := NewSong()

	add := &InstrumentAdd{Name: "kick"}
	if !add.Exec(song, OriginLocal) {
		t.Fatalf("expected InstrumentAdd to succeed")
	}
	if len(song.Instruments) != 1 {
		t.Fatalf("expected 1 instrument, got %d", len(song.Instruments))
	}

	del := &InstrumentDelete{Index: 0}
	if !del.Exec(song, OriginLocal) {
		t.Fatalf("expected InstrumentDelete to succeed")
	}
	if len(song.Instruments) != 0 {
		t.Fatalf("expected 0 instruments after delete, got %d", len(song.Instruments))
	}

	del.Revert(song, OriginLocal)
	if len(song.Instruments) != 1 || song.Instruments[0].Name != "kick" {
		t.Fatalf("expected kick instrument restored, got %+v", song.Instruments)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	cmd := &OrderAdd{DuplicateFrom: -1, Where: 2, Depth: CloneShallow}
	env := cmd.Serialize()

	got, ok := DeserializeCommand(env)
	if !ok {
		t.Fatalf("DeserializeCommand failed")
	}
	orderAdd, ok := got.(*OrderAdd)
	if !ok {
		t.Fatalf("expected *OrderAdd, got %T", got)
	}
	if orderAdd.Where != 2 {
		t.Fatalf("expected Where=2, got %d", orderAdd.Where)
	}
}

func TestDeserializeUnknownKind(t *testing.T) {
	_, ok := DeserializeCommand(Envelope{Kind: CommandKind(999)})
	if ok {
		t.Fatalf("expected DeserializeCommand to fail for an unknown kind")
	}
}
