package ember

import (
	"bytes"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	song := NewSong()
	song.Orders[0][0] = 1
	p := song.Pattern(0, 1, true)
	p.Name = "intro"
	p.Data[0][0] = 7
	song.Instruments = append(song.Instruments, Instrument{Name: "lead"})
	song.WalkSong()

	var buf bytes.Buffer
	if err := Save(&buf, song); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Orders[0][0] != 1 {
		t.Fatalf("expected order[0][0]=1, got %d", loaded.Orders[0][0])
	}
	gotPattern := loaded.Pattern(0, 1, false)
	if gotPattern == nil || gotPattern.Name != "intro" || gotPattern.Data[0][0] != 7 {
		t.Fatalf("expected pattern 1 restored with name/data, got %+v", gotPattern)
	}
	if len(loaded.Instruments) != 1 || loaded.Instruments[0].Name != "lead" {
		t.Fatalf("expected instrument restored, got %+v", loaded.Instruments)
	}
}
