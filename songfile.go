package ember

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// songFile is the on-disk YAML shape of a Song: a flat list of pattern
// entries instead of Song's in-memory sparse map-per-channel, since a map
// keyed by int round-trips awkwardly through YAML's block style. Grounded
// on the teacher's own `yaml:",flow"` tagging convention for compact
// fixed-size arrays (vsariola-sointu's pattern.go/track.go).
type songFile struct {
	Orders      [MaxChannels][]int `yaml:"orders,flow"`
	Patterns    []patternEntry     `yaml:"patterns"`
	Instruments []Instrument       `yaml:"instruments"`
}

type patternEntry struct {
	Channel int               `yaml:"channel"`
	Index   int                `yaml:"index"`
	Name    string             `yaml:"name,omitempty"`
	Data    [][]int16          `yaml:"data,flow"`
}

// Save writes song to w as YAML.
func Save(w io.Writer, song *Song) error {
	var sf songFile
	for ch := range song.Orders {
		sf.Orders[ch] = make([]int, MaxOrders)
		copy(sf.Orders[ch], song.Orders[ch][:])
	}
	for ch := range song.Patterns {
		for idx, p := range song.Patterns[ch] {
			entry := patternEntry{Channel: ch, Index: idx, Name: p.Name}
			entry.Data = make([][]int16, PatternRows)
			for r := range p.Data {
				row := make([]int16, PatternFields)
				copy(row, p.Data[r][:])
				entry.Data[r] = row
			}
			sf.Patterns = append(sf.Patterns, entry)
		}
	}
	sf.Instruments = song.Instruments

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(&sf); err != nil {
		return fmt.Errorf("ember: Save: %w", err)
	}
	return nil
}

// Load reads a Song previously written by Save.
func Load(r io.Reader) (*Song, error) {
	var sf songFile
	if err := yaml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("ember: Load: %w", err)
	}

	song := NewSong()
	for ch := range sf.Orders {
		if ch >= MaxChannels {
			break
		}
		for o, v := range sf.Orders[ch] {
			if o >= MaxOrders {
				break
			}
			song.Orders[ch][o] = v
		}
	}
	for _, entry := range sf.Patterns {
		if !inRangeChannel(entry.Channel) || !inRangePattern(entry.Index) {
			continue
		}
		p := song.Pattern(entry.Channel, entry.Index, true)
		p.Name = entry.Name
		for r, row := range entry.Data {
			if r >= PatternRows {
				break
			}
			for f, v := range row {
				if f >= PatternFields {
					break
				}
				p.Data[r][f] = v
			}
		}
	}
	song.Instruments = sf.Instruments
	song.WalkSong()
	return song, nil
}
