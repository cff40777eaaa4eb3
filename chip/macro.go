package chip

import "github.com/embertrack/ember"

// stepMacro returns the macro's value at position step and then advances
// step by one, or returns (0, false) if the macro has no values at all (an
// unset/default instrument parameter). Once step runs past the end of
// Values, playback repeats Values[Loop:] if Loop is in range, otherwise it
// holds at the last value — a sustained hold being the simplest reasonable
// behavior for a macro that was never given a loop point.
func stepMacro(m *ember.Macro, step *int) (int, bool) {
	if len(m.Values) == 0 {
		return 0, false
	}
	idx := *step
	if idx >= len(m.Values) {
		if m.Loop >= 0 && m.Loop < len(m.Values) {
			idx = m.Loop + (idx-len(m.Values))%(len(m.Values)-m.Loop)
		} else {
			idx = len(m.Values) - 1
		}
	}
	*step++
	return m.Values[idx], true
}
