package ember

// UndoStep is one entry in an UndoStack: the command that was executed, and
// the cursor position immediately before and after it ran. Position is left
// as an opaque int pair (order, row) so this package does not need to know
// about a GUI's notion of cursor.
type UndoStep struct {
	Cmd          Command
	PositionPre  [2]int
	PositionPost [2]int
}

// UndoStack is a bounded, linear undo/redo history, grounded on
// tracker/undo.go's SaveUndo/Undo/Redo (maxUndo = 256) generalized from
// whole-song snapshots to individual reversible Commands, since Song.Copy
// on every keystroke would be wasteful for a network-replicated model where
// every edit is already a Command.
//
// currentPoint indexes the next slot a Push will write to; steps at or
// after currentPoint are the redo tail and are discarded by the next Push,
// exactly like tracker/undo.go truncates history on a fresh edit after an
// Undo.
type UndoStack struct {
	steps        []UndoStep
	currentPoint int
	maxSteps     int
}

// NewUndoStack returns an empty stack bounded to maxSteps entries. A
// maxSteps <= 0 means unbounded, matching Go slice growth semantics rather
// than silently refusing to record anything.
func NewUndoStack(maxSteps int) *UndoStack {
	return &UndoStack{maxSteps: maxSteps}
}

// Push records a new step, first discarding any redo tail left over from a
// prior Undo. If the stack is at capacity, the oldest step is dropped.
func (u *UndoStack) Push(step UndoStep) {
	u.steps = u.steps[:u.currentPoint]
	u.steps = append(u.steps, step)
	u.currentPoint = len(u.steps)
	if u.maxSteps > 0 && len(u.steps) > u.maxSteps {
		drop := len(u.steps) - u.maxSteps
		u.steps = append(u.steps[:0], u.steps[drop:]...)
		u.currentPoint = len(u.steps)
	}
}

// Undo moves currentPoint back by one and returns the step that should be
// reverted, or (UndoStep{}, false) if there is nothing to undo. The caller
// is responsible for calling step.Cmd.Revert.
func (u *UndoStack) Undo() (UndoStep, bool) {
	if u.currentPoint == 0 {
		return UndoStep{}, false
	}
	u.currentPoint--
	return u.steps[u.currentPoint], true
}

// Redo moves currentPoint forward by one and returns the step that should
// be re-executed, or (UndoStep{}, false) if there is nothing to redo.
func (u *UndoStack) Redo() (UndoStep, bool) {
	if u.currentPoint >= len(u.steps) {
		return UndoStep{}, false
	}
	step := u.steps[u.currentPoint]
	u.currentPoint++
	return step, true
}

// CanUndo reports whether Undo would succeed.
func (u *UndoStack) CanUndo() bool { return u.currentPoint > 0 }

// CanRedo reports whether Redo would succeed.
func (u *UndoStack) CanRedo() bool { return u.currentPoint < len(u.steps) }

// Clear empties the stack, matching tracker/undo.go's behavior on loading a
// new song.
func (u *UndoStack) Clear() {
	u.steps = nil
	u.currentPoint = 0
}

// Snapshot returns a copy of the stack's recorded steps, each Command
// copied with its own Clone method, so the result does not alias the live
// Command values.
func (u *UndoStack) Snapshot() []UndoStep {
	out := make([]UndoStep, len(u.steps))
	for i, step := range u.steps {
		out[i] = UndoStep{
			Cmd:          step.Cmd.Clone(),
			PositionPre:  step.PositionPre,
			PositionPost: step.PositionPost,
		}
	}
	return out
}

// PushCommand is a convenience wrapper: it clones cmd via cloneValue before
// storing it, so a caller reusing the same Command value across repeated
// Exec calls (e.g. a live-editing UI object) cannot retroactively mutate
// history already pushed onto the stack.
func (u *UndoStack) PushCommand(cmd Command, pre, post [2]int) {
	u.Push(UndoStep{Cmd: cloneValue(cmd), PositionPre: pre, PositionPost: post})
}
