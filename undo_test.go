package ember

import "testing"

func TestUndoStackPushUndoRedo(t *testing.T) {
	song := NewSong()
	stack := NewUndoStack(256)

	cmd1 := &OrderAdd{DuplicateFrom: -1, Where: 0}
	cmd1.Exec(song, OriginLocal)
	stack.Push(UndoStep{Cmd: cmd1})

	cmd2 := &OrderAdd{DuplicateFrom: -1, Where: 1}
	cmd2.Exec(song, OriginLocal)
	stack.Push(UndoStep{Cmd: cmd2})

	if !stack.CanUndo() {
		t.Fatalf("expected CanUndo")
	}
	step, ok := stack.Undo()
	if !ok {
		t.Fatalf("expected Undo to succeed")
	}
	step.Cmd.Revert(song, OriginLocal)

	if !stack.CanRedo() {
		t.Fatalf("expected CanRedo after one Undo")
	}
	step, ok = stack.Redo()
	if !ok {
		t.Fatalf("expected Redo to succeed")
	}
	step.Cmd.Exec(song, OriginLocal)

	if stack.CanRedo() {
		t.Fatalf("expected no further redo available")
	}
}

func TestUndoStackPushTruncatesRedoTail(t *testing.T) {
	stack := NewUndoStack(256)
	song := NewSong()

	a := &OrderAdd{Where: 0}
	a.Exec(song, OriginLocal)
	stack.Push(UndoStep{Cmd: a})

	b := &OrderAdd{Where: 1}
	b.Exec(song, OriginLocal)
	stack.Push(UndoStep{Cmd: b})

	stack.Undo() // currentPoint now points at b

	c := &OrderAdd{Where: 2}
	c.Exec(song, OriginLocal)
	stack.Push(UndoStep{Cmd: c}) // should discard b from the redo tail

	if stack.CanRedo() {
		t.Fatalf("expected redo tail discarded after pushing a new step post-undo")
	}
	if len(stack.steps) != 2 {
		t.Fatalf("expected 2 steps after truncation, got %d", len(stack.steps))
	}
}

func TestUndoStackBounded(t *testing.T) {
	stack := NewUndoStack(3)
	song := NewSong()

	for i := 0; i < 5; i++ {
		cmd := &OrderAdd{Where: 0}
		cmd.Exec(song, OriginLocal)
		stack.Push(UndoStep{Cmd: cmd})
	}

	if len(stack.steps) != 3 {
		t.Fatalf("expected bounded stack to hold 3 steps, got %d", len(stack.steps))
	}
}

func TestPushCommandClonesAgainstMutation(t *testing.T) {
	stack := NewUndoStack(256)
	cmd := &OrderAdd{Where: 5}
	stack.PushCommand(cmd, [2]int{0, 0}, [2]int{0, 5})

	cmd.Where = 99 // mutate the original after pushing

	step, ok := stack.Undo()
	if !ok {
		t.Fatalf("expected Undo to succeed")
	}
	pushed := step.Cmd.(*OrderAdd)
	if pushed.Where != 5 {
		t.Fatalf("expected the pushed clone to be unaffected by later mutation of the original, got Where=%d", pushed.Where)
	}
}
