package ember

// OrderAdd inserts a new order row, optionally duplicating an existing
// row's pattern assignments. Grounded on original_source's
// CommandAddOrder (edit_action.h/.cpp). This package keeps no cursor, so
// Exec and Revert do not consult origin.
type OrderAdd struct {
	DuplicateFrom int // -1 for none
	Where         int
	Depth         CloneDepth

	// revert data
	didInsert bool
}

func (c *OrderAdd) Exec(song *Song, origin Origin) bool {
	c.didInsert = song.AddOrder(c.DuplicateFrom, c.Where)
	if !c.didInsert {
		return false
	}
	if c.Depth == CloneDeep && c.DuplicateFrom >= 0 {
		for ch := 0; ch < MaxChannels; ch++ {
			src := song.Orders[ch][c.Where]
			if src == EmptyOrder {
				continue
			}
			if p := song.Pattern(ch, src, false); p != nil {
				clone := song.Pattern(ch, src, true)
				*clone = *p.Copy()
			}
		}
	}
	song.WalkSong()
	return true
}

func (c *OrderAdd) Revert(song *Song, origin Origin) {
	if !c.didInsert {
		return
	}
	song.DeleteOrder(c.Where)
	song.WalkSong()
}

func (c *OrderAdd) Clone() Command    { cp := *c; return &cp }
func (c *OrderAdd) Kind() CommandKind { return KindOrderAdd }
func (c *OrderAdd) Serialize() Envelope { return serializeCommand(c.Kind(), c) }

// OrderDelete removes one order row on every channel. Revert re-inserts the
// row at the same position, duplicating what was there (CommandDeleteOrder's
// revert in the original re-runs addOrder with the saved contents).
type OrderDelete struct {
	Which int

	didDelete  bool
	savedCells [MaxChannels]int
}

func (c *OrderDelete) Exec(song *Song, origin Origin) bool {
	if !inRangeOrder(c.Which) {
		return false
	}
	for ch := 0; ch < MaxChannels; ch++ {
		c.savedCells[ch] = song.Orders[ch][c.Which]
	}
	c.didDelete = song.DeleteOrder(c.Which)
	if c.didDelete {
		song.WalkSong()
	}
	return c.didDelete
}

func (c *OrderDelete) Revert(song *Song, origin Origin) {
	if !c.didDelete {
		return
	}
	song.AddOrder(-1, c.Which)
	for ch := 0; ch < MaxChannels; ch++ {
		song.Orders[ch][c.Which] = c.savedCells[ch]
	}
	song.WalkSong()
}

func (c *OrderDelete) Clone() Command    { cp := *c; return &cp }
func (c *OrderDelete) Kind() CommandKind { return KindOrderDelete }
func (c *OrderDelete) Serialize() Envelope { return serializeCommand(c.Kind(), c) }

// OrderSwap exchanges two order rows on every channel. Per the original's
// CommandSwapOrders::revert, which simply calls exec again, swap is its own
// inverse, including the degenerate a == b case: that still reports
// modified = true even though no cell value actually changed, matching the
// original's "I did something" semantics rather than a byte-diff.
type OrderSwap struct {
	A, B int
}

func (c *OrderSwap) Exec(song *Song, origin Origin) bool {
	if !song.SwapOrders(c.A, c.B) {
		return false
	}
	song.WalkSong()
	return true
}

func (c *OrderSwap) Revert(song *Song, origin Origin) {
	song.SwapOrders(c.A, c.B)
	song.WalkSong()
}

func (c *OrderSwap) Clone() Command    { cp := *c; return &cp }
func (c *OrderSwap) Kind() CommandKind { return KindOrderSwap }
func (c *OrderSwap) Serialize() Envelope { return serializeCommand(c.Kind(), c) }

// OrderSet writes a batch of orders-grid cells in one command. It carries
// the original's documented wart: cells are applied in order, and the first
// out-of-range cell stops the whole batch without rolling back cells already
// written — Exec reports modified = true iff at least one cell changed
// before the (possible) early stop. Revert only restores the cells that were
// actually recorded, which are exactly the ones that changed.
type OrderSet struct {
	NewPatterns []OrderPattern

	reverts []orderCellRevert
}

type orderCellRevert struct {
	cell OrderPattern
	prev int
}

func (c *OrderSet) Exec(song *Song, origin Origin) bool {
	c.reverts = c.reverts[:0]
	modified := false
	for _, cell := range c.NewPatterns {
		if !inRangeChannel(cell.Channel) || !inRangeOrder(cell.Order) || !inRangePattern(cell.Pattern) {
			break
		}
		prev := song.Orders[cell.Channel][cell.Order]
		if !song.SetOrderCell(cell.Channel, cell.Order, cell.Pattern) {
			continue
		}
		c.reverts = append(c.reverts, orderCellRevert{cell: cell, prev: prev})
		modified = true
	}
	if modified {
		song.WalkSong()
	}
	return modified
}

func (c *OrderSet) Revert(song *Song, origin Origin) {
	if len(c.reverts) == 0 {
		return
	}
	for i := len(c.reverts) - 1; i >= 0; i-- {
		r := c.reverts[i]
		song.Orders[r.cell.Channel][r.cell.Order] = r.prev
	}
	song.WalkSong()
}

func (c *OrderSet) Clone() Command {
	cp := &OrderSet{
		NewPatterns: append([]OrderPattern(nil), c.NewPatterns...),
		reverts:     append([]orderCellRevert(nil), c.reverts...),
	}
	return cp
}
func (c *OrderSet) Kind() CommandKind   { return KindOrderSet }
func (c *OrderSet) Serialize() Envelope { return serializeCommand(c.Kind(), c) }
