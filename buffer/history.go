package buffer

// historyState is the operation log: ops[:next] are applied and
// ops[next:] are available for redo.
type historyState struct {
	ops  []Op
	next int
}

func (b *Buffer) recordOp(op Op) {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	b.hist.ops = append(b.hist.ops[:b.hist.next], op)
	if len(b.hist.ops) > limit {
		b.hist.ops = append([]Op(nil), b.hist.ops[len(b.hist.ops)-limit:]...)
	}
	b.hist.next = len(b.hist.ops)
}

func (b *Buffer) CanUndo() bool { return b.hist.next > 0 }

func (b *Buffer) CanRedo() bool { return b.hist.next < len(b.hist.ops) }

// Undo reverts the most recent applied operation. It reports false, without
// effect, when there is nothing to undo.
func (b *Buffer) Undo() bool {
	if !b.CanUndo() {
		return false
	}
	b.begin("undo")
	defer b.end()

	op := b.hist.ops[b.hist.next-1]
	b.hist.next--
	b.step(op, ChangeSourceUndo, op.after, op.before, op.cursorBefore, op.selBefore, op.RangeAfter, op.Range)
	return true
}

// Redo re-applies the most recently undone operation. It reports false,
// without effect, when there is nothing to redo.
func (b *Buffer) Redo() bool {
	if !b.CanRedo() {
		return false
	}
	b.begin("redo")
	defer b.end()

	op := b.hist.ops[b.hist.next]
	b.hist.next++
	b.step(op, ChangeSourceRedo, op.before, op.after, op.cursorAfter, op.selAfter, op.Range, op.RangeAfter)
	return true
}

func (b *Buffer) step(op Op, src ChangeSource, from, to []line, cursor Pos, sel selectionState, rangeBefore, rangeAfter Range) {
	change := Change{
		Source:        src,
		Op:            op,
		VersionBefore: b.version,
		RangeBefore:   rangeBefore,
		RangeAfter:    rangeAfter,
		FirstLine:     op.firstLine,
		OldLineCount:  len(from),
		NewLineCount:  len(to),
		TextChanged:   op.Kind.EditsText(),
		CursorBefore:  b.cursor,
	}

	b.replaceLines(op.firstLine, len(from), cloneLines(to))
	b.cursor = b.clampPos(cursor)
	b.sel = b.clampSelection(sel)
	b.version++
	if change.TextChanged {
		b.textVersion++
	}

	change.VersionAfter = b.version
	change.CursorAfter = b.cursor
	b.publish(change)
	b.emitCursor()
}

func (b *Buffer) clampSelection(s selectionState) selectionState {
	if !s.active {
		return selectionState{}
	}
	anchor := b.clampPos(s.anchor)
	end := b.clampPos(s.end)
	if anchor == end {
		return selectionState{}
	}
	return selectionState{active: true, anchor: anchor, end: end}
}
