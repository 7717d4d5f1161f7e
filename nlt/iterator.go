package nlt

import "bytes"

// frame is one level of an Iterator's traversal stack, following the
// "(state, child_cursor, word_length_at_arrival)" description.
type frame struct {
	state       int
	nextChild   int // next not-yet-visited child index within [child0, child0+k)
	appended    int // bytes appended to buf when this frame's state was entered
	idxInParent int // this state's position among its parent's children, -1 for root
}

// Iterator walks a Trie in ascending key order, reusing a single key
// buffer across steps so Incr is amortized O(1) beyond the bytes it must
// append or remove.
type Iterator struct {
	t     *Trie
	stack []frame
	buf   []byte
}

// NewIterator returns an iterator positioned before the first key; call
// SeekBegin, SeekEnd, or SeekLowerBound before reading Key/State.
func (t *Trie) NewIterator() *Iterator { return &Iterator{t: t} }

// Valid reports whether the iterator is positioned on a key.
func (it *Iterator) Valid() bool { return len(it.stack) > 0 }

// Key returns the key at the current position. Valid until the next Incr,
// Decr, or Seek call.
func (it *Iterator) Key() []byte { return it.buf }

// State returns the trie state at the current position, or -1 if invalid.
func (it *Iterator) State() int {
	if len(it.stack) == 0 {
		return -1
	}
	return it.stack[len(it.stack)-1].state
}

func (it *Iterator) pushState(s, appended, idxInParent int) {
	it.stack = append(it.stack, frame{state: s, appended: appended, idxInParent: idxInParent})
}

func (it *Iterator) popFrame() {
	f := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.buf = it.buf[:len(it.buf)-f.appended]
}

func (it *Iterator) descendChild(parentIdx, child0, idx int) {
	c := child0 + idx
	edge := it.t.edgeInto(c)
	it.buf = append(it.buf, edge...)
	it.pushState(c, len(edge), idx)
	_ = parentIdx
}

// SeekBegin positions the iterator at the smallest key.
func (it *Iterator) SeekBegin() bool {
	it.stack = it.stack[:0]
	it.buf = it.buf[:0]
	it.pushState(0, 0, -1)
	return it.descendToLeftmostTerminal()
}

func (it *Iterator) descendToLeftmostTerminal() bool {
	for {
		top := it.stack[len(it.stack)-1]
		if it.t.isTerminal.Is1(top.state) {
			return true
		}
		child0, k := it.t.children(top.state)
		if k == 0 {
			it.popFrame()
			if len(it.stack) == 0 {
				return false
			}
			continue
		}
		it.stack[len(it.stack)-1].nextChild = 1
		it.descendChild(top.state, child0, 0)
	}
}

func (it *Iterator) descendToRightmostTerminal() bool {
	for {
		top := it.stack[len(it.stack)-1]
		child0, k := it.t.children(top.state)
		if k == 0 {
			return it.t.isTerminal.Is1(top.state)
		}
		it.stack[len(it.stack)-1].nextChild = k
		it.descendChild(top.state, child0, k-1)
	}
}

// SeekEnd positions the iterator at the largest key.
func (it *Iterator) SeekEnd() bool {
	it.stack = it.stack[:0]
	it.buf = it.buf[:0]
	it.pushState(0, 0, -1)
	return it.descendToRightmostTerminal()
}

// Incr advances to the next key in ascending order, returning false if the
// iterator runs off the end.
func (it *Iterator) Incr() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		child0, k := it.t.children(top.state)
		if top.nextChild < k {
			idx := top.nextChild
			top.nextChild++
			it.descendChild(top.state, child0, idx)
			return it.descendToLeftmostTerminal()
		}
		it.popFrame()
	}
	return false
}

// Decr moves to the previous key in ascending order, returning false if
// the iterator runs off the beginning.
func (it *Iterator) Decr() bool {
	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		if top.idxInParent > 0 {
			parent := it.stack[len(it.stack)-2]
			child0, _ := it.t.children(parent.state)
			it.popFrame()
			it.descendChild(parent.state, child0, top.idxInParent-1)
			return it.descendToRightmostTerminal()
		}
		it.popFrame()
		if len(it.stack) == 0 {
			return false
		}
		if it.t.isTerminal.Is1(it.stack[len(it.stack)-1].state) {
			return true
		}
	}
	return false
}

// SeekLowerBound positions the iterator at the smallest key >= target,
// returning false if no such key exists. This is the usual
// descend matching target byte by byte; at the first mismatch, advance to
// the next sibling or backtrack.
func (it *Iterator) SeekLowerBound(target []byte) bool {
	it.stack = it.stack[:0]
	it.buf = it.buf[:0]
	it.pushState(0, 0, -1)
	pos := 0
	for {
		top := &it.stack[len(it.stack)-1]
		if pos == len(target) {
			return it.descendToLeftmostTerminal()
		}
		child0, k := it.t.children(top.state)
		if k == 0 {
			it.popFrame()
			if len(it.stack) == 0 {
				return false
			}
			return it.Incr()
		}
		idx, exact := it.t.StateMoveLowerBound(top.state, target[pos])
		if idx < 0 {
			it.popFrame()
			if len(it.stack) == 0 {
				return false
			}
			return it.Incr()
		}
		if !exact {
			top.nextChild = idx - child0 + 1
			it.descendChild(top.state, child0, idx-child0)
			return it.descendToLeftmostTerminal()
		}

		c := idx
		top.nextChild = idx - child0 + 1
		edge := it.t.edgeInto(c)
		rest := target[pos+1:]
		cmpLen := len(edge) - 1
		if cmpLen > len(rest) {
			cmpLen = len(rest)
		}
		cmp := bytes.Compare(edge[1:1+cmpLen], rest[:cmpLen])
		it.buf = append(it.buf, edge...)
		it.pushState(c, len(edge), idx-child0)

		switch {
		case cmp < 0:
			it.popFrame()
			return it.Incr()
		case cmp > 0:
			return it.descendToLeftmostTerminal()
		default:
			if len(edge)-1 > len(rest) {
				return it.descendToLeftmostTerminal()
			}
			pos += len(edge)
		}
	}
}
