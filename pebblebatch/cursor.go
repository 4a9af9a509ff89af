package pebblebatch

import (
	"bytes"

	"github.com/dacapoday/trace"
	"github.com/dacapoday/trace/borrow"
	"github.com/dacapoday/trace/cursor"
)

// Cursor navigates one Batch. It holds the decoded current key and val
// and a Pebble iterator that is repositioned by every move.
//
// A read or decode failure exhausts the cursor; Error reports it. Merges
// therefore treat a failing constituent as exhausted.
type Cursor struct {
	iter     pebbleIter
	key, val []byte
	keyValid bool
	valValid bool
	err      error
}

// pebbleIter is the part of *pebble.Iterator the cursor uses.
type pebbleIter interface {
	SeekGE(key []byte) bool
	Next() bool
	Valid() bool
	Key() []byte
	ValueAndErr() ([]byte, error)
	Error() error
	Close() error
}

var _ cursor.Cursor[*Batch, borrow.View, borrow.View, uint64, int64] = (*Cursor)(nil)

// Error returns the failure that exhausted the cursor, if any.
func (c *Cursor) Error() error {
	return c.err
}

// Close releases the iterator. The cursor is exhausted afterwards.
func (c *Cursor) Close() error {
	c.keyValid, c.valValid = false, false
	if c.iter == nil {
		return nil
	}
	err := c.iter.Close()
	c.iter = nil
	return err
}

// KeyValid reports whether the cursor is positioned at a key.
func (c *Cursor) KeyValid(*Batch) bool {
	return c.keyValid
}

// ValValid reports whether the cursor is positioned at a val of the current key.
func (c *Cursor) ValValid(*Batch) bool {
	return c.valValid
}

// Key returns the current key. The view stays valid after the cursor moves.
func (c *Cursor) Key(*Batch) borrow.View {
	if !c.keyValid {
		panic(trace.ErrInvalidKey)
	}
	return c.key
}

// Val returns the current val. The view stays valid after the cursor moves.
func (c *Cursor) Val(*Batch) borrow.View {
	if !c.valValid {
		panic(trace.ErrInvalidVal)
	}
	return c.val
}

// GetKey returns the current key, or false if there is none.
func (c *Cursor) GetKey(*Batch) (borrow.View, bool) {
	if !c.keyValid {
		return nil, false
	}
	return c.key, true
}

// GetVal returns the current val, or false if there is none.
func (c *Cursor) GetVal(*Batch) (borrow.View, bool) {
	if !c.valValid {
		return nil, false
	}
	return c.val, true
}

// MapTimes visits updates in (time, append order) order.
func (c *Cursor) MapTimes(batch *Batch, visit func(uint64, int64)) {
	if !c.valValid {
		return
	}
	group := groupKey(batch.prefix, c.key, c.val)
	for valid := c.iter.SeekGE(group); valid; valid = c.iter.Next() {
		k := c.iter.Key()
		if !bytes.HasPrefix(k, group) {
			break
		}
		time, err := decodeTime(k, len(group))
		if err != nil {
			c.fail(err)
			return
		}
		v, err := c.iter.ValueAndErr()
		if err != nil {
			c.fail(err)
			return
		}
		diff, err := decodeDiff(v)
		if err != nil {
			c.fail(err)
			return
		}
		visit(time, diff)
	}
	if err := c.iter.Error(); err != nil {
		c.fail(err)
	}
}

// StepKey advances to the next key.
func (c *Cursor) StepKey(batch *Batch) {
	if !c.keyValid {
		return
	}
	c.loadKey(batch, c.iter.SeekGE(successor(groupKey(batch.prefix, c.key))))
}

// SeekKey advances to the first key >= key.
func (c *Cursor) SeekKey(batch *Batch, key borrow.View) {
	if !c.keyValid || key.Compare(c.key) <= 0 {
		return
	}
	c.loadKey(batch, c.iter.SeekGE(groupKey(batch.prefix, key)))
}

// StepVal advances to the next val of the current key.
func (c *Cursor) StepVal(batch *Batch) {
	if !c.valValid {
		return
	}
	c.loadVal(batch, c.iter.SeekGE(successor(groupKey(batch.prefix, c.key, c.val))))
}

// SeekVal advances to the first val >= val of the current key.
func (c *Cursor) SeekVal(batch *Batch, val borrow.View) {
	if !c.valValid || val.Compare(c.val) <= 0 {
		return
	}
	c.loadVal(batch, c.iter.SeekGE(groupKey(batch.prefix, c.key, val)))
}

// RewindKeys moves to the first key.
func (c *Cursor) RewindKeys(batch *Batch) {
	if c.iter == nil || c.err != nil {
		return
	}
	c.loadKey(batch, c.iter.SeekGE(batch.prefix))
}

// RewindVals moves to the first val of the current key.
func (c *Cursor) RewindVals(batch *Batch) {
	if !c.keyValid {
		return
	}
	c.loadVal(batch, c.iter.SeekGE(groupKey(batch.prefix, c.key)))
}

// loadKey adopts the entry under the iterator as the current key and val.
func (c *Cursor) loadKey(batch *Batch, valid bool) {
	if !valid {
		c.exhaust()
		return
	}
	key, val, _, err := decodeEntry(c.iter.Key(), len(batch.prefix))
	if err != nil {
		c.fail(err)
		return
	}
	c.key, c.val = key, val
	c.keyValid, c.valValid = true, true
}

// loadVal adopts the entry under the iterator as the current val if it
// still belongs to the current key.
func (c *Cursor) loadVal(batch *Batch, valid bool) {
	if !valid {
		c.valValid = false
		c.err = c.iter.Error()
		if c.err != nil {
			c.keyValid = false
		}
		return
	}
	key, val, _, err := decodeEntry(c.iter.Key(), len(batch.prefix))
	if err != nil {
		c.fail(err)
		return
	}
	if !bytes.Equal(key, c.key) {
		c.valValid = false
		return
	}
	c.val, c.valValid = val, true
}

func (c *Cursor) exhaust() {
	c.keyValid, c.valValid = false, false
	c.err = c.iter.Error()
}

func (c *Cursor) fail(err error) {
	c.keyValid, c.valValid = false, false
	c.err = err
}
