// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package coop

// ownedKey is a stable handle into ownedTasks. The generation makes keys of
// removed entries inert.
type ownedKey struct {
	index uint32
	gen   uint32
}

type ownedSlot struct {
	task *header
	gen  uint32
}

// ownedTasks is the set of live tasks bound to a scheduler: a generational
// slab with O(1) insert and remove. Only the scheduler goroutine touches it.
type ownedTasks struct {
	slots []ownedSlot
	free  []uint32
	n     int
}

func (o *ownedTasks) insert(t *header) ownedKey {
	var idx uint32
	if k := len(o.free); k > 0 {
		idx = o.free[k-1]
		o.free = o.free[:k-1]
	} else {
		idx = uint32(len(o.slots))
		o.slots = append(o.slots, ownedSlot{})
	}
	s := &o.slots[idx]
	s.task = t
	o.n++
	return ownedKey{index: idx, gen: s.gen}
}

// remove reports whether k was live.
func (o *ownedTasks) remove(k ownedKey) bool {
	if int(k.index) >= len(o.slots) {
		return false
	}
	s := &o.slots[k.index]
	if s.task == nil || s.gen != k.gen {
		return false
	}
	s.task = nil
	s.gen++
	o.free = append(o.free, k.index)
	o.n--
	return true
}

func (o *ownedTasks) len() int { return o.n }

// each calls f for every live task. f may remove entries.
func (o *ownedTasks) each(f func(t *header)) {
	for i := range o.slots {
		if t := o.slots[i].task; t != nil {
			f(t)
		}
	}
}
