package pool

import "fmt"

// Handle identifies a slot in a Pool. The zero Handle is invalid.
type Handle struct {
	block uint32 // 1-based slab index
	slot  uint32
	gen   uint32 // issue stamp, tells a reused slot from its previous owner
}

// Nil is the invalid handle.
var Nil Handle

// IsNil reports whether h is the invalid handle.
func (h Handle) IsNil() bool {
	return h.block == 0
}

func (h Handle) String() string {
	if h.IsNil() {
		return "pool.Handle(nil)"
	}
	return fmt.Sprintf("pool.Handle(%d:%d#%d)", h.block-1, h.slot, h.gen)
}
