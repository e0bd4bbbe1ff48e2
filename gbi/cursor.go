package gbi

// Cursor reads commands sequentially from a display list.
// All reads are bounds-checked by the underlying Memory.
type Cursor struct {
	mem  Memory
	addr uint32
}

// NewCursor returns a cursor positioned at the physical address addr.
func NewCursor(mem Memory, addr uint32) *Cursor {
	return &Cursor{mem: mem, addr: addr}
}

// Addr returns the physical address of the next command.
func (c *Cursor) Addr() uint32 { return c.addr }

// Seek moves the cursor to a physical address.
func (c *Cursor) Seek(addr uint32) { c.addr = addr }

// Memory returns the memory the cursor reads from.
func (c *Cursor) Memory() Memory { return c.mem }

// Next reads the command at the cursor and advances past it.
func (c *Cursor) Next() (Command, error) {
	cmd, err := c.Peek()
	if err != nil {
		return Command{}, err
	}
	c.addr += CommandSize
	return cmd, nil
}

// Peek reads the command at the cursor without advancing.
func (c *Cursor) Peek() (Command, error) {
	b, err := c.mem.Read(c.addr, CommandSize)
	if err != nil {
		return Command{}, err
	}
	order := c.mem.ByteOrder()
	return Command{W0: order.Uint32(b[0:4]), W1: order.Uint32(b[4:8])}, nil
}
