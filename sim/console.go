package sim

// VGA text mode 0x3 constants: an 80x25 cell grid at the legacy color text
// framebuffer address, two bytes per cell (ASCII code plus an attribute
// byte with 4-bit foreground and background colors).
const (
	consoleFBAddr = 0xB8000
	consoleWidth  = 80
	consoleHeight = 25

	// Light gray text on a black background.
	consoleDefaultAttr = 0x07
)

// console models the firmware's teletype output: characters accumulate in a
// transcript for assertions and are mirrored into the text framebuffer
// region of machine memory the way the real service writes cells.
type console struct {
	fb         []byte
	transcript []byte
	x, y       uint32
}

func (c *console) put(ch byte) {
	c.transcript = append(c.transcript, ch)

	switch ch {
	case '\r':
		c.x = 0
	case '\n':
		c.x = 0
		c.y++
		if c.y == consoleHeight {
			c.scroll()
		}
	default:
		if c.y == consoleHeight {
			c.scroll()
		}
		off := consoleFBAddr + 2*(c.y*consoleWidth+c.x)
		c.fb[off] = ch
		c.fb[off+1] = consoleDefaultAttr
		c.x++
		if c.x == consoleWidth {
			c.x = 0
			c.y++
		}
	}
}

// scroll shifts the framebuffer up one row, blanks the bottom row and parks
// the cursor on it.
func (c *console) scroll() {
	const rowBytes = 2 * consoleWidth

	start := uint32(consoleFBAddr)
	copy(c.fb[start:start+(consoleHeight-1)*rowBytes], c.fb[start+rowBytes:start+consoleHeight*rowBytes])

	bottom := c.fb[start+(consoleHeight-1)*rowBytes : start+consoleHeight*rowBytes]
	for i := 0; i < len(bottom); i += 2 {
		bottom[i] = ' '
		bottom[i+1] = consoleDefaultAttr
	}
	c.y = consoleHeight - 1
}
