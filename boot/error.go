package boot

// Error describes a boot-stage error. All boot-stage errors must be defined
// as global variables that are pointers to the Error structure. No allocator
// is available on the real boot path so errors cannot be built with
// errors.New at the point where they occur.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
