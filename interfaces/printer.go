package interfaces

// Printer defines an interface for printing messages
type Printer interface {
	// Print formats and prints a message
	Print(format string, args ...interface{})
	// Section starts a new titled block of output
	Section(title string)
	// Reset resets the printer state
	Reset()
}
