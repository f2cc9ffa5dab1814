package domain

// Command is one out-of-process toolchain invocation. Exit code and captured
// output are the whole downstream contract; there is no wire protocol.
type Command struct {
	Argv []string          // program and arguments; never empty
	Dir  string            // working directory; empty means inherit
	Env  map[string]string // appended to the inherited environment
}
