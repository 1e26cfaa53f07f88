// Package iocli abstracts terminal input and output for commands.
package iocli

//go:generate moq -out io_mock.go . IO

// IO is what commands print to and read from
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadAll() (string, error)
	IsTerminal() bool
	Write(p []byte) (n int, err error)
}
