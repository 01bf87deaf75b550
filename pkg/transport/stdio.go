package transport

import "os"

// StdioSession builds a single session over the process's standard input
// and output. The caller should keep its own logging off stdout once the
// session is live; the stream belongs to the protocol.
func StdioSession(opts ...Option) *Session {
	return NewSession(os.Stdin, os.Stdout, opts...)
}

// FdSession builds a session over the given input and output file
// descriptors, for hosts that hand the adapter a pipe pair other than
// stdin/stdout.
func FdSession(ifd, ofd int, opts ...Option) *Session {
	in := os.NewFile(uintptr(ifd), "wire-input")
	out := os.NewFile(uintptr(ofd), "wire-output")
	return NewSession(in, out, opts...)
}
