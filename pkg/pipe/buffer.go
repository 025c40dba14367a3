// Package pipe provides a wrapper to create a pipe and
// collect at most max bytes from the reader side
package pipe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// Buffer is used to create a writable pipe and keep
// at most Max bytes of what is written to it
type Buffer struct {
	W    *os.File
	Max  int64
	Done <-chan struct{}

	r   *os.File
	buf *bytes.Buffer
}

// NewPipe create a pipe with a goroutine to copy at most n bytes of its
// read-end to writer. Anything after is drained so the writer never blocks
// or gets SIGPIPE. done is closed once every write end is closed.
// caller need to close w, closing r stops the copy early
func NewPipe(writer io.Writer, n int64) (<-chan struct{}, *os.File, *os.File, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, nil, err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer r.Close()
		io.CopyN(writer, r, n)
		io.Copy(io.Discard, r)
	}()
	return done, r, w, nil
}

// NewBuffer creates a os pipe, caller need to close W.
// One byte above max is kept to tell whether the output was truncated.
// Notice: if rely on done for finish, W need be closed in parent process
func NewBuffer(max int64) (*Buffer, error) {
	buf := new(bytes.Buffer)
	done, r, w, err := NewPipe(buf, max+1)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		W:    w,
		r:    r,
		Max:  max,
		Done: done,
		buf:  buf,
	}, nil
}

// Wait blocks until the read side has finished or ctx is done
func (b *Buffer) Wait(ctx context.Context) error {
	select {
	case <-b.Done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops collecting even if some write end is still open, keeping what
// was read so far, and waits for Done.
func (b *Buffer) Close() error {
	err := b.r.Close()
	<-b.Done
	return err
}

// Bytes returns at most Max collected bytes. Only valid after Done.
func (b *Buffer) Bytes() []byte {
	p := b.buf.Bytes()
	if int64(len(p)) > b.Max {
		p = p[:b.Max]
	}
	return append([]byte(nil), p...)
}

// Truncated reports whether more than Max bytes were written. Only valid after Done.
func (b *Buffer) Truncated() bool {
	return int64(b.buf.Len()) > b.Max
}

func (b *Buffer) String() string {
	n := int64(b.buf.Len())
	if n > b.Max {
		n = b.Max
	}
	return fmt.Sprintf("Buffer[%d/%d]", n, b.Max)
}
