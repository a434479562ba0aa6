package gopipe

import (
	"io"
	"sync"

	"github.com/joeycumines/goconc/channel"
)

// onceError records the first error Stored into it; later Stores are
// ignored, same as the first non-nil error on a pipe side sticking.
type onceError struct {
	mu  sync.Mutex
	err error
}

func (o *onceError) store(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err == nil {
		o.err = err
	}
}

func (o *onceError) load() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

type pipe struct {
	wrMu sync.Mutex
	wrCh *channel.Chan[[]byte]
	rdCh *channel.Chan[int]

	closeOnce sync.Once
	done      *channel.Chan[struct{}]

	rdErr onceError
	wrErr onceError
}

// Pipe returns a connected pair: bytes written to the writer are made
// available, in order, to the reader. It is synchronous: each Write call
// blocks until all the data has been consumed by Read calls, or either
// end is closed.
func Pipe() (*PipeReader, *PipeWriter) {
	p := &pipe{
		wrCh: channel.NewChan[[]byte](0),
		rdCh: channel.NewChan[int](0),
		done: channel.NewChan[struct{}](0),
	}
	return &PipeReader{p: p}, &PipeWriter{p: p}
}

func (p *pipe) read(b []byte) (int, error) {
	var d channel.RecvSlot[struct{}]
	if idx := channel.Select(channel.RecvCase(p.done, &d), channel.DefaultCase()); idx == 0 {
		return 0, p.readCloseError()
	}

	var wr channel.RecvSlot[[]byte]
	var dn channel.RecvSlot[struct{}]
	switch channel.Select(channel.RecvCase(p.wrCh, &wr), channel.RecvCase(p.done, &dn)) {
	case 0:
		nr := copy(b, wr.Value)
		p.rdCh.Send(nr)
		return nr, nil
	default:
		return 0, p.readCloseError()
	}
}

func (p *pipe) closeRead(err error) error {
	if err == nil {
		err = io.ErrClosedPipe
	}
	p.rdErr.store(err)
	p.closeOnce.Do(func() { p.done.Close() })
	return nil
}

func (p *pipe) write(b []byte) (int, error) {
	var d channel.RecvSlot[struct{}]
	if idx := channel.Select(channel.RecvCase(p.done, &d), channel.DefaultCase()); idx == 0 {
		return 0, p.writeCloseError()
	}

	p.wrMu.Lock()
	defer p.wrMu.Unlock()

	n := 0
	for once := true; once || len(b) > 0; once = false {
		var dn channel.RecvSlot[struct{}]
		switch channel.Select(channel.SendCase(p.wrCh, b), channel.RecvCase(p.done, &dn)) {
		case 0:
			nw, _ := p.rdCh.Recv()
			b = b[nw:]
			n += nw
		case 1:
			return n, p.writeCloseError()
		}
	}
	return n, nil
}

func (p *pipe) closeWrite(err error) error {
	if err == nil {
		err = io.EOF
	}
	p.wrErr.store(err)
	p.closeOnce.Do(func() { p.done.Close() })
	return nil
}

func (p *pipe) readCloseError() error {
	rdErr := p.rdErr.load()
	if wrErr := p.wrErr.load(); rdErr == nil && wrErr != nil {
		return wrErr
	}
	return io.ErrClosedPipe
}

func (p *pipe) writeCloseError() error {
	wrErr := p.wrErr.load()
	if rdErr := p.rdErr.load(); wrErr == nil && rdErr != nil {
		return rdErr
	}
	return io.ErrClosedPipe
}

// PipeReader is the read half of a Pipe.
type PipeReader struct{ p *pipe }

func (r *PipeReader) Read(b []byte) (int, error) { return r.p.read(b) }

// Close closes the reader, signaling the writer that no more data will
// be consumed. Subsequent writes return ErrClosedPipe.
func (r *PipeReader) Close() error { return r.CloseWithError(nil) }

// CloseWithError closes the reader; subsequent writes return err, or
// io.ErrClosedPipe if err is nil.
func (r *PipeReader) CloseWithError(err error) error { return r.p.closeRead(err) }

// PipeWriter is the write half of a Pipe.
type PipeWriter struct{ p *pipe }

func (w *PipeWriter) Write(b []byte) (int, error) { return w.p.write(b) }

// Close closes the writer, delivering io.EOF to any blocked or future
// Read call.
func (w *PipeWriter) Close() error { return w.CloseWithError(nil) }

// CloseWithError closes the writer; subsequent reads return err, or
// io.EOF if err is nil.
func (w *PipeWriter) CloseWithError(err error) error { return w.p.closeWrite(err) }
