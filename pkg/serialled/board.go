// Package serialled drives LED strips attached to a microcontroller over a
// serial line. The firmware speaks a small text handshake and then accepts
// binary animation frames.
package serialled

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/light"
)

// Commands understood by the firmware.
const (
	cmdLeds   = "leds\n"
	cmdManual = "manual\n"
	cmdOff    = "off\n"

	readyToken = "ready"
)

// Options tune the handshake timings.
type Options struct {
	// SettleDelay is how long the board needs after the port opens before
	// it accepts commands.
	SettleDelay time.Duration
	// ConnectTimeout bounds the wait for the LED count reply.
	ConnectTimeout time.Duration
	// ManualInterval is the gap between "manual" writes.
	ManualInterval time.Duration
	// HandshakeTimeout bounds the wait for "ready". Zero waits forever.
	HandshakeTimeout time.Duration
	PingTimeout      time.Duration
}

// DefaultOptions returns the timings used in production.
func DefaultOptions() Options {
	return Options{
		SettleDelay:      2500 * time.Millisecond,
		ConnectTimeout:   60 * time.Second,
		ManualInterval:   500 * time.Millisecond,
		HandshakeTimeout: 10 * time.Second,
		PingTimeout:      time.Second,
	}
}

// Board is a connected LED microcontroller.
type Board struct {
	conn io.ReadWriteCloser
	name string
	opts Options
	leds int

	writeMu sync.Mutex

	subMu   sync.Mutex
	subs    map[uint64]chan []byte
	nextSub uint64

	stopChan chan struct{}
	stopOnce sync.Once
}

func newBoard(conn io.ReadWriteCloser, name string, opts Options) *Board {
	return &Board{
		conn:     conn,
		name:     name,
		opts:     opts,
		subs:     make(map[uint64]chan []byte),
		stopChan: make(chan struct{}),
	}
}

// Connect runs the LED count handshake on conn. On failure conn is closed.
func Connect(ctx context.Context, conn io.ReadWriteCloser, name string, opts Options) (*Board, error) {
	b := newBoard(conn, name, opts)
	chunks, unsubscribe := b.subscribe()
	defer unsubscribe()

	go b.readLoop()

	deadline := time.NewTimer(opts.ConnectTimeout)
	defer deadline.Stop()
	settle := time.NewTimer(opts.SettleDelay)
	defer settle.Stop()

	var pending []byte
	for {
		select {
		case <-settle.C:
			if err := b.write(cmdLeds); err != nil {
				_ = b.Close()
				return nil, err
			}
		case chunk := <-chunks:
			pending = append(pending, chunk...)
			for {
				i := bytes.IndexByte(pending, '\n')
				if i < 0 {
					break
				}
				line := strings.TrimSpace(string(pending[:i]))
				pending = pending[i+1:]
				if n, err := strconv.Atoi(line); err == nil && n > 0 {
					b.leds = n
					log.Info().Str("board", name).Int("leds", n).Msg("LED board connected")
					return b, nil
				}
				log.Debug().Str("board", name).Str("line", line).Msg("Ignoring line before LED count")
			}
		case <-deadline.C:
			_ = b.Close()
			return nil, fmt.Errorf("%w: %s did not report its LED count within %v", light.ErrProtocolTimeout, name, opts.ConnectTimeout)
		case <-b.stopChan:
			return nil, fmt.Errorf("%w: %s closed during handshake", light.ErrConnectionUnavailable, name)
		case <-ctx.Done():
			_ = b.Close()
			return nil, ctx.Err()
		}
	}
}

// Name is the board's device name.
func (b *Board) Name() string { return b.name }

// NumLeds is the LED count reported at connect.
func (b *Board) NumLeds() int { return b.leds }

// SendFrame waits for the firmware to accept a frame and writes it once.
// Until "ready" is seen, "manual" is written every ManualInterval.
func (b *Board) SendFrame(ctx context.Context, frame []byte) error {
	chunks, unsubscribe := b.subscribe()
	defer unsubscribe()

	manual := time.NewTicker(b.opts.ManualInterval)
	defer manual.Stop()

	var timeout <-chan time.Time
	if b.opts.HandshakeTimeout > 0 {
		t := time.NewTimer(b.opts.HandshakeTimeout)
		defer t.Stop()
		timeout = t.C
	}

	// "ready" can arrive split over reads; keep enough of the previous
	// chunk to match across the boundary.
	var tail []byte
	for {
		select {
		case chunk := <-chunks:
			window := append(tail, chunk...)
			if bytes.Contains(window, []byte(readyToken)) {
				if err := b.writeBytes(frame); err != nil {
					return err
				}
				log.Debug().Str("board", b.name).Int("bytes", len(frame)).Msg("<- frame")
				return nil
			}
			if keep := len(readyToken) - 1; len(window) > keep {
				window = window[len(window)-keep:]
			}
			tail = append([]byte(nil), window...)
		case <-manual.C:
			if err := b.write(cmdManual); err != nil {
				return err
			}
		case <-timeout:
			return fmt.Errorf("%w: %s never reported ready within %v", light.ErrHandshakeTimeout, b.name, b.opts.HandshakeTimeout)
		case <-b.stopChan:
			return fmt.Errorf("%w: %s closed", light.ErrTransport, b.name)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Off blanks the strip.
func (b *Board) Off() error {
	return b.write(cmdOff)
}

// Ping asks for the LED count again and reports whether anything answered.
func (b *Board) Ping(ctx context.Context) bool {
	chunks, unsubscribe := b.subscribe()
	defer unsubscribe()

	if err := b.write(cmdLeds); err != nil {
		return false
	}

	t := time.NewTimer(b.opts.PingTimeout)
	defer t.Stop()
	select {
	case <-chunks:
		return true
	case <-t.C:
	case <-b.stopChan:
	case <-ctx.Done():
	}
	return false
}

// Close stops the reader and closes the line.
func (b *Board) Close() error {
	var err error
	b.stopOnce.Do(func() {
		close(b.stopChan)
		err = b.conn.Close()
	})
	return err
}

func (b *Board) write(cmd string) error {
	log.Debug().Str("board", b.name).Str("cmd", strings.TrimSpace(cmd)).Msg("<-")
	return b.writeBytes([]byte(cmd))
}

func (b *Board) writeBytes(data []byte) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if _, err := b.conn.Write(data); err != nil {
		return fmt.Errorf("%w: write to %s: %v", light.ErrTransport, b.name, err)
	}
	return nil
}

func (b *Board) subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, 16)
	b.subMu.Lock()
	b.nextSub++
	id := b.nextSub
	b.subs[id] = ch
	b.subMu.Unlock()
	return ch, func() {
		b.subMu.Lock()
		delete(b.subs, id)
		b.subMu.Unlock()
	}
}

func (b *Board) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := b.conn.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			log.Debug().Str("board", b.name).Str("data", strings.TrimSpace(string(chunk))).Msg("->")
			b.dispatch(chunk)
		}
		if err != nil {
			select {
			case <-b.stopChan:
			default:
				log.Error().Err(err).Str("board", b.name).Msg("Serial read failed, closing board")
				_ = b.Close()
			}
			return
		}
	}
}

func (b *Board) dispatch(chunk []byte) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- chunk:
		default:
			log.Warn().Str("board", b.name).Msg("Dropping serial data for slow reader")
		}
	}
}
