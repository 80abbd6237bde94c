package magichome

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/color"
	"github.com/urmzd/ledhub/pkg/effect/catalog"
	"github.com/urmzd/ledhub/pkg/light"
)

// Controller is the command set of one controller.
type Controller interface {
	QueryState(ctx context.Context) (State, error)
	SetPower(ctx context.Context, on bool) error
	SetColor(ctx context.Context, c color.Color) error
	SetPattern(ctx context.Context, code byte, speed int) error
	SetCustomPattern(ctx context.Context, colors []color.Color, speed int, t catalog.Transition) error
}

// Control talks to a controller over TCP, one connection per command.
type Control struct {
	address string
	timeout time.Duration
}

var _ Controller = (*Control)(nil)

// NewControl creates a Control for host. A zero port means DefaultPort.
func NewControl(host string, port int, timeout time.Duration) *Control {
	if port == 0 {
		port = DefaultPort
	}
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	return &Control{
		address: net.JoinHostPort(host, strconv.Itoa(port)),
		timeout: timeout,
	}
}

func (c *Control) QueryState(ctx context.Context) (State, error) {
	reply, err := c.send(ctx, queryCommand(), stateReplyLen)
	if err != nil {
		return State{}, err
	}
	s, err := parseState(reply)
	if err != nil {
		return State{}, fmt.Errorf("%w: %s: %v", light.ErrTransport, c.address, err)
	}
	return s, nil
}

func (c *Control) SetPower(ctx context.Context, on bool) error {
	_, err := c.send(ctx, powerCommand(on), 0)
	return err
}

// SetColor shows c as is; brightness must already be applied.
func (c *Control) SetColor(ctx context.Context, col color.Color) error {
	_, err := c.send(ctx, colorCommand(col), 0)
	return err
}

func (c *Control) SetPattern(ctx context.Context, code byte, speed int) error {
	_, err := c.send(ctx, patternCommand(code, speed), 0)
	return err
}

func (c *Control) SetCustomPattern(ctx context.Context, colors []color.Color, speed int, t catalog.Transition) error {
	cmd, err := customCommand(colors, speed, t)
	if err != nil {
		return fmt.Errorf("%w: %v", light.ErrValidation, err)
	}
	_, err = c.send(ctx, cmd, 0)
	return err
}

func (c *Control) send(ctx context.Context, cmd []byte, replyLen int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", light.ErrTransport, c.address, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	log.Debug().Str("controller", c.address).Hex("cmd", cmd).Msg("<-")
	if _, err := conn.Write(cmd); err != nil {
		return nil, fmt.Errorf("%w: write %s: %v", light.ErrTransport, c.address, err)
	}
	if replyLen == 0 {
		return nil, nil
	}

	reply := make([]byte, replyLen)
	if _, err := io.ReadFull(conn, reply); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", light.ErrTransport, c.address, err)
	}
	log.Debug().Str("controller", c.address).Hex("reply", reply).Msg("->")
	return reply, nil
}
