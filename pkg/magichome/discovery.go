package magichome

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/ledhub/pkg/light"
)

const (
	discoveryMessage = "HF-A11ASSISTHREAD"
	// DefaultBroadcast is where controllers listen for discovery.
	DefaultBroadcast = "255.255.255.255:48899"
)

// Found is a controller that answered a discovery broadcast.
type Found struct {
	Address string `json:"address"`
	ID      string `json:"id"`
	Model   string `json:"model"`
}

// Discoverer broadcasts discovery requests.
type Discoverer struct {
	// Target is the broadcast address, DefaultBroadcast when empty.
	Target string
}

// Scan broadcasts once and collects replies until timeout. Controllers
// that answer more than once are reported once.
func (d Discoverer) Scan(ctx context.Context, timeout time.Duration) ([]Found, error) {
	target := d.Target
	if target == "" {
		target = DefaultBroadcast
	}
	addr, err := net.ResolveUDPAddr("udp4", target)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", target, err)
	}

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("%w: listen for discovery: %v", light.ErrConnectionUnavailable, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	// Unblock the read when ctx ends early.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := conn.WriteTo([]byte(discoveryMessage), addr); err != nil {
		return nil, fmt.Errorf("%w: broadcast discovery: %v", light.ErrConnectionUnavailable, err)
	}

	seen := make(map[string]Found)
	buf := make([]byte, 512)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				break
			}
			return nil, fmt.Errorf("%w: read discovery reply: %v", light.ErrConnectionUnavailable, err)
		}
		f, ok := parseFound(string(buf[:n]))
		if !ok {
			continue
		}
		seen[f.Address] = f
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Found, 0, len(seen))
	for _, f := range seen {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	log.Debug().Int("controllers", len(out)).Dur("timeout", timeout).Msg("Discovery scan finished")
	return out, nil
}

// parseFound reads an "ip,mac,model" reply.
func parseFound(reply string) (Found, bool) {
	if reply == discoveryMessage {
		return Found{}, false
	}
	parts := strings.Split(strings.TrimSpace(reply), ",")
	if len(parts) < 2 || net.ParseIP(parts[0]) == nil {
		return Found{}, false
	}
	f := Found{Address: parts[0], ID: parts[1]}
	if len(parts) > 2 {
		f.Model = parts[2]
	}
	return f, true
}
