// Package relay forwards link commands to the local YSFGateway over UDP.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"net"
)

// DefaultGatewayAddr is where YSFGateway listens for remote commands on a
// stock installation.
const DefaultGatewayAddr = "127.0.0.1:6073"

// Relay sends gateway commands as single UDP datagrams. Delivery is
// fire-and-forget, a successful write only means the datagram left the
// socket.
type Relay struct {
	addr   string
	dialer net.Dialer
	logger *slog.Logger
}

// New creates a Relay targeting addr. An empty addr falls back to
// DefaultGatewayAddr.
func New(addr string, logger *slog.Logger) *Relay {
	if addr == "" {
		addr = DefaultGatewayAddr
	}
	return &Relay{addr: addr, logger: logger}
}

// Link asks the gateway to connect to the named reflector.
func (r *Relay) Link(ctx context.Context, reflector string) error {
	return r.send(ctx, "LinkYSF "+reflector)
}

// Unlink asks the gateway to drop the current reflector.
func (r *Relay) Unlink(ctx context.Context) error {
	return r.send(ctx, "UnLink")
}

func (r *Relay) send(ctx context.Context, command string) error {
	conn, err := r.dialer.DialContext(ctx, "udp", r.addr)
	if err != nil {
		return fmt.Errorf("dial gateway %s: %w", r.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("set write deadline: %w", err)
		}
	}

	n, err := conn.Write([]byte(command))
	if err != nil {
		return fmt.Errorf("send command: %w", err)
	}

	r.logger.Info("gateway command sent",
		slog.String("command", command),
		slog.String("addr", r.addr),
		slog.Int("bytes", n))
	return nil
}
