package health

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"github.com/input-output-hk/bitte/pkg/types"
)

// SSHPort is the port every node runs sshd on
const SSHPort = 22

// TCPChecker checks that a TCP port accepts connections
type TCPChecker struct {
	// Name identifies the target in results, e.g. the node name
	Name string

	// Address is the TCP address to connect to (e.g., "18.194.0.1:22")
	Address string

	// Timeout is the connection timeout (default: 5 seconds)
	Timeout time.Duration
}

// NewTCPChecker creates a new TCP checker
func NewTCPChecker(address string) *TCPChecker {
	return &TCPChecker{
		Name:    address,
		Address: address,
		Timeout: 5 * time.Second,
	}
}

// NewSSHChecker checks the SSH port on a node's public address
func NewSSHChecker(node *types.Node) *TCPChecker {
	c := NewTCPChecker(netip.AddrPortFrom(node.PublicIP, SSHPort).String())
	c.Name = node.Name
	return c
}

// Check makes a single connection attempt. There are no retries.
func (t *TCPChecker) Check(ctx context.Context) Result {
	start := time.Now()

	dialer := &net.Dialer{
		Timeout: t.Timeout,
	}

	conn, err := dialer.DialContext(ctx, "tcp", t.Address)
	if err != nil {
		return Result{
			Target:    t.Name,
			Healthy:   false,
			Message:   fmt.Sprintf("connection to %s failed: %v", t.Address, err),
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}
	defer conn.Close()

	return Result{
		Target:    t.Name,
		Healthy:   true,
		Message:   fmt.Sprintf("TCP connection to %s successful", t.Address),
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

// WithTimeout sets the connection timeout
func (t *TCPChecker) WithTimeout(timeout time.Duration) *TCPChecker {
	t.Timeout = timeout
	return t
}
