// Package testconn provides a scripted, in-memory gRPC connection which
// stands in for a node endpoint in tests. Handlers are registered per
// gRPC method; one-shot handlers let a test script a sequence of node
// behaviors (fail, fail, succeed) for a single method.
package testconn

import (
	"context"
	"sync"

	gogogrpc "github.com/cosmos/gogoproto/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nodemesh/cosmosclient/pkg/pool"
)

// Handler responds to a single unary invocation. It should cast reply to
// the method's concrete response type and populate it, or return an error.
type Handler func(ctx context.Context, req, reply interface{}) error

var _ gogogrpc.ClientConn = (*Conn)(nil)

// Conn is a scripted in-memory connection implementing the gogoproto
// ClientConn interface the queriers are built against.
type Conn struct {
	mu       sync.Mutex
	handlers map[string]Handler
	oneShots map[string][]Handler
	calls    []string
}

// New constructs an empty scripted connection. Invoking a method with no
// registered handler fails the call with codes.Unimplemented.
func New() *Conn {
	return &Conn{
		handlers: make(map[string]Handler),
		oneShots: make(map[string][]Handler),
	}
}

// Handle registers the persistent handler for a gRPC method (e.g.
// "/cosmos.tx.v1beta1.Service/BroadcastTx").
func (c *Conn) Handle(method string, handler Handler) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[method] = handler
	return c
}

// HandleOnce queues a one-shot handler for a method. One-shots are consumed
// in FIFO order before the persistent handler is consulted.
func (c *Conn) HandleOnce(method string, handler Handler) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.oneShots[method] = append(c.oneShots[method], handler)
	return c
}

// Invoke implements gogogrpc.ClientConn.
func (c *Conn) Invoke(ctx context.Context, method string, args, reply interface{}, _ ...grpc.CallOption) error {
	c.mu.Lock()
	c.calls = append(c.calls, method)
	var handler Handler
	if queued := c.oneShots[method]; len(queued) > 0 {
		handler = queued[0]
		c.oneShots[method] = queued[1:]
	} else {
		handler = c.handlers[method]
	}
	c.mu.Unlock()

	if handler == nil {
		return status.Errorf(codes.Unimplemented, "testconn: no handler for %s", method)
	}
	return handler(ctx, args, reply)
}

// NewStream implements gogogrpc.ClientConn. Streaming is not used by the
// client and always fails.
func (c *Conn) NewStream(context.Context, *grpc.StreamDesc, string, ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, status.Error(codes.Unimplemented, "testconn: streaming unsupported")
}

// Calls returns the methods invoked so far, in order.
func (c *Conn) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// CallCount returns how many times the given method was invoked.
func (c *Conn) CallCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, call := range c.calls {
		if call == method {
			count++
		}
	}
	return count
}

// Dialer returns a pool.Dialer handing out this connection for every URL,
// so a pool can be constructed entirely over scripted connections.
func (c *Conn) Dialer() pool.Dialer {
	return func(string) (gogogrpc.ClientConn, error) {
		return c, nil
	}
}

// DialerMap returns a pool.Dialer that dispatches to a distinct scripted
// connection per endpoint URL, for failover tests that need per-node
// behavior.
func DialerMap(conns map[string]*Conn) pool.Dialer {
	return func(grpcURL string) (gogogrpc.ClientConn, error) {
		conn, ok := conns[grpcURL]
		if !ok {
			return nil, status.Errorf(codes.Unavailable, "testconn: no connection scripted for %s", grpcURL)
		}
		return conn, nil
	}
}
