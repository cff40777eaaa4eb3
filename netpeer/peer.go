package netpeer

import (
	"fmt"
	"log"
	"net"
	"sync"
	"sync/atomic"
)

// Handler answers a Request's Args with a Result payload and status,
// mirroring original_source's wrapMethod<&NetShared::recvGetFile> /
// recvDoAction dispatch table built in shared.cpp.
type Handler func(args []byte) (result []byte, status StatusCode)

// Peer is one end of a replication connection: it can issue Calls and
// answer incoming Requests via registered Handlers. Client and Server are
// thin wrappers that configure a Peer with the right handlers for their
// role; both sides of a connection run the same Peer machinery, since
// original_source's NetShared base class is itself shared by
// NetClient/NetServer.
type Peer struct {
	conn net.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan Response
	closed  bool

	handlersMu sync.Mutex
	handlers   map[string]Handler

	// Queue is the owner-thread task queue incoming requests are
	// dispatched onto, so handler bodies never run concurrently with
	// whatever goroutine calls Queue.ProcessTasks (typically the same
	// goroutine that owns the Song/UndoStack being mutated).
	Queue *TaskQueue
}

// NewPeer wraps conn. The caller must start Serve in its own goroutine and
// must drain Queue by calling Queue.ProcessTasks from its owner goroutine.
func NewPeer(conn net.Conn) *Peer {
	return &Peer{
		conn:     conn,
		pending:  make(map[uint64]chan Response),
		handlers: make(map[string]Handler),
		Queue:    NewTaskQueue(),
	}
}

// Handle registers the handler for method. Registering the same method
// twice replaces the previous handler.
func (p *Peer) Handle(method string, h Handler) {
	p.handlersMu.Lock()
	defer p.handlersMu.Unlock()
	p.handlers[method] = h
}

// Serve reads frames from the connection until it closes or a read fails,
// dispatching each Request to its Handler (via Queue, so handler bodies run
// on the owner goroutine) and routing each Response to the Call that is
// waiting on it. Serve returns the terminating error, which is io.EOF on a
// clean peer close.
func (p *Peer) Serve() error {
	for {
		msg, err := readMessage(p.conn)
		if err != nil {
			p.failPending(err)
			return err
		}
		switch msg.Kind {
		case KindRequest:
			p.dispatchRequest(msg.Request)
		case KindResponse:
			p.resolveResponse(msg.Response)
		default:
			log.Printf("netpeer: Serve: unknown message kind %d", msg.Kind)
		}
	}
}

func (p *Peer) dispatchRequest(req Request) {
	p.handlersMu.Lock()
	h, ok := p.handlers[req.Method]
	p.handlersMu.Unlock()

	if !ok {
		p.reply(req.ID, StatusMethodNotFound, nil)
		return
	}
	// RunOnOwnerThread would block Serve's read loop until the owner
	// goroutine drains Queue; Enqueue lets Serve keep reading frames while
	// the handler waits for its turn, matching the original's pattern of
	// a dedicated network thread handing work to the GUI thread without
	// blocking on it.
	Enqueue(p.Queue, func() struct{} {
		result, status := func() (result []byte, status StatusCode) {
			defer func() {
				if r := recover(); r != nil {
					result, status = nil, StatusMethodWrongArgs
				}
			}()
			return h(req.Args)
		}()
		p.reply(req.ID, status, result)
		return struct{}{}
	})
}

func (p *Peer) reply(id uint64, status StatusCode, result []byte) {
	err := writeMessage(p.withWriteLockWriter(), message{
		Kind:     KindResponse,
		Response: Response{ID: id, Status: status, Result: result},
	})
	if err != nil {
		log.Printf("netpeer: reply: %v", err)
	}
}

func (p *Peer) resolveResponse(resp Response) {
	p.mu.Lock()
	ch, ok := p.pending[resp.ID]
	if ok {
		delete(p.pending, resp.ID)
	}
	p.mu.Unlock()
	if ok {
		ch <- resp
	}
}

func (p *Peer) failPending(err error) {
	p.mu.Lock()
	p.closed = true
	pending := p.pending
	p.pending = make(map[uint64]chan Response)
	p.mu.Unlock()
	for _, ch := range pending {
		close(ch)
	}
}

// Call issues method with args (gob-encoded automatically) and blocks for
// the matching Response, decoding its Result into result if non-nil and
	// status is StatusOK. Call is safe to invoke concurrently from multiple
// goroutines; each gets its own correlation ID.
func (p *Peer) Call(method string, args any, result any) (StatusCode, error) {
	id := atomic.AddUint64(&p.nextID, 1)
	ch := make(chan Response, 1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return StatusMethodNotFound, fmt.Errorf("netpeer: Call: peer is closed")
	}
	p.pending[id] = ch
	p.mu.Unlock()

	err := writeMessage(p.withWriteLockWriter(), message{
		Kind:    KindRequest,
		Request: Request{ID: id, Method: method, Args: encodeArgs(args)},
	})
	if err != nil {
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
		return StatusMethodNotFound, err
	}

	resp, ok := <-ch
	if !ok {
		return StatusMethodNotFound, fmt.Errorf("netpeer: Call: peer closed before responding")
	}
	if resp.Status == StatusOK && result != nil && len(resp.Result) > 0 {
		if err := decodeArgs(resp.Result, result); err != nil {
			return resp.Status, fmt.Errorf("netpeer: Call: decode result: %w", err)
		}
	}
	return resp.Status, nil
}

// writeLocked is an io.Writer adapter that serializes concurrent Write
// calls on the connection: Call and reply can both be invoked from
// arbitrary goroutines, and writeMessage sends each whole frame in one
// Write, so frames do not interleave on the socket.
type writeLocked struct{ p *Peer }

func (w writeLocked) Write(b []byte) (int, error) {
	w.p.writeMu.Lock()
	defer w.p.writeMu.Unlock()
	return w.p.conn.Write(b)
}

func (p *Peer) withWriteLockWriter() writeLocked { return writeLocked{p: p} }

// Close closes the underlying connection.
func (p *Peer) Close() error { return p.conn.Close() }
