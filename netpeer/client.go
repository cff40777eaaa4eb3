package netpeer

import (
	"fmt"
	"net"

	"github.com/embertrack/ember"
)

// Client connects to a Server, fetches the initial Song, and exec's
// locally-issued Commands both against its own Song copy and against the
// server, applying any Commands the server broadcasts as execCommand
// requests back against its own Song. Grounded on
// original_source/src/gui/net/client.h's NetClient.
type Client struct {
	Song *ember.Song
	Undo *ember.UndoStack

	peer *Peer
	conn net.Conn
	stop chan struct{}
}

// Dial connects to opts.ConnectAddress, fetches the remote song, and starts
// serving incoming execCommand broadcasts. Dial also starts the goroutine
// that drains c.Queue() until Close, so broadcasts are applied on that
// goroutine without further action from the caller.
func Dial(opts SessionOptions) (*Client, error) {
	conn, err := net.Dial("tcp", opts.ConnectAddress)
	if err != nil {
		return nil, fmt.Errorf("netpeer: Dial: %w", err)
	}

	c := &Client{
		peer: NewPeer(conn),
		conn: conn,
		stop: make(chan struct{}),
	}
	c.peer.Handle(MethodDoAction, c.handleRemoteAction)

	go c.peer.Queue.Run(c.stop)
	go func() {
		c.peer.Serve()
	}()

	var song ember.Song
	if status, err := c.peer.Call(MethodGetFile, struct{}{}, &song); err != nil {
		c.Close()
		return nil, fmt.Errorf("netpeer: Dial: getFile: %w", err)
	} else if status != StatusOK {
		c.Close()
		return nil, fmt.Errorf("netpeer: Dial: getFile: status %d", status)
	}
	c.Song = &song
	c.Undo = ember.NewUndoStack(256)
	return c, nil
}

// Queue exposes the task queue incoming broadcasts are dispatched on. The
// goroutine started by Dial already drains it.
func (c *Client) Queue() *TaskQueue { return c.peer.Queue }

// Close disconnects from the server.
func (c *Client) Close() error {
	close(c.stop)
	return c.conn.Close()
}

// Do exec's cmd locally (origin local) and, if it changed anything, pushes
// it onto Undo and forwards it to the server. Do reports whether the
// command modified the song.
func (c *Client) Do(cmd ember.Command) bool {
	if !cmd.Exec(c.Song, ember.OriginLocal) {
		return false
	}
	c.Undo.Push(ember.UndoStep{Cmd: cmd})
	go func() {
		env := cmd.Serialize()
		if status, err := c.peer.Call(MethodDoAction, env, nil); err != nil || status != StatusOK {
			// The edit already happened locally; a failed forward just
			// means this client's copy has diverged from the server's
			// until the next reconnect. Nothing to revert here, since a
			// divergent local edit is still preferable to silently
			// losing it.
		}
	}()
	return true
}

// handleRemoteAction is the execCommand handler a Client installs so the
// server's broadcastExcept calls land here: the Command is decoded and
// exec'd with OriginRemote, which per Command's contract must not move any
// local cursor.
func (c *Client) handleRemoteAction(args []byte) ([]byte, StatusCode) {
	var env ember.Envelope
	if err := decodeArgs(args, &env); err != nil {
		return nil, StatusMethodWrongArgs
	}
	cmd, ok := ember.DeserializeCommand(env)
	if !ok {
		return nil, StatusMethodWrongArgs
	}
	if cmd.Exec(c.Song, ember.OriginRemote) {
		c.Undo.Push(ember.UndoStep{Cmd: cmd})
	}
	return nil, StatusOK
}
