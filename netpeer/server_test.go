package netpeer

import (
	"testing"
	"time"

	"github.com/embertrack/ember"
)

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	song := ember.NewSong()
	song.Orders[0][0] = 1
	srv := NewServer(song, ember.NewUndoStack(256))

	go func() {
		_ = srv.ListenAndServe(SessionOptions{HostPort: 0})
	}()

	var addr string
	for i := 0; i < 100; i++ {
		if a := srv.Addr(); a != nil {
			addr = a.String()
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if addr == "" {
		t.Fatalf("server never started listening")
	}
	return srv, addr
}

func TestClientGetFileFetchesServerSong(t *testing.T) {
	srv, addr := startTestServer(t)
	defer srv.Close()

	client, err := Dial(SessionOptions{ConnectAddress: addr})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	if client.Song.Orders[0][0] != 1 {
		t.Fatalf("expected fetched song to have order[0][0]=1, got %d", client.Song.Orders[0][0])
	}
}

func TestDoActionReplicatesBetweenTwoClients(t *testing.T) {
	srv, addr := startTestServer(t)
	defer srv.Close()

	clientA, err := Dial(SessionOptions{ConnectAddress: addr})
	if err != nil {
		t.Fatalf("Dial A: %v", err)
	}
	defer clientA.Close()

	clientB, err := Dial(SessionOptions{ConnectAddress: addr})
	if err != nil {
		t.Fatalf("Dial B: %v", err)
	}
	defer clientB.Close()

	cmd := &ember.OrderAdd{DuplicateFrom: -1, Where: 0}
	if !clientA.Do(cmd) {
		t.Fatalf("expected clientA.Do to report a change")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(clientB.Undo.Snapshot()) == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	if len(clientB.Undo.Snapshot()) == 0 {
		t.Fatalf("expected clientB to have received the broadcast edit")
	}
}
