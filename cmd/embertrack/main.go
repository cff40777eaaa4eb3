// Command embertrack wires together the song model, the command/undo
// stack, the replication peer, and the chip driver into a headless
// session: either hosting a song for other clients to connect to, or
// connecting to an existing host and mirroring its song.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/embertrack/ember"
	"github.com/embertrack/ember/chip"
	"github.com/embertrack/ember/netpeer"
)

func main() {
	var (
		hostPort   = pflag.IntP("host-port", "p", 0, "listen for incoming connections on this port (0: do not host)")
		connectTo  = pflag.StringP("connect", "c", "", "connect to an existing host at address:port (empty: start a new song locally)")
		maxUndo    = pflag.Int("max-undo", 256, "bounded undo history depth")
	)
	pflag.Parse()

	if *hostPort != 0 && *connectTo != "" {
		log.Fatal("embertrack: --host-port and --connect are mutually exclusive")
	}

	undo := ember.NewUndoStack(*maxUndo)

	var song *ember.Song
	switch {
	case *connectTo != "":
		client, err := netpeer.Dial(netpeer.SessionOptions{ConnectAddress: *connectTo})
		if err != nil {
			log.Fatalf("embertrack: connect: %v", err)
		}
		song = client.Song
		undo = client.Undo
		defer client.Close()
	default:
		song = ember.NewSong()
	}

	driver := chip.NewDriver(&chip.NukedOPLL{})

	if *hostPort != 0 {
		srv := netpeer.NewServer(song, undo)
		go func() {
			opts := netpeer.DefaultSessionOptions()
			opts.HostPort = *hostPort
			if err := srv.ListenAndServe(opts); err != nil {
				log.Printf("embertrack: server stopped: %v", err)
			}
		}()
		fmt.Printf("embertrack: hosting on port %d\n", *hostPort)
	}

	runSession(song, undo, driver)
}

// runSession is a placeholder interactive loop: a real front end would
// read edit gestures from a UI and turn them into Commands via
// client.Do/song's command Exec; this headless entrypoint just proves the
// pieces link together by ticking the driver once and reporting the
// song's current loop point.
func runSession(song *ember.Song, undo *ember.UndoStack, driver *chip.Driver) {
	song.WalkSong()
	var out [2]int16
	driver.Tick()
	driver.Clock(&out)
	fmt.Fprintf(os.Stdout, "embertrack: song loop order=%d, undo depth=%d\n", song.LoopOrder(), len(undo.Snapshot()))
}
