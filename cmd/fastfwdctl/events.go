package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

var eventsLimit int

var cmdEvents = &cobra.Command{
	Use:   "events",
	Short: "Poll or tail the forwarding-plane event ring",
}

var eventsPollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll the most recent events over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTool(rootBaseURL)

		var events []map[string]any
		path := "/events?limit=" + strconv.Itoa(eventsLimit)
		if err := t.getJSON(path, &events); err != nil {
			fatalf("Error polling events: %v", err)
		}
		for _, ev := range events {
			printEvent(ev)
		}
	},
}

// eventsTailCmd connects to the daemon's WebSocket event stream
// (internal/mgmt's EventStreamListener) and prints events as they arrive,
// the live counterpart of "poll".
var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Stream events live over WebSocket",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		wsURL := toWebSocketURL(rootBaseURL)
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			fatalf("Error connecting to event stream: %v", err)
		}
		defer conn.Close()

		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				fatalf("Event stream closed: %v", err)
			}
			var ev map[string]any
			if err := json.Unmarshal(payload, &ev); err != nil {
				continue
			}
			printEvent(ev)
		}
	},
}

func init() {
	eventsPollCmd.Flags().IntVar(&eventsLimit, "limit", 100, "Maximum number of events to fetch")
	cmdEvents.AddCommand(eventsPollCmd, eventsTailCmd)
}

func printEvent(ev map[string]any) {
	fmt.Printf("type=%v name_hash=%v size=%v action=%v\n",
		ev["Type"], ev["NameHash"], ev["PacketSize"], ev["ActionTaken"])
}

// toWebSocketURL rewrites an http(s):// base URL into the ws(s):// scheme the
// event-stream listener speaks. Only the scheme changes: host, port and path
// stay those of base, so the URL points at the event-stream listener only
// when --addr names that listener's bind address (mgmt.ws_bind), which is
// separate from the HTTP API's.
func toWebSocketURL(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return strings.Replace(base, "http", "ws", 1)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.String()
}
