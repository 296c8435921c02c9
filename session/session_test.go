package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lab-control/lcc/conn"
	"github.com/lab-control/lcc/logstream"
)

func followOpts(host string) logstream.FollowerOptions {
	return logstream.FollowerOptions{
		Endpoint: "ws://example.invalid",
		Hostname: host,
		Token:    "tok",
	}
}

// labWithLogsServer serves the monitor socket and one container's log socket
// on the same listener, the way the real backend does.
func labWithLogsServer(t *testing.T, labID, hostname string, lines []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	hold := func(sock *websocket.Conn) {
		for {
			if _, _, err := sock.ReadMessage(); err != nil {
				return
			}
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/labs/"+labID, func(w http.ResponseWriter, r *http.Request) {
		sock, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer sock.Close()
		frame := `{"type":"initial_state","labId":"` + labID + `","status":"running","containers":[]}`
		if err := sock.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return
		}
		hold(sock)
	})
	mux.HandleFunc("/ws/labs/"+labID+"/logs/"+hostname, func(w http.ResponseWriter, r *http.Request) {
		sock, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer sock.Close()
		for _, line := range lines {
			frame := `{"type":"log","line":"` + line + `"}`
			if err := sock.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		hold(sock)
	})

	return httptest.NewServer(mux)
}

func TestFollowLogsOnLiveSession(t *testing.T) {
	lines := []string{"booting", "ready"}
	server := labWithLogsServer(t, "lab-01", "web-01", lines)
	defer server.Close()

	endpoint := "ws" + strings.TrimPrefix(server.URL, "http")
	monitor, err := NewMonitor(MonitorOptions{
		StreamEndpoint: endpoint,
		APIEndpoint:    "http://example.invalid",
		Token:          "tok",
	})
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}
	defer monitor.Close()

	sess, err := monitor.Watch("lab-01", WatchOptions{})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	received := make(chan string, len(lines))
	follower, err := sess.FollowLogs(logstream.FollowerOptions{
		Endpoint: endpoint,
		Hostname: "web-01",
		Token:    "tok",
		OnLine:   func(line string) { received <- line },
	})
	if err != nil {
		t.Fatalf("FollowLogs failed: %v", err)
	}

	for range lines {
		select {
		case <-received:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out, buffered so far: %v", follower.Lines())
		}
	}

	got := follower.Lines()
	if len(got) != 2 || got[0] != "booting" || got[1] != "ready" {
		t.Errorf("Lines = %v, want %v", got, lines)
	}

	// One follower per hostname.
	again, err := sess.FollowLogs(logstream.FollowerOptions{
		Endpoint: endpoint,
		Hostname: "web-01",
		Token:    "tok",
	})
	if err != nil {
		t.Fatalf("second FollowLogs failed: %v", err)
	}
	if again != follower {
		t.Error("second FollowLogs created a duplicate follower")
	}

	// Followers go down with the session.
	sess.Close()
	if follower.State() != conn.StateClosed {
		t.Errorf("follower state after session close = %v, want closed", follower.State())
	}
}

func TestModeString(t *testing.T) {
	if ModeLive.String() != "live" || ModeReplay.String() != "replay" {
		t.Errorf("ModeLive=%q ModeReplay=%q", ModeLive, ModeReplay)
	}
}
