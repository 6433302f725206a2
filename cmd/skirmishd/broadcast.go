package main

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"emberforge/core/logging"
)

const subscriberBuffer = 64

// broadcastSink is a logging sink that fans each event out to every connected
// websocket subscriber as one JSON line. Slow subscribers drop events rather
// than stalling the router's sink worker.
type broadcastSink struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func newBroadcastSink() *broadcastSink {
	return &broadcastSink{subs: make(map[*subscriber]struct{})}
}

func (b *broadcastSink) Write(event logging.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.send <- data:
		default:
		}
	}
	return nil
}

func (b *broadcastSink) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subs {
		sub.close()
	}
	b.subs = nil
	return nil
}

// Subscribe attaches a websocket connection and pumps events to it until the
// peer disconnects or the sink closes.
func (b *broadcastSink) Subscribe(conn *websocket.Conn) {
	sub := &subscriber{conn: conn, send: make(chan []byte, subscriberBuffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		conn.Close()
		return
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go sub.writeLoop()
	go b.readLoop(sub)
}

func (b *broadcastSink) remove(sub *subscriber) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
	sub.close()
}

// readLoop discards inbound frames; the stream is one-way. It exists to
// detect the peer closing.
func (b *broadcastSink) readLoop(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			b.remove(sub)
			return
		}
	}
}

func (s *subscriber) writeLoop() {
	for data := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("skirmishd: subscriber write failed: %v", err)
			return
		}
	}
	s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.send)
		s.conn.Close()
	})
}
