/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/Seednode/teamswap/swap"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Messages coming from clients
type ClientMessage struct {
	Type   string `json:"type"`             // "value", "lock", "shuffle", "reset_count", "clear", "copy", "copy_result"
	Index  int    `json:"index"`            // value / lock
	Side   string `json:"side,omitempty"`   // value
	Value  string `json:"value"`            // value
	Locked *bool  `json:"locked,omitempty"` // lock
	OK     *bool  `json:"ok,omitempty"`     // copy_result
}

// StateMessage carries the tool view after every change and every
// animation frame.
type StateMessage struct {
	Type string    `json:"type"` // "state"
	View swap.View `json:"view"`
}

// CopyTextMessage hands the export text to the requesting client, which
// writes it to the browser clipboard and answers with copy_result.
type CopyTextMessage struct {
	Type string `json:"type"` // "copy_text"
	Text string `json:"text"`
}

// SimpleMessage is for generic notifications ("error", "busy").
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Client struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}

	// views holds at most the latest unsent view; older frames are
	// superseded rather than queued.
	mu    sync.Mutex
	views chan swap.View
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn:  conn,
		send:  make(chan any, 8),
		done:  make(chan struct{}),
		views: make(chan swap.View, 1),
	}
}

func (c *Client) pushView(v swap.View) {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.views:
	default:
	}
	c.views <- v
}

func (c *Client) reply(msg any) {
	select {
	case c.send <- msg:
	case <-c.done:
	}
}

func serveLive(cfg *Config, reg *Registry) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tool, err := reg.Get(ps.ByName("tool"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.logger.Debug("websocket upgrade failed", zap.Error(err))
			return
		}

		// The server's read and write timeouts would otherwise still apply
		// to the hijacked connection.
		_ = conn.SetReadDeadline(time.Time{})
		_ = conn.SetWriteDeadline(time.Time{})

		client := newClient(conn)
		unsubscribe := tool.Subscribe(client.pushView)

		logf(cfg, "LIVE: %s connected to %s", realIP(r), tool.Config().Name)

		client.pushView(tool.View())

		go client.writePump()
		client.readPump(cfg, tool)

		unsubscribe()
		logf(cfg, "LIVE: %s disconnected from %s", realIP(r), tool.Config().Name)
	}
}

func (c *Client) readPump(cfg *Config, tool *swap.Tool) {
	defer func() {
		close(c.done)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		c.handle(cfg, tool, msg)
	}
}

func (c *Client) handle(cfg *Config, tool *swap.Tool, msg ClientMessage) {
	var err error

	switch msg.Type {
	case "value":
		err = tool.SetValue(msg.Index, swap.Side(msg.Side), msg.Value)
	case "lock":
		err = tool.SetLock(msg.Index, msg.Locked != nil && *msg.Locked)
	case "shuffle":
		if !tool.Shuffle() {
			c.reply(SimpleMessage{Type: "busy", Message: "이미 섞는 중입니다."})
		}
	case "reset_count":
		tool.ResetCount()
	case "clear":
		tool.ClearMembers()
	case "copy":
		c.reply(CopyTextMessage{Type: "copy_text", Text: tool.CopyText()})
	case "copy_result":
		tool.ReportCopy(msg.OK != nil && *msg.OK)
	default:
		// ignore unknown types
	}

	if err != nil {
		logf(cfg, "LIVE: Rejected %q for %s: %v", msg.Type, tool.Config().Name, err)
		c.reply(SimpleMessage{Type: "error", Message: err.Error()})
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		var err error

		select {
		case <-c.done:
			return
		case v := <-c.views:
			err = c.conn.WriteJSON(StateMessage{Type: "state", View: v})
		case msg := <-c.send:
			err = c.conn.WriteJSON(msg)
		}

		if err != nil {
			return
		}
	}
}
