// Package session runs live figure sessions over websockets: every viewer
// of a figure joins the same room, submits operations against the room's
// figure state and receives the updated figure after each one.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/BlueBrain/plotly-helper/internal/neuron"
	"github.com/BlueBrain/plotly-helper/internal/typeid"
)

const loadTimeout = 30 * time.Second

// Loader rebuilds the builder of a stored figure.
type Loader func(ctx context.Context, figureID string) (*neuron.Builder, error)

type Room struct {
	sessionID string
	figureID  string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	figure    *FigureState
}

func NewRoom(figureID string, fs *FigureState) *Room {
	return &Room{
		sessionID: typeid.NewSessionID(),
		figureID:  figureID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		figure:    fs,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // figureID -> room
	loader     Loader
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func NewHub(loader Loader) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		loader:     loader,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			return
		}
	}
}

// Stop ends Run and disconnects every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()
		for id, room := range h.rooms {
			for _, c := range room.clients {
				c.closeSend()
			}
			delete(h.rooms, id)
		}
	})
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.closeSend()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Rooms is the number of figures with at least one connected client.
func (h *Hub) Rooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

func (h *Hub) room(figureID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[figureID]
	return room, ok
}

// load builds the figure state of a room. It runs on the connecting
// client's goroutine so that Run never waits on the store.
func (h *Hub) load(ctx context.Context, figureID string) (*FigureState, error) {
	b, err := h.loader(ctx, figureID)
	if err != nil {
		return nil, err
	}
	return NewFigureState(b)
}

// join registers client, first loading its figure when no room holds it.
func (h *Hub) join(ctx context.Context, client *Client) error {
	if _, ok := h.room(client.FigureID); !ok {
		fs, err := h.load(ctx, client.FigureID)
		if err != nil {
			return err
		}
		client.prepared = fs
	}
	h.Register(client)
	return nil
}

func (h *Hub) rejoin(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if err := h.join(ctx, client); err != nil {
		slog.Warn("load figure", "error", err, "figure", client.FigureID)
		client.Send(errorMessage("figure unavailable"))
		client.closeSend()
	}
}

func (h *Hub) addClient(client *Client) {
	if client.isClosed() {
		return
	}
	room, ok := h.room(client.FigureID)
	if !ok {
		if client.prepared == nil {
			// The room closed between the client's check and its
			// registration.
			go h.rejoin(client)
			return
		}
		room = NewRoom(client.FigureID, client.prepared)
	}
	client.prepared = nil

	h.mu.Lock()
	h.rooms[client.FigureID] = room
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	fig, seq := room.figure.Snapshot()
	welcome, _ := json.Marshal(WelcomePayload{
		SessionID: room.sessionID,
		ClientID:  client.ClientID,
		FigureID:  room.figureID,
		ServerSeq: seq,
	})
	client.Send(&Message{Type: TypeWelcome, FigureID: room.figureID, ClientID: client.ClientID, Seq: seq, Payload: welcome})
	if msg := syncMessage(room.figureID, fig.JSON, seq); msg != nil {
		client.Send(msg)
	}
	if msg := room.presence.StateMessage(); msg != nil {
		client.Send(msg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{ClientID: client.ClientID})
	h.broadcastToRoom(client.FigureID, &Message{
		Type:     TypePresenceJoin,
		ClientID: client.ClientID,
		Payload:  joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "client", client.ClientID, "figure", client.FigureID, "session", room.sessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.FigureID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := room.clients[client.ClientID]; !member {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.closeSend()
	room.presence.Remove(client.ClientID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.FigureID)
	}
	h.mu.Unlock()

	leavePayload, _ := json.Marshal(PresenceLeavePayload{ClientID: client.ClientID})
	h.broadcastToRoom(client.FigureID, &Message{
		Type:     TypePresenceLeave,
		ClientID: client.ClientID,
		Payload:  leavePayload,
	}, "")

	slog.Info("client left", "client", client.ClientID, "figure", client.FigureID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeOpSubmit:
		h.handleOperation(sender, msg)
	case TypePresenceView:
		h.handleView(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", sender.ClientID)
		sender.Send(errorMessage("unknown message type: " + msg.Type))
	}
}

func (h *Hub) handleOperation(sender *Client, msg *Message) {
	room, ok := h.room(sender.FigureID)
	if !ok {
		return
	}

	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		sender.Send(errorMessage("invalid operation payload"))
		return
	}
	op := submit.Operation
	if op.ClientSeq == 0 {
		op.ClientSeq = msg.Seq
	}

	seq, err := room.figure.ApplyOperation(&op)
	if err != nil {
		slog.Debug("operation rejected", "error", err, "op", op.Type, "client", sender.ClientID)
		nack, _ := json.Marshal(OperationNackPayload{OperationID: op.ID, Reason: err.Error()})
		sender.Send(&Message{Type: TypeOpNack, FigureID: room.figureID, Seq: msg.Seq, Payload: nack})
		return
	}

	ack, _ := json.Marshal(OperationAckPayload{OperationID: op.ID, ServerSeq: seq})
	sender.Send(&Message{Type: TypeOpAck, FigureID: room.figureID, Seq: seq, Payload: ack})

	fig, current := room.figure.Snapshot()
	if update := syncMessage(room.figureID, fig.JSON, current); update != nil {
		update.ClientID = sender.ClientID
		h.broadcastToRoom(room.figureID, update, "")
	}
}

func (h *Hub) handleView(sender *Client, msg *Message) {
	var view ViewPayload
	if err := json.Unmarshal(msg.Payload, &view); err != nil {
		slog.Warn("invalid view payload", "error", err)
		return
	}

	room, ok := h.room(sender.FigureID)
	if !ok {
		return
	}
	room.presence.Update(sender.ClientID, &view)

	out, _ := json.Marshal(view)
	h.broadcastToRoom(sender.FigureID, &Message{
		Type:     TypePresenceView,
		ClientID: sender.ClientID,
		Payload:  out,
	}, sender.ClientID)
}

func (h *Hub) broadcastToRoom(figureID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[figureID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func syncMessage(figureID string, encode func() ([]byte, error), seq int64) *Message {
	data, err := encode()
	if err != nil {
		slog.Error("encode figure", "error", err, "figure", figureID)
		return nil
	}
	payload, err := json.Marshal(FigureSyncPayload{ServerSeq: seq, Figure: data})
	if err != nil {
		slog.Error("marshal figure sync", "error", err)
		return nil
	}
	return &Message{Type: TypeFigureSync, FigureID: figureID, Seq: seq, Payload: payload}
}

func errorMessage(reason string) *Message {
	payload, _ := json.Marshal(ErrorPayload{Message: reason})
	return &Message{Type: TypeError, Payload: payload}
}
