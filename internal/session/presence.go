package session

import (
	"encoding/json"
	"log/slog"
	"maps"
	"sync"
)

// PresenceManager tracks the camera each connected viewer last reported.
type PresenceManager struct {
	mu    sync.RWMutex
	views map[string]*ViewPayload // clientID -> view
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		views: make(map[string]*ViewPayload),
	}
}

func (pm *PresenceManager) Update(clientID string, v *ViewPayload) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.views[clientID] = v
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.views, clientID)
}

func (pm *PresenceManager) GetAll() map[string]*ViewPayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return maps.Clone(pm.views)
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Views: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
