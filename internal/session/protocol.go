package session

import (
	"encoding/json"

	"github.com/BlueBrain/plotly-helper/internal/plane"
)

type Message struct {
	Type     string          `json:"type"`
	FigureID string          `json:"figureId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeWelcome       = "welcome"
	TypeFigureSync    = "figure.sync"
	TypeError         = "error"
	TypePresenceState = "presence.state"
	TypePresenceJoin  = "presence.join"
	TypePresenceLeave = "presence.leave"
	TypePresenceView  = "presence.view"

	TypeOpSubmit = "op.submit"
	TypeOpAck    = "op.ack"
	TypeOpNack   = "op.nack"
)

// Operation types carried by op.submit.
const (
	OpColorSection = "color.section"
	OpColorReset   = "color.reset"
	OpMarkerAdd    = "marker.add"
	OpGroupRemove  = "group.remove"
	OpButtonToggle = "button.toggle"
)

// Operation is a figure mutation requested by a client.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ClientSeq int64  `json:"clientSeq"`

	// For color.section
	Section   *int   `json:"section,omitempty"`
	Neurite   *int   `json:"neurite,omitempty"`
	Color     string `json:"color,omitempty"`
	Start     int    `json:"start,omitempty"`
	End       *int   `json:"end,omitempty"`
	Recursive bool   `json:"recursive,omitempty"`

	// For marker.add
	Group  string      `json:"group,omitempty"`
	Points []plane.Vec `json:"points,omitempty"`

	// For group.remove and button.toggle
	Groups []string `json:"groups,omitempty"`

	// For button.toggle
	Menu  string `json:"menu,omitempty"`
	Label string `json:"label,omitempty"`
}

type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

type OperationAckPayload struct {
	OperationID string `json:"operationId"`
	ServerSeq   int64  `json:"serverSeq"`
}

type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
	FigureID  string `json:"figureId"`
	ServerSeq int64  `json:"serverSeq"`
}

type FigureSyncPayload struct {
	ServerSeq int64           `json:"serverSeq"`
	Figure    json.RawMessage `json:"figure"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// ViewPayload is a viewer's camera, shared so others can follow it.
type ViewPayload struct {
	Camera *plane.Camera `json:"camera,omitempty"`
}

type PresenceStatePayload struct {
	Views map[string]*ViewPayload `json:"views"`
}

type PresenceJoinPayload struct {
	ClientID string `json:"clientId"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}
