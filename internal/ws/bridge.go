package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"profile-sync/internal/usecase/profilesync"
)

const (
	EventProfilesUpdated  = "profiles_updated"
	EventConfirmRequested = "confirm_requested"
	EventAlert            = "alert"
	EventNavigate         = "navigate"
)

type Event struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

type AlertData struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type NavigateData struct {
	Target string         `json:"target"`
	Params map[string]any `json:"params,omitempty"`
}

// ViewBridge presents controller output to connected views. It serves as the
// controller's dialogs, navigator and state observer.
type ViewBridge struct {
	hub *Hub
	now func() time.Time
}

var (
	_ profilesync.Dialogs   = (*ViewBridge)(nil)
	_ profilesync.Navigator = (*ViewBridge)(nil)
	_ profilesync.Observer  = (*ViewBridge)(nil)
)

func NewViewBridge(hub *Hub) *ViewBridge {
	return &ViewBridge{hub: hub, now: time.Now}
}

func (b *ViewBridge) StateChanged(s profilesync.Snapshot) {
	if msg, err := b.encode(EventProfilesUpdated, s); err == nil {
		b.hub.Retain(msg)
	}
}

func (b *ViewBridge) Confirm(p profilesync.Prompt) {
	if msg, err := b.encode(EventConfirmRequested, p); err == nil {
		b.hub.Broadcast(msg)
	}
}

func (b *ViewBridge) Alert(title, message string) {
	if msg, err := b.encode(EventAlert, AlertData{Title: title, Message: message}); err == nil {
		b.hub.Broadcast(msg)
	}
}

func (b *ViewBridge) Navigate(_ context.Context, target string, params map[string]any) error {
	msg, err := b.encode(EventNavigate, NavigateData{Target: target, Params: params})
	if err != nil {
		return err
	}
	b.hub.Broadcast(msg)
	return nil
}

func (b *ViewBridge) encode(eventType string, data any) ([]byte, error) {
	evt := Event{
		Type:      eventType,
		Timestamp: b.now().UTC().Format(time.RFC3339),
		Data:      data,
	}
	msg, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", eventType, err)
	}
	return msg, nil
}
