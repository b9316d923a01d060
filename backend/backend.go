// Package backend holds the request/response contracts of the library manager backend
// and the transports used to reach it.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

const (
	GUI_MESSAGE_ERROR                = "error"
	GUI_MESSAGE_UPDATE_PROGRESS      = "updateProgress"
	GUI_MESSAGE_ORGANIZE             = "organize"
	GUI_MESSAGE_LOAD_SETTINGS        = "loadSettings"
	GUI_MESSAGE_SAVE_SETTINGS        = "saveSettings"
	GUI_MESSAGE_UPDATE_LOCAL_LIBRARY = "updateLocalLibrary"
	GUI_MESSAGE_LIBRARY_LOADED       = "libraryLoaded"
	GUI_MESSAGE_UPDATE_DATABASE      = "updateDB"
	GUI_MESSAGE_MISSING_UPDATES      = "missingUpdates"
	GUI_MESSAGE_MISSING_DLC          = "missingDlc"
)

var (
	ErrUnknownMessage = errors.New("unknown message")
	ErrRejected       = errors.New("rejected by backend")
	ErrUnsupported    = errors.New("not supported by this backend")
)

// Backend message
type Message struct {
	Name    string `json:"name"`
	Payload string `json:"payload"`
}

// Carries a message to the backend and returns its response payload
type Transport interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Backend calls consumed by the view layer.
// Data calls return the raw response (string or decoded value), left to the normalizer.
type Service interface {
	LoadSettings(ctx context.Context) (string, error)
	SaveSettings(ctx context.Context, settingsJSON string) error
	UpdateLocalLibrary(ctx context.Context, ignoreCache bool) (any, error)
	GetMissingUpdates(ctx context.Context) (any, error)
	GetMissingDLC(ctx context.Context) (any, error)
	UpdateDB(ctx context.Context) error
	Organize(ctx context.Context) error
}

// Service implementation over a message transport
type Client struct {
	transport Transport
	logger    *zap.SugaredLogger
}

// Constructor for the backend client
func NewClient(t Transport, l *zap.SugaredLogger) *Client {
	return &Client{transport: t, logger: l}
}

func (c *Client) LoadSettings(ctx context.Context) (string, error) {
	return c.send(ctx, GUI_MESSAGE_LOAD_SETTINGS, "")
}

func (c *Client) SaveSettings(ctx context.Context, settingsJSON string) error {
	_, err := c.send(ctx, GUI_MESSAGE_SAVE_SETTINGS, settingsJSON)
	return err
}

func (c *Client) UpdateLocalLibrary(ctx context.Context, ignoreCache bool) (any, error) {
	return c.send(ctx, GUI_MESSAGE_UPDATE_LOCAL_LIBRARY, strconv.FormatBool(ignoreCache))
}

func (c *Client) GetMissingUpdates(ctx context.Context) (any, error) {
	return c.send(ctx, GUI_MESSAGE_MISSING_UPDATES, "")
}

func (c *Client) GetMissingDLC(ctx context.Context) (any, error) {
	return c.send(ctx, GUI_MESSAGE_MISSING_DLC, "")
}

func (c *Client) UpdateDB(ctx context.Context) error {
	_, err := c.send(ctx, GUI_MESSAGE_UPDATE_DATABASE, "")
	return err
}

func (c *Client) Organize(ctx context.Context) error {
	_, err := c.send(ctx, GUI_MESSAGE_ORGANIZE, "")
	return err
}

func (c *Client) send(ctx context.Context, name string, payload string) (string, error) {
	msg := Message{Name: name, Payload: payload}
	c.logger.Debugf("Sending message to backend [%v]", msg.Name)

	response, err := c.transport.Send(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", name, err)
	}

	c.logger.Debugf("Backend response [%v] (%d bytes)", msg.Name, len(response))
	return response, nil
}
