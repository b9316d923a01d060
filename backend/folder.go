package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/giwty/slm-view/db"
	"github.com/giwty/slm-view/events"
	"go.uber.org/zap"
)

const (
	LIBRARY_FILENAME         = "library.json"
	MISSING_UPDATES_FILENAME = "missing_updates.json"
	MISSING_DLC_FILENAME     = "missing_dlc.json"
	SETTINGS_FILENAME        = "settings.json"
)

// Transport serving a library snapshot exported to a folder.
// Responses are the files' raw contents; progress and library pushes go to the emitter.
type FolderTransport struct {
	folder string
	events events.Emitter
	logger *zap.SugaredLogger
}

// Constructor for the folder transport
func NewFolderTransport(folder string, e events.Emitter, l *zap.SugaredLogger) *FolderTransport {
	return &FolderTransport{folder: folder, events: e, logger: l}
}

func (f *FolderTransport) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch msg.Name {
	case GUI_MESSAGE_LOAD_SETTINGS:
		return f.loadSettings()

	case GUI_MESSAGE_SAVE_SETTINGS:
		return "", f.saveSettings(msg.Payload)

	case GUI_MESSAGE_UPDATE_LOCAL_LIBRARY:
		return f.updateLocalLibrary()

	case GUI_MESSAGE_MISSING_UPDATES:
		return f.read(MISSING_UPDATES_FILENAME)

	case GUI_MESSAGE_MISSING_DLC:
		return f.read(MISSING_DLC_FILENAME)

	// The snapshot is the database, nothing to download
	case GUI_MESSAGE_UPDATE_DATABASE:
		f.UpdateProgress(1, 1, "Using library snapshot "+f.folder)
		return "", nil

	case GUI_MESSAGE_ORGANIZE:
		err := fmt.Errorf("organize is not available for a library snapshot: %w", ErrUnsupported)
		f.emit(GUI_MESSAGE_ERROR, err.Error())
		return "", err
	}

	return "", fmt.Errorf("%q: %w", msg.Name, ErrUnknownMessage)
}

var _ db.ProgressUpdater = (*FolderTransport)(nil)

// Update progress on operations
func (f *FolderTransport) UpdateProgress(curr int, total int, message string) {
	f.logger.Debugf("%v (%v/%v)", message, curr, total)
	f.emit(GUI_MESSAGE_UPDATE_PROGRESS, db.ProgressUpdate{
		Curr:    curr,
		Total:   total,
		Message: message,
	})
}

func (f *FolderTransport) updateLocalLibrary() (string, error) {
	f.UpdateProgress(1, 2, "reading "+LIBRARY_FILENAME)

	library, err := f.read(LIBRARY_FILENAME)
	if err != nil {
		f.logger.Error(err)
		f.emit(GUI_MESSAGE_ERROR, err.Error())
		f.UpdateProgress(2, 2, "Failed")
		return "", err
	}

	f.UpdateProgress(2, 2, "Complete")
	f.emit(GUI_MESSAGE_LIBRARY_LOADED, library)
	return library, nil
}

// Read a snapshot file, a missing file is an empty response
func (f *FolderTransport) read(name string) (string, error) {
	buf, err := os.ReadFile(filepath.Join(f.folder, name))
	if errors.Is(err, fs.ErrNotExist) {
		f.logger.Debugf("snapshot file %v is missing", name)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %v: %w", name, err)
	}
	return string(buf), nil
}

func (f *FolderTransport) loadSettings() (string, error) {
	buf, err := os.ReadFile(f.settingsPath())
	if err == nil {
		return string(buf), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read settings: %w", err)
	}

	zap.S().Warnf("Missing settings file, creating a new one.")
	s := librarySettings{}
	s.defaults()

	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(f.settingsPath(), jsonBytes, 0644); err != nil {
		f.logger.Warnf("failed to write default settings - %v", err)
	}

	return string(jsonBytes), nil
}

// Validate and persist a settings payload
func (f *FolderTransport) saveSettings(payload string) error {
	if trimmed := bytes.TrimSpace([]byte(payload)); len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("settings payload is not a JSON object: %w", ErrRejected)
	}

	s := librarySettings{}
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return fmt.Errorf("invalid settings payload (%v): %w", err, ErrRejected)
	}

	// keep the payload itself so unknown keys survive
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(payload), "", "  "); err != nil {
		return fmt.Errorf("invalid settings payload (%v): %w", err, ErrRejected)
	}

	if err := os.WriteFile(f.settingsPath(), out.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func (f *FolderTransport) settingsPath() string {
	return filepath.Join(f.folder, SETTINGS_FILENAME)
}

func (f *FolderTransport) emit(name string, payload any) {
	if f.events != nil {
		f.events.Emit(name, payload)
	}
}
