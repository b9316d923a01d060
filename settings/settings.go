package settings

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/magiconair/properties"
	"go.uber.org/zap"
)

const (
	SETTINGS_FILENAME = "slm-view.properties"
	SLM_VIEW_VERSION  = "1.0.0"

	BACKEND_FOLDER = "folder"
	BACKEND_HTTP   = "http"

	UI_TUI     = "tui"
	UI_CONSOLE = "console"
)

// Property keys
const (
	KEY_BACKEND_MODE    = "backend.mode"
	KEY_BACKEND_FOLDER  = "backend.folder"
	KEY_BACKEND_URL     = "backend.url"
	KEY_BACKEND_TIMEOUT = "backend.timeout"
	KEY_UI_MODE         = "ui.mode"
	KEY_DEBUG           = "debug"
	KEY_ROMANIZE_NAMES  = "ui.romanize_names"
	KEY_STATUS_CLEAR    = "ui.status_clear"
	KEY_PROGRESS_HIDE   = "ui.progress_hide"
	KEY_CHECK_UPDATE    = "update.check"
)

// Settings of the view
type ViewSettings struct {
	baseFolder string

	BackendMode    string
	BackendFolder  string
	BackendURL     string
	BackendTimeout time.Duration
	UIMode         string
	Debug          bool
	RomanizeNames  bool
	StatusClear    time.Duration
	ProgressHide   time.Duration
	CheckUpdate    bool
}

// Settings read from the working folder; a missing file is created with the defaults
func ReadSettings(baseFolder string) *ViewSettings {
	s := &ViewSettings{baseFolder: baseFolder}
	s.defaults()

	p, err := properties.LoadFile(s.getPath(), properties.UTF8)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			zap.S().Warnf("Missing settings file, creating a new one.")
		} else {
			zap.S().Warnf("Corrupted settings file (%v), using defaults.", err)
		}
		if saveErr := s.Save(); saveErr != nil {
			zap.S().Warnf("failed to write settings - %v", saveErr)
		}
		return s
	}

	s.load(p)
	return s
}

// Fill the structure with default values
func (s *ViewSettings) defaults() {
	s.BackendMode = BACKEND_FOLDER
	s.BackendFolder = filepath.Join(s.baseFolder, "library")
	s.BackendURL = "http://localhost:8090"
	s.BackendTimeout = 30 * time.Second
	s.UIMode = UI_TUI
	s.Debug = false
	s.RomanizeNames = false
	s.StatusClear = 3 * time.Second
	s.ProgressHide = 2 * time.Second
	s.CheckUpdate = true
}

func (s *ViewSettings) load(p *properties.Properties) {
	s.BackendMode = oneOf(p, KEY_BACKEND_MODE, s.BackendMode, BACKEND_FOLDER, BACKEND_HTTP)
	s.BackendFolder = p.GetString(KEY_BACKEND_FOLDER, s.BackendFolder)
	s.BackendURL = p.GetString(KEY_BACKEND_URL, s.BackendURL)
	s.BackendTimeout = p.GetParsedDuration(KEY_BACKEND_TIMEOUT, s.BackendTimeout)
	s.UIMode = oneOf(p, KEY_UI_MODE, s.UIMode, UI_TUI, UI_CONSOLE)
	s.Debug = p.GetBool(KEY_DEBUG, s.Debug)
	s.RomanizeNames = p.GetBool(KEY_ROMANIZE_NAMES, s.RomanizeNames)
	s.StatusClear = p.GetParsedDuration(KEY_STATUS_CLEAR, s.StatusClear)
	s.ProgressHide = p.GetParsedDuration(KEY_PROGRESS_HIDE, s.ProgressHide)
	s.CheckUpdate = p.GetBool(KEY_CHECK_UPDATE, s.CheckUpdate)
}

// Save to the working folder
func (s *ViewSettings) Save() error {
	p := properties.NewProperties()
	for _, kv := range [][2]string{
		{KEY_BACKEND_MODE, s.BackendMode},
		{KEY_BACKEND_FOLDER, s.BackendFolder},
		{KEY_BACKEND_URL, s.BackendURL},
		{KEY_BACKEND_TIMEOUT, s.BackendTimeout.String()},
		{KEY_UI_MODE, s.UIMode},
		{KEY_DEBUG, strconv.FormatBool(s.Debug)},
		{KEY_ROMANIZE_NAMES, strconv.FormatBool(s.RomanizeNames)},
		{KEY_STATUS_CLEAR, s.StatusClear.String()},
		{KEY_PROGRESS_HIDE, s.ProgressHide.String()},
		{KEY_CHECK_UPDATE, strconv.FormatBool(s.CheckUpdate)},
	} {
		if _, _, err := p.Set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	p.SetComment(KEY_BACKEND_MODE, "folder (library snapshot) or http (running library manager)")
	p.SetComment(KEY_UI_MODE, "tui or console")

	var buf bytes.Buffer
	if _, err := p.WriteComment(&buf, "# ", properties.UTF8); err != nil {
		return err
	}
	return os.WriteFile(s.getPath(), buf.Bytes(), 0644)
}

// Get the settings file path
func (s *ViewSettings) getPath() string {
	return filepath.Join(s.baseFolder, SETTINGS_FILENAME)
}

// value of key if it is one of the allowed ones
func oneOf(p *properties.Properties, key string, def string, allowed ...string) string {
	v := p.GetString(key, def)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	zap.S().Warnf("invalid value %q for %v, using %q", v, key, def)
	return def
}
