package settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestReadSettingsCreatesDefaults(t *testing.T) {
	dir := t.TempDir()

	s := ReadSettings(dir)
	if s.BackendMode != BACKEND_FOLDER || s.UIMode != UI_TUI || !s.CheckUpdate {
		t.Errorf("unexpected defaults %+v", s)
	}
	if s.StatusClear != 3*time.Second || s.ProgressHide != 2*time.Second {
		t.Errorf("unexpected delays %v / %v", s.StatusClear, s.ProgressHide)
	}
	if _, err := os.Stat(filepath.Join(dir, SETTINGS_FILENAME)); err != nil {
		t.Errorf("settings file not written: %v", err)
	}

	// defaults read back unchanged
	again := ReadSettings(dir)
	if *again != *s {
		t.Errorf("round trip mismatch\n%+v\n%+v", again, s)
	}
}

func TestReadSettingsFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `backend.mode = http
backend.url = http://nas:9000
backend.timeout = 5s
ui.mode = console
debug = true
ui.romanize_names = true
ui.status_clear = 1500ms
update.check = false
`
	if err := os.WriteFile(filepath.Join(dir, SETTINGS_FILENAME), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := ReadSettings(dir)
	if s.BackendMode != BACKEND_HTTP || s.BackendURL != "http://nas:9000" || s.BackendTimeout != 5*time.Second {
		t.Errorf("backend settings %+v", s)
	}
	if s.UIMode != UI_CONSOLE || !s.Debug || !s.RomanizeNames || s.CheckUpdate {
		t.Errorf("ui settings %+v", s)
	}
	if s.StatusClear != 1500*time.Millisecond || s.ProgressHide != 2*time.Second {
		t.Errorf("delays %v / %v", s.StatusClear, s.ProgressHide)
	}
}

func TestInvalidModeFallsBack(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SETTINGS_FILENAME), []byte("backend.mode = ftp\nui.mode = web\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s := ReadSettings(dir)
	if s.BackendMode != BACKEND_FOLDER || s.UIMode != UI_TUI {
		t.Errorf("modes %v / %v", s.BackendMode, s.UIMode)
	}
}

func TestWorkingFolderOf(t *testing.T) {
	sep := string(os.PathSeparator)
	app := filepath.Join(sep+"Applications", "slm-view.app", "Contents", "MacOS", "slm-view")

	if got := workingFolderOf(app, "darwin"); got != sep+"Applications" {
		t.Errorf("darwin folder = %v", got)
	}
	if got := workingFolderOf(app, "linux"); got != filepath.Dir(app) {
		t.Errorf("linux folder = %v", got)
	}
}

func TestWorkingFolderOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv(WORKING_FOLDER_ENV, dir)

	_, folder, err := GetWorkingFolder()
	if err != nil || folder != dir {
		t.Fatalf("folder %v err %v", folder, err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("folder not created: %v", err)
	}
}

func TestCheckForUpdates(t *testing.T) {
	calls := int32(0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// first attempt fails, the retry succeeds
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"version":"1.2.0"}`))
	}))
	defer srv.Close()

	newer, remote, err := CheckForUpdates(context.Background(), srv.URL, "1.1.9")
	if err != nil || !newer || remote != "1.2.0" {
		t.Errorf("newer %v remote %v err %v", newer, remote, err)
	}

	newer, _, err = CheckForUpdates(context.Background(), srv.URL, "1.2.0")
	if err != nil || newer {
		t.Errorf("same version reported as newer (err %v)", err)
	}
}

func TestCheckForUpdatesFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"slm"}`))
	}))
	defer srv.Close()

	if _, _, err := CheckForUpdates(context.Background(), srv.URL, "1.0.0"); err == nil {
		t.Errorf("expected an error without a published version")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := CheckForUpdates(ctx, srv.URL, "1.0.0"); err == nil {
		t.Errorf("expected an error on a canceled context")
	}
}
