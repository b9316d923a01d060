package logger

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

const (
	LOGGER_FILE = "slm-view.log"
)

var (
	logger     *zap.Logger
	winfileReg sync.Once
)

// Create new logger
func newLogger(workingFolder string, debug bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()

	// If not debug keep at info level
	if !debug {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logPath := filepath.Join(workingFolder, LOGGER_FILE)
	// delete old file
	os.Remove(logPath)

	if runtime.GOOS == "windows" {
		winfileReg.Do(func() {
			zap.RegisterSink("winfile", func(u *url.URL) (zap.Sink, error) {
				// Remove leading slash left by url.Parse()
				return os.OpenFile(u.Path[1:], os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
			})
		})
		logPath = "winfile:///" + logPath
	}

	config.OutputPaths = []string{logPath}
	config.ErrorOutputPaths = []string{logPath}

	return config.Build()
}

// Get sugared logger, the log file lives in the working folder
func GetSugar(workingFolder string, debug bool) *zap.SugaredLogger {
	if logger == nil {
		l, err := newLogger(workingFolder, debug)
		if err != nil {
			// the view still runs without a log file
			fmt.Fprintf(os.Stderr, "failed to create logger - %v\n", err)
			l = zap.NewNop()
		}
		logger = l
		zap.ReplaceGlobals(logger)
	}

	return logger.Sugar()
}

// Sync on defer (call it with defer)
func Defer() {
	if logger != nil {
		logger.Sync()
	}
}
