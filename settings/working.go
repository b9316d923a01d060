package settings

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Environment override of the working folder
const WORKING_FOLDER_ENV = "SLM_VIEW_HOME"

// Executable path and the folder holding the view's log, properties and preferences
func GetWorkingFolder() (string, string, error) {
	exePath, exeErr := os.Executable()
	if exeErr != nil {
		return "", "", exeErr
	}

	if home := os.Getenv(WORKING_FOLDER_ENV); home != "" {
		if err := os.MkdirAll(home, os.ModePerm); err != nil {
			return "", "", err
		}
		return exePath, home, nil
	}

	return exePath, workingFolderOf(exePath, runtime.GOOS), nil
}

// Folder of the executable, the one holding the bundle on MacOS
func workingFolderOf(exePath string, goos string) string {
	workingFolder := filepath.Dir(exePath)

	if goos == "darwin" {
		if appIndex := strings.Index(workingFolder, ".app"); appIndex >= 0 {
			sepIndex := strings.LastIndex(workingFolder[:appIndex], string(os.PathSeparator))
			if sepIndex >= 0 {
				workingFolder = workingFolder[:sepIndex]
			}
		}
	}

	return workingFolder
}
