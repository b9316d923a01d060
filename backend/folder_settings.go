package backend

import (
	"fmt"
)

const (
	TEMPLATE_TITLE_ID    = "TITLE_ID"
	TEMPLATE_TITLE_NAME  = "TITLE_NAME"
	TEMPLATE_DLC_NAME    = "DLC_NAME"
	TEMPLATE_VERSION     = "VERSION"
	TEMPLATE_REGION      = "REGION"
	TEMPLATE_VERSION_TXT = "VERSION_TXT"
	TEMPLATE_TYPE        = "TYPE"
)

// Library manager settings document, as exported next to the library snapshot.
// Used to seed a missing settings.json and to validate saved payloads.
type librarySettings struct {
	VersionsEtag           string          `json:"versions_etag"`
	TitlesEtag             string          `json:"titles_etag"`
	Prodkeys               string          `json:"prod_keys"`
	Folder                 string          `json:"folder"`
	ScanFolders            []string        `json:"scan_folders"`
	GUI                    bool            `json:"gui"`
	Debug                  bool            `json:"debug"`
	CheckForMissingUpdates bool            `json:"check_for_missing_updates"`
	CheckForMissingDLC     bool            `json:"check_for_missing_dlc"`
	OrganizeOptions        organizeOptions `json:"organize_options"`
	ScanRecursively        bool            `json:"scan_recursively"`
	GuiPagingSize          int             `json:"gui_page_size"`
	IgnoreDLCTitleIds      []string        `json:"ignore_dlc_title_ids"`
	IgnoreUpdateTitleIds   []string        `json:"ignore_update_title_ids"`
	IgnoreDLCUpdates       bool            `json:"ignore_dlc_updates"`
	HideDemoGames          bool            `json:"hide_demo_games"`
}

// Organization settings
type organizeOptions struct {
	CreateFolderPerGame  bool   `json:"create_folder_per_game"`
	RenameFiles          bool   `json:"rename_files"`
	DeleteEmptyFolders   bool   `json:"delete_empty_folders"`
	DeleteOldUpdateFiles bool   `json:"delete_old_update_files"`
	FolderNameTemplate   string `json:"folder_name_template"`
	SwitchSafeFileNames  bool   `json:"switch_safe_file_names"`
	FileNameTemplate     string `json:"file_name_template"`
}

// Fill the structure with default values
func (s *librarySettings) defaults() {
	s.ScanFolders = []string{}
	s.GUI = true
	s.CheckForMissingUpdates = true
	s.CheckForMissingDLC = true
	s.OrganizeOptions.FolderNameTemplate = fmt.Sprintf("{%v}", TEMPLATE_TITLE_NAME)
	s.OrganizeOptions.FileNameTemplate = fmt.Sprintf("{%v} ({%v})[{%v}][v{%v}]",
		TEMPLATE_TITLE_NAME,
		TEMPLATE_DLC_NAME,
		TEMPLATE_TITLE_ID,
		TEMPLATE_VERSION,
	)
	s.OrganizeOptions.SwitchSafeFileNames = true
	s.ScanRecursively = true
	s.GuiPagingSize = 100
	s.IgnoreDLCTitleIds = []string{}
	s.IgnoreUpdateTitleIds = []string{}
}
