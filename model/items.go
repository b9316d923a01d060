package model

// Local library entry
type LibraryItem struct {
	ID      *int   `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Dlc     string `json:"dlc" yaml:"dlc"`
	TitleID string `json:"titleId" yaml:"titleId"`
	Path    string `json:"path" yaml:"path"`
	Icon    string `json:"icon" yaml:"icon"`
	Update  int    `json:"update" yaml:"update"`
	Region  string `json:"region" yaml:"region"`
	Type    string `json:"type" yaml:"type"`
}

// Title with a newer update available than the local one
type MissingUpdateItem struct {
	Name             string   `json:"name" yaml:"name"`
	TitleID          string   `json:"titleId" yaml:"titleId"`
	Icon             string   `json:"icon" yaml:"icon"`
	Region           string   `json:"region" yaml:"region"`
	LatestUpdate     int      `json:"latest_update" yaml:"latest_update"`
	LocalUpdate      int      `json:"local_update" yaml:"local_update"`
	LatestUpdateDate string   `json:"latest_update_date" yaml:"latest_update_date"`
	MissingDLC       []string `json:"missing_dlc" yaml:"missing_dlc"`
}

// Title with DLC not present locally
type MissingDLCItem struct {
	Name       string   `json:"name" yaml:"name"`
	TitleID    string   `json:"titleId" yaml:"titleId"`
	Icon       string   `json:"icon" yaml:"icon"`
	Region     string   `json:"region" yaml:"region"`
	MissingDLC []string `json:"missing_dlc" yaml:"missing_dlc"`
}

// Key-value pair for an issue (file path -> reason)
type IssueItem struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Normalized updateLocalLibrary response
type LibraryResponse struct {
	Items    []LibraryItem
	Issues   []IssueItem
	NumFiles int
}
