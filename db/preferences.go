package db

import (
	"github.com/giwty/slm-view/listing"
	"go.uber.org/zap"
)

const (
	PREF_THEME       = "theme"
	PREF_SORT_PREFIX = "sort:"
	DEFAULT_THEME    = "dark"
)

// Key-value persistence for the view preferences (theme, sort per tab)
type Preferences struct {
	db *PersistentDB
}

// Constructor for the preferences store
func NewPreferences(pdb *PersistentDB) *Preferences {
	return &Preferences{db: pdb}
}

// Saved theme, DEFAULT_THEME if none was saved
func (p *Preferences) Theme() string {
	theme := ""
	found, err := p.db.GetEntry(DB_TABLE_PREFERENCES, PREF_THEME, &theme)
	if err != nil {
		zap.S().Warnf("failed to read theme preference - %v", err)
	}
	if !found || theme == "" {
		return DEFAULT_THEME
	}
	return theme
}

func (p *Preferences) SetTheme(theme string) error {
	return p.db.AddEntry(DB_TABLE_PREFERENCES, PREF_THEME, theme)
}

// Saved sort of a tab
func (p *Preferences) Sort(tab string) (listing.Sort, bool) {
	s := listing.Sort{}
	found, err := p.db.GetEntry(DB_TABLE_PREFERENCES, PREF_SORT_PREFIX+tab, &s)
	if err != nil {
		zap.S().Warnf("failed to read sort preference of %v - %v", tab, err)
		return listing.Sort{}, false
	}
	return s, found
}

func (p *Preferences) SetSort(tab string, s listing.Sort) error {
	return p.db.AddEntry(DB_TABLE_PREFERENCES, PREF_SORT_PREFIX+tab, s)
}
