// Package normalize converts loosely-typed backend payloads into the canonical item shapes.
//
// A response may be a JSON-encoded string, raw bytes or an already decoded value, and
// keys may come in several casings. Every field is resolved through an ordered fallback
// table (first defined value wins) and defaulted when unresolved, so the result never
// carries missing fields. Failures are logged and produce empty collections.
package normalize

import (
	"github.com/giwty/slm-view/model"
)

// Fallback tables, in lookup order
var (
	libraryDataKeys = []string{"library_data", "LibraryData", "libraryData"}
	issuesKeys      = []string{"issues", "Issues"}
	numFilesKeys    = []string{"num_files", "NumFiles", "numFiles"}

	libIDKeys      = []string{"id", "Id", "ID"}
	libNameKeys    = []string{"name", "Name"}
	libVersionKeys = []string{"version", "Version"}
	libDlcKeys     = []string{"dlc", "Dlc", "DLC"}
	libTitleIDKeys = []string{"titleId", "TitleId", "titleID", "title_id"}
	libPathKeys    = []string{"path", "Path"}
	libIconKeys    = []string{"icon", "Icon"}
	libUpdateKeys  = []string{"update", "Update"}
	libRegionKeys  = []string{"region", "Region"}
	libTypeKeys    = []string{"type", "Type"}

	issueKeyKeys   = []string{"key", "Key"}
	issueValueKeys = []string{"value", "Value"}

	titleNameKeys    = []string{"Attributes.name", "Attributes.Name", "name", "Name"}
	titleIDKeys      = []string{"Attributes.id", "Attributes.Id", "titleId", "TitleId", "titleID", "id", "Id"}
	titleIconKeys    = []string{"Attributes.iconUrl", "Attributes.IconUrl", "Attributes.icon", "icon", "Icon"}
	titleRegionKeys  = []string{"Attributes.region", "Attributes.Region", "region", "Region"}
	latestUpdateKeys = []string{"latest_update", "LatestUpdate", "latestUpdate"}
	localUpdateKeys  = []string{"local_update", "LocalUpdate", "localUpdate"}
	latestDateKeys   = []string{"latest_update_date", "LatestUpdateDate", "latestUpdateDate"}
	missingDLCKeys   = []string{"missing_dlc", "MissingDLC", "missingDlc", "MissingDlc"}
)

// Normalize an updateLocalLibrary response (library entries, issues and file count).
// A top-level array is accepted as the library entries.
func Library(raw any) model.LibraryResponse {
	response := model.LibraryResponse{
		Items:  []model.LibraryItem{},
		Issues: []model.IssueItem{},
	}

	doc, ok := parse(raw)
	if !ok {
		return response
	}

	var entries []any
	switch v := doc.value.(type) {
	case []any:
		entries = v
	case map[string]any:
		r := record(v)
		entries = r.list(libraryDataKeys...)
		response.Issues = issueItems(r.list(issuesKeys...))
		response.NumFiles = r.integer(numFilesKeys...)
	}

	for _, r := range toRecords(entries) {
		response.Items = append(response.Items, libraryItem(r))
	}

	return response
}

// Library entries of an updateLocalLibrary response
func LibraryItems(raw any) []model.LibraryItem {
	return Library(raw).Items
}

// Issues of an updateLocalLibrary response
func Issues(raw any) []model.IssueItem {
	return Library(raw).Issues
}

// Normalize a missingUpdates response
func MissingUpdates(raw any) []model.MissingUpdateItem {
	result := []model.MissingUpdateItem{}

	doc, ok := parse(raw)
	if !ok {
		return result
	}

	for _, r := range doc.records() {
		result = append(result, model.MissingUpdateItem{
			Name:             r.str(titleNameKeys...),
			TitleID:          r.str(titleIDKeys...),
			Icon:             r.str(titleIconKeys...),
			Region:           r.str(titleRegionKeys...),
			LatestUpdate:     r.integer(latestUpdateKeys...),
			LocalUpdate:      r.integer(localUpdateKeys...),
			LatestUpdateDate: r.str(latestDateKeys...),
			MissingDLC:       r.strings(missingDLCKeys...),
		})
	}

	return result
}

// Normalize a missingDlc response
func MissingDLC(raw any) []model.MissingDLCItem {
	result := []model.MissingDLCItem{}

	doc, ok := parse(raw)
	if !ok {
		return result
	}

	for _, r := range doc.records() {
		result = append(result, model.MissingDLCItem{
			Name:       r.str(titleNameKeys...),
			TitleID:    r.str(titleIDKeys...),
			Icon:       r.str(titleIconKeys...),
			Region:     r.str(titleRegionKeys...),
			MissingDLC: r.strings(missingDLCKeys...),
		})
	}

	return result
}

func libraryItem(r record) model.LibraryItem {
	return model.LibraryItem{
		ID:      r.optionalInt(libIDKeys...),
		Name:    r.str(libNameKeys...),
		Version: r.str(libVersionKeys...),
		Dlc:     r.str(libDlcKeys...),
		TitleID: r.str(libTitleIDKeys...),
		Path:    r.str(libPathKeys...),
		Icon:    r.str(libIconKeys...),
		Update:  r.integer(libUpdateKeys...),
		Region:  r.str(libRegionKeys...),
		Type:    r.str(libTypeKeys...),
	}
}

func issueItems(values []any) []model.IssueItem {
	result := []model.IssueItem{}
	for _, r := range toRecords(values) {
		result = append(result, model.IssueItem{
			Key:   r.str(issueKeyKeys...),
			Value: r.str(issueValueKeys...),
		})
	}
	return result
}
