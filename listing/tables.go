package listing

import (
	"github.com/giwty/slm-view/model"
)

// Library tab columns
var LibraryTable = Table[model.LibraryItem]{
	Name: func(i model.LibraryItem) string { return i.Name },
	Columns: []Column[model.LibraryItem]{
		{Key: "name", Title: "Title", Value: func(i model.LibraryItem) any { return i.Name }},
		{Key: "titleId", Title: "TitleId", Value: func(i model.LibraryItem) any { return i.TitleID }},
		{Key: "version", Title: "Version", Value: func(i model.LibraryItem) any { return i.Version }},
		{Key: "update", Title: "Update", Numeric: true, Value: func(i model.LibraryItem) any { return i.Update }},
		{Key: "region", Title: "Region", Value: func(i model.LibraryItem) any { return i.Region }},
		{Key: "type", Title: "Type", Value: func(i model.LibraryItem) any { return i.Type }},
		{Key: "path", Title: "Path", Value: func(i model.LibraryItem) any { return i.Path }},
	},
}

// Missing updates tab columns
var UpdatesTable = Table[model.MissingUpdateItem]{
	Name: func(i model.MissingUpdateItem) string { return i.Name },
	Columns: []Column[model.MissingUpdateItem]{
		{Key: "name", Title: "Title", Value: func(i model.MissingUpdateItem) any { return i.Name }},
		{Key: "titleId", Title: "TitleId", Value: func(i model.MissingUpdateItem) any { return i.TitleID }},
		{Key: "local_update", Title: "Local version", Numeric: true, Value: func(i model.MissingUpdateItem) any { return i.LocalUpdate }},
		{Key: "latest_update", Title: "Latest Version", Numeric: true, Value: func(i model.MissingUpdateItem) any { return i.LatestUpdate }},
		{Key: "latest_update_date", Title: "Update Date", Value: func(i model.MissingUpdateItem) any { return i.LatestUpdateDate }},
		{Key: "region", Title: "Region", Value: func(i model.MissingUpdateItem) any { return i.Region }},
	},
}

// Missing DLC tab columns
var DLCTable = Table[model.MissingDLCItem]{
	Name: func(i model.MissingDLCItem) string { return i.Name },
	Columns: []Column[model.MissingDLCItem]{
		{Key: "name", Title: "Title", Value: func(i model.MissingDLCItem) any { return i.Name }},
		{Key: "titleId", Title: "TitleId", Value: func(i model.MissingDLCItem) any { return i.TitleID }},
		{Key: "region", Title: "Region", Value: func(i model.MissingDLCItem) any { return i.Region }},
		{Key: "missing_dlc", Title: "Missing DLCs (titleId - Name)", Value: func(i model.MissingDLCItem) any { return i.MissingDLC }},
	},
}

// Issues tab columns; the file path plays the role of the name
var IssuesTable = Table[model.IssueItem]{
	Name: func(i model.IssueItem) string { return i.Key },
	Columns: []Column[model.IssueItem]{
		{Key: "key", Title: "Skipped file", Value: func(i model.IssueItem) any { return i.Key }},
		{Key: "value", Title: "Reason", Value: func(i model.IssueItem) any { return i.Value }},
	},
}
