package db

import (
	"encoding/json"
	"fmt"
)

// Progress update message, payload of the updateProgress event
type ProgressUpdate struct {
	Curr    int    `json:"curr"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Progess updater interface
type ProgressUpdater interface {
	UpdateProgress(curr int, total int, message string)
}

// Completed once the current step reaches the total
func (p ProgressUpdate) Done() bool {
	return p.Curr >= p.Total
}

// Decode an updateProgress payload (struct, JSON text or decoded JSON object)
func ParseProgressUpdate(payload any) (ProgressUpdate, error) {
	var data []byte

	switch v := payload.(type) {
	case ProgressUpdate:
		return v, nil
	case *ProgressUpdate:
		if v == nil {
			return ProgressUpdate{}, fmt.Errorf("nil progress update")
		}
		return *v, nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ProgressUpdate{}, err
		}
		data = b
	}

	update := ProgressUpdate{}
	if err := json.Unmarshal(data, &update); err != nil {
		return ProgressUpdate{}, fmt.Errorf("malformed progress update: %w", err)
	}
	return update, nil
}
