// Package windowstore is a minimal, file-based domain.Store: it reads a flat
// JSON array of recurring daily work windows from disk. Like jsonstore for
// tasks, it exists only to make the scheduler binary runnable; the pipeline
// depends on nothing but the domain.Store interface.
package windowstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"github.com/kestrelsoft/scheduler/internal/shared/infrastructure/security"
)

// record is the on-disk shape of a single window-template row, with
// time-of-day fields in "HH:MM:SS", matching the external store's contract.
type record struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time-of-day %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// Store reads window templates from a JSON file at Path.
type Store struct {
	Path string
}

// New returns a Store reading from path.
func New(path string) Store {
	return Store{Path: path}
}

// WorkTemplates reads and parses the file, returning only rows whose kind is
// "work".
func (s Store) WorkTemplates() ([]domain.WindowTemplate, error) {
	data, err := security.SafeReadFile(s.Path)
	if err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	templates := make([]domain.WindowTemplate, 0, len(records))
	for _, r := range records {
		if r.Kind != string(domain.WindowKindWork) {
			continue
		}
		start, err := parseClock(r.Start)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(r.End)
		if err != nil {
			return nil, err
		}
		tmpl, err := domain.NewWindowTemplate(r.ID, domain.WindowKindWork, start, end)
		if err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
