package domain

import "time"

// ExtractionRecord is the bounded, structured output of parsing one page.
type ExtractionRecord struct {
	SourceURL string   `json:"source_url"`
	Title     string   `json:"title"`
	BodyText  string   `json:"body_text"`
	Images    []string `json:"images"`
}

// Clone returns a deep copy so callers can edit fields independently.
func (r ExtractionRecord) Clone() ExtractionRecord {
	out := r
	if r.Images != nil {
		out.Images = append([]string(nil), r.Images...)
	}
	return out
}

// IsEmpty reports whether nothing worth keeping was extracted.
func (r ExtractionRecord) IsEmpty() bool {
	return r.Title == "" && r.BodyText == "" && len(r.Images) == 0
}

// SavedScrape is an archived snapshot of an extraction record.
type SavedScrape struct {
	ID        string    `json:"id"`
	SourceURL string    `json:"source_url"`
	Title     string    `json:"title"`
	BodyText  string    `json:"body_text"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSavedScrape snapshots rec; ID and CreatedAt are assigned by persistence.
func NewSavedScrape(rec ExtractionRecord) SavedScrape {
	c := rec.Clone()
	return SavedScrape{
		SourceURL: c.SourceURL,
		Title:     c.Title,
		BodyText:  c.BodyText,
		Images:    c.Images,
	}
}

// Validate checks the archive save guard.
func (s *SavedScrape) Validate() error {
	if s.SourceURL == "" {
		return Errorf(EVALIDATION, "scrape source URL required")
	}
	if s.Title == "" && s.BodyText == "" {
		return Errorf(EVALIDATION, "scrape has no title or content to save")
	}
	return nil
}

func (s *SavedScrape) GetID() string            { return s.ID }
func (s *SavedScrape) SetID(id string)          { s.ID = id }
func (s *SavedScrape) SetCreatedAt(t time.Time) { s.CreatedAt = t }
