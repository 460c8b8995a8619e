package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// ContentRecord is the persisted form of content produced for one brief.
type ContentRecord struct {
	BriefID   string    `json:"brief_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Hashtags  []string  `json:"hashtags"`
	MediaURLs []string  `json:"media_urls"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveContent inserts or replaces the content row for a brief.
// Media URLs already attached to an existing row are preserved and merged.
func (db *DB) SaveContent(rec *ContentRecord) error {
	existing, err := db.GetContent(rec.BriefID)
	if err != nil {
		return err
	}
	media := rec.MediaURLs
	if existing != nil {
		media = mergeURLs(existing.MediaURLs, media)
	}

	hashtags, _ := json.Marshal(rec.Hashtags)
	mediaJSON, _ := json.Marshal(media)
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = db.Exec(`
		INSERT INTO content (brief_id, title, body, hashtags, media_urls, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(brief_id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			hashtags = excluded.hashtags,
			media_urls = excluded.media_urls
	`, rec.BriefID, rec.Title, rec.Body, string(hashtags), string(mediaJSON), formatTime(createdAt))
	if err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	return nil
}

// GetContent retrieves the content row for a brief. Returns nil when no
// content has been saved yet.
func (db *DB) GetContent(briefID string) (*ContentRecord, error) {
	row := db.QueryRow(`
		SELECT brief_id, title, body, hashtags, media_urls, created_at
		FROM content WHERE brief_id = ?
	`, briefID)

	var rec ContentRecord
	var hashtags, mediaJSON, createdAt string
	err := row.Scan(&rec.BriefID, &rec.Title, &rec.Body, &hashtags, &mediaJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}

	json.Unmarshal([]byte(hashtags), &rec.Hashtags)
	json.Unmarshal([]byte(mediaJSON), &rec.MediaURLs)
	rec.CreatedAt, _ = parseTime(createdAt)
	return &rec, nil
}

// AttachMedia appends a media URL to the brief's content row, creating a
// stub row if content has not been saved yet. Appending a URL that is
// already present is a no-op.
func (db *DB) AttachMedia(briefID, url string) error {
	existing, err := db.GetContent(briefID)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.SaveContent(&ContentRecord{
			BriefID:   briefID,
			MediaURLs: []string{url},
		})
	}

	merged := mergeURLs(existing.MediaURLs, []string{url})
	if len(merged) == len(existing.MediaURLs) {
		return nil
	}

	mediaJSON, _ := json.Marshal(merged)
	_, err = db.Exec(`
		UPDATE content SET media_urls = ? WHERE brief_id = ?
	`, string(mediaJSON), briefID)
	if err != nil {
		return fmt.Errorf("attach media: %w", err)
	}
	return nil
}

// DeleteContent deletes the content row for a brief.
func (db *DB) DeleteContent(briefID string) error {
	_, err := db.Exec("DELETE FROM content WHERE brief_id = ?", briefID)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

// mergeURLs appends the URLs from extra that base does not already contain.
func mergeURLs(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, u := range base {
		seen[u] = true
	}
	out := append([]string(nil), base...)
	for _, u := range extra {
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
