package store

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"hotlist/models"
)

// storedItem decodes both the current item shape and the flat shape written
// by the first releases (poster, genre, imdbRating, rtRating, friend and
// numeric timestamp ids).
type storedItem struct {
	models.WatchlistItem

	// shadows WatchlistItem.ID so numeric ids decode
	ID         json.RawMessage `json:"id"`
	Poster     string          `json:"poster"`
	Genre      json.RawMessage `json:"genre"`
	IMDbRating string          `json:"imdbRating"`
	RTRating   string          `json:"rtRating"`
	Friend     string          `json:"friend"`
}

func decodeItems(raw []byte) ([]models.WatchlistItem, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]models.WatchlistItem, 0, len(elements))
	seen := make(map[string]struct{}, len(elements))
	for i, element := range elements {
		var stored storedItem
		if err := json.Unmarshal(element, &stored); err != nil {
			log.Printf("[store] skipping malformed item %d: %v", i, err)
			continue
		}
		item, ok := stored.migrate()
		if !ok {
			log.Printf("[store] skipping item %d without title", i)
			continue
		}
		item.ID = uniqueID(item.ID, seen)
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}
	return items, nil
}

func (s storedItem) migrate() (models.WatchlistItem, bool) {
	item := s.WatchlistItem
	item.ID = legacyID(s.ID)
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return models.WatchlistItem{}, false
	}

	if mt, ok := models.ParseMediaType(string(item.MediaType)); ok {
		item.MediaType = mt
	} else {
		item.MediaType = models.MediaTypeMovie
	}
	if item.PosterURL == "" {
		item.PosterURL = s.Poster
	}
	if len(item.GenreLabels) == 0 {
		item.GenreLabels = legacyGenres(s.Genre)
	}
	if item.ExternalRatingPrimary == nil {
		item.ExternalRatingPrimary = models.ParseRatingLabel(s.IMDbRating)
	}
	if item.ExternalRatingSecondary == nil {
		item.ExternalRatingSecondary = models.ParseRatingLabel(s.RTRating)
	}
	if item.RecommendedBy == "" {
		item.RecommendedBy = s.Friend
	}
	if strings.TrimSpace(item.StreamingLabel) == "" {
		item.StreamingLabel = models.UnknownStreaming
	}
	if !item.Status.Valid() {
		item.Status = models.StatusWant
	}
	if item.MyRating != nil && !models.ValidRating(*item.MyRating) {
		item.MyRating = nil
	}
	if len(item.Cast) > models.MaxCast {
		item.Cast = item.Cast[:models.MaxCast]
	}
	if item.MediaType != models.MediaTypeTV {
		item.SeasonCount = nil
	}
	if item.ID == "" {
		if item.SourceID > 0 {
			item.ID = item.Key()
		} else {
			item.ID = fmt.Sprintf("%s-%d", item.MediaType, item.DateAdded.UnixMilli())
		}
	}
	return item, true
}

// legacyID returns a string id as is and a numeric one in decimal form.
func legacyID(raw json.RawMessage) string {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return strings.TrimSpace(id)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	return n.String()
}

// legacyGenres accepts either a list of names or the comma separated TMDB
// genre id string the first releases stored ("28, 12" or "Unknown").
func legacyGenres(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		return names
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil
	}
	var labels []string
	for _, part := range strings.Split(joined, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "unknown") {
			continue
		}
		if id, err := strconv.Atoi(part); err == nil {
			if name, ok := models.GenreName(id); ok {
				labels = append(labels, name)
			}
			continue
		}
		labels = append(labels, part)
	}
	return labels
}

func uniqueID(id string, seen map[string]struct{}) string {
	if _, taken := seen[id]; !taken {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, taken := seen[candidate]; !taken {
			return candidate
		}
	}
}
