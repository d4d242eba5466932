package watchlist

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"hotlist/models"
)

const shareBaseURL = "https://wa.me/?text="

// ShareMessage is a pre-filled message and the deep link that opens it.
type ShareMessage struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Share builds the message for an item. Sending it is up to the caller.
func (e *Engine) Share(id string) (ShareMessage, error) {
	item, ok := e.Item(id)
	if !ok {
		return ShareMessage{}, ErrItemNotFound
	}
	text := ShareText(item)
	return ShareMessage{Text: text, URL: shareBaseURL + encodeURIComponent(text)}, nil
}

// ShareText renders the message, one flame per started rating point:
//
//	Check out this movie: *Inception* on Netflix! 🔥🔥🔥🔥🔥 (4.5/5) - Recommended by Sam
func ShareText(item models.WatchlistItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Check out this %s: *%s* on %s!", item.MediaType.Label(), item.Title, item.StreamingLabel)
	if item.MyRating != nil && *item.MyRating > 0 {
		flames := int(math.Ceil(*item.MyRating))
		fmt.Fprintf(&b, " %s (%s/5)", strings.Repeat("🔥", flames), strconv.FormatFloat(*item.MyRating, 'f', -1, 64))
	}
	fmt.Fprintf(&b, " - Recommended by %s", item.RecommendedBy)
	return b.String()
}

// encodeURIComponent escapes spaces as %20 rather than "+" so messaging apps
// show them verbatim.
func encodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
