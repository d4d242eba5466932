package models

// Profile holds the onboarding answers. The engine stores it verbatim; only
// the presentation layer interprets it.
type Profile struct {
	Name              string   `json:"name"`
	Gender            string   `json:"gender,omitempty"`
	AgeGroup          string   `json:"ageGroup,omitempty"`
	FavoriteGenres    []string `json:"favoriteGenres,omitempty"`
	StreamingServices []string `json:"streamingServices,omitempty"`
}

// IsZero reports whether no onboarding answer has been recorded.
func (p Profile) IsZero() bool {
	return p.Name == "" && p.Gender == "" && p.AgeGroup == "" &&
		len(p.FavoriteGenres) == 0 && len(p.StreamingServices) == 0
}

// Preferences contains the user's display settings.
type Preferences struct {
	RatingSource RatingSource `json:"ratingSource"`
	Profile      *Profile     `json:"profile,omitempty"`
}

// DefaultPreferences returns the settings used before anything was saved.
func DefaultPreferences() Preferences {
	return Preferences{RatingSource: RatingSourcePrimary}
}

// Snapshot is the complete persisted state of the watchlist.
type Snapshot struct {
	Items              []WatchlistItem `json:"items"`
	Friends            []Friend        `json:"friends"`
	Preferences        Preferences     `json:"preferences"`
	OnboardingComplete bool            `json:"onboardingComplete"`
}

// EmptySnapshot returns the state of a fresh install.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Items:       []WatchlistItem{},
		Friends:     []Friend{},
		Preferences: DefaultPreferences(),
	}
}
