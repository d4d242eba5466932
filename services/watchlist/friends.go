package watchlist

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"hotlist/models"
)

// AddFriend registers a friend. Names are trimmed and need not be unique.
func (e *Engine) AddFriend(ctx context.Context, name string) (models.Friend, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Friend{}, ErrFriendNameRequired
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return models.Friend{}, ErrNotLoaded
	}
	friend := models.Friend{ID: newFriendID(), Name: name}
	e.friends = append(e.friends, friend)
	return friend, e.commitLocked(ctx)
}

// DeleteFriend removes a friend. Items recommended by them keep the name.
func (e *Engine) DeleteFriend(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	idx := slices.IndexFunc(e.friends, func(f models.Friend) bool { return f.ID == id })
	if idx < 0 {
		return ErrFriendNotFound
	}
	e.friends = slices.Delete(e.friends, idx, idx+1)
	return e.commitLocked(ctx)
}

// Friends returns the friends in the order they were added.
func (e *Engine) Friends() []models.Friend {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Friend{}, e.friends...)
}

// Preferences returns the display preferences.
func (e *Engine) Preferences() models.Preferences {
	return e.Snapshot().Preferences
}

// OnboardingComplete reports whether the onboarding wizard was finished.
func (e *Engine) OnboardingComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.onboarded
}

// SetRatingSource selects which external rating is surfaced. The legacy
// values "imdb" and "rt" are accepted.
func (e *Engine) SetRatingSource(ctx context.Context, value string) (models.RatingSource, error) {
	source, ok := models.ParseRatingSource(value)
	if !ok {
		return "", ErrInvalidRatingSource
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return "", ErrNotLoaded
	}
	e.prefs.RatingSource = source
	return source, e.commitLocked(ctx)
}

// SetProfile stores the onboarding answers. A nil profile clears them.
func (e *Engine) SetProfile(ctx context.Context, profile *models.Profile) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	e.prefs.Profile = cleanProfile(profile)
	return e.commitLocked(ctx)
}

// CompleteOnboarding stores the profile, adds the friends named during the
// wizard and marks onboarding as done. Blank names and names that are
// already known are skipped.
func (e *Engine) CompleteOnboarding(ctx context.Context, profile *models.Profile, friendNames []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return ErrNotLoaded
	}
	if profile != nil {
		e.prefs.Profile = cleanProfile(profile)
	}
	for _, name := range friendNames {
		name = strings.TrimSpace(name)
		if name == "" || e.friendByNameLocked(name) >= 0 {
			continue
		}
		e.friends = append(e.friends, models.Friend{ID: newFriendID(), Name: name})
	}
	e.onboarded = true
	return e.commitLocked(ctx)
}

func (e *Engine) friendByNameLocked(name string) int {
	return slices.IndexFunc(e.friends, func(f models.Friend) bool {
		return strings.EqualFold(f.Name, name)
	})
}

func cleanProfile(profile *models.Profile) *models.Profile {
	if profile == nil {
		return nil
	}
	p := *profile
	p.Name = strings.TrimSpace(p.Name)
	p.FavoriteGenres = append([]string(nil), p.FavoriteGenres...)
	p.StreamingServices = append([]string(nil), p.StreamingServices...)
	if p.IsZero() {
		return nil
	}
	return &p
}

func newFriendID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
