package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrInvalidRecord is returned when an experience record cannot be played
var ErrInvalidRecord = errors.New("invalid experience record")

// Photo is one uploaded memory
type Photo struct {
	URL     string `json:"url" toml:"url"`
	Caption string `json:"caption" toml:"caption"`
	Order   int    `json:"order" toml:"order"`
}

// Features are the tier-derived switches stored with the record
type Features struct {
	Tier              TierName `json:"tier" toml:"tier"`
	MaxPhotos         int      `json:"maxPhotos" toml:"max_photos"`
	ReactionRecording bool     `json:"reactionRecording" toml:"reaction_recording"`
	HostingDays       int      `json:"hostingDays" toml:"hosting_days"`
}

// Experience is the read-only record the playback engine consumes
type Experience struct {
	ID          string    `json:"id" toml:"id"`
	Slug        string    `json:"slug" toml:"slug"`
	Tier        TierName  `json:"tier" toml:"tier"`
	FromName    string    `json:"from_name" toml:"from_name"`
	ToName      string    `json:"to_name" toml:"to_name"`
	FinalLetter string    `json:"final_letter" toml:"final_letter"`
	Photos      []Photo   `json:"photos" toml:"photos"`
	Features    Features  `json:"features" toml:"features"`
	ExpiresAt   time.Time `json:"expires_at" toml:"expires_at"`
	CreatedAt   time.Time `json:"created_at" toml:"created_at"`
}

// StoryUnit is one revealable memory in playback order
type StoryUnit struct {
	Index    int
	MediaRef string
	Caption  string
	Variant  Variant
}

// SortPhotos orders photos by their Order field, keeping upload order for ties
func (e *Experience) SortPhotos() {
	sort.SliceStable(e.Photos, func(i, j int) bool {
		return e.Photos[i].Order < e.Photos[j].Order
	})
}

// Expired reports whether hosting has lapsed at now; a zero ExpiresAt never expires
func (e *Experience) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Validate checks the fields playback depends on
func (e *Experience) Validate() error {
	if strings.TrimSpace(e.FromName) == "" || strings.TrimSpace(e.ToName) == "" {
		return fmt.Errorf("%w: from_name and to_name are required", ErrInvalidRecord)
	}
	if e.Features.MaxPhotos > 0 && len(e.Photos) > e.Features.MaxPhotos {
		return fmt.Errorf("%w: %d photos exceeds tier limit of %d", ErrInvalidRecord, len(e.Photos), e.Features.MaxPhotos)
	}
	for i, p := range e.Photos {
		if strings.TrimSpace(p.URL) == "" {
			return fmt.Errorf("%w: photo %d has no url", ErrInvalidRecord, i)
		}
	}
	return nil
}

// Units builds the story units in photo order with their cyclic variants
func (e *Experience) Units() []StoryUnit {
	photos := make([]Photo, len(e.Photos))
	copy(photos, e.Photos)
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].Order < photos[j].Order
	})

	units := make([]StoryUnit, len(photos))
	for i, p := range photos {
		units[i] = StoryUnit{
			Index:    i,
			MediaRef: p.URL,
			Caption:  p.Caption,
			Variant:  VariantFor(i),
		}
	}
	return units
}

// RecordingEnabled reports whether the tier includes reaction recording
func (e *Experience) RecordingEnabled() bool {
	return e.Features.ReactionRecording
}
