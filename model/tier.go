package model

import "fmt"

// TierName identifies a purchasable product tier
type TierName string

const (
	TierLite    TierName = "lite"
	TierClassic TierName = "classic"
	TierForever TierName = "forever"
)

// Tier describes what a purchase unlocks
type Tier struct {
	Name              TierName
	Label             string
	Price             int
	MaxPhotos         int
	ReactionRecording bool
	HostingDays       int
	Description       string
}

// Tiers is the product table
var Tiers = map[TierName]Tier{
	TierLite: {
		Name:              TierLite,
		Label:             "Lite",
		Price:             19,
		MaxPhotos:         3,
		ReactionRecording: false,
		HostingDays:       30,
		Description:       "A sweet surprise for your love",
	},
	TierClassic: {
		Name:              TierClassic,
		Label:             "Classic",
		Price:             49,
		MaxPhotos:         7,
		ReactionRecording: true,
		HostingDays:       180,
		Description:       "The full love experience",
	},
	TierForever: {
		Name:              TierForever,
		Label:             "Forever",
		Price:             99,
		MaxPhotos:         10,
		ReactionRecording: true,
		HostingDays:       365,
		Description:       "A love story that lasts",
	},
}

// FeaturesFor returns the feature flags stored on an experience of the given tier
func FeaturesFor(name TierName) (Features, error) {
	t, ok := Tiers[name]
	if !ok {
		return Features{}, fmt.Errorf("%w: unknown tier %q", ErrInvalidRecord, name)
	}
	return Features{
		Tier:              t.Name,
		MaxPhotos:         t.MaxPhotos,
		ReactionRecording: t.ReactionRecording,
		HostingDays:       t.HostingDays,
	}, nil
}
