package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sample builds the demo record used by the seed command and local playback
func Sample(slug string, tier TierName, now time.Time) (*Experience, error) {
	features, err := FeaturesFor(tier)
	if err != nil {
		return nil, err
	}

	captions := []string{
		"The day we met, and you laughed at my terrible joke",
		"Our first trip together, lost and happy",
		"That rainy Sunday we never left the couch",
		"You, me, and far too much cake",
		"The sunset where I knew",
		"Dancing in the kitchen at 2am",
		"Every ordinary day that felt like magic",
		"The little notes you leave me",
		"Our favourite corner of the city",
		"Here's to a hundred more",
	}

	photos := make([]Photo, 0, features.MaxPhotos)
	for i := 0; i < features.MaxPhotos && i < len(captions); i++ {
		photos = append(photos, Photo{
			URL:     fmt.Sprintf("https://picsum.photos/seed/lovescroll-%d/800/1000", i+1),
			Caption: captions[i],
			Order:   i,
		})
	}

	return &Experience{
		ID:       uuid.NewString(),
		Slug:     slug,
		Tier:     tier,
		FromName: "Alex",
		ToName:   "Sam",
		FinalLetter: "Sam,\n\nEvery memory in here is a small piece of why I love you. " +
			"Thank you for every laugh, every adventure and every quiet evening.\n\n" +
			"I can't wait to make a thousand more memories with you.",
		Photos:    photos,
		Features:  features,
		ExpiresAt: now.Add(time.Duration(features.HostingDays) * 24 * time.Hour),
		CreatedAt: now,
	}, nil
}
