package service

import (
	"context"
	"fmt"

	"github.com/nhle/animefeed/internal/api"
)

// Ratings wraps the anime and character rating endpoints.
type Ratings struct {
	client *api.Client
}

type animeRatingBody struct {
	AnimeID int64   `json:"anime_id"`
	Rating  float64 `json:"rating"`
}

type characterRatingBody struct {
	CharacterID int64   `json:"character_id"`
	Rating      float64 `json:"rating"`
}

// RateAnime creates or replaces the caller's rating of an anime.
func (r *Ratings) RateAnime(ctx context.Context, animeID int64, rating float64) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	if err := r.client.Post(ctx, "/ratings/anime", animeRatingBody{AnimeID: animeID, Rating: rating}, nil); err != nil {
		return fmt.Errorf("rating anime %d: %w", animeID, err)
	}
	return nil
}

// DeleteAnimeRating removes the caller's rating of an anime.
func (r *Ratings) DeleteAnimeRating(ctx context.Context, animeID int64) error {
	if err := r.client.Delete(ctx, fmt.Sprintf("/ratings/anime/%d", animeID), nil); err != nil {
		return fmt.Errorf("deleting anime rating %d: %w", animeID, err)
	}
	return nil
}

// RateCharacter creates or replaces the caller's rating of a character.
func (r *Ratings) RateCharacter(ctx context.Context, characterID int64, rating float64) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	body := characterRatingBody{CharacterID: characterID, Rating: rating}
	if err := r.client.Post(ctx, "/ratings/character", body, nil); err != nil {
		return fmt.Errorf("rating character %d: %w", characterID, err)
	}
	return nil
}

// DeleteCharacterRating removes the caller's rating of a character.
func (r *Ratings) DeleteCharacterRating(ctx context.Context, characterID int64) error {
	if err := r.client.Delete(ctx, fmt.Sprintf("/ratings/character/%d", characterID), nil); err != nil {
		return fmt.Errorf("deleting character rating %d: %w", characterID, err)
	}
	return nil
}
