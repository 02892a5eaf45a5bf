package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/andrewpaige1/nodebook-graph/models"
)

// Concepts

func (c *Client) ListConcepts(ctx context.Context) ([]models.Concept, error) {
	var out []models.Concept
	if err := c.get(ctx, "/concepts/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetConcept(ctx context.Context, id uint) (*models.ConceptDetail, error) {
	var out models.ConceptDetail
	if err := c.get(ctx, fmt.Sprintf("/concepts/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateConcept(ctx context.Context, in models.ConceptInput) (*models.Concept, error) {
	var out models.Concept
	if err := c.post(ctx, "/concepts/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateConcept(ctx context.Context, id uint, patch models.ConceptPatch) (*models.Concept, error) {
	var out models.Concept
	if err := c.put(ctx, fmt.Sprintf("/concepts/%d", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteConcept(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/concepts/%d", id))
}

// Connections

func (c *Client) ListConnections(ctx context.Context, f models.ConnectionFilter) ([]models.Connection, error) {
	query := url.Values{}
	if f.SourceID != 0 {
		query.Set("source_id", fmt.Sprint(f.SourceID))
	}
	if f.TargetID != 0 {
		query.Set("target_id", fmt.Sprint(f.TargetID))
	}
	var out []models.Connection
	if err := c.get(ctx, "/connections/", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListConceptConnections(ctx context.Context, conceptID uint) ([]models.Connection, error) {
	var out []models.Connection
	if err := c.get(ctx, fmt.Sprintf("/concepts/%d/connections", conceptID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetConnection(ctx context.Context, id uint) (*models.Connection, error) {
	var out models.Connection
	if err := c.get(ctx, fmt.Sprintf("/connections/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateConnection(ctx context.Context, in models.ConnectionInput) (*models.Connection, error) {
	var out models.Connection
	if err := c.post(ctx, "/connections/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateConnection(ctx context.Context, id uint, patch models.ConnectionPatch) (*models.Connection, error) {
	var out models.Connection
	if err := c.put(ctx, fmt.Sprintf("/connections/%d", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteConnection(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/connections/%d", id))
}

// Cards

func (c *Client) ListCards(ctx context.Context, conceptID uint) ([]models.Card, error) {
	var out []models.Card
	if err := c.get(ctx, "/cards/", idQuery("concept_id", conceptID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCard(ctx context.Context, id uint) (*models.Card, error) {
	var out models.Card
	if err := c.get(ctx, fmt.Sprintf("/cards/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCard(ctx context.Context, in models.CardInput) (*models.Card, error) {
	var out models.Card
	if err := c.post(ctx, "/cards/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCard(ctx context.Context, id uint, patch models.CardPatch) (*models.Card, error) {
	var out models.Card
	if err := c.put(ctx, fmt.Sprintf("/cards/%d", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCard(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/cards/%d", id))
}

// Reviews

func (c *Client) ListReviews(ctx context.Context, cardID uint) ([]models.Review, error) {
	var out []models.Review
	if err := c.get(ctx, "/reviews/", idQuery("card_id", cardID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DueReviews(ctx context.Context, now time.Time) ([]models.Review, error) {
	query := url.Values{"now": {now.Format(time.RFC3339)}}
	var out []models.Review
	if err := c.get(ctx, "/reviews/due", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error) {
	var out models.Review
	if err := c.post(ctx, "/reviews/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Notes

func (c *Client) ListNotes(ctx context.Context, conceptID uint) ([]models.Note, error) {
	var out []models.Note
	if err := c.get(ctx, "/notes/", idQuery("concept_id", conceptID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetNote(ctx context.Context, id uint) (*models.Note, error) {
	var out models.Note
	if err := c.get(ctx, fmt.Sprintf("/notes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	var out models.Note
	if err := c.post(ctx, "/notes/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateNote(ctx context.Context, id uint, patch models.NotePatch) (*models.Note, error) {
	var out models.Note
	if err := c.put(ctx, fmt.Sprintf("/notes/%d", id), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteNote(ctx context.Context, id uint) error {
	return c.delete(ctx, fmt.Sprintf("/notes/%d", id))
}

// Stats

func (c *Client) LearningStats(ctx context.Context) (*models.LearningStats, error) {
	var out models.LearningStats
	if err := c.get(ctx, "/stats/learning-stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConceptStats(ctx context.Context, id uint) (*models.ConceptStats, error) {
	var out models.ConceptStats
	if err := c.get(ctx, fmt.Sprintf("/stats/concept-stats/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReviewStats(ctx context.Context, rng models.ReviewRange) (*models.ReviewStats, error) {
	query := url.Values{}
	if !rng.Start.IsZero() {
		query.Set("start_date", rng.Start.Format(time.RFC3339))
	}
	if !rng.End.IsZero() {
		query.Set("end_date", rng.End.Format(time.RFC3339))
	}
	var out models.ReviewStats
	if err := c.get(ctx, "/stats/review-stats", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProgressStats(ctx context.Context) (*models.ProgressStats, error) {
	var out models.ProgressStats
	if err := c.get(ctx, "/stats/progress-stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
