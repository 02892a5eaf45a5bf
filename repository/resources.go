package repository

import (
	"context"
	"time"

	"github.com/andrewpaige1/nodebook-graph/models"
)

// Concepts

func (r *Repository) ListConcepts(ctx context.Context) ([]models.Concept, error) {
	return withFallback(ctx, r, "ListConcepts",
		func(ctx context.Context) ([]models.Concept, error) {
			out, err := r.remote.ListConcepts(ctx)
			if err == nil {
				r.reconcile(ctx, "ListConcepts", func(ctx context.Context) error {
					return r.local.RememberConcepts(ctx, out, true)
				})
			}
			return out, err
		},
		r.local.ListConcepts,
	)
}

func (r *Repository) GetConcept(ctx context.Context, id uint) (*models.ConceptDetail, error) {
	return withFallback(ctx, r, "GetConcept",
		func(ctx context.Context) (*models.ConceptDetail, error) {
			d, err := r.remote.GetConcept(ctx, id)
			if err == nil {
				r.rememberConcept(ctx, "GetConcept", &d.Concept)
			}
			return d, err
		},
		func(ctx context.Context) (*models.ConceptDetail, error) { return r.local.GetConcept(ctx, id) },
	)
}

func (r *Repository) CreateConcept(ctx context.Context, in models.ConceptInput) (*models.Concept, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "CreateConcept",
		func(ctx context.Context) (*models.Concept, error) {
			c, err := r.remote.CreateConcept(ctx, in)
			if err == nil {
				r.rememberConcept(ctx, "CreateConcept", c)
			}
			return c, err
		},
		func(ctx context.Context) (*models.Concept, error) { return r.local.CreateConcept(ctx, in) },
	)
}

func (r *Repository) UpdateConcept(ctx context.Context, id uint, patch models.ConceptPatch) (*models.Concept, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "UpdateConcept",
		func(ctx context.Context) (*models.Concept, error) {
			c, err := r.remote.UpdateConcept(ctx, id, patch)
			if err == nil {
				r.rememberConcept(ctx, "UpdateConcept", c)
			}
			return c, err
		},
		func(ctx context.Context) (*models.Concept, error) { return r.local.UpdateConcept(ctx, id, patch) },
	)
}

func (r *Repository) DeleteConcept(ctx context.Context, id uint) error {
	return withFallbackErr(ctx, r, "DeleteConcept",
		func(ctx context.Context) error {
			if err := r.remote.DeleteConcept(ctx, id); err != nil {
				return err
			}
			r.reconcile(ctx, "DeleteConcept", func(ctx context.Context) error { return r.local.DeleteConcept(ctx, id) })
			return nil
		},
		func(ctx context.Context) error { return r.local.DeleteConcept(ctx, id) },
	)
}

func (r *Repository) rememberConcept(ctx context.Context, op string, c *models.Concept) {
	r.reconcile(ctx, op, func(ctx context.Context) error {
		return r.local.RememberConcepts(ctx, []models.Concept{*c}, false)
	})
}

// Connections

func (r *Repository) ListConnections(ctx context.Context, f models.ConnectionFilter) ([]models.Connection, error) {
	return withFallback(ctx, r, "ListConnections",
		func(ctx context.Context) ([]models.Connection, error) {
			out, err := r.remote.ListConnections(ctx, f)
			if err == nil {
				r.reconcile(ctx, "ListConnections", func(ctx context.Context) error {
					return r.local.RememberConnections(ctx, out, f.IsZero())
				})
			}
			return out, err
		},
		func(ctx context.Context) ([]models.Connection, error) { return r.local.ListConnections(ctx, f) },
	)
}

func (r *Repository) ListConceptConnections(ctx context.Context, conceptID uint) ([]models.Connection, error) {
	return withFallback(ctx, r, "ListConceptConnections",
		func(ctx context.Context) ([]models.Connection, error) {
			out, err := r.remote.ListConceptConnections(ctx, conceptID)
			if err == nil {
				r.reconcile(ctx, "ListConceptConnections", func(ctx context.Context) error {
					return r.local.RememberConnections(ctx, out, false)
				})
			}
			return out, err
		},
		func(ctx context.Context) ([]models.Connection, error) {
			return r.local.ListConceptConnections(ctx, conceptID)
		},
	)
}

func (r *Repository) GetConnection(ctx context.Context, id uint) (*models.Connection, error) {
	return withFallback(ctx, r, "GetConnection",
		func(ctx context.Context) (*models.Connection, error) {
			c, err := r.remote.GetConnection(ctx, id)
			if err == nil {
				r.rememberConnection(ctx, "GetConnection", c)
			}
			return c, err
		},
		func(ctx context.Context) (*models.Connection, error) { return r.local.GetConnection(ctx, id) },
	)
}

func (r *Repository) CreateConnection(ctx context.Context, in models.ConnectionInput) (*models.Connection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "CreateConnection",
		func(ctx context.Context) (*models.Connection, error) {
			c, err := r.remote.CreateConnection(ctx, in)
			if err == nil {
				r.rememberConnection(ctx, "CreateConnection", c)
			}
			return c, err
		},
		func(ctx context.Context) (*models.Connection, error) { return r.local.CreateConnection(ctx, in) },
	)
}

func (r *Repository) UpdateConnection(ctx context.Context, id uint, patch models.ConnectionPatch) (*models.Connection, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "UpdateConnection",
		func(ctx context.Context) (*models.Connection, error) {
			c, err := r.remote.UpdateConnection(ctx, id, patch)
			if err == nil {
				r.rememberConnection(ctx, "UpdateConnection", c)
			}
			return c, err
		},
		func(ctx context.Context) (*models.Connection, error) {
			return r.local.UpdateConnection(ctx, id, patch)
		},
	)
}

func (r *Repository) DeleteConnection(ctx context.Context, id uint) error {
	return withFallbackErr(ctx, r, "DeleteConnection",
		func(ctx context.Context) error {
			if err := r.remote.DeleteConnection(ctx, id); err != nil {
				return err
			}
			r.reconcile(ctx, "DeleteConnection", func(ctx context.Context) error { return r.local.DeleteConnection(ctx, id) })
			return nil
		},
		func(ctx context.Context) error { return r.local.DeleteConnection(ctx, id) },
	)
}

func (r *Repository) rememberConnection(ctx context.Context, op string, c *models.Connection) {
	r.reconcile(ctx, op, func(ctx context.Context) error {
		return r.local.RememberConnections(ctx, []models.Connection{*c}, false)
	})
}

// Cards

func (r *Repository) ListCards(ctx context.Context, conceptID uint) ([]models.Card, error) {
	return withFallback(ctx, r, "ListCards",
		func(ctx context.Context) ([]models.Card, error) {
			out, err := r.remote.ListCards(ctx, conceptID)
			if err == nil {
				r.reconcile(ctx, "ListCards", func(ctx context.Context) error {
					return r.local.RememberCards(ctx, out, conceptID == 0)
				})
			}
			return out, err
		},
		func(ctx context.Context) ([]models.Card, error) { return r.local.ListCards(ctx, conceptID) },
	)
}

func (r *Repository) GetCard(ctx context.Context, id uint) (*models.Card, error) {
	return withFallback(ctx, r, "GetCard",
		func(ctx context.Context) (*models.Card, error) {
			c, err := r.remote.GetCard(ctx, id)
			if err == nil {
				r.rememberCard(ctx, "GetCard", c)
			}
			return c, err
		},
		func(ctx context.Context) (*models.Card, error) { return r.local.GetCard(ctx, id) },
	)
}

func (r *Repository) CreateCard(ctx context.Context, in models.CardInput) (*models.Card, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "CreateCard",
		func(ctx context.Context) (*models.Card, error) {
			c, err := r.remote.CreateCard(ctx, in)
			if err == nil {
				r.rememberCard(ctx, "CreateCard", c)
			}
			return c, err
		},
		func(ctx context.Context) (*models.Card, error) { return r.local.CreateCard(ctx, in) },
	)
}

func (r *Repository) UpdateCard(ctx context.Context, id uint, patch models.CardPatch) (*models.Card, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "UpdateCard",
		func(ctx context.Context) (*models.Card, error) {
			c, err := r.remote.UpdateCard(ctx, id, patch)
			if err == nil {
				r.rememberCard(ctx, "UpdateCard", c)
			}
			return c, err
		},
		func(ctx context.Context) (*models.Card, error) { return r.local.UpdateCard(ctx, id, patch) },
	)
}

func (r *Repository) DeleteCard(ctx context.Context, id uint) error {
	return withFallbackErr(ctx, r, "DeleteCard",
		func(ctx context.Context) error {
			if err := r.remote.DeleteCard(ctx, id); err != nil {
				return err
			}
			r.reconcile(ctx, "DeleteCard", func(ctx context.Context) error { return r.local.DeleteCard(ctx, id) })
			return nil
		},
		func(ctx context.Context) error { return r.local.DeleteCard(ctx, id) },
	)
}

func (r *Repository) rememberCard(ctx context.Context, op string, c *models.Card) {
	r.reconcile(ctx, op, func(ctx context.Context) error {
		return r.local.RememberCards(ctx, []models.Card{*c}, false)
	})
}

// Reviews

func (r *Repository) ListReviews(ctx context.Context, cardID uint) ([]models.Review, error) {
	return withFallback(ctx, r, "ListReviews",
		func(ctx context.Context) ([]models.Review, error) {
			out, err := r.remote.ListReviews(ctx, cardID)
			if err == nil {
				r.reconcile(ctx, "ListReviews", func(ctx context.Context) error {
					return r.local.RememberReviews(ctx, out, cardID == 0)
				})
			}
			return out, err
		},
		func(ctx context.Context) ([]models.Review, error) { return r.local.ListReviews(ctx, cardID) },
	)
}

func (r *Repository) DueReviews(ctx context.Context, now time.Time) ([]models.Review, error) {
	return withFallback(ctx, r, "DueReviews",
		func(ctx context.Context) ([]models.Review, error) {
			out, err := r.remote.DueReviews(ctx, now)
			if err == nil {
				r.reconcile(ctx, "DueReviews", func(ctx context.Context) error {
					return r.local.RememberReviews(ctx, out, false)
				})
			}
			return out, err
		},
		func(ctx context.Context) ([]models.Review, error) { return r.local.DueReviews(ctx, now) },
	)
}

func (r *Repository) CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "CreateReview",
		func(ctx context.Context) (*models.Review, error) {
			rv, err := r.remote.CreateReview(ctx, in)
			if err == nil {
				r.reconcile(ctx, "CreateReview", func(ctx context.Context) error {
					return r.local.RememberReviews(ctx, []models.Review{*rv}, false)
				})
			}
			return rv, err
		},
		func(ctx context.Context) (*models.Review, error) { return r.local.CreateReview(ctx, in) },
	)
}

// Notes

func (r *Repository) ListNotes(ctx context.Context, conceptID uint) ([]models.Note, error) {
	return withFallback(ctx, r, "ListNotes",
		func(ctx context.Context) ([]models.Note, error) {
			out, err := r.remote.ListNotes(ctx, conceptID)
			if err == nil {
				r.reconcile(ctx, "ListNotes", func(ctx context.Context) error {
					return r.local.RememberNotes(ctx, out, conceptID == 0)
				})
			}
			return out, err
		},
		func(ctx context.Context) ([]models.Note, error) { return r.local.ListNotes(ctx, conceptID) },
	)
}

func (r *Repository) GetNote(ctx context.Context, id uint) (*models.Note, error) {
	return withFallback(ctx, r, "GetNote",
		func(ctx context.Context) (*models.Note, error) {
			n, err := r.remote.GetNote(ctx, id)
			if err == nil {
				r.rememberNote(ctx, "GetNote", n)
			}
			return n, err
		},
		func(ctx context.Context) (*models.Note, error) { return r.local.GetNote(ctx, id) },
	)
}

func (r *Repository) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "CreateNote",
		func(ctx context.Context) (*models.Note, error) {
			n, err := r.remote.CreateNote(ctx, in)
			if err == nil {
				r.rememberNote(ctx, "CreateNote", n)
			}
			return n, err
		},
		func(ctx context.Context) (*models.Note, error) { return r.local.CreateNote(ctx, in) },
	)
}

func (r *Repository) UpdateNote(ctx context.Context, id uint, patch models.NotePatch) (*models.Note, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "UpdateNote",
		func(ctx context.Context) (*models.Note, error) {
			n, err := r.remote.UpdateNote(ctx, id, patch)
			if err == nil {
				r.rememberNote(ctx, "UpdateNote", n)
			}
			return n, err
		},
		func(ctx context.Context) (*models.Note, error) { return r.local.UpdateNote(ctx, id, patch) },
	)
}

func (r *Repository) DeleteNote(ctx context.Context, id uint) error {
	return withFallbackErr(ctx, r, "DeleteNote",
		func(ctx context.Context) error {
			if err := r.remote.DeleteNote(ctx, id); err != nil {
				return err
			}
			r.reconcile(ctx, "DeleteNote", func(ctx context.Context) error { return r.local.DeleteNote(ctx, id) })
			return nil
		},
		func(ctx context.Context) error { return r.local.DeleteNote(ctx, id) },
	)
}

func (r *Repository) rememberNote(ctx context.Context, op string, n *models.Note) {
	r.reconcile(ctx, op, func(ctx context.Context) error {
		return r.local.RememberNotes(ctx, []models.Note{*n}, false)
	})
}
