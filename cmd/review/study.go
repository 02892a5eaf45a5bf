package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/graph"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/review"
)

type explainer interface {
	Explain(ctx context.Context, req models.LLMRequest) (*models.LLMResponse, error)
}

// study drives a session from line based input.
type study struct {
	session  *review.Session
	tutor    explainer
	concepts graph.Source
	in       *bufio.Scanner
	out      io.Writer
}

func newStudy(session *review.Session, tutor explainer, concepts graph.Source, in io.Reader, out io.Writer) *study {
	return &study{session: session, tutor: tutor, concepts: concepts, in: bufio.NewScanner(in), out: out}
}

func (s *study) run(ctx context.Context) error {
	for {
		switch s.session.State() {
		case review.Empty:
			fmt.Fprintln(s.out, "Nothing to review.")
			return nil
		case review.Failed:
			fmt.Fprintf(s.out, "Could not load cards: %v\nPress r to retry or q to quit.\n", s.session.Err())
			line, ok := s.read()
			if !ok || line != "r" {
				return s.session.Err()
			}
			if err := s.session.Retry(ctx); err != nil && ctx.Err() != nil {
				return err
			}
		case review.Completed:
			_, total := s.session.Progress()
			fmt.Fprintf(s.out, "Session complete, %d cards reviewed. Press r to restart or enter to quit.\n", total)
			line, ok := s.read()
			if !ok || line != "r" {
				return nil
			}
			if err := s.session.Restart(); err != nil {
				return err
			}
		case review.InProgress:
			quit, err := s.card(ctx)
			if err != nil || quit {
				return err
			}
		default:
			return fmt.Errorf("unexpected session state %s", s.session.State())
		}
	}
}

// card shows the current card and takes one rating for it.
func (s *study) card(ctx context.Context) (quit bool, err error) {
	card, ok := s.session.Current()
	if !ok {
		return true, nil
	}
	done, total := s.session.Progress()

	fmt.Fprintf(s.out, "\n[%d/%d]", done+1, total)
	if card.Concept != nil {
		fmt.Fprintf(s.out, " %s", card.Concept.Name)
	}
	fmt.Fprintf(s.out, "\nQ: %s\n(enter to reveal, q to quit)\n", card.Question)
	line, ok := s.read()
	if !ok || line == "q" {
		return true, nil
	}
	if err := s.session.RevealAnswer(); err != nil {
		return false, err
	}

	fmt.Fprintf(s.out, "A: %s\n", card.Answer)
	if card.Explanation != "" {
		fmt.Fprintf(s.out, "   %s\n", card.Explanation)
	}

	for {
		fmt.Fprintln(s.out, "Rate 1 (hard) to 5 (easy), e to explain, g for related concepts, q to quit:")
		line, ok := s.read()
		if !ok || line == "q" {
			return true, nil
		}
		switch line {
		case "e":
			s.explain(ctx, card)
			continue
		case "g":
			s.related(ctx, card.ConceptID)
			continue
		}

		difficulty, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintf(s.out, "%q is not a rating.\n", line)
			continue
		}
		saved, err := s.session.Rate(ctx, difficulty)
		if errors.Is(err, apperrors.ErrInvalidDifficulty) {
			fmt.Fprintln(s.out, "Ratings go from 1 to 5.")
			continue
		}
		if errors.Is(err, apperrors.ErrPartialFailure) {
			fmt.Fprintln(s.out, "Could not save this review, moving on.")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "Next review on %s.\n", saved.NextReviewDate.Format("Mon Jan 2"))
		return false, nil
	}
}

func (s *study) explain(ctx context.Context, card models.Card) {
	req := models.LLMRequest{Concept: card.Question, Context: &card.Answer}
	if card.Concept != nil {
		req.Concept = card.Concept.Name
		req.ConceptID = card.Concept.ID
	}
	resp, err := s.tutor.Explain(ctx, req)
	if err != nil {
		fmt.Fprintf(s.out, "No explanation available: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, resp.Response)
}

// related lists the concepts connected to conceptID in the concept graph.
func (s *study) related(ctx context.Context, conceptID uint) {
	g, err := graph.Load(ctx, s.concepts)
	if err != nil {
		fmt.Fprintf(s.out, "Concept graph unavailable: %v\n", err)
		return
	}
	ids := g.Neighbors(conceptID)
	if len(ids) == 0 {
		fmt.Fprintln(s.out, "No related concepts.")
		return
	}
	for _, id := range ids {
		if n, ok := g.Node(id); ok {
			fmt.Fprintf(s.out, "  %s (degree %d)\n", n.Name, n.Degree)
		}
	}
}

func (s *study) read() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(strings.ToLower(s.in.Text())), true
}
