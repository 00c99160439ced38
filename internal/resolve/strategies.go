package resolve

import (
	"context"
	"errors"
	"strings"

	"github.com/matsen/bibref/internal/arxiv"
	"github.com/matsen/bibref/internal/crossref"
)

// Strategy names, reported as Result.Source.
const (
	SourceArXivPattern = "arxiv-pattern"
	SourceArXivSearch  = "arxiv-search"
	SourceCrossref     = "crossref"
)

// ArXivSearcher searches arXiv by title. *arxiv.Client implements it.
type ArXivSearcher interface {
	SearchTitle(ctx context.Context, title string) (*arxiv.Entry, error)
}

// CrossrefSearcher searches Crossref by title. *crossref.Client implements it.
type CrossrefSearcher interface {
	SearchTitle(ctx context.Context, title string) (*crossref.Work, error)
}

var (
	_ ArXivSearcher    = (*arxiv.Client)(nil)
	_ CrossrefSearcher = (*crossref.Client)(nil)
)

// Default returns the standard cascade: inline arXiv identifier, arXiv title
// search, then Crossref title search.
func Default(ax ArXivSearcher, cr CrossrefSearcher) []Strategy {
	return []Strategy{
		PatternStrategy{},
		ArXivSearchStrategy{Client: ax},
		CrossrefStrategy{Client: cr},
	}
}

// PatternStrategy finds an "arXiv:YYMM.NNNNN" identifier quoted in the
// reference itself. It never touches the network.
type PatternStrategy struct{}

func (PatternStrategy) Name() string { return SourceArXivPattern }

func (PatternStrategy) Lookup(_ context.Context, text string) (string, error) {
	id, ok := arxiv.FindCitedID(text)
	if !ok {
		return "", nil
	}
	return arxiv.DOI(id), nil
}

// ArXivSearchStrategy looks the reference up as a title in arXiv and derives
// the DOI from the top entry's identifier.
type ArXivSearchStrategy struct {
	Client ArXivSearcher
}

func (ArXivSearchStrategy) Name() string { return SourceArXivSearch }

func (s ArXivSearchStrategy) Lookup(ctx context.Context, text string) (string, error) {
	if s.Client == nil || strings.TrimSpace(text) == "" {
		return "", nil
	}

	entry, err := s.Client.SearchTitle(ctx, text)
	if err != nil {
		if errors.Is(err, arxiv.ErrNotFound) || errors.Is(err, arxiv.ErrEmptyQuery) {
			return "", nil
		}
		return "", err
	}

	id, ok := entry.ArXivID()
	if !ok {
		return "", nil
	}
	return arxiv.DOI(id), nil
}

// CrossrefStrategy looks the reference up as a title in Crossref and takes
// the DOI of the top work.
type CrossrefStrategy struct {
	Client CrossrefSearcher
}

func (CrossrefStrategy) Name() string { return SourceCrossref }

func (s CrossrefStrategy) Lookup(ctx context.Context, text string) (string, error) {
	if s.Client == nil || strings.TrimSpace(text) == "" {
		return "", nil
	}

	work, err := s.Client.SearchTitle(ctx, text)
	if err != nil {
		if errors.Is(err, crossref.ErrNotFound) || errors.Is(err, crossref.ErrEmptyQuery) {
			return "", nil
		}
		return "", err
	}
	return work.DOI, nil
}
