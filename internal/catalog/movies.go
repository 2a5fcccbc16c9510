package catalog

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// Movies returns every screening in insertion order.
func (c *Catalog) Movies() []domain.Movie {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Movie, 0, len(c.movies))
	for _, m := range c.movies {
		out = append(out, cloneMovie(*m))
	}
	return out
}

// Search returns the screenings whose name contains query, ignoring case.
func (c *Catalog) Search(query string) ([]domain.Movie, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []domain.Movie
	for _, m := range c.movies {
		if strings.Contains(strings.ToLower(m.Name), needle) {
			out = append(out, cloneMovie(*m))
		}
	}
	if len(out) == 0 {
		return nil, fail("search movies", domain.ErrNotFound, "Movie not found")
	}
	return out, nil
}

// Screening returns the screening of name in theatre. An empty theatre
// matches the first screening of name.
func (c *Catalog) Screening(name, theatre string) (domain.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := c.findLocked(name, theatre)
	if m == nil {
		return domain.Movie{}, fail("get movie", domain.ErrNotFound, "Movie not found")
	}
	return cloneMovie(*m), nil
}

// AddMovie stores a new screening. The pair of name and theatre must be
// unique; the id is a unique slug of both.
func (c *Catalog) AddMovie(m domain.Movie) (domain.Movie, error) {
	const op = "add movie"

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.findExactLocked(m.Name, m.TheatreName) != nil {
		return domain.Movie{}, fail(op, domain.ErrConflict,
			fmt.Sprintf("Movie %s is already showing at %s", m.Name, m.TheatreName))
	}

	stored := cloneMovie(m)
	stored.ID = c.uniqueSlugLocked(m.Name + " " + m.TheatreName)
	if stored.Status == "" {
		stored.Status = domain.StatusForAvailability(stored.TicketsAvailable)
	}
	if count, avg := c.reviewStatsLocked(stored.Name); count > 0 {
		stored.ReviewCount, stored.Rating = count, avg
	}

	c.movies = append(c.movies, &stored)
	c.logger.Printf("catalog: added %s (%s)", stored.Name, stored.ID)
	return cloneMovie(stored), nil
}

// UpdateMovie applies the non-empty fields of patch to the screening of name
// in patch.TheatreName. When the ticket count changes and no status is given,
// the status is recomputed.
func (c *Catalog) UpdateMovie(name string, patch domain.Movie) (domain.Movie, error) {
	const op = "update movie"

	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.findLocked(name, patch.TheatreName)
	if m == nil {
		return domain.Movie{}, fail(op, domain.ErrNotFound, "Movie not found")
	}
	if patch.Name != "" && patch.Name != m.Name {
		return domain.Movie{}, fail(op, domain.ErrValidation, "Movie name cannot be changed")
	}

	before := m.TicketsAvailable
	id := m.ID
	if err := copier.CopyWithOption(m, &patch, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
		return domain.Movie{}, fmt.Errorf("%s: %w", op, err)
	}
	m.ID = id
	if patch.Status == "" && m.TicketsAvailable != before {
		m.Status = domain.StatusForAvailability(m.TicketsAvailable)
	}
	return cloneMovie(*m), nil
}

// DeleteMovie removes every screening of name together with its tickets and
// returns how many screenings were removed. Reviews are kept.
func (c *Catalog) DeleteMovie(name string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.movies[:0]
	removed := 0
	for _, m := range c.movies {
		if strings.EqualFold(m.Name, name) {
			delete(c.seats, m.ID)
			removed++
			continue
		}
		kept = append(kept, m)
	}
	if removed == 0 {
		return 0, fail("delete movie", domain.ErrNotFound, "Movie not found")
	}
	for i := len(kept); i < len(c.movies); i++ {
		c.movies[i] = nil
	}
	c.movies = kept

	tickets := c.tickets[:0]
	for _, t := range c.tickets {
		if !strings.EqualFold(t.MovieName, name) {
			tickets = append(tickets, t)
		}
	}
	c.tickets = tickets

	c.logger.Printf("catalog: deleted %d screening(s) of %s", removed, name)
	return removed, nil
}

// SweepStatuses recomputes the status of every screening from its remaining
// tickets and returns how many changed.
func (c *Catalog) SweepStatuses() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	changed := 0
	for _, m := range c.movies {
		if next := domain.StatusForAvailability(m.TicketsAvailable); next != m.Status {
			m.Status = next
			changed++
		}
	}
	return changed
}

func (c *Catalog) findLocked(name, theatre string) *domain.Movie {
	if theatre != "" {
		return c.findExactLocked(name, theatre)
	}
	for _, m := range c.movies {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

func (c *Catalog) findExactLocked(name, theatre string) *domain.Movie {
	for _, m := range c.movies {
		if strings.EqualFold(m.Name, name) && strings.EqualFold(m.TheatreName, theatre) {
			return m
		}
	}
	return nil
}

func (c *Catalog) hasMovieLocked(name string) bool {
	return c.findLocked(name, "") != nil
}

func (c *Catalog) uniqueSlugLocked(source string) string {
	base := slug.Make(source)
	if base == "" {
		base = "movie"
	}
	taken := make(map[string]struct{}, len(c.movies))
	for _, m := range c.movies {
		taken[m.ID] = struct{}{}
	}

	result := base
	for i := 1; ; i++ {
		if _, ok := taken[result]; !ok {
			return result
		}
		result = fmt.Sprintf("%s-%d", base, i)
	}
}

func cloneMovie(m domain.Movie) domain.Movie {
	m.Cast = append([]string(nil), m.Cast...)
	return m
}
