package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

// Book reserves seats of one screening for username. The request is checked
// against the screening's remaining capacity while the catalog is locked.
func (c *Catalog) Book(username string, req domain.BookingRequest) (domain.Ticket, error) {
	const op = "book tickets"

	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.findLocked(req.MovieName, req.TheatreName)
	if m == nil {
		return domain.Ticket{}, fail(op, domain.ErrNotFound, "Movie not found")
	}
	if m.TicketsAvailable <= 0 {
		return domain.Ticket{}, fail(op, domain.ErrConflict, "All Tickets Sold Out!")
	}

	seats := make([]string, len(req.SeatNumbers))
	for i, s := range req.SeatNumbers {
		seats[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	form := validate.BookingForm{
		MovieName:   m.Name,
		TheatreName: m.TheatreName,
		NoOfTickets: req.NoOfTickets,
		SeatNumbers: seats,
		Available:   m.TicketsAvailable,
	}
	if res := validate.Check(form); !res.Valid {
		return domain.Ticket{}, &domain.Error{Op: op, Kind: domain.ErrValidation, Message: res.First(form), Fields: res.Errors}
	}

	booked := c.seats[m.ID]
	var taken []string
	for _, s := range seats {
		if _, ok := booked[s]; ok {
			taken = append(taken, s)
		}
	}
	if len(taken) > 0 {
		return domain.Ticket{}, fail(op, domain.ErrConflict, "Seats already booked: "+strings.Join(taken, ", "))
	}

	if booked == nil {
		booked = make(map[string]struct{}, len(seats))
		c.seats[m.ID] = booked
	}
	for _, s := range seats {
		booked[s] = struct{}{}
	}
	m.TicketsAvailable -= req.NoOfTickets
	m.Status = domain.StatusForAvailability(m.TicketsAvailable)

	ticket := &domain.Ticket{
		ID:          uuid.NewString(),
		Username:    username,
		MovieName:   m.Name,
		TheatreName: m.TheatreName,
		NoOfTickets: req.NoOfTickets,
		SeatNumbers: seats,
		BookedAt:    c.now().UTC(),
	}
	c.tickets = append(c.tickets, ticket)
	c.logger.Printf("catalog: %s booked %d seat(s) for %s at %s", username, ticket.NoOfTickets, m.Name, m.TheatreName)
	return cloneTicket(*ticket), nil
}

// Tickets lists the tickets sold for movieName across theatres, oldest
// first.
func (c *Catalog) Tickets(movieName string) ([]domain.Ticket, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasMovieLocked(movieName) {
		return nil, fail("booked tickets", domain.ErrNotFound, "Movie not found")
	}
	out := []domain.Ticket{}
	for _, t := range c.tickets {
		if strings.EqualFold(t.MovieName, movieName) {
			out = append(out, cloneTicket(*t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookedAt.Before(out[j].BookedAt) })
	return out, nil
}

// RefreshTicketStatus recomputes the status of the screening that ticketID
// was sold for and returns it.
func (c *Catalog) RefreshTicketStatus(movieName, ticketID string) (domain.MovieStatus, error) {
	const op = "update ticket status"

	c.mu.Lock()
	defer c.mu.Unlock()

	var ticket *domain.Ticket
	for _, t := range c.tickets {
		if t.ID == ticketID && strings.EqualFold(t.MovieName, movieName) {
			ticket = t
			break
		}
	}
	if ticket == nil {
		return "", fail(op, domain.ErrNotFound, fmt.Sprintf("Ticket %s not found for %s", ticketID, movieName))
	}
	m := c.findExactLocked(ticket.MovieName, ticket.TheatreName)
	if m == nil {
		return "", fail(op, domain.ErrNotFound, "Movie not found")
	}
	m.Status = domain.StatusForAvailability(m.TicketsAvailable)
	return m.Status, nil
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.SeatNumbers = append([]string(nil), t.SeatNumbers...)
	return t
}
