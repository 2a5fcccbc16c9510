package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/spf13/pflag"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

func (a *app) moviesCommand() *Command {
	var all bool
	return &Command{
		Name:    "movies",
		Summary: "List the movies now showing",
		Usage:   "moviebook movies [--all]",
		Public:  true,
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("movies")
			fs.BoolVar(&all, "all", false, "list every screening instead of one row per movie")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			movies, err := a.client.ListMovies(ctx)
			if err != nil {
				return err
			}
			if !all {
				movies = domain.UniqueByName(movies)
			}
			return a.render(movies, movieTable(movies))
		},
	}
}

func (a *app) searchCommand() *Command {
	var all bool
	return &Command{
		Name:    "search",
		Summary: "Search movies by name",
		Usage:   "moviebook search NAME [--all]",
		Public:  true,
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("search")
			fs.BoolVar(&all, "all", false, "list every screening instead of one row per movie")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("search", args, 1, "a movie name"); err != nil {
				return err
			}
			movies, err := a.client.SearchMovies(ctx, args[0])
			if err != nil {
				return err
			}
			if !all {
				movies = domain.UniqueByName(movies)
			}
			return a.render(movies, movieTable(movies))
		},
	}
}

// findScreening picks the screening of name in theatre from the search
// results. theatre may be empty when only one theatre shows the movie.
func (a *app) findScreening(ctx context.Context, name, theatre string) (domain.Movie, error) {
	results, err := a.client.SearchMovies(ctx, name)
	if err != nil {
		return domain.Movie{}, err
	}
	var matches []domain.Movie
	for _, m := range results {
		if !strings.EqualFold(m.Name, name) {
			continue
		}
		if theatre != "" && !strings.EqualFold(m.TheatreName, theatre) {
			continue
		}
		matches = append(matches, m)
	}

	switch len(matches) {
	case 0:
		msg := fmt.Sprintf("%s is not showing", name)
		if theatre != "" {
			msg = fmt.Sprintf("%s is not showing at %s", name, theatre)
		}
		return domain.Movie{}, &domain.Error{Op: "find screening", Kind: domain.ErrNotFound, Message: msg}
	case 1:
		return matches[0], nil
	}
	theatres := make([]string, len(matches))
	for i, m := range matches {
		theatres[i] = m.TheatreName
	}
	return domain.Movie{}, fmt.Errorf("%s plays in several theatres (%s); pick one with --theatre",
		name, strings.Join(theatres, ", "))
}

func (a *app) bookCommand() *Command {
	var (
		theatre string
		tickets int
		seats   string
	)
	return &Command{
		Name:    "book",
		Summary: "Book seats for a movie",
		Usage:   "moviebook book MOVIE --tickets N --seats A1,A2 [--theatre NAME]",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("book")
			fs.StringVarP(&theatre, "theatre", "t", "", "theatre, required when the movie plays in several")
			fs.IntVarP(&tickets, "tickets", "n", 0, "number of tickets")
			fs.StringVarP(&seats, "seats", "s", "", "comma separated seat numbers, one per ticket")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("book", args, 1, "a movie name"); err != nil {
				return err
			}
			screening, err := a.findScreening(ctx, args[0], theatre)
			if err != nil {
				return err
			}
			form := validate.NewBookingForm(screening, tickets, seats)
			if err := checkForm("book tickets", form); err != nil {
				return err
			}

			conf, err := a.client.BookTickets(ctx, form.Request())
			if err != nil {
				return err
			}
			return a.render(conf, func(w io.Writer) {
				fmt.Fprintln(w, conf.Message)
				if conf.Ticket != nil {
					fmt.Fprintf(w, "Ticket:\t%s\n", conf.Ticket.ID)
					fmt.Fprintf(w, "Seats:\t%s\n", strings.Join(conf.Ticket.SeatNumbers, ", "))
				}
			})
		},
	}
}

func (a *app) ticketsCommand() *Command {
	return &Command{
		Name:    "tickets",
		Summary: "List the tickets sold for a movie (admin)",
		Usage:   "moviebook tickets MOVIE",
		Flags:   func() *pflag.FlagSet { return a.flagSet("tickets") },
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("tickets", args, 1, "a movie name"); err != nil {
				return err
			}
			tickets, err := a.client.BookedTickets(ctx, args[0])
			if err != nil {
				return err
			}
			return a.render(tickets, ticketTable(tickets))
		},
	}
}

func (a *app) ticketStatusCommand() *Command {
	return &Command{
		Name:    "ticket-status",
		Summary: "Recompute the status of the screening a ticket belongs to (admin)",
		Usage:   "moviebook ticket-status MOVIE TICKET_ID",
		Flags:   func() *pflag.FlagSet { return a.flagSet("ticket-status") },
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("ticket-status", args, 2, "a movie name and a ticket id"); err != nil {
				return err
			}
			msg, err := a.client.UpdateTicketStatus(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return a.say("%s", msg)
		},
	}
}

// bindMovieFlags binds the editable movie fields. The name is bound only
// when withName is set.
func bindMovieFlags(fs *pflag.FlagSet, m *domain.Movie, withName bool) {
	if withName {
		fs.StringVar(&m.Name, "name", "", "movie name")
	}
	fs.StringVarP(&m.TheatreName, "theatre", "t", "", "theatre name")
	fs.IntVar(&m.TicketsAvailable, "tickets", 0, "tickets available")
	fs.StringVar((*string)(&m.Status), "status", "", "AVAILABLE, BOOK_ASAP or SOLD_OUT (derived from tickets when omitted)")
	fs.StringVar(&m.Genre, "genre", "", "genre")
	fs.StringVar(&m.Language, "language", "", "language")
	fs.IntVar(&m.Duration, "duration", 0, "running time in minutes")
	fs.StringVar(&m.ReleaseDate, "release-date", "", "release date, YYYY-MM-DD")
	fs.StringVar(&m.Certificate, "certificate", "", "censor certificate")
	fs.StringVar(&m.Director, "director", "", "director")
	fs.StringSliceVar(&m.Cast, "cast", nil, "cast members, comma separated")
	fs.StringVar(&m.Description, "description", "", "synopsis")
	fs.StringVar(&m.Poster, "poster", "", "poster URL")
	fs.StringVar(&m.TrailerURL, "trailer", "", "trailer URL")
}

func normalizeStatus(m *domain.Movie) error {
	status, err := domain.ParseMovieStatus(string(m.Status))
	if err != nil {
		return &domain.Error{Op: "movie form", Kind: domain.ErrValidation, Message: err.Error(),
			Fields: map[string]string{"status": "Status must be one of: AVAILABLE, BOOK_ASAP, SOLD_OUT"}}
	}
	m.Status = status
	return nil
}

func (a *app) addMovieCommand() *Command {
	var movie domain.Movie
	return &Command{
		Name:    "add-movie",
		Summary: "Add a screening (admin)",
		Usage:   "moviebook add-movie --name NAME --theatre NAME --tickets N [flags]",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("add-movie")
			bindMovieFlags(fs, &movie, true)
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("add-movie", args, 0, "no arguments"); err != nil {
				return err
			}
			if err := normalizeStatus(&movie); err != nil {
				return err
			}
			if err := checkForm("add movie", validate.MovieFormFrom(movie)); err != nil {
				return err
			}
			created, err := a.client.AddMovie(ctx, movie)
			if err != nil {
				return err
			}
			return a.render(created, movieTable([]domain.Movie{created}))
		},
	}
}

func (a *app) updateMovieCommand() *Command {
	var patch domain.Movie
	return &Command{
		Name:    "update-movie",
		Summary: "Change a screening (admin); only the given flags are applied",
		Usage:   "moviebook update-movie MOVIE [--theatre NAME] [flags]",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("update-movie")
			bindMovieFlags(fs, &patch, false)
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("update-movie", args, 1, "a movie name"); err != nil {
				return err
			}
			if err := normalizeStatus(&patch); err != nil {
				return err
			}
			current, err := a.findScreening(ctx, args[0], patch.TheatreName)
			if err != nil {
				return err
			}
			merged := current
			if err := copier.CopyWithOption(&merged, &patch, copier.Option{IgnoreEmpty: true, DeepCopy: true}); err != nil {
				return fmt.Errorf("update movie: %w", err)
			}
			if err := checkForm("update movie", validate.MovieFormFrom(merged)); err != nil {
				return err
			}

			patch.TheatreName = current.TheatreName
			updated, err := a.client.UpdateMovie(ctx, current.Name, patch)
			if err != nil {
				return err
			}
			return a.render(updated, movieTable([]domain.Movie{updated}))
		},
	}
}

func (a *app) deleteCommand() *Command {
	var yes bool
	return &Command{
		Name:    "delete",
		Summary: "Delete every screening of a movie (admin)",
		Usage:   "moviebook delete MOVIE [--yes]",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("delete")
			fs.BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("delete", args, 1, "a movie name"); err != nil {
				return err
			}
			if !yes {
				ok, err := a.confirm(fmt.Sprintf("Delete every screening of %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					return a.say("Nothing deleted.")
				}
			}
			msg, err := a.client.DeleteMovie(ctx, args[0])
			if err != nil {
				return err
			}
			return a.say("%s", msg)
		},
	}
}
