package catalog

import (
	"fmt"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// seedMovies is the demo line-up. Inception plays in two theatres so list
// consumers see a repeated name.
var seedMovies = []domain.Movie{
	{
		Name: "Inception", TheatreName: "PVR Phoenix", TicketsAvailable: 120,
		Director: "Christopher Nolan", Genre: "Sci-Fi", Language: "English", Duration: 148,
		ReleaseDate: "2010-07-16", Certificate: "UA", Rating: 8.8,
		Cast: []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Elliot Page"},
	},
	{
		Name: "Oppenheimer", TheatreName: "INOX Nehru Place", TicketsAvailable: 15,
		Director: "Christopher Nolan", Genre: "Drama", Language: "English", Duration: 180,
		ReleaseDate: "2023-07-21", Certificate: "UA", Rating: 8.3,
	},
	{
		Name: "Inception", TheatreName: "INOX Nehru Place", TicketsAvailable: 80,
		Director: "Christopher Nolan", Genre: "Sci-Fi", Language: "English", Duration: 148,
		ReleaseDate: "2010-07-16", Certificate: "UA", Rating: 8.8,
	},
	{
		Name: "Interstellar", TheatreName: "Cinepolis DLF", TicketsAvailable: 0,
		Director: "Christopher Nolan", Genre: "Sci-Fi", Language: "English", Duration: 169,
		ReleaseDate: "2014-11-07", Certificate: "UA", Rating: 8.7,
	},
}

// Seed loads the demo line-up and, when adminPassword is set, an admin
// account.
func (c *Catalog) Seed(adminUsername, adminPassword string) error {
	if err := c.SeedMovies(); err != nil {
		return err
	}
	return c.SeedAdmin(adminUsername, adminPassword)
}

// SeedMovies loads the demo line-up.
func (c *Catalog) SeedMovies() error {
	for _, m := range seedMovies {
		if _, err := c.AddMovie(m); err != nil {
			return fmt.Errorf("seed %s: %w", m.Name, err)
		}
	}
	return nil
}

// SeedAdmin registers an admin account. It does nothing when password is
// empty.
func (c *Catalog) SeedAdmin(username, password string) error {
	if password == "" {
		return nil
	}
	_, err := c.Register(domain.SignUp{
		Username:      username,
		FirstName:     "Site",
		LastName:      "Admin",
		Email:         username + "@moviebooking.local",
		Password:      password,
		ContactNumber: "0000000000",
		Roles:         []string{"admin"},
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
