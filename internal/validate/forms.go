package validate

import (
	"strings"

	"github.com/Clark-Hu/moviebooking/internal/domain"
)

// LoginForm holds the login screen fields.
type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Credentials converts the form into transient credentials.
func (f LoginForm) Credentials() domain.Credentials {
	return domain.Credentials{Username: strings.TrimSpace(f.Username), Password: f.Password}
}

// RegistrationForm holds the sign-up screen fields.
type RegistrationForm struct {
	Username        string `json:"username" validate:"required,min=3,max=20"`
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,max=50,email"`
	ContactNumber   string `json:"contactNumber" validate:"required,phone10"`
	Password        string `json:"password" validate:"required,min=8,max=32"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// SignUp converts the form into the registration payload.
func (f RegistrationForm) SignUp() domain.SignUp {
	return domain.SignUp{
		Username:      strings.TrimSpace(f.Username),
		FirstName:     strings.TrimSpace(f.FirstName),
		LastName:      strings.TrimSpace(f.LastName),
		Email:         strings.TrimSpace(f.Email),
		Password:      f.Password,
		ContactNumber: strings.TrimSpace(f.ContactNumber),
	}
}

// RegistrationFromSignUp builds a form from a wire payload. The payload has
// no confirmation field, so the password confirms itself.
func RegistrationFromSignUp(s domain.SignUp) RegistrationForm {
	return RegistrationForm{
		Username:        s.Username,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		Email:           s.Email,
		ContactNumber:   s.ContactNumber,
		Password:        s.Password,
		ConfirmPassword: s.Password,
	}
}

// BookingForm holds a ticket booking. Available is the screening's remaining
// capacity and is not part of the payload.
type BookingForm struct {
	MovieName   string   `json:"movieName" validate:"required"`
	TheatreName string   `json:"theatreName" validate:"required"`
	NoOfTickets int      `json:"noOfTickets" validate:"min=1,ltefield=Available"`
	SeatNumbers []string `json:"seatNumber" validate:"min=1,unique,lenfield=NoOfTickets,dive,required,max=20"`
	Available   int      `json:"-"`
}

// NewBookingForm normalizes seat identifiers from a comma separated list.
func NewBookingForm(movie domain.Movie, tickets int, seats string) BookingForm {
	return BookingForm{
		MovieName:   movie.Name,
		TheatreName: movie.TheatreName,
		NoOfTickets: tickets,
		SeatNumbers: SplitSeats(seats),
		Available:   movie.TicketsAvailable,
	}
}

// Request converts the form into the booking payload.
func (f BookingForm) Request() domain.BookingRequest {
	return domain.BookingRequest{
		MovieName:   f.MovieName,
		TheatreName: f.TheatreName,
		NoOfTickets: f.NoOfTickets,
		SeatNumbers: f.SeatNumbers,
	}
}

// SplitSeats splits "A1, a2,,B3" into ["A1" "A2" "B3"].
func SplitSeats(raw string) []string {
	parts := strings.Split(raw, ",")
	seats := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			seats = append(seats, p)
		}
	}
	return seats
}

// ReviewForm holds a new review.
type ReviewForm struct {
	Rating  float64 `json:"rating" validate:"required,min=1,max=5"`
	Title   string  `json:"title" validate:"required,max=100"`
	Content string  `json:"content" validate:"required,max=1000"`
}

// Request converts the form into the review payload.
func (f ReviewForm) Request() domain.ReviewRequest {
	return domain.ReviewRequest{
		Rating:  f.Rating,
		Title:   strings.TrimSpace(f.Title),
		Content: strings.TrimSpace(f.Content),
	}
}

// MovieForm holds the admin add/update movie screen.
type MovieForm struct {
	Name             string             `json:"movieName" validate:"required,max=100"`
	TheatreName      string             `json:"theatreName" validate:"required,max=100"`
	TicketsAvailable int                `json:"ticketsAvailable" validate:"min=0,max=1000"`
	Status           domain.MovieStatus `json:"status" validate:"omitempty,oneof=AVAILABLE BOOK_ASAP SOLD_OUT"`
	Poster           string             `json:"moviePoster" validate:"omitempty,url"`
	Genre            string             `json:"genre" validate:"omitempty,max=50"`
	Language         string             `json:"language" validate:"omitempty,max=50"`
	Duration         int                `json:"duration" validate:"omitempty,min=1,max=600"`
	Rating           float64            `json:"rating" validate:"omitempty,min=0,max=10"`
	TrailerURL       string             `json:"trailerUrl" validate:"omitempty,url"`
}

// MovieFormFrom copies the editable fields of a movie into a form.
func MovieFormFrom(m domain.Movie) MovieForm {
	return MovieForm{
		Name:             m.Name,
		TheatreName:      m.TheatreName,
		TicketsAvailable: m.TicketsAvailable,
		Status:           m.Status,
		Poster:           m.Poster,
		Genre:            m.Genre,
		Language:         m.Language,
		Duration:         m.Duration,
		Rating:           m.Rating,
		TrailerURL:       m.TrailerURL,
	}
}

// ResetPasswordForm holds the forgot-password screen.
type ResetPasswordForm struct {
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=32"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}
