package domain

import "time"

// BookingRequest asks for NoOfTickets seats of one screening.
type BookingRequest struct {
	MovieName   string   `json:"movieName"`
	TheatreName string   `json:"theatreName"`
	NoOfTickets int      `json:"noOfTickets"`
	SeatNumbers []string `json:"seatNumber"`
}

// Ticket is a confirmed booking.
type Ticket struct {
	ID          string    `json:"ticketId"`
	Username    string    `json:"username"`
	MovieName   string    `json:"movieName"`
	TheatreName string    `json:"theatreName"`
	NoOfTickets int       `json:"noOfTickets"`
	SeatNumbers []string  `json:"seatNumber"`
	BookedAt    time.Time `json:"bookedAt"`
}

// BookingConfirmation is returned after a successful booking.
type BookingConfirmation struct {
	Message string  `json:"message"`
	Ticket  *Ticket `json:"ticket,omitempty"`
}
