package validate

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// messages overrides the generic text for specific field/rule pairs, keyed
// "<field>.<tag>".
var messages = map[string]string{
	"username.required":        "Username is required",
	"username.min":             "Username must be between 3 and 20 characters",
	"username.max":             "Username must be between 3 and 20 characters",
	"password.required":        "Password is required",
	"password.min":             "Password must be between 8 to 32 characters",
	"password.max":             "Password must be between 8 to 32 characters",
	"confirmPassword.required": "Confirm password is required",
	"confirmPassword.eqfield":  "Passwords do not match.",
	"email.email":              "Invalid email address",
	"contactNumber.phone10":    "Contact number must be 10 digits",

	"noOfTickets.min":      "Please Enter Valid Number of Tickets to Book.",
	"noOfTickets.ltefield": "Sorry! Number of seats selected is more than the capacity.",
	"seatNumber.min":       "Please select seats before proceeding.",
	"seatNumber.unique":    "Seat numbers must not repeat.",
	"seatNumber.lenfield":  "Number of seat numbers must match number of tickets.",
	"seatNumber.required":  "Seat numbers cannot be blank.",
	"seatNumber.max":       "Seat numbers must be at most 20 characters.",

	"rating.required": "Rating is required",
	"rating.min":       "Rating must be at least 1",
	"rating.max":       "Rating must be at most 5",
	"title.required":   "Title is required",
	"title.max":        "Title must be less than 100 characters",
	"content.required": "Content is required",
	"content.max":      "Content must be less than 1000 characters",
}

func message(field string, fe validator.FieldError) string {
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}

	label := humanize(field)
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		return label + " must be at least " + fe.Param() + unit(fe.Kind())
	case "max":
		return label + " must be at most " + fe.Param() + unit(fe.Kind())
	case "email":
		return label + " must be a valid email address"
	case "url":
		return label + " must be a valid URL"
	case "oneof":
		return label + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "eqfield":
		return label + " must match " + humanize(fe.Param())
	case "ltefield":
		return label + " must not exceed " + humanize(fe.Param())
	case "lenfield":
		return label + " must have as many entries as " + humanize(fe.Param())
	case "unique":
		return label + " must not contain duplicates"
	}
	return fmt.Sprintf("%s is invalid (%s)", label, fe.Tag())
}

func unit(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " entries"
	}
	return ""
}

// humanize turns "theatreName" or "TheatreName" into "Theatre name".
func humanize(field string) string {
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
