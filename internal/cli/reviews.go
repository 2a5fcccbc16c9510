package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/Clark-Hu/moviebooking/internal/domain"
	"github.com/Clark-Hu/moviebooking/internal/validate"
)

func (a *app) reviewsCommand() *Command {
	return &Command{
		Name:    "reviews",
		Summary: "List the reviews of a movie",
		Usage:   "moviebook reviews MOVIE",
		Public:  true,
		Flags:   func() *pflag.FlagSet { return a.flagSet("reviews") },
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("reviews", args, 1, "a movie name"); err != nil {
				return err
			}
			reviews, err := a.client.MovieReviews(ctx, args[0])
			if err != nil {
				return err
			}
			return a.render(reviews, reviewTable(reviews))
		},
	}
}

func (a *app) userReviewsCommand() *Command {
	return &Command{
		Name:    "user-reviews",
		Summary: "List the reviews written by a user (default: you)",
		Usage:   "moviebook user-reviews [USERNAME]",
		Public:  true,
		Flags:   func() *pflag.FlagSet { return a.flagSet("user-reviews") },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("user-reviews: expected at most one username")
			}
			var username string
			if len(args) == 1 {
				username = args[0]
			} else {
				u, ok := a.session.User()
				if !ok {
					return ErrNotLoggedIn
				}
				username = u.Username
			}
			reviews, err := a.client.UserReviews(ctx, username)
			if err != nil {
				return err
			}
			return a.render(reviews, reviewTable(reviews))
		},
	}
}

func (a *app) reviewCommand() *Command {
	var form validate.ReviewForm
	return &Command{
		Name:    "review",
		Summary: "Review a movie",
		Usage:   "moviebook review MOVIE --rating 1-5 --title TEXT --content TEXT",
		Flags: func() *pflag.FlagSet {
			fs := a.flagSet("review")
			fs.Float64VarP(&form.Rating, "rating", "r", 0, "rating from 1 to 5")
			fs.StringVar(&form.Title, "title", "", "headline, up to 100 characters")
			fs.StringVar(&form.Content, "content", "", "review text, up to 1000 characters")
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("review", args, 1, "a movie name"); err != nil {
				return err
			}
			if err := checkForm("post review", form); err != nil {
				return err
			}
			review, err := a.client.PostReview(ctx, args[0], form.Request())
			if err != nil {
				return err
			}
			return a.render(review, reviewTable([]domain.Review{review}))
		},
	}
}

func (a *app) helpfulCommand() *Command {
	return &Command{
		Name:    "helpful",
		Summary: "Mark a review as helpful",
		Usage:   "moviebook helpful REVIEW_ID",
		Public:  true,
		Flags:   func() *pflag.FlagSet { return a.flagSet("helpful") },
		Run: func(ctx context.Context, args []string) error {
			if err := exactArgs("helpful", args, 1, "a review id"); err != nil {
				return err
			}
			review, err := a.client.MarkHelpful(ctx, args[0])
			if err != nil {
				return err
			}
			return a.render(review, func(w io.Writer) {
				fmt.Fprintf(w, "%s by %s is now marked helpful %d time(s)\n", review.Title, review.Username, review.Helpful)
			})
		},
	}
}
