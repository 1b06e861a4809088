package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/visitkeeper/internal/api"
)

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

func errUsage(s string) error { return usageError(s) }

// Visit records a visit to the place in args[0] (prompted when absent).
// Comment and rating are optional.
func (a *App) Visit(ctx context.Context, args []string) error {
	var placeText string
	if len(args) > 0 {
		placeText = args[0]
	} else {
		var err error
		if placeText, err = getSimpleText(a.reader, "Enter place id", a.out); err != nil {
			return err
		}
	}
	placeID, err := parseID(placeText, "place id")
	if err != nil {
		return err
	}

	comment, rating, err := a.readNotes("Comment (optional)", "Rating (optional)")
	if err != nil {
		return err
	}

	resp, err := a.client.RecordVisit(ctx, placeID, comment, rating)
	if err != nil {
		return err
	}
	printNotices(a.out, resp.Notices)
	fmt.Fprintf(a.out, "Visit id: %d\n", resp.Visit.ID)
	return nil
}

// readNotes prompts for a comment and a rating; empty answers are nil.
func (a *App) readNotes(commentPrompt, ratingPrompt string) (*string, *int, error) {
	commentText, err := getSimpleText(a.reader, commentPrompt, a.out)
	if err != nil {
		return nil, nil, err
	}
	ratingText, err := getSimpleText(a.reader, ratingPrompt, a.out)
	if err != nil {
		return nil, nil, err
	}
	rating, err := parseOptionalInt(ratingText, "rating")
	if err != nil {
		return nil, nil, err
	}
	return parseOptionalText(commentText), rating, nil
}

// EditVisit replaces the comment and rating of one of the caller's visits.
// Empty answers clear the stored value.
func (a *App) EditVisit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("edit-visit <visit-id>")
	}
	id, err := parseID(args[0], "visit id")
	if err != nil {
		return err
	}

	comment, rating, err := a.readNotes("New comment (empty clears)", "New rating (empty clears)")
	if err != nil {
		return err
	}

	resp, err := a.client.UpdateVisit(ctx, id, comment, rating)
	if err != nil {
		return err
	}
	printNotices(a.out, resp.Notices)
	return nil
}

// visitsRequest turns "visits [all|mine|user <id>|place <id>|recent <n>]"
// into a request.
func visitsRequest(args []string) (*api.ListVisitsRequest, error) {
	const usage = "visits [all|mine|user <id>|place <id>|recent <n>]"

	if len(args) == 0 {
		return &api.ListVisitsRequest{Scope: api.ScopeMine}, nil
	}

	req := &api.ListVisitsRequest{Scope: args[0]}
	switch args[0] {
	case api.ScopeAll, api.ScopeMine:
		if len(args) != 1 {
			return nil, errUsage(usage)
		}
	case api.ScopeUser, api.ScopePlace:
		if len(args) != 2 {
			return nil, errUsage(usage)
		}
		id, err := parseID(args[1], args[0]+" id")
		if err != nil {
			return nil, err
		}
		if args[0] == api.ScopeUser {
			req.UserID = id
		} else {
			req.PlaceID = id
		}
	case api.ScopeRecent:
		req.Limit = 10
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid limit %q", args[1])
			}
			req.Limit = n
		} else if len(args) > 2 {
			return nil, errUsage(usage)
		}
	default:
		return nil, errUsage(usage)
	}
	return req, nil
}

func (a *App) Visits(ctx context.Context, args []string) error {
	req, err := visitsRequest(args)
	if err != nil {
		return err
	}
	visits, err := a.client.ListVisits(ctx, req)
	if err != nil {
		return err
	}
	printVisits(a.out, visits)
	return nil
}

func (a *App) DeleteVisit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("delete-visit <visit-id>")
	}
	id, err := parseID(args[0], "visit id")
	if err != nil {
		return err
	}
	resp, err := a.client.DeleteVisit(ctx, id)
	if err != nil {
		return err
	}
	printNotices(a.out, resp.Notices)
	return nil
}

// Visited answers whether the caller (or args[1]) has been to place args[0].
func (a *App) Visited(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage("visited <place-id> [user-id]")
	}
	placeID, err := parseID(args[0], "place id")
	if err != nil {
		return err
	}
	var userID int64
	if len(args) == 2 {
		if userID, err = parseID(args[1], "user id"); err != nil {
			return err
		}
	}

	ok, err := a.client.HasVisited(ctx, userID, placeID)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintln(a.out, "yes")
	} else {
		fmt.Fprintln(a.out, "no")
	}
	return nil
}
