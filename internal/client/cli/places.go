package cli

import (
	"context"
	"fmt"
)

// AddPlace prompts for a place and creates it.
func (a *App) AddPlace(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter place name", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}
	latText, err := getSimpleText(a.reader, "Enter latitude", a.out)
	if err != nil {
		return err
	}
	lat, err := parseCoordinate(latText, "latitude")
	if err != nil {
		return err
	}
	lonText, err := getSimpleText(a.reader, "Enter longitude", a.out)
	if err != nil {
		return err
	}
	lon, err := parseCoordinate(lonText, "longitude")
	if err != nil {
		return err
	}

	resp, err := a.client.AddPlace(ctx, name, description, lat, lon)
	if err != nil {
		return err
	}
	printNotices(a.out, resp.Notices)
	fmt.Fprintf(a.out, "Place id: %d\n", resp.Place.ID)
	return nil
}

func (a *App) Places(ctx context.Context) error {
	places, err := a.client.ListPlaces(ctx)
	if err != nil {
		return err
	}
	printPlaces(a.out, places)
	return nil
}

// Stats shows visit count and average rating for the place in args[0].
func (a *App) Stats(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("stats <place-id>")
	}
	placeID, err := parseID(args[0], "place id")
	if err != nil {
		return err
	}

	place, err := a.client.GetPlace(ctx, placeID)
	if err != nil {
		return err
	}
	st, err := a.client.PlaceStats(ctx, placeID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %d visit(s)", place.Name, st.VisitCount)
	if st.AverageRating > 0 {
		fmt.Fprintf(a.out, ", average rating %.2f", st.AverageRating)
	}
	fmt.Fprintln(a.out)
	return nil
}
