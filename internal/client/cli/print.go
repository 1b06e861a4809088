package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/visitkeeper/internal/api"
)

func printNotices(w io.Writer, notices []api.Notice) {
	for _, n := range notices {
		fmt.Fprintf(w, "[%s] %s\n", n.Severity, n.Message)
	}
}

func printUser(w io.Writer, u *api.User) {
	fmt.Fprintf(w, "%s <%s> (id %d), member since %s\n", u.Username, u.Email, u.ID, u.CreatedAt.Format(time.DateOnly))
	if u.Description != "" {
		fmt.Fprintln(w, u.Description)
	}
}

func printPlaces(w io.Writer, places []api.Place) {
	if len(places) == 0 {
		fmt.Fprintln(w, "No places yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLAT\tLON\tDESCRIPTION")
	for _, p := range places {
		fmt.Fprintf(tw, "%d\t%s\t%.5f\t%.5f\t%s\n", p.ID, p.Name, p.Latitude, p.Longitude, p.Description)
	}
	_ = tw.Flush()
}

func printVisits(w io.Writer, visits []api.Visit) {
	if len(visits) == 0 {
		fmt.Fprintln(w, "No visits")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tPLACE\tWHEN\tRATING\tCOMMENT")
	for _, v := range visits {
		rating, comment := "-", ""
		if v.Rating != nil {
			rating = strconv.Itoa(*v.Rating)
		}
		if v.Comment != nil {
			comment = *v.Comment
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\n", v.ID, v.UserID, v.PlaceID, v.CreatedAt.Local().Format(time.DateTime), rating, comment)
	}
	_ = tw.Flush()
}
