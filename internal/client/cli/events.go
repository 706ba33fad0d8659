package cli

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/cakeplanner/internal/calendar"
	"github.com/dmitrijs2005/cakeplanner/internal/client/api"
	"github.com/dmitrijs2005/cakeplanner/internal/client/models"
	"github.com/dmitrijs2005/cakeplanner/internal/filex"
)

// Events prints the month grid and the cakes scheduled in it. The grid
// starts on Monday and is padded to whole weeks, like the web calendar.
func (a *App) Events(ctx context.Context, args []string) error {
	view := a.now()
	if len(args) > 0 {
		m, err := calendar.ParseMonth(args[0], time.Local)
		if err != nil {
			return err
		}
		view = m
	}

	first, last := calendar.MonthRange(view, calendar.DefaultWeekStart)
	events, err := a.backend.Events(ctx, calendar.FormatDate(first), calendar.FormatDate(last))
	if err != nil {
		return err
	}

	a.printMonth(view, events)

	if len(events) == 0 {
		a.println("No cakes scheduled.")
		return nil
	}
	for _, day := range calendar.DaysBetween(first, last) {
		for _, e := range calendar.EventsOn(events, day) {
			a.println(eventLine(e))
		}
	}
	return nil
}

// printMonth renders view's month as a Monday-first grid. Days with a cake
// carry a '*', today is marked with '>'.
func (a *App) printMonth(view time.Time, events []models.CakeEvent) {
	byDate := calendar.GroupByDate(events)
	today := a.now()

	a.printf("%s %d\n", view.Month(), view.Year())
	var header []string
	for _, wd := range calendar.WeekDays(calendar.DefaultWeekStart) {
		header = append(header, " "+wd.String()[:2]+" ")
	}
	a.println(strings.Join(header, ""))

	days := calendar.MonthDays(view, false)
	for i := 0; i < len(days); i += 7 {
		var row strings.Builder
		for _, d := range days[i:min(i+7, len(days))] {
			row.WriteString(dayCell(d, view, today, len(byDate[calendar.FormatDate(d)]) > 0))
		}
		a.println(strings.TrimRight(row.String(), " "))
	}
}

func dayCell(d, view, today time.Time, hasCake bool) string {
	if !calendar.SameMonth(d, view) {
		return "    "
	}
	mark := " "
	if hasCake {
		mark = "*"
	}
	lead := " "
	if calendar.SameDay(d, today) {
		lead = ">"
	}
	return fmt.Sprintf("%s%2d%s", lead, d.Day(), mark)
}

func eventLine(e models.CakeEvent) string {
	line := fmt.Sprintf("%s  %-20s %s", e.Date, e.BakerName, stars(e.Rating))
	if e.GroupName != "" {
		line += "  [" + e.GroupName + "]"
	}
	return line + "  id=" + e.ID
}

// Show prints one event. The description is user-supplied HTML-capable
// text and is reduced to plain text before printing.
func (a *App) Show(ctx context.Context, args []string) error {
	e, err := a.backend.Event(ctx, args[0])
	if err != nil {
		return err
	}

	a.printf("%s  baked by %s\n", e.Date, e.BakerName)
	if e.GroupName != "" {
		a.printf("group:   %s\n", e.GroupName)
	}
	if desc := a.plainText(e.Description); desc != "" {
		a.println(desc)
	}
	a.printf("rating:  %s", stars(e.Rating))
	if e.Rating.MyRating > 0 {
		a.printf(" (yours: %d)", e.Rating.MyRating)
	}
	a.println()
	if e.PhotoURL != "" {
		a.printf("photo:   %s\n", e.PhotoURL)
	}
	for _, g := range e.Gallery {
		owner := g.UserName
		if g.IsMine {
			owner += " (you)"
		}
		a.printf("gallery: %s  %s\n", owner, g.URL)
	}
	if e.CanDelete {
		a.printf("You can delete this event with 'delete %s'.\n", e.ID)
	}
	return nil
}

func (a *App) plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(a.sanitize.Sanitize(s)))
}

// Ranked lists events by rating, best first, as the server orders them.
func (a *App) Ranked(ctx context.Context, _ []string) error {
	events, err := a.backend.RankedEvents(ctx)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		a.println("No rated cakes yet.")
		return nil
	}
	for i, e := range events {
		a.printf("%2d. %s\n", i+1, eventLine(e))
	}
	return nil
}

func (a *App) Rate(ctx context.Context, args []string) error {
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return errStarsNotNumber
	}
	r := models.Rating{Stars: n, Comment: strings.Join(args[2:], " ")}
	if err := a.check(r); err != nil {
		return err
	}
	if err := a.backend.RateEvent(ctx, args[0], r); err != nil {
		return err
	}
	a.println("Thanks for rating!")
	return nil
}

// Create schedules a cake. An image is optional.
func (a *App) Create(ctx context.Context, _ []string) error {
	date, err := a.prompt("Date (YYYY-MM-DD)")
	if err != nil {
		return err
	}
	desc, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	path, err := a.prompt("Image file (empty for none)")
	if err != nil {
		return err
	}

	ev := models.NewCakeEvent{Date: date, Description: desc}
	if err := a.check(ev); err != nil {
		return err
	}

	var image *api.Upload
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		image = &api.Upload{Name: filepath.Base(path), Body: f}
	}

	if err := a.backend.CreateEvent(ctx, ev, image); err != nil {
		return err
	}
	a.println("Cake scheduled.")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if err := a.confirm(fmt.Sprintf("Delete event %s?", args[0])); err != nil {
		return err
	}
	if err := a.backend.DeleteEvent(ctx, args[0]); err != nil {
		return err
	}
	a.println("Event deleted.")
	return nil
}

// DownloadICS saves an event as event-<id>.ics in the download directory
// and prints what the file contains.
func (a *App) DownloadICS(ctx context.Context, args []string) error {
	id := args[0]
	data, err := a.backend.EventICS(ctx, id)
	if err != nil {
		return err
	}

	entries, err := parseICS(data)
	if err != nil {
		return err
	}

	path, err := filex.WriteFile(a.opts.DownloadDir, "event-"+id+".ics", data)
	if err != nil {
		return err
	}

	for _, e := range entries {
		a.printf("%s  %s\n", e.when(), e.Summary)
	}
	a.printf("Saved to %s\n", path)
	return nil
}

func (a *App) UploadPhoto(ctx context.Context, args []string) error {
	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	if err := a.backend.UploadPhoto(ctx, args[0], api.Upload{Name: filepath.Base(args[1]), Body: f}); err != nil {
		return err
	}
	a.println("Photo uploaded.")
	return nil
}
