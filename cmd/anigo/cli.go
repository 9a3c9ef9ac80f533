package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/anigo/internal/domain"
	"github.com/mmcdole/anigo/internal/tui/styles"
	"github.com/mmcdole/anigo/internal/watchlater"
	"golang.org/x/term"
)

const defaultWidth = 80

// terminalWidth returns the width of stdout, or defaultWidth when piped
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// cacheScope is the -clear-cache flag: bare means everything, =details keeps genres
type cacheScope string

const (
	scopeNone    cacheScope = ""
	scopeAll     cacheScope = "all"
	scopeDetails cacheScope = "details"
)

func (s *cacheScope) String() string { return string(*s) }

func (s *cacheScope) Set(v string) error {
	switch v {
	case "true", "all":
		*s = scopeAll
	case "false":
		*s = scopeNone
	case "details":
		*s = scopeDetails
	default:
		return fmt.Errorf("unknown cache scope %q (want all or details)", v)
	}
	return nil
}

// IsBoolFlag lets -clear-cache stand alone
func (s *cacheScope) IsBoolFlag() bool { return true }

// listPatch builds the filter for `anigo list` from its type and date flags
func listPatch(animeType, from, to string) (domain.FilterPatch, error) {
	var patch domain.FilterPatch
	if animeType != "" {
		t, err := domain.ParseAnimeType(strings.ToLower(animeType))
		if err != nil {
			return patch, err
		}
		patch.Type = &t
	}
	if from != "" {
		d, err := domain.ParseDate(from)
		if err != nil {
			return patch, err
		}
		patch.StartDate = &d
	}
	if to != "" {
		d, err := domain.ParseDate(to)
		if err != nil {
			return patch, err
		}
		patch.EndDate = &d
	}
	return patch, nil
}

// runList prints one page of the catalog as text
func runList(a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	query := fs.String("q", "", "title search")
	page := fs.Int("page", 1, "page number")
	animeType := fs.String("type", "", "tv, movie, ova, special, ona, music")
	genres := fs.String("genre", "", "comma-separated genre names")
	from := fs.String("from", "", "earliest start date, YYYY-MM-DD")
	to := fs.String("to", "", "latest end date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := domain.NewPageState().Check(*page); err != nil {
		return err
	}

	criteria := domain.DefaultCriteria()
	criteria.Search = strings.TrimSpace(*query)

	patch, err := listPatch(*animeType, *from, *to)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.API.Timeout)
	defer cancel()

	if *genres != "" {
		ids, err := a.catalog.ResolveGenres(ctx, strings.Split(*genres, ","))
		if err != nil {
			return err
		}
		patch.Genres = &ids
	}

	criteria, err = criteria.Merge(patch)
	if err != nil {
		return err
	}

	result, err := a.catalog.ListAnime(ctx, domain.ListQuery{
		Page:     *page,
		Limit:    a.cfg.API.PageSize,
		Criteria: criteria,
	})
	if err != nil {
		return err
	}

	width := terminalWidth()
	titleWidth := max(width-32, 20)
	for _, item := range result.Items {
		mark := " "
		if a.later.Contains(item.ID) {
			mark = styles.SavedMark
		}
		score := "  -  "
		if item.Score > 0 {
			score = fmt.Sprintf("%5.2f", item.Score)
		}
		fmt.Printf("%s %7d  %s %-6s %s\n",
			mark, item.ID, styles.Pad(item.Title, titleWidth), styles.Truncate(item.Type, 6), score)
	}

	if result.LastPage > 0 {
		fmt.Printf("\nPage %d of %d · %d results\n", result.CurrentPage, result.LastPage, result.Total)
	}
	return nil
}

// runLater manages the watch later list without the TUI
func runLater(a *app, args []string) error {
	if len(args) == 0 {
		return laterList(a, nil)
	}

	switch args[0] {
	case "add":
		return laterAdd(a, args[1:])
	case "rm", "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: anigo later rm ID")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if !a.later.Contains(id) {
			return fmt.Errorf("%w: %d is not on the list", domain.ErrNotFound, id)
		}
		if err := a.later.Remove(id); err != nil {
			return err
		}
		fmt.Printf("✓ Removed %d\n", id)
		return nil
	case "ls", "list":
		return laterList(a, args[1:])
	default:
		return fmt.Errorf("unknown later command %q", args[0])
	}
}

func laterAdd(a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: anigo later add ID [-weight n]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("later add", flag.ContinueOnError)
	weight := fs.Int("weight", domain.DefaultWeight, "priority, higher first")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.API.Timeout)
	defer cancel()

	detail, err := a.catalog.Detail(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to look up %d: %w", id, err)
	}

	entry := domain.NewSavedEntry(detail.Anime, *weight, a.savedAt(id))
	if err := a.later.Add(entry); err != nil {
		return err
	}
	fmt.Printf("✓ Saved %s (weight %d)\n", detail.Title, entry.Weight)
	return nil
}

// savedAt keeps the original save time when an entry is re-added
func (a *app) savedAt(id int) (t time.Time) {
	if e, ok := a.later.Get(id); ok {
		return e.SavedAt
	}
	return t
}

func laterList(a *app, args []string) error {
	fs := flag.NewFlagSet("later ls", flag.ContinueOnError)
	page := fs.Int("page", 1, "page number")
	by := fs.String("by", string(domain.SortByWeight), "order by weight or savedAt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	primary, secondary, err := laterOrder(*by)
	if err != nil {
		return err
	}
	view := a.later.SortedView(primary, secondary)
	if len(view) == 0 {
		fmt.Println("Watch later is empty")
		return nil
	}

	size := a.cfg.WatchLater.PageSize
	pages := domain.PageState{Current: 1, Total: watchlater.PageCount(len(view), size)}
	if err := pages.Check(*page); err != nil {
		return err
	}
	titleWidth := max(terminalWidth()-30, 20)
	for _, e := range watchlater.Page(view, *page, size) {
		fmt.Printf("%7d  %s w%-3d %s\n", e.ID, styles.Pad(e.Title, titleWidth), e.Weight, e.SavedAt.Format("2006-01-02"))
	}
	fmt.Printf("\nPage %d of %d · %d saved\n", *page, pages.Total, len(view))
	return nil
}

// laterOrder returns the named sort key first and the other as tiebreaker
func laterOrder(by string) (primary, secondary domain.SortKey, err error) {
	primary, err = domain.ParseSortKey(by)
	if err != nil {
		return "", "", err
	}
	if primary == domain.SortBySavedAt {
		return primary, domain.SortByWeight, nil
	}
	return primary, domain.SortBySavedAt, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
