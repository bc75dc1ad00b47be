package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mmcdole/avalon/internal/domain"
	"github.com/mmcdole/avalon/internal/library"
	flag "github.com/spf13/pflag"
)

// queryFlags maps command-line flags to request fields
var queryFlags = []struct {
	flag, field, usage string
}{
	{"query", library.FieldQuery, "search text"},
	{"album", library.FieldAlbum, "album name"},
	{"album-id", library.FieldAlbumID, "album ID"},
	{"artist", library.FieldArtist, "artist name"},
	{"artist-id", library.FieldArtistID, "artist ID"},
	{"genre", library.FieldGenre, "genre name"},
	{"genre-id", library.FieldGenreID, "genre ID"},
	{"order", library.FieldOrder, "sort field"},
	{"direction", library.FieldDirection, "sort direction (asc or desc)"},
	{"limit", library.FieldLimit, "maximum number of results"},
	{"offset", library.FieldOffset, "number of results to skip"},
}

func queryCommand() *command {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	for _, qf := range queryFlags {
		fs.String(qf.flag, "", qf.usage)
	}
	asJSON := fs.Bool("json", false, "print results as JSON")

	return &command{
		name:  "query",
		short: "Query the stored collection: query <albums|artists|genres|songs> [flags]",
		flags: fs,
		exec: func(ctx context.Context, env *environment, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected one of albums, artists, genres, songs")
			}

			params, err := library.ParseParams(changedFields(fs))
			if err != nil {
				return err
			}

			st, err := openStore(ctx, env)
			if err != nil {
				return err
			}
			defer st.Close()

			svc := library.NewService(st, env.logger)
			if _, err := svc.Reload(ctx); err != nil {
				return err
			}

			format := pickFormat(env.stdout, *asJSON)
			switch args[0] {
			case "albums":
				return printEntities(env, format, params, svc.GetAlbums)
			case "artists":
				return printEntities(env, format, params, svc.GetArtists)
			case "genres":
				return printEntities(env, format, params, svc.GetGenres)
			case "songs", "tracks":
				rows, err := svc.GetSongs(params)
				if err != nil {
					return err
				}
				return render(env.stdout, format, rows, trackTable(rows))
			default:
				return fmt.Errorf("unknown collection %q", args[0])
			}
		},
	}
}

// changedFields returns only the flags given on the command line, so an
// explicitly empty value still counts as a criterion.
func changedFields(fs *flag.FlagSet) map[string][]string {
	raw := make(map[string][]string)
	for _, qf := range queryFlags {
		if !fs.Changed(qf.flag) {
			continue
		}
		v, _ := fs.GetString(qf.flag)
		raw[qf.field] = []string{v}
	}
	return raw
}

func printEntities[T domain.Element](
	env *environment,
	format outputFormat,
	params library.Params,
	get func(library.Params) ([]T, error),
) error {
	rows, err := get(params)
	if err != nil {
		return err
	}
	return render(env.stdout, format, rows, entityTable(rows))
}

func entityTable[T domain.Element](rows []T) table {
	t := table{headers: []string{"ID", "NAME"}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{r.GetID().String(), r.GetName()})
	}
	return t
}

func trackTable(rows []domain.Track) table {
	t := table{headers: []string{"ID", "NAME", "#", "YEAR", "LENGTH", "ALBUM", "ARTIST", "GENRE"}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			r.ID.String(),
			r.Name,
			strconv.Itoa(r.TrackNumber),
			strconv.Itoa(r.Year),
			r.FormattedLength(),
			r.AlbumName,
			r.ArtistName,
			r.GenreName,
		})
	}
	return t
}
