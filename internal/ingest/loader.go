package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/courtiq/tennis-predictor/internal/models"
)

// Store is the slice of the persistence layer the loader drives.
type Store interface {
	GetOrCreatePlayer(ctx context.Context, name string, country *string) (int64, error)
	GetOrCreateTournament(ctx context.Context, name string, series *string) (int64, error)
	SurfaceID(ctx context.Context, name string) (int64, bool, error)
	CourtTypeID(ctx context.Context, name string) (int64, bool, error)
	RoundID(ctx context.Context, name string) (int64, bool, error)
	MatchExists(ctx context.Context, tournamentID int64, date time.Time, p1, p2 int64) (int64, bool, error)
	InsertMatch(ctx context.Context, m *models.Match) (int64, error)
	UpdatePlayerRank(ctx context.Context, playerID int64, rank, points int) error
}

// Row is one raw fixture record as it appears in the export files. The -1
// sentinel in numeric fields means "unknown".
type Row struct {
	Date       string
	Tournament string
	Series     string
	Surface    string
	Court      string
	Round      string
	BestOf     string
	Player1    string
	Player2    string
	Winner     string
	Rank1      string
	Rank2      string
	Points1    string
	Points2    string
	Odds1      string
	Odds2      string
	Score      string
}

// LoadResult counts what a load run did.
type LoadResult struct {
	Loaded  int
	Skipped int
}

type Loader struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewLoader(store Store, logger *zap.SugaredLogger) *Loader {
	return &Loader{store: store, logger: logger}
}

// ParseScore derives total sets and games from a score line like
// "6-4 3-6 7-5". Returns nils for empty, sentinel or unparseable input.
func ParseScore(score string) (totalSets, totalGames *int) {
	score = strings.TrimSpace(score)
	if score == "" || score == "-1" {
		return nil, nil
	}

	sets := strings.Fields(score)
	games := 0
	for _, set := range sets {
		parts := strings.Split(set, "-")
		if len(parts) != 2 {
			return nil, nil
		}
		g1, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		g2, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return nil, nil
		}
		games += g1 + g2
	}
	nSets := len(sets)
	return &nSets, &games
}

// parseIntField decodes an optional integer with the -1 unknown sentinel.
func parseIntField(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-1" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v == -1 {
		return nil
	}
	return &v
}

func parseFloatField(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-1" || raw == "-1.0" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v == -1 {
		return nil
	}
	return &v
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02/01/2006", "1/2/2006"} {
		if d, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func (l *Loader) optionalRefID(ctx context.Context, lookup func(context.Context, string) (int64, bool, error), name string) (*int64, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil
	}
	id, ok, err := lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &id, nil
}

// LoadRow upserts the fixture one record describes. Returns the match id and
// whether a new row was inserted; an existing fixture in either slot order is
// left untouched.
func (l *Loader) LoadRow(ctx context.Context, row *Row) (int64, bool, error) {
	if row.Player1 == "" || row.Player2 == "" || row.Tournament == "" {
		return 0, false, fmt.Errorf("row is missing players or tournament")
	}

	date, err := parseDate(row.Date)
	if err != nil {
		return 0, false, err
	}

	p1, err := l.store.GetOrCreatePlayer(ctx, row.Player1, nil)
	if err != nil {
		return 0, false, err
	}
	p2, err := l.store.GetOrCreatePlayer(ctx, row.Player2, nil)
	if err != nil {
		return 0, false, err
	}

	var series *string
	if row.Series != "" {
		series = &row.Series
	}
	tournamentID, err := l.store.GetOrCreateTournament(ctx, row.Tournament, series)
	if err != nil {
		return 0, false, err
	}

	if id, exists, err := l.store.MatchExists(ctx, tournamentID, date, p1, p2); err != nil {
		return 0, false, err
	} else if exists {
		return id, false, nil
	}

	match := models.Match{
		TournamentID: tournamentID,
		Date:         date,
		Player1ID:    p1,
		Player2ID:    p2,
		BestOf:       parseIntField(row.BestOf),
		Rank1:        parseIntField(row.Rank1),
		Rank2:        parseIntField(row.Rank2),
		Points1:      parseIntField(row.Points1),
		Points2:      parseIntField(row.Points2),
		Odds1:        parseFloatField(row.Odds1),
		Odds2:        parseFloatField(row.Odds2),
	}

	if match.SurfaceID, err = l.optionalRefID(ctx, l.store.SurfaceID, row.Surface); err != nil {
		return 0, false, err
	}
	if match.CourtTypeID, err = l.optionalRefID(ctx, l.store.CourtTypeID, row.Court); err != nil {
		return 0, false, err
	}
	if match.RoundID, err = l.optionalRefID(ctx, l.store.RoundID, row.Round); err != nil {
		return 0, false, err
	}

	switch row.Winner {
	case "":
	case row.Player1:
		match.WinnerID = &p1
	case row.Player2:
		match.WinnerID = &p2
	}

	if score := strings.TrimSpace(row.Score); score != "" && score != "-1" {
		match.Score = &score
		match.TotalSets, match.TotalGames = ParseScore(score)
	}

	if match.Rank1 != nil && match.Points1 != nil {
		if err := l.store.UpdatePlayerRank(ctx, p1, *match.Rank1, *match.Points1); err != nil {
			return 0, false, err
		}
	}
	if match.Rank2 != nil && match.Points2 != nil {
		if err := l.store.UpdatePlayerRank(ctx, p2, *match.Rank2, *match.Points2); err != nil {
			return 0, false, err
		}
	}

	id, err := l.store.InsertMatch(ctx, &match)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// LoadCSV streams a match export file into the store. A row that fails is
// logged and skipped; the load carries on.
func (l *Loader) LoadCSV(ctx context.Context, path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	index := map[string]int{}
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Date", "Tournament", "Player_1", "Player_2"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%s is missing required column %q", path, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var result LoadResult
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			l.logger.Warnw("malformed csv record, skipping", "path", path, "line", line, "error", err)
			result.Skipped++
			continue
		}

		row := Row{
			Date:       field(record, "Date"),
			Tournament: field(record, "Tournament"),
			Series:     field(record, "Series"),
			Surface:    field(record, "Surface"),
			Court:      field(record, "Court"),
			Round:      field(record, "Round"),
			BestOf:     field(record, "Best of"),
			Player1:    field(record, "Player_1"),
			Player2:    field(record, "Player_2"),
			Winner:     field(record, "Winner"),
			Rank1:      field(record, "Rank_1"),
			Rank2:      field(record, "Rank_2"),
			Points1:    field(record, "Pts_1"),
			Points2:    field(record, "Pts_2"),
			Odds1:      field(record, "Odd_1"),
			Odds2:      field(record, "Odd_2"),
			Score:      field(record, "Score"),
		}

		_, inserted, err := l.LoadRow(ctx, &row)
		if err != nil {
			l.logger.Warnw("match load failed, skipping row",
				"path", path, "line", line, "error", err)
			result.Skipped++
			continue
		}
		if inserted {
			result.Loaded++
		} else {
			result.Skipped++
		}

		if (result.Loaded+result.Skipped)%100 == 0 {
			l.logger.Infow("load progress", "processed", result.Loaded+result.Skipped)
		}
	}

	l.logger.Infow("csv load finished",
		"path", path, "loaded", result.Loaded, "skipped", result.Skipped)
	return &result, nil
}
