// Package main writes a small demo games database with the layout the
// dashboard reads.
//
// Usage:
//
//	go run ./cmd/seed -out data/games.db
//	go run ./cmd/seed -out data/games.db -rows 500 -force
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/gamestats/gamestats-server/internal/store/sqlite"
)

var (
	out   = flag.String("out", "data/games.db", "Path of the database to create")
	rows  = flag.Int("rows", 200, "Number of generated games in addition to the fixed ones")
	force = flag.Bool("force", false, "Overwrite an existing file")
	seed  = flag.Uint64("seed", 1, "Random seed for generated rows")
)

const insertGame = `INSERT INTO games ("index", title, rating, plays, playing, backlogs, wishlist, summary,
	team_1, team_2, genre_1, genre_2, genre_3, genre_4, genre_5, genre_6, genre_7)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type demoGame struct {
	title   string
	rating  float64
	plays   int64
	summary string
	teams   []string
	genres  []string
}

var fixed = []demoGame{
	{"Elden Ring", 4.5, 17000, "<p>Rise, <b>Tarnished</b>, and be guided by grace.</p>",
		[]string{"FromSoftware", "Bandai Namco Entertainment"}, []string{"Adventure", "RPG"}},
	{"Hades", 4.3, 40000, "<p>Defy the god of the dead.</p>",
		[]string{"Supergiant Games"}, []string{"Adventure", "Brawler", "Indie", "RPG"}},
	{"Hollow Knight", 4.4, 36000, "<p>Forge your own path in <i>Hallownest</i>.</p>",
		[]string{"Team Cherry"}, []string{"Adventure", "Indie", "Platform"}},
	{"Tetris", 4.0, 90000, "<p>Falling blocks.</p>",
		nil, []string{"Puzzle"}},
	{"Portal 2", 4.4, 60000, "<p>Now you're thinking with portals.</p>",
		[]string{"Valve"}, []string{"Platform", "Puzzle", "Shooter"}},
	{"Minecraft", 4.2, 95000, "",
		[]string{"Mojang Studios"}, []string{"Adventure", "Simulator"}},
}

var (
	genres = []string{"Adventure", "RPG", "Indie", "Shooter", "Platform", "Puzzle", "Strategy",
		"Simulator", "Brawler", "Racing", "Sport", "Turn Based Strategy", "Tactical", "Music"}
	teams = []string{"Nintendo", "Capcom", "Square Enix", "Ubisoft", "Sega", "Konami",
		"Electronic Arts", "Bethesda Softworks", "Devolver Digital", "Annapurna Interactive"}
	words = []string{"Shadow", "Legend", "Star", "Iron", "Crystal", "Dragon", "Night", "Quest",
		"Tales", "Frontier", "Echo", "Rogue", "Storm", "Garden", "Circuit"}
)

func main() {
	flag.Parse()

	if err := run(context.Background()); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func run(ctx context.Context) error {
	if _, err := os.Stat(*out); err == nil {
		if !*force {
			return fmt.Errorf("%s already exists (use -force to overwrite)", *out)
		}
		if err := os.Remove(*out); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", *out)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqlite.Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertGame)
	if err != nil {
		return err
	}
	defer stmt.Close()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	games := slices.Concat(fixed, generate(rng, *rows))

	for i, g := range games {
		args := []any{int64(i), g.title, g.rating, g.plays,
			g.plays / 20, g.plays / 8, g.plays / 5, nullable(g.summary)}
		args = append(args, slots(g.teams, 2)...)
		args = append(args, slots(g.genres, 7)...)

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %q: %w", g.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	fmt.Printf("Wrote %d games to %s\n", len(games), *out)
	return nil
}

func generate(rng *rand.Rand, n int) []demoGame {
	games := make([]demoGame, 0, n)
	for range n {
		title := words[rng.IntN(len(words))] + " " + words[rng.IntN(len(words))]
		if rng.IntN(3) == 0 {
			title += fmt.Sprintf(" %d", rng.IntN(4)+2)
		}

		g := demoGame{
			title:   title,
			rating:  float64(rng.IntN(46)+5) / 10,
			plays:   int64(rng.ExpFloat64() * 4000),
			summary: "<p>" + title + " is a generated demo entry.</p>",
			teams:   pick(rng, teams, rng.IntN(3)),
			genres:  pick(rng, genres, rng.IntN(7)+1),
		}
		games = append(games, g)
	}
	return games
}

// pick returns n distinct values from pool in random order.
func pick(rng *rand.Rand, pool []string, n int) []string {
	idx := rng.Perm(len(pool))[:min(n, len(pool))]
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

// slots pads values to width with NULLs, like the scraper's export.
func slots(values []string, width int) []any {
	args := make([]any, width)
	for i := range args {
		if i < len(values) {
			args[i] = nullable(values[i])
		}
	}
	return args
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
