// Command glade-maze generates a maze with a difficulty preset and prints it.
//
//	# wall   (space) path   . glade   % glade ring   @ outer wall
//	+ open gate   - closed gate   E exit   P pursuer
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/beka-birhanu/glade/game"
)

func main() {
	difficulty := flag.String("difficulty", "", "difficulty preset (default: the preset file's default)")
	seed := flag.Int64("seed", 0, "generation seed (0 draws one from the clock)")
	file := flag.String("presets", "", "YAML difficulty presets (default: built-in)")
	flag.Parse()

	if err := run(*file, *difficulty, *seed); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(file, difficulty string, seed int64) error {
	presets, err := game.LoadPresets(file)
	if err != nil {
		return err
	}
	name, settings, err := presets.Lookup(difficulty)
	if err != nil {
		return err
	}

	var seedPtr *int64
	if seed != 0 {
		seedPtr = &seed
	}
	g, err := game.New(settings, seedPtr, nil)
	if err != nil {
		return err
	}

	report := g.Generation()
	fmt.Printf("%s %dx%d, seed %d\n", name, settings.Width, settings.Height, g.Seed())
	fmt.Printf("gates: %d/%d placed", report.GatesPlaced, report.GatesRequested)
	if report.GatesClamped {
		fmt.Print(" (clamped)")
	}
	fmt.Printf(", exits: %d\n", len(g.Maze().Exits()))

	rows := strings.Split(strings.TrimRight(g.Maze().String(), "\n"), "\n")
	for _, p := range g.Pursuers() {
		row := []byte(rows[p.Pos.Row])
		row[p.Pos.Col] = 'P'
		rows[p.Pos.Row] = string(row)
	}
	fmt.Println(strings.Join(rows, "\n"))
	return nil
}
