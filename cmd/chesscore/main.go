package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/shell"
	"github.com/hailam/chesscore/internal/storage"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	dbDir      = flag.String("db", "", "archive directory (default: platform data dir)")
	noArchive  = flag.Bool("no-archive", false, "run without an archive")
	inMemory   = flag.Bool("memory", false, "keep the archive in memory only")
	history    = flag.Int("history", board.DefaultHistoryCapacity, "plies that can be undone")
	debug      = flag.Bool("debug", false, "verify every invariant after each make/undo")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	board.DebugChecks = *debug

	archive, err := openArchive()
	if err != nil {
		log.Printf("Warning: archive not available: %v (save/load disabled)", err)
	}
	if archive != nil {
		defer archive.Close()
	}

	sh := shell.New(os.Stdin, os.Stdout, archive, board.WithHistoryCapacity(*history))
	if err := sh.Run(); err != nil {
		log.Printf("input error: %v", err)
	}
}

// openArchive opens the archive selected by flags, falling back to the
// CHESSCORE_DB environment variable for the directory.
func openArchive() (*storage.Archive, error) {
	if *noArchive {
		return nil, nil
	}
	if *inMemory {
		return storage.OpenInMemory()
	}

	dir := *dbDir
	if dir == "" {
		dir = os.Getenv("CHESSCORE_DB")
	}
	return storage.Open(dir)
}
