package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1gm/counterrace/internal/log"
	"github.com/1gm/counterrace/internal/race"
)

func main() {
	iterations := flag.Int64("n", 0x1FFFFFF, "adjustments each worker performs after its initial increment")
	roles := flag.String("roles", "increment,decrement", "comma separated role pair for the two workers")
	jobs := flag.Int("jobs", 0, "run the job pool with this many jobs instead of the two-worker race")
	verbose := flag.Bool("v", false, "trace worker lifecycle events")
	level := flag.String("log", "info", "log level (debug, info, warn, error, fatal)")
	flag.Parse()

	exitCode := realMain(*iterations, *roles, *jobs, *verbose, *level)
	os.Exit(exitCode)
}

func realMain(iterations int64, rolePair string, jobs int, verbose bool, level string) int {
	lg := log.New(log.WithLevel(level))
	defer lg.Sync()

	var tracer race.Tracer
	if verbose {
		tracer = race.NewLogTracer(lg)
	}

	if jobs > 0 {
		final, err := race.NewJobPool(race.JobConfig{Jobs: jobs, Tracer: tracer}).Run()
		if err != nil {
			lg.Errorf("job pool failed: %v", err)
			return 1
		}
		fmt.Printf("final counter value: %d\n", final)
		return 0
	}

	first, second, err := parseRolePair(rolePair)
	if err != nil {
		lg.Error(err)
		return 1
	}

	h := race.New(race.Config{
		Iterations: iterations,
		Roles:      [2]race.Role{first, second},
		Tracer:     tracer,
	})
	final, err := h.Run()
	if err != nil {
		lg.Errorf("run failed: %v", err)
		return 1
	}

	fmt.Printf("final counter value: %d\n", final)
	return 0
}

func parseRolePair(s string) (race.Role, race.Role, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("-roles wants two comma separated roles, got %q", s)
	}
	first, err := race.ParseRole(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	second, err := race.ParseRole(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	return first, second, nil
}
