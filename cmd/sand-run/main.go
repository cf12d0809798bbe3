package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"sandfall/internal/catalog"
	"sandfall/internal/sims/sand"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type runResult struct {
	res sand.ScenarioResult
	err error
}

func main() {
	runs := flag.Int("runs", 8, "number of scenarios (consecutive seeds)")
	seed := flag.Int64("seed", 1337, "seed of the first scenario")
	steps := flag.Int("steps", 500, "steps per scenario")
	spawnEvery := flag.Int("spawn-every", 10, "steps between random spawns (0 disables spawning)")
	parallel := flag.Int("parallel", runtime.NumCPU(), "scenarios evaluated concurrently")
	materialSpec := flag.String("materials", "", "material catalog as name=id:weight[:#rrggbb],... (empty: built-in)")
	var overrides kvList
	flag.Var(&overrides, "set", "config override in key=value form, e.g. dimension=128 (repeatable)")
	flag.Parse()

	options := make(map[string]string)
	for _, kv := range overrides {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			fmt.Fprintf(os.Stderr, "ignoring malformed override %q\n", kv)
			continue
		}
		options[parts[0]] = parts[1]
	}
	base := sand.FromMap(options)

	materials := catalog.Default()
	if *materialSpec != "" {
		var err error
		if materials, err = catalog.Parse(*materialSpec); err != nil {
			fmt.Fprintf(os.Stderr, "materials: %v\n", err)
			os.Exit(2)
		}
	}
	var refs []sand.MaterialRef
	for _, m := range materials.Materials() {
		refs = append(refs, sand.MaterialRef{ID: m.ID, Weight: m.Weight})
	}

	fmt.Printf("Running %d scenarios on %dx%d (%d parallel, %d steps, spawn every %d, radius %d)\n",
		*runs, base.Dimension, base.Dimension, *parallel, *steps, *spawnEvery, base.Params.SpawnRadius)

	if *parallel < 1 {
		*parallel = 1
	}
	jobs := make(chan int64)
	results := make(chan runResult)
	var wg sync.WaitGroup

	for i := 0; i < *parallel; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				cfg := base
				cfg.Seed = s
				res, err := sand.RunScenario(sand.Scenario{
					Config:     cfg,
					Materials:  refs,
					Steps:      *steps,
					SpawnEvery: *spawnEvery,
				})
				res.Seed = s
				results <- runResult{res: res, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i := 0; i < *runs; i++ {
			jobs <- *seed + int64(i)
		}
		close(jobs)
	}()

	start := time.Now()
	var all []runResult
	for r := range results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].res.Seed < all[j].res.Seed })

	failed := 0
	for _, r := range all {
		if r.err != nil {
			failed++
			fmt.Printf("seed=%d error: %v\n", r.res.Seed, r.err)
			continue
		}
		res := r.res
		status := "ok"
		if !res.OK() {
			failed++
			status = "FAIL"
		}
		rest := "moving"
		if res.RestStep >= 0 {
			rest = fmt.Sprintf("rest@%d", res.RestStep)
		}
		fmt.Printf("seed=%d %s steps=%d spawns=%d cells=%d massErr=%d settledErr=%d %s elapsed=%s\n",
			res.Seed, status, res.Steps, res.Spawns, res.Cells, res.MassErrors, res.SettledErrors, rest, res.Elapsed.Round(time.Millisecond))
	}

	fmt.Printf("\n%d/%d scenarios passed (elapsed %s)\n", len(all)-failed, len(all), time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		os.Exit(1)
	}
}
