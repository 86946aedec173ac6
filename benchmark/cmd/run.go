package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type BenchmarkResult struct {
	Name       string  `json:"name"`
	Framework  string  `json:"framework"`
	Category   string  `json:"category"`
	Scenario   string  `json:"scenario"`
	Iterations int64   `json:"iterations"`
	NsPerOp    float64 `json:"nsPerOp"`
	BytesPerOp int64   `json:"bytesPerOp"`
	AllocsOp   int64   `json:"allocsPerOp"`
}

type CategoryResults struct {
	Category string
	Results  []BenchmarkResult
}

var frameworkColors = map[string]text.Colors{
	"Spool": {text.FgGreen, text.Bold},
	"Do":    {text.FgYellow},
	"Dig":   {text.FgMagenta},
	"Fx":    {text.FgBlue},
}

var categoryTitles = map[string]string{
	"Provide_Simple":   "Registration (simple)",
	"Provide_Chain":    "Registration (dependency chain)",
	"Invoke_Singleton": "Resolution (singleton)",
	"Invoke_Chain":     "Resolution (dependency chain)",
	"Invoke_Transient": "Resolution (transient)",
	"Dispose_10":       "Disposal (10 services)",
	"Dispose_50":       "Disposal (50 services)",
}

var categoryOrder = []string{
	"Provide_Simple", "Provide_Chain",
	"Invoke_Singleton", "Invoke_Chain", "Invoke_Transient",
	"Dispose_10", "Dispose_50",
}

func main() {
	fmt.Println(text.Colors{text.Bold, text.FgCyan}.Sprint("spool benchmark suite"))
	fmt.Println(text.Faint.Sprint("running benchmarks..."))
	fmt.Println()

	benchDir := ".."
	exportJSONFile := false
	for _, arg := range os.Args[1:] {
		if arg == "--json" {
			exportJSONFile = true
			continue
		}
		benchDir = arg
	}

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = benchDir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "benchmark failed: %s\n", string(exitErr.Stderr))
		}
		os.Exit(1)
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, cat := range grouped {
		printCategory(cat)
	}
	printSummary(grouped)

	if exportJSONFile {
		exportJSON(results)
	}
}

func parseResults(output []byte) []BenchmarkResult {
	benchPattern := regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)

	seen := make(map[string][]BenchmarkResult)
	var names []string

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		matches := benchPattern.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.ParseInt(matches[2], 10, 64)
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)
		bytesPerOp, _ := strconv.ParseInt(matches[4], 10, 64)
		allocsOp, _ := strconv.ParseInt(matches[5], 10, 64)

		parts := strings.Split(name, "_")
		if len(parts) < 3 {
			continue
		}

		if _, ok := seen[name]; !ok {
			names = append(names, name)
		}
		seen[name] = append(seen[name], BenchmarkResult{
			Name:       name,
			Framework:  parts[len(parts)-1],
			Category:   parts[0],
			Scenario:   strings.Join(parts[1:len(parts)-1], "_"),
			Iterations: iterations,
			NsPerOp:    nsPerOp,
			BytesPerOp: bytesPerOp,
			AllocsOp:   allocsOp,
		})
	}

	results := make([]BenchmarkResult, 0, len(names))
	for _, name := range names {
		results = append(results, average(seen[name]))
	}
	return results
}

func average(runs []BenchmarkResult) BenchmarkResult {
	var totalNs float64
	var totalBytes, totalAllocs int64
	for _, r := range runs {
		totalNs += r.NsPerOp
		totalBytes += r.BytesPerOp
		totalAllocs += r.AllocsOp
	}
	count := float64(len(runs))

	avg := runs[0]
	avg.NsPerOp = totalNs / count
	avg.BytesPerOp = int64(float64(totalBytes) / count)
	avg.AllocsOp = int64(float64(totalAllocs) / count)
	return avg
}

func groupByCategory(results []BenchmarkResult) []CategoryResults {
	groups := make(map[string][]BenchmarkResult)
	for _, r := range results {
		key := r.Category + "_" + r.Scenario
		groups[key] = append(groups[key], r)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	ordered := make([]CategoryResults, 0, len(keys))
	for _, key := range keys {
		results := groups[key]
		sort.Slice(results, func(i, j int) bool {
			return results[i].NsPerOp < results[j].NsPerOp
		})
		ordered = append(ordered, CategoryResults{Category: key, Results: results})
	}
	return ordered
}

func rank(category string) int {
	if i := slices.Index(categoryOrder, category); i >= 0 {
		return i
	}
	return len(categoryOrder)
}

func printCategory(cat CategoryResults) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(categoryTitle(cat.Category))
	t.AppendHeader(table.Row{"Framework", "Time/op", "Bytes/op", "Allocs/op", "Relative"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	fastest := cat.Results[0].NsPerOp
	for i, r := range cat.Results {
		relative := "fastest"
		if i > 0 && fastest > 0 {
			relative = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}

		colors, ok := frameworkColors[r.Framework]
		if !ok {
			colors = text.Colors{text.Reset}
		}

		t.AppendRow(table.Row{
			colors.Sprint(r.Framework),
			formatNs(r.NsPerOp),
			fmt.Sprintf("%d B", r.BytesPerOp),
			r.AllocsOp,
			relative,
		})
	}

	t.Render()
	fmt.Println()
}

func categoryTitle(cat string) string {
	if title, ok := categoryTitles[cat]; ok {
		return title
	}
	return strings.ReplaceAll(cat, "_", " ")
}

func formatNs(ns float64) string {
	switch {
	case ns >= 1_000_000:
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	case ns >= 1_000:
		return fmt.Sprintf("%.2f µs", ns/1_000)
	default:
		return fmt.Sprintf("%.0f ns", ns)
	}
}

func printSummary(groups []CategoryResults) {
	wins := make(map[string]int)
	for _, cat := range groups {
		wins[cat.Results[0].Framework]++
	}

	type frameworkWins struct {
		name string
		wins int
	}

	sorted := make([]frameworkWins, 0, len(wins))
	for name, count := range wins {
		sorted = append(sorted, frameworkWins{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].wins != sorted[j].wins {
			return sorted[i].wins > sorted[j].wins
		}
		return sorted[i].name < sorted[j].name
	})

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Summary")
	t.AppendHeader(table.Row{"Framework", "Wins", "Module"})

	modules := map[string]string{
		"Spool": "github.com/danpasecinic/spool",
		"Do":    "github.com/samber/do/v2",
		"Dig":   "go.uber.org/dig",
		"Fx":    "go.uber.org/fx",
	}
	for _, fw := range sorted {
		t.AppendRow(table.Row{
			frameworkColors[fw.name].Sprint(fw.name),
			fmt.Sprintf("%d/%d", fw.wins, len(groups)),
			modules[fw.name],
		})
	}
	t.Render()
}

func exportJSON(results []BenchmarkResult) {
	output := struct {
		Benchmarks []BenchmarkResult `json:"benchmarks"`
	}{
		Benchmarks: results,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	_ = os.WriteFile("benchmark_results.json", data, 0o644)
	fmt.Println(text.Faint.Sprint("results exported to benchmark_results.json"))
}
