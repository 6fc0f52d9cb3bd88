package main

import (
	"slices"
	"time"
)

// benchmarkCSS declares breakpoints in both dimensions, with relative units
// and one diagnostic of each kind
const benchmarkCSS = `.grid[width-range~="0-300px"] { display: block; }
.grid[width-range~="301px-60em"] { display: grid; }
.grid[width-range~="0-300px"] .cell { padding: 0; }
.card[height-range~="0-2in"], #hero[width-range~="0-50vw"] { }
.inverted[height-range~="10in-1in"] { }
div[width-range~="0-10px"] { }
@media print { .print[width-range~="0-10cm"] { } }
`

func benchmarkInitialization(client *LSPClient, rootURI string) (OperationResult, error) {
	start := time.Now()
	err := client.Initialize(rootURI)
	return computeStats("initialize", []time.Duration{time.Since(start)}), err
}

// repeat times op over iterations; failed calls still count
func repeat(name string, iterations int, op func() error) OperationResult {
	latencies := make([]time.Duration, iterations)
	for i := range latencies {
		start := time.Now()
		_ = op()
		latencies[i] = time.Since(start)
	}
	return computeStats(name, latencies)
}

func benchmarkHover(client *LSPClient, uri string, iterations int) OperationResult {
	// .grid on the second line
	return repeat("hover", iterations, func() error { return client.Hover(uri, 1, 2) })
}

func benchmarkDiagnostics(client *LSPClient, uri string, iterations int) OperationResult {
	return repeat("diagnostics", iterations, func() error { return client.Diagnostic(uri) })
}

func benchmarkCatalog(client *LSPClient, iterations int) OperationResult {
	return repeat("catalog", iterations, client.Catalog)
}

func benchmarkResolve(client *LSPClient, iterations int) OperationResult {
	// Sweep widths across the grid's breakpoints
	i := 0
	return repeat("resolve", iterations, func() error {
		i++
		return client.Resolve("grid", (i*37)%1200, 0)
	})
}

func computeStats(name string, latencies []time.Duration) OperationResult {
	if len(latencies) == 0 {
		return OperationResult{Name: name}
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	var sum time.Duration
	for _, d := range latencies {
		sum += d
	}

	percentile := func(p int) time.Duration {
		return sorted[len(sorted)*p/100]
	}

	return OperationResult{
		Name:       name,
		AvgLatency: sum / time.Duration(len(latencies)),
		MinLatency: sorted[0],
		MaxLatency: sorted[len(sorted)-1],
		P50Latency: percentile(50),
		P95Latency: percentile(95),
		P99Latency: percentile(99),
		Iterations: len(latencies),
	}
}

func getMemoryStats(client *LSPClient, uri string) MemoryStats {
	idle, _ := client.GetProcessMemory()

	for i := range 10 {
		_ = client.Hover(uri, 1, 2)
		_ = client.Resolve("grid", i*100, 0)
	}

	underLoad, _ := client.GetProcessMemory()
	return MemoryStats{Idle: idle, UnderLoad: underLoad}
}
