// Loadtest sends concurrent strategy requests and reports latency
// percentiles and the distribution of status codes and error bodies.
//
// Usage:
//
//	go run ./scripts/loadtest -url http://localhost:8080/generate-strategy -concurrency 5 -requests 50
//	go run ./scripts/loadtest -concurrency 20 -requests 500 -out summary.json
//
// Run it against scripts/mockupstream unless you want to pay for tokens.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type errorBody struct {
	Error string `json:"error"`
}

type summary struct {
	Target        string           `json:"target"`
	Requests      int              `json:"requests"`
	Concurrency   int              `json:"concurrency"`
	Success       int32            `json:"success"`
	Failure       int32            `json:"failure"`
	DurationMs    int64            `json:"duration_ms"`
	ThroughputRPS float64          `json:"throughput_rps"`
	StatusCodes   map[int]int32    `json:"status_codes"`
	Errors        map[string]int32 `json:"errors"`
	P50Ms         float64          `json:"p50_ms"`
	P90Ms         float64          `json:"p90_ms"`
	P95Ms         float64          `json:"p95_ms"`
	P99Ms         float64          `json:"p99_ms"`
}

func main() {
	var (
		url         = flag.String("url", "http://localhost:8080/generate-strategy", "Target URL")
		concurrency = flag.Int("concurrency", 5, "Number of concurrent workers")
		requests    = flag.Int("requests", 50, "Total number of requests to send")
		body        = flag.String("body", `{"storeName":"テスト食堂","category":"定食屋"}`, "Request body")
		timeout     = flag.Duration("timeout", 90*time.Second, "Per-request timeout")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
		verbose     = flag.Bool("v", false, "Verbose per-request logging to stdout")
	)
	flag.Parse()

	client := &http.Client{Timeout: *timeout}

	jobs := make(chan int)
	var wg sync.WaitGroup

	var success, failure int32

	var mu sync.Mutex
	var latencies []time.Duration
	statusCodes := make(map[int]int32)
	errorsSeen := make(map[string]int32)

	testStart := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				start := time.Now()
				resp, err := client.Post(*url, "application/json", bytes.NewBufferString(*body))
				dur := time.Since(start)

				if err != nil {
					atomic.AddInt32(&failure, 1)
					mu.Lock()
					latencies = append(latencies, dur)
					errorsSeen["transport: "+err.Error()]++
					mu.Unlock()
					if *verbose {
						fmt.Printf("[%d] idx=%d error=%v\n", workerID, idx, err)
					}
					continue
				}

				payload, _ := io.ReadAll(resp.Body)
				resp.Body.Close()

				mu.Lock()
				latencies = append(latencies, dur)
				statusCodes[resp.StatusCode]++
				if resp.StatusCode != http.StatusOK {
					var eb errorBody
					if json.Unmarshal(payload, &eb) == nil && eb.Error != "" {
						errorsSeen[eb.Error]++
					} else {
						errorsSeen[string(payload)]++
					}
				}
				mu.Unlock()

				if resp.StatusCode == http.StatusOK {
					atomic.AddInt32(&success, 1)
				} else {
					atomic.AddInt32(&failure, 1)
				}

				if *verbose {
					fmt.Printf("[%d] idx=%d status=%d dur=%v\n", workerID, idx, resp.StatusCode, dur)
				}
			}
		}(i)
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	totalDuration := time.Since(testStart)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	pick := func(p float64) float64 {
		if len(latencies) == 0 {
			return 0
		}
		return float64(latencies[int(float64(len(latencies)-1)*p)].Microseconds()) / 1000.0
	}

	report := summary{
		Target:        *url,
		Requests:      *requests,
		Concurrency:   *concurrency,
		Success:       success,
		Failure:       failure,
		DurationMs:    totalDuration.Milliseconds(),
		ThroughputRPS: float64(*requests) / totalDuration.Seconds(),
		StatusCodes:   statusCodes,
		Errors:        errorsSeen,
		P50Ms:         pick(0.50),
		P90Ms:         pick(0.90),
		P95Ms:         pick(0.95),
		P99Ms:         pick(0.99),
	}

	fmt.Println("--- Load Test Summary ---")
	fmt.Printf("Target: %s\n", report.Target)
	fmt.Printf("Requests: %d  Concurrency: %d\n", report.Requests, report.Concurrency)
	fmt.Printf("Success: %d  Failure: %d\n", report.Success, report.Failure)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s\n", totalDuration, report.ThroughputRPS)
	fmt.Printf("Latency ms: p50=%.1f p90=%.1f p95=%.1f p99=%.1f\n", report.P50Ms, report.P90Ms, report.P95Ms, report.P99Ms)

	fmt.Println("\nStatus codes:")
	var codes []int
	for k := range statusCodes {
		codes = append(codes, k)
	}
	sort.Ints(codes)
	for _, k := range codes {
		fmt.Printf("  %d -> %d\n", k, statusCodes[k])
	}

	if len(errorsSeen) > 0 {
		fmt.Println("\nErrors:")
		for msg, n := range errorsSeen {
			fmt.Printf("  %q -> %d\n", msg, n)
		}
	}

	if *outJSON != "" {
		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		f.Close()
		fmt.Printf("\nWrote JSON summary to %s\n", *outJSON)
	}

	if failure > 0 {
		os.Exit(2)
	}
}
