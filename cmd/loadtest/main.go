// Command loadtest drives concurrent GET requests at a running rates proxy
// and reports latency and cache effectiveness.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoadTestConfig holds configuration for load testing
type LoadTestConfig struct {
	BaseURL         string
	Paths           []string
	ConcurrentUsers int
	RequestsPerUser int
	Timeout         time.Duration
	TestDuration    time.Duration
	ThinkTime       time.Duration
}

// LoadTestResult holds the result of a single request
type LoadTestResult struct {
	Path       string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Success reports whether the proxy answered with a 2xx status
func (result LoadTestResult) Success() bool {
	return result.Err == nil && result.StatusCode >= 200 && result.StatusCode < 300
}

// LoadTestSummary holds the summary of load test results
type LoadTestSummary struct {
	TotalRequests       int
	SuccessfulRequests  int
	FailedRequests      int
	StatusCounts        map[int]int
	TotalDuration       time.Duration
	AverageResponseTime time.Duration
	MinResponseTime     time.Duration
	MaxResponseTime     time.Duration
	RequestsPerSecond   float64
	ErrorRate           float64
	ResponseTime95th    time.Duration
	ResponseTime99th    time.Duration
}

func main() {
	var config LoadTestConfig
	var paths string

	flag.StringVar(&config.BaseURL, "url", "http://localhost:5555", "Base URL of the rates proxy")
	flag.StringVar(&paths, "paths", "/,/rates/EUR,/convert/USD/EUR/100", "Comma separated request paths, used round-robin")
	flag.IntVar(&config.ConcurrentUsers, "users", 10, "Number of concurrent users")
	flag.IntVar(&config.RequestsPerUser, "requests", 100, "Number of requests per user")
	flag.DurationVar(&config.Timeout, "timeout", 30*time.Second, "Request timeout")
	flag.DurationVar(&config.TestDuration, "duration", 0, "Test duration (0 = run until all requests complete)")
	flag.DurationVar(&config.ThinkTime, "think", 100*time.Millisecond, "Think time between requests")
	flag.Parse()

	config.Paths = splitPaths(paths)
	if len(config.Paths) == 0 || config.ConcurrentUsers <= 0 || config.RequestsPerUser <= 0 {
		fmt.Fprintln(os.Stderr, "paths, users and requests must be non-empty and positive")
		os.Exit(2)
	}

	fmt.Printf("Starting load test against %s\n", config.BaseURL)
	fmt.Printf("Paths: %s\n", strings.Join(config.Paths, ", "))
	fmt.Printf("Concurrent Users: %d, Requests per User: %d\n\n", config.ConcurrentUsers, config.RequestsPerUser)

	ctx := context.Background()
	if config.TestDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.TestDuration)
		defer cancel()
	}

	printSummary(runLoadTest(ctx, config))
}

func splitPaths(value string) []string {
	paths := []string{}
	for _, path := range strings.Split(value, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		paths = append(paths, path)
	}
	return paths
}

func runLoadTest(ctx context.Context, config LoadTestConfig) LoadTestSummary {
	results := make(chan LoadTestResult, config.ConcurrentUsers*config.RequestsPerUser)
	client := &http.Client{Timeout: config.Timeout}
	baseURL := strings.TrimRight(config.BaseURL, "/")
	startTime := time.Now()

	var group errgroup.Group
	for userID := 0; userID < config.ConcurrentUsers; userID++ {
		userID := userID
		group.Go(func() error {
			for requestID := 0; requestID < config.RequestsPerUser; requestID++ {
				if ctx.Err() != nil {
					return nil
				}

				path := config.Paths[(userID+requestID)%len(config.Paths)]
				results <- makeRequest(ctx, client, baseURL, path)

				if config.ThinkTime > 0 {
					time.Sleep(config.ThinkTime)
				}
			}
			return nil
		})
	}

	_ = group.Wait()
	close(results)

	collected := make([]LoadTestResult, 0, config.ConcurrentUsers*config.RequestsPerUser)
	for result := range results {
		collected = append(collected, result)
	}
	return processResults(collected, time.Since(startTime))
}

func makeRequest(ctx context.Context, client *http.Client, baseURL, path string) LoadTestResult {
	start := time.Now()
	result := LoadTestResult{Path: path}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		result.Err = err
		return result
	}

	resp, err := client.Do(request)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	defer resp.Body.Close()

	// Read response body to ensure complete request
	_, _ = io.Copy(io.Discard, resp.Body)

	result.StatusCode = resp.StatusCode
	result.Duration = time.Since(start)
	return result
}

func processResults(results []LoadTestResult, totalDuration time.Duration) LoadTestSummary {
	summary := LoadTestSummary{
		TotalDuration: totalDuration,
		StatusCounts:  map[int]int{},
	}

	responseTimes := make([]time.Duration, 0, len(results))
	var totalResponseTime time.Duration

	for _, result := range results {
		summary.TotalRequests++
		summary.StatusCounts[result.StatusCode]++
		responseTimes = append(responseTimes, result.Duration)
		totalResponseTime += result.Duration

		if result.Success() {
			summary.SuccessfulRequests++
		} else {
			summary.FailedRequests++
		}
	}

	if summary.TotalRequests == 0 {
		return summary
	}

	summary.ErrorRate = float64(summary.FailedRequests) / float64(summary.TotalRequests) * 100
	if totalDuration > 0 {
		summary.RequestsPerSecond = float64(summary.TotalRequests) / totalDuration.Seconds()
	}

	sort.Slice(responseTimes, func(i, j int) bool { return responseTimes[i] < responseTimes[j] })
	summary.MinResponseTime = responseTimes[0]
	summary.MaxResponseTime = responseTimes[len(responseTimes)-1]
	summary.AverageResponseTime = totalResponseTime / time.Duration(len(responseTimes))
	summary.ResponseTime95th = percentile(responseTimes, 95)
	summary.ResponseTime99th = percentile(responseTimes, 99)

	return summary
}

// percentile expects sorted input
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * float64(p) / 100.0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func printSummary(summary LoadTestSummary) {
	fmt.Println("=== Load Test Results ===")
	fmt.Printf("Total Requests: %d\n", summary.TotalRequests)
	if summary.TotalRequests == 0 {
		return
	}
	fmt.Printf("Successful Requests: %d (%.2f%%)\n", summary.SuccessfulRequests,
		float64(summary.SuccessfulRequests)/float64(summary.TotalRequests)*100)
	fmt.Printf("Failed Requests: %d (%.2f%%)\n", summary.FailedRequests, summary.ErrorRate)

	statuses := make([]int, 0, len(summary.StatusCounts))
	for status := range summary.StatusCounts {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		label := fmt.Sprintf("%d", status)
		if status == 0 {
			label = "transport error"
		}
		fmt.Printf("  %s: %d\n", label, summary.StatusCounts[status])
	}

	fmt.Printf("Total Duration: %v\n", summary.TotalDuration)
	fmt.Printf("Requests per Second: %.2f\n", summary.RequestsPerSecond)
	fmt.Printf("Average Response Time: %v\n", summary.AverageResponseTime)
	fmt.Printf("Min Response Time: %v\n", summary.MinResponseTime)
	fmt.Printf("Max Response Time: %v\n", summary.MaxResponseTime)
	fmt.Printf("95th Percentile Response Time: %v\n", summary.ResponseTime95th)
	fmt.Printf("99th Percentile Response Time: %v\n", summary.ResponseTime99th)
}
