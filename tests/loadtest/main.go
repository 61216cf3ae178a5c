package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numTeams     = 20
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func teamID(n int) string {
	return fmt.Sprintf("team-%03d", n)
}

func main() {
	fmt.Println("=== PCD Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s | Teams: %d\n\n", numWorkers, testDuration, numTeams)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Print("Registering teams... ")
	for i := 0; i < numTeams; i++ {
		body, _ := json.Marshal(map[string]string{
			"id":   teamID(i),
			"name": fmt.Sprintf("Load Team %d", i),
		})
		resp, err := httpClient.Post(baseURL+"/teams/register", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("FAILED: %s\n", err)
			return
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
	fmt.Println("OK")

	// Keep a voting cycle running so submission endpoints have an open
	// window to hit; rejected submissions outside the window still count
	// as successful requests below.
	stopCycles := make(chan struct{})
	go cycleKeeper(stopCycles)
	defer close(stopCycles)
	time.Sleep(500 * time.Millisecond)

	// Phase 1: Submission-heavy load
	fmt.Println("\n--- Phase 1: Submission-heavy (80% POST, 20% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doCastVote(rng)
		case r < 0.70:
			return doSubmitRating(rng)
		case r < 0.80:
			return doConvertTokens(rng)
		default:
			return doGetSnapshot()
		}
	})

	// Phase 2: Mixed load
	fmt.Println("\n--- Phase 2: Mixed load (40% POST, 60% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doCastVote(rng)
		case r < 0.40:
			return doSubmitRating(rng)
		case r < 0.60:
			return doGetSnapshot()
		case r < 0.80:
			return doGetLeaderboard()
		case r < 0.90:
			return doGetTeams()
		default:
			return doGetRounds()
		}
	})

	// Phase 3: Read-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (10% POST, 90% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.10:
			return doCastVote(rng)
		case r < 0.50:
			return doGetSnapshot()
		case r < 0.75:
			return doGetLeaderboard()
		case r < 0.90:
			return doGetTeams()
		default:
			return doGetRounds()
		}
	})
}

// cycleKeeper restarts the voting cycle with a fresh presenter whenever the
// current one runs out.
func cycleKeeper(stop chan struct{}) {
	next := 0
	for {
		select {
		case <-stop:
			return
		default:
		}

		resp, err := httpClient.Get(baseURL + "/cycles/snapshot?round=voting")
		if err != nil {
			time.Sleep(time.Second)
			continue
		}
		var snapshot struct {
			CycleActive bool `json:"cycle_active"`
		}
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		_ = json.Unmarshal(data, &snapshot)

		if !snapshot.CycleActive {
			body, _ := json.Marshal(map[string]string{
				"round":     "voting",
				"team_id":   teamID(next % numTeams),
				"team_name": fmt.Sprintf("Load Team %d", next%numTeams),
			})
			resp, err := httpClient.Post(baseURL+"/cycles/start", "application/json", bytes.NewReader(body))
			if err == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
			next++
		}
		time.Sleep(time.Second)
	}
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

// submissionOK accepts both created records and the deliberate business
// rejections (closed window, duplicate, spent tokens); only transport and
// server failures count as errors.
func submissionOK(status int) bool {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusConflict, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

func doCastVote(rng *rand.Rand) result {
	value := 1
	if rng.Float64() < 0.3 {
		value = -1
	}
	body, _ := json.Marshal(map[string]interface{}{
		"from_team_id": teamID(rng.Intn(numTeams)),
		"to_team_id":   teamID(rng.Intn(numTeams)),
		"value":        value,
	})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/votes", "application/json", bytes.NewReader(body))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /votes", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// Self-votes land as 400; tolerate them, the generator does not dedupe.
	return result{"POST /votes", resp.StatusCode, lat, !submissionOK(resp.StatusCode) && resp.StatusCode != 400}
}

func doSubmitRating(rng *rand.Rand) result {
	body, _ := json.Marshal(map[string]interface{}{
		"rater_id":   fmt.Sprintf("judge-%d", rng.Intn(5)),
		"to_team_id": teamID(rng.Intn(numTeams)),
		"score":      float64(rng.Intn(101)),
		"kind":       "judge-live",
	})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/ratings", "application/json", bytes.NewReader(body))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /ratings", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /ratings", resp.StatusCode, lat, !submissionOK(resp.StatusCode)}
}

func doConvertTokens(rng *rand.Rand) result {
	body, _ := json.Marshal(map[string]interface{}{
		"team_id":  teamID(rng.Intn(numTeams)),
		"quantity": 1,
	})
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/tokens/convert", "application/json", bytes.NewReader(body))
	lat := time.Since(start)
	if err != nil {
		return result{"POST /tokens/convert", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /tokens/convert", resp.StatusCode, lat, !submissionOK(resp.StatusCode)}
}

func doGetSnapshot() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/cycles/snapshot?round=voting")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /cycles/snapshot", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /cycles/snapshot", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetLeaderboard() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/leaderboard")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /leaderboard", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /leaderboard", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetTeams() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/teams")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /teams", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /teams", resp.StatusCode, lat, resp.StatusCode != 200}
}

func doGetRounds() result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + "/rounds")
	lat := time.Since(start)
	if err != nil {
		return result{"GET /rounds", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET /rounds", resp.StatusCode, lat, resp.StatusCode != 200}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
