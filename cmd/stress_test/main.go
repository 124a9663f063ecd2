package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080"
	totalRequests  = 50
)

type beer struct {
	ID             string `json:"id,omitempty"`
	Version        int    `json:"version,omitempty"`
	BeerName       string `json:"beerName"`
	BeerStyle      string `json:"beerStyle"`
	UPC            int64  `json:"upc"`
	Price          string `json:"price"`
	QuantityOnHand int    `json:"quantityOnHand,omitempty"`
}

// report summarizes one stress run.
type report struct {
	UpdateOK, UpdateFailed int32
	ReadOK, ReadFailed     int32
	// StaleReads counts GETs whose version was outside what the run
	// could have produced.
	StaleReads     int32
	InitialVersion int
	FinalVersion   int
	Duration       time.Duration
}

func main() {
	baseURL := flag.String("url", defaultBaseURL, "base URL of a running server")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	r, err := run(context.Background(), client, *baseURL, totalRequests)
	if err != nil {
		log.Fatalf("stress test failed: %v", err)
	}

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Requests:   %d PUT + %d GET\n", totalRequests, totalRequests)
	fmt.Printf("Updates OK:       %d\n", r.UpdateOK)
	fmt.Printf("Updates Failed:   %d\n", r.UpdateFailed)
	fmt.Printf("Reads OK:         %d\n", r.ReadOK)
	fmt.Printf("Reads Failed:     %d\n", r.ReadFailed)
	fmt.Printf("Duration:         %v\n", r.Duration)
	fmt.Printf("Final Version:    %d\n", r.FinalVersion)
	fmt.Println("==========================================")

	if r.UpdateOK == totalRequests && r.ReadOK == totalRequests {
		fmt.Printf("PASS: All %d updates returned 204 and all %d reads returned 200\n", totalRequests, totalRequests)
	} else {
		fmt.Printf("FAIL: Expected %d/%d successful updates/reads, got %d/%d\n",
			totalRequests, totalRequests, r.UpdateOK, r.ReadOK)
	}

	if r.StaleReads == 0 {
		fmt.Println("PASS: Every read saw a version the run could produce")
	} else {
		fmt.Printf("FAIL: %d reads saw an impossible version\n", r.StaleReads)
	}

	// Every update must be counted exactly once
	if want := r.InitialVersion + int(r.UpdateOK); r.FinalVersion == want {
		fmt.Println("PASS: No lost updates")
	} else {
		fmt.Printf("FAIL: Expected version %d, got %d\n", want, r.FinalVersion)
	}
}

// run creates one beer, then fires n concurrent PUTs and n concurrent GETs
// against it and reads the final state.
func run(ctx context.Context, client *http.Client, baseURL string, n int) (report, error) {
	var r report
	beersURL := strings.TrimSuffix(baseURL, "/") + "/api/v1/beer/"

	// Create the beer every request targets
	created, err := createBeer(ctx, client, beersURL)
	if err != nil {
		return r, fmt.Errorf("create beer: %w", err)
	}
	log.Printf("created beer %s (version %d)", created.ID, created.Version)
	r.InitialVersion = created.Version

	// Counters
	var updateOK, updateFailed, readOK, readFailed, staleReads atomic.Int32

	// Spawn concurrent updates and reads
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()

			update := beer{
				BeerName:  fmt.Sprintf("Stress %d", i),
				BeerStyle: "IPA",
				UPC:       int64(1000 + i),
				Price:     "9.99",
			}
			if err := updateBeer(ctx, client, beersURL+created.ID, update); err == nil {
				updateOK.Add(1)
			} else {
				log.Printf("update %d failed: %v", i, err)
				updateFailed.Add(1)
			}
		}(i)

		go func(i int) {
			defer wg.Done()

			got, err := getBeer(ctx, client, beersURL+created.ID)
			if err != nil {
				log.Printf("read %d failed: %v", i, err)
				readFailed.Add(1)
				return
			}
			readOK.Add(1)
			if got.Version < created.Version || got.Version > created.Version+n {
				staleReads.Add(1)
			}
		}(i)
	}

	wg.Wait()
	r.Duration = time.Since(start)
	r.UpdateOK, r.UpdateFailed = updateOK.Load(), updateFailed.Load()
	r.ReadOK, r.ReadFailed = readOK.Load(), readFailed.Load()
	r.StaleReads = staleReads.Load()

	final, err := getBeer(ctx, client, beersURL+created.ID)
	if err != nil {
		return r, fmt.Errorf("fetch beer: %w", err)
	}
	r.FinalVersion = final.Version

	return r, nil
}

func createBeer(ctx context.Context, client *http.Client, url string) (beer, error) {
	body, _ := json.Marshal(beer{
		BeerName:  "Stress Lager",
		BeerStyle: "LAGER",
		UPC:       123456789012,
		Price:     "4.50",
	})

	var created beer
	err := do(ctx, client, http.MethodPost, url, body, http.StatusCreated, &created)
	return created, err
}

func updateBeer(ctx context.Context, client *http.Client, url string, b beer) error {
	body, _ := json.Marshal(b)
	return do(ctx, client, http.MethodPut, url, body, http.StatusNoContent, nil)
}

func getBeer(ctx context.Context, client *http.Client, url string) (beer, error) {
	var b beer
	err := do(ctx, client, http.MethodGet, url, nil, http.StatusOK, &b)
	return b, err
}

func do(ctx context.Context, client *http.Client, method, url string, body []byte, wantStatus int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
