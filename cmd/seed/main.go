// Command seed populates a running hazard-report-service with sample reports
// and social items, for local development and demos.
//
// Usage:
//
//	go run ./cmd/seed -addr http://localhost:8080 -reports 20 -social 10
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

type site struct {
	name string
	lon  float64
	lat  float64
}

// Coastal locations inside the monitored region, plus one outside to
// exercise the location gate.
var sites = []site{
	{name: "Chennai Marina", lon: 80.283, lat: 13.05},
	{name: "Mumbai Juhu", lon: 72.826, lat: 19.099},
	{name: "Visakhapatnam RK Beach", lon: 83.324, lat: 17.714},
	{name: "Kochi Fort", lon: 76.242, lat: 9.965},
	{name: "Puri Beach", lon: 85.832, lat: 19.798},
	{name: "Lisbon waterfront", lon: -9.14, lat: 38.71},
}

var hazardKinds = []string{"Tsunami", "Storm Surge", "High Waves", "Abnormal", "Other"}

var descriptions = []string{
	"Water level rising fast, waves crossing the promenade",
	"Unusually high waves battering the sea wall",
	"Fishing boats called back, strong surge near the jetty",
	"Road along the beach submerged ankle deep",
	"Foam and debris washing far past the usual tide line",
}

var socialTitles = []string{
	"Storm surge warning issued for the east coast #StormSurge",
	"Huge waves at the beach today, stay safe everyone #HighWaves",
	"Flooding reported in low-lying coastal areas #CoastalFlooding",
	"Tsunami drill scheduled for coastal districts this week",
	"Fishermen advised not to venture into the sea",
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the running service")
	reportCount := flag.Int("reports", 20, "number of reports to submit")
	socialCount := flag.Int("social", 10, "number of social items to ingest")
	seed := flag.Int64("seed", 42, "random seed for reproducible runs")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	client := &http.Client{Timeout: 10 * time.Second}

	if err := seedReports(client, rng, *addr, *reportCount); err != nil {
		log.Fatal(err)
	}
	if err := seedSocial(client, rng, *addr, *socialCount); err != nil {
		log.Fatal(err)
	}
}

func seedReports(client *http.Client, rng *rand.Rand, addr string, count int) error {
	for i := 0; i < count; i++ {
		s := sites[rng.Intn(len(sites))]
		body := map[string]any{
			"longitude":   jitter(rng, s.lon),
			"latitude":    jitter(rng, s.lat),
			"description": descriptions[rng.Intn(len(descriptions))],
			"mediaUrl":    fmt.Sprintf("https://media.example/seed/%d.jpg", i),
			"hazardKind":  hazardKinds[rng.Intn(len(hazardKinds))],
			"submittedBy": fmt.Sprintf("seed-user-%d", rng.Intn(5)),
		}
		if err := post(client, addr+"/api/reports", body, http.StatusCreated); err != nil {
			return fmt.Errorf("report %d: %w", i, err)
		}
	}
	log.Printf("submitted %d reports near %s and friends", count, sites[0].name)
	return nil
}

func seedSocial(client *http.Client, rng *rand.Rand, addr string, count int) error {
	sources := []string{"News", "Forum"}
	for i := 0; i < count; i++ {
		body := map[string]any{
			"source":  sources[rng.Intn(len(sources))],
			"title":   socialTitles[rng.Intn(len(socialTitles))],
			"snippet": "Seeded item for local development.",
			"url":     fmt.Sprintf("https://social.example/seed/%d", i),
		}
		if err := post(client, addr+"/api/social/ingest", body, http.StatusOK); err != nil {
			return fmt.Errorf("social item %d: %w", i, err)
		}
	}
	log.Printf("ingested %d social items", count)
	return nil
}

// jitter spreads submissions over roughly a village-sized area so hotspot
// cells get more than one report.
func jitter(rng *rand.Rand, v float64) float64 {
	return v + (rng.Float64()-0.5)*0.01
}

func post(client *http.Client, url string, body any, wantStatus int) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("POST %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	return nil
}
