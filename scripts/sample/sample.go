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

type Player struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Price struct {
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

type Transaction struct {
	PlayerID int64   `json:"player_id"`
	Item     string  `json:"item"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Date     string  `json:"date"`
}

var catalog = []struct {
	name  string
	price float64
}{
	{"Oppressor Mk II", 3890250},
	{"Kosatka", 2200000},
	{"Buzzard Attack Chopper", 1750000},
	{"Pegassi Toreador", 3660000},
	{"Armored Kuruma", 698250},
	{"Sparrow", 1815000},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080/api", "API base URL")
	days := flag.Int("days", 30, "Days of price history to generate")
	flag.Parse()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	start := time.Now().UTC().AddDate(0, 0, -*days)

	var players []Player
	for _, name := range []string{"niko", "franklin", "lamar", "trevor", "lester"} {
		var p Player
		post(*baseURL+"/players", map[string]string{"username": name}, &p)
		players = append(players, p)
	}
	fmt.Printf("Created %d players\n", len(players))

	for _, c := range catalog {
		var item Item
		post(*baseURL+"/items", map[string]string{"name": c.name}, &item)

		price := c.price
		for day := 0; day <= *days; day += 7 {
			post(fmt.Sprintf("%s/items/%d/prices", *baseURL, item.ID), Price{
				Price: price,
				Date:  start.AddDate(0, 0, day).Format("2006-01-02"),
			}, nil)
			price *= 1 + (rng.Float64()*0.1 - 0.03)
		}
		fmt.Printf("Created %s with price history\n", c.name)
	}

	for i := 0; i < 40; i++ {
		p := players[rng.Intn(len(players))]
		c := catalog[rng.Intn(len(catalog))]
		txType := "purchase"
		if rng.Intn(4) == 0 {
			txType = "sale"
		}
		post(*baseURL+"/transactions", Transaction{
			PlayerID: p.ID,
			Item:     c.name,
			Amount:   c.price,
			Type:     txType,
			Date:     start.AddDate(0, 0, rng.Intn(*days+1)).Format("2006-01-02"),
		}, nil)
	}
	fmt.Println("Created 40 transactions")
	fmt.Println("Sample data created successfully!")
}

func post(url string, payload, out any) {
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("POST %s failed: status %d", url, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("Failed to decode response from %s: %v", url, err)
		}
	}
}
