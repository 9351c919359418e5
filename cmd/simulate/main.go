package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api/chat/v1"

type chatRequest struct {
	UserId  string `json:"userId"`
	Message string `json:"message"`
}

type streamEvent struct {
	Type     string `json:"type"`
	Message  string `json:"message,omitempty"`
	Response *struct {
		Type             string `json:"type"`
		Content          string `json:"content"`
		RequiresFollowUp bool   `json:"requiresFollowUp"`
	} `json:"response,omitempty"`
}

// Scripted multi-turn conversation against a running server. Each
// scenario exercises one dialog path end to end.
var scenarios = []struct {
	name  string
	turns []string
}{
	{
		name: "Flight, incremental slots",
		turns: []string{
			"I want to fly from New York to Los Angeles",
			"I want to leave on December 25th",
		},
	},
	{
		name: "Hotel, single turn",
		turns: []string{
			"Book a hotel in Tokyo, check in 2025-01-10, check out 2025-01-14, 2 guests",
		},
	},
	{
		name: "Combined trip with reset",
		turns: []string{
			"Plan a trip to Paris from London, departing 2025-03-01 and returning 2025-03-08",
			"Actually let's do a new search",
		},
	},
	{
		name: "Out of domain",
		turns: []string{
			"What's the weather like today?",
		},
	},
}

func main() {
	color.Cyan("Travel Planner Dialog Simulation\n")

	userID := fmt.Sprintf("sim-%d", time.Now().Unix())
	color.White("User: %s", userID)

	for _, sc := range scenarios {
		color.Yellow("\n=== %s ===", sc.name)
		for _, text := range sc.turns {
			color.White("USER: %s", text)

			start := time.Now()
			if err := sendChat(userID, text); err != nil {
				color.Red("Failed: %v", err)
				os.Exit(1)
			}
			color.Magenta("(%v)", time.Since(start).Round(time.Millisecond))
		}
	}

	color.Cyan("\nDone.")
}

func sendChat(userID, text string) error {
	payload, _ := json.Marshal(chatRequest{UserId: userID, Message: text})

	resp, err := http.Post(baseURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API Error %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var ev streamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			continue
		}

		switch ev.Type {
		case "response":
			if ev.Response == nil {
				continue
			}
			switch ev.Response.Type {
			case "search_results":
				color.Green("AGENT [%s]:\n%s", ev.Response.Type, ev.Response.Content)
			case "error":
				color.Red("AGENT [%s]: %s", ev.Response.Type, ev.Response.Content)
			default:
				color.Blue("AGENT [%s]: %s", ev.Response.Type, ev.Response.Content)
			}
		case "complete":
			return scanner.Err()
		}
	}
	return scanner.Err()
}
