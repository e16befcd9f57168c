package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"
)

type scanRequest struct {
	PageText string `json:"page_text"`
}

type sendRequest struct {
	Content string `json:"content"`
}

type closeCaseRequest struct {
	Notes string `json:"notes,omitempty"`
}

type bridgeMessage struct {
	Type    string   `json:"type"`
	Width   *float64 `json:"width,omitempty"`
	Height  *float64 `json:"height,omitempty"`
	Message string   `json:"message,omitempty"`
}

func main() {
	server := flag.String("server", "http://localhost:8080", "Widget host URL (http/https)")
	flag.Parse()

	// Connect to the bridge endpoint as the embed peer so host->embed
	// commands are visible
	wsURL := strings.Replace(*server, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL += "/widget/bridge"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		fmt.Printf("Bridge connection failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	go func() {
		for {
			var msg bridgeMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					fmt.Printf("\nBridge closed: %v\n", err)
				}
				return
			}
			fmt.Printf("\n[bridge] %s\n> ", msg.Type)
		}
	}()

	fmt.Println("Commands: scan <text> | open | close | toggle | accept | dismiss | send <text> | closecase [notes] | state | config | destroy | quit")
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd, arg, _ := strings.Cut(input, " ")
		switch strings.ToLower(cmd) {
		case "quit", "exit":
			fmt.Println("Goodbye!")
			return
		case "scan":
			post(*server, "/widget/scan", &scanRequest{PageText: arg})
		case "open":
			post(*server, "/widget/open", nil)
		case "close":
			post(*server, "/widget/close", nil)
		case "toggle":
			post(*server, "/widget/toggle", nil)
		case "accept":
			post(*server, "/widget/alert/accept", nil)
		case "dismiss":
			post(*server, "/widget/alert/dismiss", nil)
		case "send":
			post(*server, "/widget/send", &sendRequest{Content: arg})
		case "closecase":
			post(*server, "/widget/close-case", &closeCaseRequest{Notes: arg})
		case "destroy":
			post(*server, "/widget/destroy", nil)
		case "state":
			get(*server, "/widget/state")
		case "config":
			get(*server, "/widget/config")
		default:
			fmt.Printf("Unknown command: %s\n", cmd)
		}
	}
}

func post(server, path string, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		fmt.Printf("Failed to marshal request: %v\n", err)
		return
	}

	resp, err := http.Post(server+path, "application/json", bytes.NewReader(data))
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func get(server, path string) {
	resp, err := http.Get(server + path)
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Printf("%d: %s\n", resp.StatusCode, strings.TrimSpace(string(body)))
		return
	}
	fmt.Printf("%d: %s\n", resp.StatusCode, pretty.String())
}
