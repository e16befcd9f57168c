package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"

	"github.com/carlospion/AvocadoLegal/bridge"
	"github.com/carlospion/AvocadoLegal/conversation"
	"github.com/carlospion/AvocadoLegal/host"
	"github.com/carlospion/AvocadoLegal/widget"
)

func main() {
	client := conversation.NewClient(config.APIBaseURL, config.APIKey)
	cache := &host.StateCache{}

	session, err := widget.New(widget.Config{
		APIKey:         config.APIKey,
		APIBaseURL:     config.APIBaseURL,
		Position:       widget.Position(config.Position),
		Theme:          config.Theme,
		Locale:         config.Locale,
		PollInterval:   time.Duration(config.PollInterval) * time.Second,
		RetryDelay:     time.Duration(config.RetryDelay) * time.Second,
		DiscardOnClose: config.DiscardOnClose,
	}, client, cache.Renderer())
	if err != nil {
		log.Fatalln("Could not mount widget:", err)
	}

	b, err := bridge.NewHost(config.EmbedURL)
	if err != nil {
		log.Fatalln("Could not initialize bridge:", err)
	}
	b.OnResize = func(width, height int) {
		log.Printf("widget %s: container resized to %dx%d", session.ID(), width, height)
	}

	r := host.NewRouter(os.Stdout, session, b, cache)

	chain := handlers.CompressHandler(http.StripPrefix(config.Prefix, r))

	log.Println("Widget session:", session.ID())
	log.Println("Embed origin:", b.Origin())
	log.Println("Listening on:", config.ListenAddr)
	log.Println(http.ListenAndServe(config.ListenAddr, chain))
}
