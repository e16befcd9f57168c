package main

import (
	"log"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

//Config represents options given in the environment
type Config struct {
	APIKey     string //platform API key; required
	APIBaseURL string //conversation API root; default: https://api.avocadolegal.com/api/v1
	EmbedURL   string //embed page URL; default derived from APIBaseURL

	Position string //"left" or "right"; default: right
	Theme    string
	Locale   string

	PollInterval int //message refresh cadence in seconds; default: 5
	RetryDelay   int //conversation creation retry delay in seconds; default: 3

	DiscardOnClose bool //start a fresh conversation on every open

	ListenAddr string //addr format used for net.Dial; required
	Prefix     string //url prefix to mount the control surface to without trailing slash
}

var config = &Config{}

func checkEmpty(val, name string) {
	if val == "" {
		log.Fatalf("WIDGET_%s must be configured\n", name)
	}
}

func init() {
	err := envconfig.Process("WIDGET", config)
	if err != nil {
		log.Fatalln("Error reading configuration from environment:", err)
	}

	checkEmpty(config.APIKey, "APIKEY")
	checkEmpty(config.ListenAddr, "LISTENADDR")

	if config.APIBaseURL == "" {
		config.APIBaseURL = "https://api.avocadolegal.com/api/v1"
	}

	if config.EmbedURL == "" {
		//the embed page lives next to the API, above the /api/v1 mount
		config.EmbedURL = strings.TrimSuffix(strings.TrimRight(config.APIBaseURL, "/"), "/api/v1") + "/widget/embed/"
	}

	if config.Position == "" {
		config.Position = "right"
	}
	if config.PollInterval == 0 {
		config.PollInterval = 5
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = 3
	}
}
