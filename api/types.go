package api

import "time"

//SenderType identifies who authored a Message
type SenderType string

//SenderTypes
const (
	SenderTypeSystem       SenderType = "system"
	SenderTypeLawyer       SenderType = "lawyer"
	SenderTypePlatformUser SenderType = "platform_user"
)

//ClientData is best-effort client information scraped from the host page.
//Every field is heuristic: possibly wrong, possibly absent. Consumers must
//never treat these values as validated.
type ClientData struct {
	Name   string `json:"name,omitempty"`
	Cedula string `json:"cedula,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Email  string `json:"email,omitempty"`
}

//Empty returns whether no field was extracted
func (d *ClientData) Empty() bool {
	return d == nil || (d.Name == "" && d.Cedula == "" && d.Phone == "" && d.Email == "")
}

//Conversation is a server-tracked thread between a site visitor and
//support staff. The id is opaque; the server owns all other state.
type Conversation struct {
	ID        string    `json:"id"`
	Status    string    `json:"status,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

//Message is a single message in a Conversation. The server is
//authoritative for ordering; clients replace their full local view on
//each refresh instead of merging.
type Message struct {
	ID         string     `json:"id"`
	SenderType SenderType `json:"sender_type"`
	SenderName string     `json:"sender_name"`
	Content    string     `json:"content"`
	SentAt     time.Time  `json:"sent_at"`
}
