package example

// Credentials mixes annotated and plain members.
type Credentials struct {
	User     string
	Password string    `expunge:"as='<redacted>'"`
	History  []Attempt `expunge:""`
}

// Attempt is recursed into through the History slice.
type Attempt struct {
	IP string `expunge:"with=maskIP"`
}

func maskIP(string) string { return "0.0.0.0" }

//expunge:all,allow_debug
type Session struct {
	Token string
	TTL   int
}

// Event is a sealed sum over auth events.
//
//expunge:allow_debug
type Event interface {
	isEvent()
}

type Login struct {
	Token string `expunge:""`
}

func (Login) isEvent() {}

type Ping struct {
	Seq int
}

func (Ping) isEvent() {}
