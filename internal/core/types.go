package core

const (
	AppName          = "chatMTL"
	AppUserAgent     = "chatMTL-Bot/0.1"
	AppRepositoryURL = "https://github.com/sandevgo/chatmtl"
	AppVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Senders shown by the display sinks.
const (
	SenderUser = "User"
	SenderBot  = "Bot"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Category is one fixed topical partition of the corpus.
// ID addresses its index on disk; Name is what users type.
type Category struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Categories is the ordered category set. Order is the match tie-break.
type Categories []Category

func (c Categories) Find(id string) (Category, bool) {
	for _, cat := range c {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

func (c Categories) IDs() []string {
	ids := make([]string, len(c))
	for i, cat := range c {
		ids[i] = cat.ID
	}
	return ids
}

func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

// Document is the raw text fetched for one category.
type Document struct {
	Category Category
	URL      string
	Text     string
}

// Fragment is a bounded slice of a document, the unit of retrieval.
type Fragment struct {
	ID       string
	Category string
	Position int
	Source   string
	Text     string
}

// ScoredFragment is a retrieval result.
type ScoredFragment struct {
	Fragment
	Score float32
}
