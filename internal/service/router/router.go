package router

import (
	"sync"

	"github.com/sandevgo/chatmtl/internal/core"
)

type State int

const (
	AwaitingTopic State = iota
	TopicSelected
	InConversation
)

func (s State) String() string {
	switch s {
	case AwaitingTopic:
		return "awaiting_topic"
	case TopicSelected:
		return "topic_selected"
	case InConversation:
		return "in_conversation"
	default:
		return "unknown"
	}
}

type Action int

const (
	// ActionReply means Reply is shown as is.
	ActionReply Action = iota
	// ActionAnswer means the input is a query for Category.
	ActionAnswer
)

type Decision struct {
	Action   Action
	Reply    string
	Category core.Category
	Query    string
	// Changed is set when a selection differs from the previous category.
	Changed bool
}

// Router maps free-text input to a category selection and then forwards queries.
type Router struct {
	categories core.Categories
	names      []string
	sustained  bool

	mu       sync.Mutex
	state    State
	current  core.Category
	selected bool
}

// New creates a router over categories. In sustained mode a selected category
// stays active after an answer; otherwise the router asks for a topic again.
func New(categories core.Categories, sustained bool) *Router {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = Normalize(c.Name)
	}
	return &Router{
		categories: categories,
		names:      names,
		sustained:  sustained,
		state:      AwaitingTopic,
	}
}

func (r *Router) Route(input string) Decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case TopicSelected, InConversation:
		return Decision{
			Action:   ActionAnswer,
			Category: r.current,
			Query:    input,
		}
	default:
		c, ok := r.match(input)
		if !ok {
			return Decision{Action: ActionReply, Reply: ChooseCategory(r.categories)}
		}
		return r.selectLocked(c)
	}
}

// Select switches to the category named by name, whatever the current state.
func (r *Router) Select(name string) (Decision, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.match(name)
	if !ok {
		return Decision{Action: ActionReply, Reply: ChooseCategory(r.categories)}, false
	}
	return r.selectLocked(c), true
}

func (r *Router) selectLocked(c core.Category) Decision {
	changed := !r.selected || r.current.ID != c.ID
	r.current = c
	r.selected = true
	r.state = TopicSelected
	return Decision{
		Action:   ActionReply,
		Reply:    Acknowledge(c),
		Category: c,
		Changed:  changed,
	}
}

// Answered records that the forwarded query got an answer.
func (r *Router) Answered() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == AwaitingTopic {
		return
	}
	if r.sustained {
		r.state = InConversation
		return
	}
	r.state = AwaitingTopic
}

// Reset returns to topic selection. The last category is remembered so a
// reselection of the same one does not count as a change.
func (r *Router) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = AwaitingTopic
}

func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Category returns the active category, if any.
func (r *Router) Category() (core.Category, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == AwaitingTopic {
		return core.Category{}, false
	}
	return r.current, true
}

func (r *Router) Categories() core.Categories {
	return r.categories
}

func (r *Router) Prompt() string {
	return ChooseCategory(r.categories)
}

// Match returns the first category, in configuration order, whose name occurs in input.
func (r *Router) Match(input string) (core.Category, bool) {
	return r.match(input)
}

func (r *Router) match(input string) (core.Category, bool) {
	text := Normalize(input)
	for i, name := range r.names {
		if containsPhrase(text, name) {
			return r.categories[i], true
		}
	}
	return core.Category{}, false
}
