package router

import (
	"testing"

	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categories = core.Categories{
	{ID: "news", Name: "news"},
	{ID: "eat-drink", Name: "eat/drink"},
	{ID: "things-to-do", Name: "things to do"},
	{ID: "travel", Name: "travel"},
	{ID: "sports", Name: "sports"},
	{ID: "lifestyle", Name: "lifestyle"},
	{ID: "money", Name: "money"},
	{ID: "deals", Name: "deals"},
	{ID: "real-estate", Name: "real estate"},
	{ID: "conversations", Name: "conversations"},
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What's new in Real-Estate?", "what s new in real estate"},
		{"  things---to   do ", "things to do"},
		{"eat/drink", "eat drink"},
		{"Montréal 2024", "montréal 2024"},
		{"", ""},
		{"?!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestRouter_Match(t *testing.T) {
	r := New(categories, false)

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"What's new in real estate", "real-estate", true},
		{"what's new in REAL-ESTATE", "real-estate", true},
		{"tell me about travel", "travel", true},
		{"Things-to-do this weekend", "things-to-do", true},
		{"eat drink", "eat-drink", true},
		{"travel news", "news", true},
		{"newsletter", "", false},
		{"hello there", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := r.Match(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestRouter_NoMatchListsCategories(t *testing.T) {
	r := New(categories, false)

	d := r.Route("hello")
	assert.Equal(t, ActionReply, d.Action)
	assert.Equal(t, AwaitingTopic, r.State())
	for _, c := range categories {
		assert.Contains(t, d.Reply, c.Name)
	}
	assert.Equal(t, "Please choose a category first: news, eat/drink, things to do, travel, sports, "+
		"lifestyle, money, deals, real estate, or conversations.", d.Reply)
}

func TestRouter_SingleTurn(t *testing.T) {
	r := New(categories, false)

	d := r.Route("What's new in real estate")
	require.Equal(t, ActionReply, d.Action)
	assert.Equal(t, "real-estate", d.Category.ID)
	assert.True(t, d.Changed)
	assert.Contains(t, d.Reply, "real estate")
	assert.Equal(t, TopicSelected, r.State())

	d = r.Route("any condos?")
	assert.Equal(t, ActionAnswer, d.Action)
	assert.Equal(t, "real-estate", d.Category.ID)
	assert.Equal(t, "any condos?", d.Query)

	r.Answered()
	assert.Equal(t, AwaitingTopic, r.State())
	_, ok := r.Category()
	assert.False(t, ok)

	d = r.Route("real estate again")
	assert.False(t, d.Changed, "same category is not a change")

	r.Answered()
	d = r.Route("travel")
	assert.True(t, d.Changed)
}

func TestRouter_Sustained(t *testing.T) {
	r := New(categories, true)

	r.Route("travel")
	for i := 0; i < 3; i++ {
		d := r.Route("where should I go in winter")
		assert.Equal(t, ActionAnswer, d.Action)
		assert.Equal(t, "travel", d.Category.ID)
		r.Answered()
		assert.Equal(t, InConversation, r.State())
	}

	// a category name inside a query does not switch topics
	d := r.Route("any sports bars near the airport?")
	assert.Equal(t, ActionAnswer, d.Action)
	assert.Equal(t, "travel", d.Category.ID)

	d, ok := r.Select("sports")
	require.True(t, ok)
	assert.True(t, d.Changed)
	assert.Equal(t, TopicSelected, r.State())
	cat, ok := r.Category()
	require.True(t, ok)
	assert.Equal(t, "sports", cat.ID)
}

func TestRouter_SelectUnknown(t *testing.T) {
	r := New(categories, true)
	r.Route("money")

	d, ok := r.Select("astrology")
	assert.False(t, ok)
	assert.Contains(t, d.Reply, "Please choose a category first")
	assert.Equal(t, TopicSelected, r.State(), "failed selection keeps the current topic")
}

func TestRouter_Reset(t *testing.T) {
	r := New(categories, true)
	r.Route("deals")
	r.Reset()

	assert.Equal(t, AwaitingTopic, r.State())
	d := r.Route("deals")
	assert.False(t, d.Changed)
	assert.Equal(t, TopicSelected, r.State())
}

func TestEnumerateNames(t *testing.T) {
	assert.Equal(t, "", EnumerateNames(nil))
	assert.Equal(t, "a", EnumerateNames(core.Categories{{Name: "a"}}))
	assert.Equal(t, "a or b", EnumerateNames(core.Categories{{Name: "a"}, {Name: "b"}}))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "awaiting_topic", AwaitingTopic.String())
	assert.Equal(t, "in_conversation", InConversation.String())
	assert.Equal(t, "unknown", State(42).String())
}
