package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"hushhly/model"
	"hushhly/store"
	"hushhly/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxHistory is how many messages a user's history keeps
const MaxHistory = 100

// maxMessageLength caps a stored message in bytes
const maxMessageLength = 2000

// rule is a keyword-matched canned reply; Suggest names catalog bestFor
// values whose meditations are offered with the reply
type rule struct {
	Keywords []string
	Reply    string
	Suggest  string
}

// rules are checked in order; the first match wins
var rules = []rule{
	{
		Keywords: []string{"can't sleep", "cannot sleep", "insomnia", "sleep", "awake"},
		Reply:    "Trouble sleeping is common. A slow body scan or a guided sleep session can help your mind let go of the day.",
		Suggest:  "night",
	},
	{
		Keywords: []string{"anxious", "anxiety", "panic", "worried", "nervous"},
		Reply:    "Let's slow things down. Try breathing in for four counts, holding for four and breathing out for six.",
		Suggest:  "anxious",
	},
	{
		Keywords: []string{"stress", "stressed", "overwhelmed", "pressure"},
		Reply:    "It sounds like a lot is on your plate. A few minutes of muscle relaxation can release some of that tension.",
		Suggest:  "stressed",
	},
	{
		Keywords: []string{"tired", "exhausted", "sleepy", "drained"},
		Reply:    "When energy is low, gentle movement or rest both help. Listen to what your body needs right now.",
		Suggest:  "tired",
	},
	{
		Keywords: []string{"focus", "concentrate", "distracted", "productive"},
		Reply:    "A short attention practice before you start can make deep work easier.",
		Suggest:  "distracted",
	},
	{
		Keywords: []string{"sad", "down", "lonely", "upset"},
		Reply:    "I'm sorry you're feeling this way. Being kind to yourself is a good place to start.",
		Suggest:  "sad",
	},
	{
		Keywords: []string{"hello", "hi", "hey"},
		Reply:    "Hi there. How are you feeling today?",
	},
	{
		Keywords: []string{"thank", "thanks"},
		Reply:    "You're welcome. I'm here whenever you need a moment of calm.",
	},
}

const fallbackReply = "I'm here to help you relax, sleep better and stay focused. Tell me how you're feeling."

// Service answers chat messages and keeps a capped history per user
type Service struct {
	docs    *store.DocumentStore
	catalog []model.Meditation
	now     func() time.Time
}

func NewService(docs *store.DocumentStore, catalog []model.Meditation, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{docs: docs, catalog: catalog, now: now}
}

func emptyHistory() []model.ChatMessage {
	return []model.ChatMessage{}
}

// Send stores the user's message and the assistant's reply and returns the reply
func (s *Service) Send(ctx context.Context, userID, text string) (model.ChatMessage, error) {
	if userID == "" {
		return model.ChatMessage{}, utils.ErrEmptyUserID
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChatMessage{}, fmt.Errorf("message: %w", utils.ErrEmptyField)
	}
	text = truncate(text, maxMessageLength)

	now := s.now()
	question := model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      model.ChatRoleUser,
		Text:      text,
		Timestamp: now,
	}
	reply, suggestions := s.Respond(text)
	answer := model.ChatMessage{
		ID:          uuid.NewString(),
		Role:        model.ChatRoleAssistant,
		Text:        reply,
		Suggestions: suggestions,
		Timestamp:   now,
	}

	_, err := store.Mutate(ctx, s.docs, store.NamespaceChatHistory, userID, emptyHistory, func(h *[]model.ChatMessage) error {
		*h = append(*h, question, answer)
		if len(*h) > MaxHistory {
			*h = (*h)[len(*h)-MaxHistory:]
		}
		return nil
	})
	if err != nil {
		return model.ChatMessage{}, err
	}

	log.Debug().Str("user_id", userID).Int("suggestions", len(suggestions)).Msg("Chat reply sent")
	return answer, nil
}

// Respond picks the canned reply for text and the titles of matching meditations
func (s *Service) Respond(text string) (string, []string) {
	lower := strings.ToLower(text)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r == '\'')
	})

	for _, r := range rules {
		if !matches(lower, words, r.Keywords) {
			continue
		}
		return r.Reply, s.suggestions(r.Suggest)
	}
	return fallbackReply, nil
}

// History returns the stored conversation, oldest first
func (s *Service) History(ctx context.Context, userID string) ([]model.ChatMessage, error) {
	if userID == "" {
		return nil, utils.ErrEmptyUserID
	}
	return store.Load(ctx, s.docs, store.NamespaceChatHistory, userID, emptyHistory)
}

func (s *Service) suggestions(bestFor string) []string {
	if bestFor == "" {
		return nil
	}
	var titles []string
	for _, m := range s.catalog {
		for _, b := range m.BestFor {
			if b == bestFor {
				titles = append(titles, m.Title)
				break
			}
		}
		if len(titles) == 3 {
			break
		}
	}
	return titles
}

// matches treats multi-word keywords as phrases and single words as whole words
func matches(lower string, words []string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(k, " ") {
			if strings.Contains(lower, k) {
				return true
			}
			continue
		}
		for _, w := range words {
			if w == k {
				return true
			}
		}
	}
	return false
}

// truncate cuts s to at most n bytes without splitting a character
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
