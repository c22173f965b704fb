// Package ws, inbound event dispatch.
//
// The dispatcher is the validation boundary: payloads missing required
// fields are logged at warn and dropped, and
// nothing a single client sends can take the process down or touch another
// client's session. Wire field names are the client protocol's camelCase.
package ws

import (
	"context"
	"encoding/json"

	"github.com/duetapp/go-duet-backend/internal/hub"
)

// Inbound payload shapes (connection → server).
type (
	joinPayload struct {
		Identity string `json:"identity"`
		From     string `json:"from"`
	}
	messagePayload struct {
		To      string `json:"to"`
		From    string `json:"from"`
		Message string `json:"message"`
	}
	journalPayload struct {
		From string `json:"from"`
		Text string `json:"text"`
		Mood string `json:"mood"`
	}
	momentPayload struct {
		From        string `json:"from"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Date        string `json:"date"`
	}
	moodPayload struct {
		From   string `json:"from"`
		Mood   string `json:"mood"`
		Energy int    `json:"energy"`
	}
	quizPayload struct {
		From       string `json:"from"`
		QuestionID string `json:"questionId"`
		AnswerID   string `json:"answerId"`
	}
	typingPayload struct {
		To   string `json:"to"`
		From string `json:"from"`
	}
	callInitiatePayload struct {
		To      string          `json:"to"`
		From    string          `json:"from"`
		Signal  json.RawMessage `json:"signal"`
		IsVideo bool            `json:"isVideo"`
	}
	callPayload struct {
		To     string          `json:"to"`
		Signal json.RawMessage `json:"signal"`
	}
)

// dispatch routes one inbound envelope to the matching hub operation. Every
// event except user:join requires the connection to be bound first.
func (c *Client) dispatch(env envelope) {
	ctx := context.Background()

	if env.Event != "user:join" {
		if _, bound := c.hub.Registry().ReverseResolve(c); !bound {
			c.log.Warn().Str("event", env.Event).Msg("event before join dropped")
			return
		}
	}

	var err error
	switch env.Event {
	case "user:join":
		err = c.handleJoin(ctx, env.Data)

	case "message:send":
		var p messagePayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			_, err = c.hub.SendMessage(ctx, p.From, p.To, p.Message)
		}

	case "journal:add":
		var p journalPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			_, err = c.hub.AddJournal(ctx, p.From, p.Text, p.Mood)
		}

	case "moments:add":
		var p momentPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			_, err = c.hub.AddMoment(ctx, p.From, p.Title, p.Description, p.Date)
		}

	case "mood:update":
		var p moodPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			_, err = c.hub.UpdateMood(ctx, p.From, p.Mood, p.Energy)
		}

	case "quiz:submit":
		var p quizPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			_, err = c.hub.SubmitQuiz(ctx, p.From, p.QuestionID, p.AnswerID)
		}

	case "typing:start", "typing:stop":
		var p typingPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.hub.Typing(ctx, p.From, p.To, env.Event == "typing:start")
		}

	case "call:initiate":
		var p callInitiatePayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.hub.InitiateCall(ctx, p.From, p.To, p.Signal, p.IsVideo)
		}

	case "call:accept":
		var p callPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.hub.AcceptCall(ctx, c, p.To, p.Signal)
		}

	case "call:reject":
		var p callPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.hub.RejectCall(ctx, p.To)
		}

	case "call:end":
		var p callPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.hub.EndCall(ctx, p.To)
		}

	case "call:signal":
		var p callPayload
		if err = json.Unmarshal(env.Data, &p); err == nil {
			err = c.hub.SignalCall(ctx, c, p.To, p.Signal)
		}

	default:
		c.log.Warn().Str("event", env.Event).Msg("unknown event dropped")
		return
	}

	if err != nil {
		c.log.Warn().Err(err).Str("event", env.Event).Msg("invalid payload dropped")
	}
}

// handleJoin binds this connection to an identity. Clients send the identity
// either as a bare JSON string or wrapped in an object ({"identity": ...} or
// {"from": ...}); all three are accepted.
func (c *Client) handleJoin(ctx context.Context, data json.RawMessage) error {
	var identity string
	if err := json.Unmarshal(data, &identity); err != nil {
		var p joinPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		identity = p.Identity
		if identity == "" {
			identity = p.From
		}
	}
	if identity == "" {
		return hub.ErrMissingIdentity
	}
	return c.hub.Join(ctx, identity, c)
}
