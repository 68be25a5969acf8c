package prompt

import (
	"github.com/mhkgpt/mhk-gpt/internal/domain/chat/models"
	"github.com/rs/zerolog/log"
)

// DefaultMaxMessages is the number of non-system history messages kept by default.
const DefaultMaxMessages = 10

// BuildMessages assembles the completion input as [system, ...history, user].
// History is copied verbatim, without role validation.
func BuildMessages(systemPrompt, userPrompt string, history []models.Message) []models.Message {
	messages := make([]models.Message, 0, len(history)+2)
	messages = append(messages, models.SystemMessage(systemPrompt))
	messages = append(messages, history...)
	messages = append(messages, models.UserMessage(userPrompt))
	return messages
}

// TruncateHistory keeps the most recent maxMessages non-system messages.
//
// A system message, if any, is re-prepended; when several are present the
// last one wins. Messages without a role are skipped and logged.
// A non-positive maxMessages keeps no non-system messages.
func TruncateHistory(history []models.Message, maxMessages int) []models.Message {
	if len(history) == 0 {
		return []models.Message{}
	}

	var system *models.Message
	others := make([]models.Message, 0, len(history))

	for i, msg := range history {
		switch msg.Role {
		case models.RoleSystem:
			if system != nil {
				log.Debug().Int("index", i).Msg("Replacing earlier system message in history")
			}
			m := msg
			system = &m
		case "":
			log.Debug().Int("index", i).Msg("Skipping history message without role")
		default:
			others = append(others, msg)
		}
	}

	if maxMessages < 0 {
		maxMessages = 0
	}
	if len(others) > maxMessages {
		others = others[len(others)-maxMessages:]
	}

	result := make([]models.Message, 0, len(others)+1)
	if system != nil {
		result = append(result, *system)
	}
	return append(result, others...)
}
