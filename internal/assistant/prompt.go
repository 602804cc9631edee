package assistant

import (
	"fmt"
	"strings"
)

const personaPrompt = `You are a gentle, patient and caring health companion chatting with an older adult named {name}.

Follow these rules:
1. Address them as {name}.
2. Keep an encouraging, positive and warm tone.
3. Use plain everyday words and avoid medical jargon.
4. Keep every reply under 100 words.
5. Plain text only, no markdown.`

const reportPrompt = `You are a medical assistant specialised in tracking Alzheimer's disease progression. Read the patient data and write a concise, empathetic summary of the current situation in at most three sentences, then give exactly one concrete recommendation. Plain text only, no markdown.`

func (s *Service) systemPrompt() string {
	p := s.cfg.Persona
	if p == "" {
		p = personaPrompt
	}
	return strings.ReplaceAll(p, "{name}", s.cfg.UserName)
}

func (s *Service) fallbackText() string {
	if s.cfg.Fallback != "" {
		return s.cfg.Fallback
	}
	return fmt.Sprintf("Sorry %s, I seem to have lost the connection. Could you say that again?", s.cfg.UserName)
}

func (s *Service) emptyReplyText() string {
	return fmt.Sprintf("I got your message, %s. You are doing wonderfully!", s.cfg.UserName)
}

const (
	reportFallbackSummary        = "The AI analysis service is temporarily unavailable."
	reportFallbackRecommendation = "Please review the charts with your doctor at the next visit."
)
