package debate

import (
	"fmt"
	"strings"

	"github.com/Rrens/ai-debate/internal/domain"
)

const transcriptHeader = "\n\nDebate so far:\n"

// BuildTurnPrompt renders the prompt for one turn. The first turn sees only
// the topic; later turns get the whole transcript replayed as
// "Speaker: message" lines in speaking order.
func BuildTurnPrompt(p domain.Persona, topic string, transcript []domain.Entry) string {
	instruction := fmt.Sprintf(p.InstructionTemplate, topic)
	if len(transcript) == 0 {
		return instruction
	}

	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString(transcriptHeader)
	b.WriteString(RenderTranscript(transcript))
	return b.String()
}

// RenderTranscript formats transcript entries one per line
func RenderTranscript(transcript []domain.Entry) string {
	var b strings.Builder
	for _, e := range transcript {
		b.WriteString(e.Speaker)
		b.WriteString(": ")
		b.WriteString(e.Message)
		b.WriteByte('\n')
	}
	return b.String()
}
