// Package debate runs two-persona AI debates: session issuing, the turn
// state machine, the session registry and background execution.
package debate

import (
	"fmt"
	"strings"

	"github.com/Rrens/ai-debate/internal/config"
	"github.com/Rrens/ai-debate/internal/domain"
)

// Persona keys in speaking order
const (
	PersonaPro = "pro"
	PersonaCon = "con"
)

var speakingOrder = [2]string{PersonaPro, PersonaCon}

// builtinPersonas maps a persona key to its default configuration.
// InstructionTemplate takes the topic as its only %s verb.
var builtinPersonas = map[string]domain.Persona{
	PersonaPro: {
		Key:         PersonaPro,
		DisplayName: "AI 1",
		Provider:    "openrouter",
		Model:       "meta-llama/llama-3.1-8b-instruct",
		Stance:      "for",
		InstructionTemplate: "You are AI 1, a debater who argues FOR the given topic. " +
			"Make your case in a playful tone with unexpected analogies, without being too serious. " +
			"Use the previous discussion to rebut your opponent or strengthen your argument, " +
			"and keep your reply short. Topic: %s",
	},
	PersonaCon: {
		Key:         PersonaCon,
		DisplayName: "AI 2",
		Provider:    "openrouter",
		Model:       "qwen/qwen-2.5-7b-instruct",
		Stance:      "against",
		InstructionTemplate: "You are AI 2, a debater who argues AGAINST the given topic. " +
			"Take a realistic, dry and slightly cynical view and cut to the core of the issue. " +
			"Use the previous discussion to surface uncomfortable truths, rebut your opponent " +
			"or strengthen your argument, and keep your reply short. Topic: %s",
	},
}

// DefaultPersonas returns the built-in pair in speaking order
func DefaultPersonas() [2]domain.Persona {
	return [2]domain.Persona{builtinPersonas[PersonaPro], builtinPersonas[PersonaCon]}
}

// LoadPersonas applies configured overrides on top of the built-in personas
func LoadPersonas(cfg config.DebateConfig) ([2]domain.Persona, error) {
	overrides := map[string]config.PersonaConfig{
		PersonaPro: cfg.Pro,
		PersonaCon: cfg.Con,
	}

	var out [2]domain.Persona
	for i, key := range speakingOrder {
		p := builtinPersonas[key]
		o := overrides[key]
		if o.DisplayName != "" {
			p.DisplayName = o.DisplayName
		}
		if o.Provider != "" {
			p.Provider = o.Provider
		}
		if o.Model != "" {
			p.Model = o.Model
		}
		if o.Template != "" {
			p.InstructionTemplate = o.Template
		}
		if err := validatePersona(p); err != nil {
			return out, err
		}
		out[i] = p
	}

	if out[0].DisplayName == out[1].DisplayName {
		return out, fmt.Errorf("personas must have distinct display names, both are %q", out[0].DisplayName)
	}
	return out, nil
}

func validatePersona(p domain.Persona) error {
	switch {
	case p.Model == "":
		return fmt.Errorf("persona %s: model is required", p.Key)
	case p.DisplayName == domain.SpeakerSystem || p.DisplayName == domain.SpeakerError:
		return fmt.Errorf("persona %s: display name %q is reserved", p.Key, p.DisplayName)
	case p.DisplayName == "":
		return fmt.Errorf("persona %s: display name is required", p.Key)
	case !rendersTopicOnce(p.InstructionTemplate):
		return fmt.Errorf("persona %s: template must contain exactly one %%s for the topic and no other verbs", p.Key)
	}
	return nil
}

// rendersTopicOnce reports whether tpl takes the topic as its only argument
// and renders without fmt error markers
func rendersTopicOnce(tpl string) bool {
	const sample = "\x00topic\x00"
	out := fmt.Sprintf(tpl, sample)
	return !strings.Contains(out, "%!") && strings.Count(out, sample) == 1
}
