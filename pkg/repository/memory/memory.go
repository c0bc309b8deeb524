package memory

import (
	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	voiceprint *voiceprintRepository
	challenge  *challengeRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		voiceprint: newVoiceprintRepository(),
		challenge:  newChallengeRepository(),
	}
}

func (m *Memory) Voiceprint() interfaces.VoiceprintRepository {
	return m.voiceprint
}

func (m *Memory) Challenge() interfaces.ChallengeRepository {
	return m.challenge
}

func (m *Memory) Close() error {
	return nil
}
