// Package maruagent ties the orchestration engine to maru's persona: the
// system prompt built per mode, the keyword-based mode detector, and the
// built-in memory and datetime tools.
package maruagent

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Per-mode instruction blocks appended to the persona.
const (
	assistantModeSection = `## 현재 모드: 💼 비서 모드
- 짧고 정확하게 답변해
- 일정, 메일, 검색 등 업무 보조
- 알아서 판단하고, 애매하면 물어봐`

	creativeModeSection = `## 현재 모드: ✍️ 창작 모드
- 소설/에세이 창작을 돕고 있어
- 대신 써주지 말고 함께 쓰기
- 질문으로 이끌고, 선택지를 제안해
- 캐릭터/세계관 일관성 체크`

	publishModeSection = `## 현재 모드: 📚 출판 모드
- 원고를 내보내기/변환하는 중이야
- PDF, EPUB, DOCX, HTML 포맷 변환
- 출판 규격과 품질에 집중해`
)

// PromptBuilder assembles the system prompt from the persona and user profile
// files plus the current mode's instruction block.
type PromptBuilder struct {
	persona string
	profile string
}

// NewPromptBuilder loads persona.md and user.md from configDir. Missing files
// are tolerated; the corresponding section is simply omitted.
func NewPromptBuilder(fs afero.Fs, configDir string) *PromptBuilder {
	b := &PromptBuilder{}
	if data, err := afero.ReadFile(fs, filepath.Join(configDir, "persona.md")); err == nil {
		b.persona = strings.TrimSpace(string(data))
	}
	if data, err := afero.ReadFile(fs, filepath.Join(configDir, "user.md")); err == nil {
		b.profile = strings.TrimSpace(string(data))
	}
	return b
}

// Build assembles the final system prompt for the given mode.
func (b *PromptBuilder) Build(mode Mode) string {
	var parts []string

	if b.persona != "" {
		parts = append(parts, b.persona)
	}
	if b.profile != "" {
		parts = append(parts, "## 사용자 정보\n"+b.profile)
	}

	switch mode {
	case ModeCreative:
		parts = append(parts, creativeModeSection)
	case ModePublish:
		parts = append(parts, publishModeSection)
	default:
		parts = append(parts, assistantModeSection)
	}

	return strings.Join(parts, "\n\n")
}
