package maruagent

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptBuilder(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/persona.md", []byte("나는 마루야.\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/user.md", []byte("- 이름: 철수\n"), 0644))

	b := NewPromptBuilder(fs, "/cfg")

	t.Run("assistant mode", func(t *testing.T) {
		prompt := b.Build(ModeAssistant)
		assert.Contains(t, prompt, "나는 마루야.")
		assert.Contains(t, prompt, "## 사용자 정보\n- 이름: 철수")
		assert.Contains(t, prompt, "비서 모드")
		assert.NotContains(t, prompt, "창작 모드")
	})

	t.Run("creative mode", func(t *testing.T) {
		prompt := b.Build(ModeCreative)
		assert.Contains(t, prompt, "창작 모드")
		assert.NotContains(t, prompt, "비서 모드")
	})

	t.Run("publish mode", func(t *testing.T) {
		prompt := b.Build(ModePublish)
		assert.Contains(t, prompt, "출판 모드")
	})

	t.Run("unknown mode falls back to assistant section", func(t *testing.T) {
		prompt := b.Build(ModeNone)
		assert.Contains(t, prompt, "비서 모드")
	})
}

func TestPromptBuilderMissingFiles(t *testing.T) {
	b := NewPromptBuilder(afero.NewMemMapFs(), "/cfg")

	prompt := b.Build(ModeAssistant)
	assert.NotContains(t, prompt, "## 사용자 정보")
	assert.Contains(t, prompt, "비서 모드")
}
