package maruagent

import (
	"regexp"
	"strings"
	"sync"
)

// Mode selects which system-prompt variant is built for a user.
type Mode string

const (
	// ModeNone is the "no change" sentinel returned by DetectMode.
	ModeNone Mode = ""

	ModeAssistant Mode = "assistant"
	ModeCreative  Mode = "creative"
	ModePublish   Mode = "publish"
)

// Keyword groups for mode detection. The publish group is checked before the
// creative group: the two intentionally overlap and publish wins.
var creativeKeywords = []string{
	"소설", "에세이", "글쓰기", "집필", "창작",
	"캐릭터", "세계관", "시놉시스", "아웃라인",
	"챕터", "장을 써", "이어서 써", "퇴고",
	"브레인스토밍", "주제 잡아", "글 써",
	"플롯", "줄거리", "원고",
}

var publishKeywords = []string{
	"epub", "pdf", "docx", "내보내", "변환",
	"출판", "킨들", "표지", "판권",
	"인쇄", "ebook", "전자책", "슬라이드",
	"ppt", "프리셋",
}

// Explicit mode-switch phrases.
var (
	assistantSwitchRe = regexp.MustCompile(`비서\s*모드`)
	creativeSwitchRe  = regexp.MustCompile(`창작\s*모드`)
	publishSwitchRe   = regexp.MustCompile(`출판\s*모드`)
)

// DetectMode maps an incoming message to a mode via ordered keyword-group
// membership checks plus explicit switch phrases. It returns ModeNone when
// nothing matches.
func DetectMode(message string) Mode {
	msg := strings.ToLower(message)

	for _, kw := range publishKeywords {
		if strings.Contains(msg, kw) {
			return ModePublish
		}
	}

	for _, kw := range creativeKeywords {
		if strings.Contains(msg, kw) {
			return ModeCreative
		}
	}

	switch {
	case assistantSwitchRe.MatchString(msg):
		return ModeAssistant
	case creativeSwitchRe.MatchString(msg):
		return ModeCreative
	case publishSwitchRe.MatchString(msg):
		return ModePublish
	}

	return ModeNone
}

// ModeManager tracks each user's current mode behind a mutex.
type ModeManager struct {
	mu    sync.Mutex
	modes map[string]Mode
}

// NewModeManager creates an empty ModeManager.
func NewModeManager() *ModeManager {
	return &ModeManager{modes: make(map[string]Mode)}
}

// Get returns the user's current mode, defaulting to ModeAssistant.
func (m *ModeManager) Get(userID string) Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mode, ok := m.modes[userID]; ok {
		return mode
	}
	return ModeAssistant
}

// Set records the user's current mode.
func (m *ModeManager) Set(userID string, mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modes[userID] = mode
}
