package analysis

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChatPromptWindowsLastTwelveTurns(t *testing.T) {
	turns := make([]ChatTurn, 0, 15)
	for i := 0; i < 15; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		turns = append(turns, ChatTurn{Role: role, Content: fmt.Sprintf("turn-%d", i)})
	}

	_, prompt := buildChatPrompt(turns, "")

	for i := 0; i < 3; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("turn-%d\n", i))
	}
	for i := 3; i < 15; i++ {
		assert.Contains(t, prompt, fmt.Sprintf("turn-%d", i))
	}

	// Original order preserved.
	idx3 := strings.Index(prompt, "turn-3")
	idx14 := strings.Index(prompt, "turn-14")
	require.Greater(t, idx14, idx3)

	assert.True(t, strings.HasSuffix(prompt, "Assistant:"))
}

func TestBuildChatPromptSerializesRoles(t *testing.T) {
	_, prompt := buildChatPrompt([]ChatTurn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}, "")

	assert.Contains(t, prompt, "User: hello\n")
	assert.Contains(t, prompt, "Assistant: hi there\n")
}

func TestBuildChatPromptIncludesDocument(t *testing.T) {
	_, prompt := buildChatPrompt([]ChatTurn{{Role: "user", Content: "q"}}, "the document body")
	assert.Contains(t, prompt, "the document body")
}

func TestBuildQuestionPromptWithoutDocument(t *testing.T) {
	_, prompt := buildQuestionPrompt("What is a lien?", "hi", "")
	assert.Contains(t, prompt, "general legal knowledge")
	assert.Contains(t, prompt, "Hindi")
	assert.Contains(t, prompt, "What is a lien?")
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", languageName("en"))
	assert.Equal(t, "Tamil", languageName("TA"))
	assert.Equal(t, "Telugu", languageName(" te "))
	assert.Equal(t, "English", languageName("unknown"))
	assert.Equal(t, "English", languageName(""))
}
