package modules

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// LLMConfigured reports whether any chat-model backend is available.
func LLMConfigured() bool {
	return os.Getenv("GOOGLE_API_KEY") != "" || os.Getenv("OPENAI_API_KEY") != ""
}

// ForwardToLLM sends a prompt to Google Gemini (preferred) or OpenAI
// (fallback) and returns the model's text reply.
func ForwardToLLM(prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}

	if key := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); key != "" {
		return forwardToGemini(key, prompt)
	}
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		return forwardToOpenAI(key, prompt)
	}
	return "", fmt.Errorf("no AI API key configured (set GOOGLE_API_KEY or OPENAI_API_KEY)")
}

func forwardToGemini(apiKey, prompt string) (string, error) {
	model := strings.TrimSpace(os.Getenv("GOOGLE_MODEL"))
	if model == "" {
		model = "gemini-2.5-flash"
	}
	// accept both "gemini-x" and "models/gemini-x" from the env
	model = strings.TrimPrefix(model, "models/")

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", model)

	payload, _ := json.Marshal(map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": 256,
			"temperature":     0.2,
		},
	})

	body, err := postJSON("gemini", url, payload, map[string]string{"x-goog-api-key": apiKey})
	if err != nil {
		return "", err
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return strings.TrimSpace(text), nil
}

func forwardToOpenAI(apiKey, prompt string) (string, error) {
	payload, _ := json.Marshal(map[string]interface{}{
		"model": "gpt-4o-mini",
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens":  256,
		"temperature": 0.2,
	})

	body, err := postJSON("openai", "https://api.openai.com/v1/chat/completions", payload,
		map[string]string{"Authorization": "Bearer " + apiKey})
	if err != nil {
		return "", err
	}

	text := gjson.GetBytes(body, "choices.0.message.content").String()
	if text == "" {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(text), nil
}

// RunAI forwards a free-form instruction to the model backend.
func RunAI(args []string) (string, error) {
	if len(args) == 0 {
		return "Usage: ai [instruction]", nil
	}
	if !LLMConfigured() {
		return "AI backend not configured. Set GOOGLE_API_KEY or OPENAI_API_KEY in .env", nil
	}
	return ForwardToLLM(strings.Join(args, " "))
}

var evmAddressPattern = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)

// ExtractContractAddress pulls an EVM contract address out of free-form chat
// text. The regex handles the common case; the model backend is only asked
// when the text plausibly references a token without spelling the address.
func ExtractContractAddress(text string) (string, bool) {
	if m := evmAddressPattern.FindString(text); m != "" {
		return strings.ToLower(m), true
	}
	if !LLMConfigured() {
		return "", false
	}

	prompt := "Extract the EVM contract address (0x...) the user is asking about from this message. " +
		"Reply with only the address, or NONE if there is none.\n\nMessage: " + text
	reply, err := ForwardToLLM(prompt)
	if err != nil {
		return "", false
	}
	if m := evmAddressPattern.FindString(reply); m != "" {
		return strings.ToLower(m), true
	}
	return "", false
}
