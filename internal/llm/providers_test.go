package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

func adviceSchema() *Schema {
	return &Schema{
		Name: "test-advice",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"headline": map[string]any{"type": "string"},
				"focus":    map[string]any{"type": "string", "enum": []string{"add", "sub", "mul", "div"}},
			},
			"required":             []string{"headline"},
			"additionalProperties": false,
		},
	}
}

func anthropicServer(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 42, "output_tokens": 17},
	}
}

func TestAnthropicProvider_StructuredOutput(t *testing.T) {
	var body map[string]any
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"headline":"Nice pace","focus":"mul"}`, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You coach kids.",
		Messages:  []Message{{Role: RoleUser, Content: "advise"}},
		Schema:    adviceSchema(),
		MaxTokens: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StopReason != "end" {
		t.Errorf("stop reason = %q, want end", resp.StopReason)
	}
	if resp.Usage.TotalTokens != 59 {
		t.Errorf("total tokens = %d, want 59", resp.Usage.TotalTokens)
	}

	var got struct{ Headline, Focus string }
	if err := resp.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Focus != "mul" {
		t.Errorf("focus = %q, want mul", got.Focus)
	}

	if _, ok := body["system"]; !ok {
		t.Error("system prompt not sent")
	}
	if _, ok := body["output_config"]; !ok {
		t.Error("output_config not sent for schema request")
	}
}

func TestAnthropicProvider_SchemaViolation(t *testing.T) {
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"focus":"pow"}`, "end_turn"))
	})

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "advise"}},
		Schema:    adviceSchema(),
		MaxTokens: 200,
	})
	if KindOf(err) != KindInvalid {
		t.Fatalf("expected KindInvalid, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_MaxTokens(t *testing.T) {
	p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(anthropicMessage(`{"headline":"Ni`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), UserPrompt("", "advise"))
	if KindOf(err) != KindTruncated {
		t.Fatalf("expected KindTruncated, got %T (%v)", err, err)
	}
}

func TestAnthropicProvider_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			return KindOf(err) == KindRateLimited
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			return KindOf(err) == KindUnavailable
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := anthropicServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"type":  "error",
					"error": map[string]any{"type": "api_error", "message": "nope"},
				})
			})
			_, err := p.Generate(context.Background(), UserPrompt("", "advise"))
			if !tt.check(err) {
				t.Fatalf("unexpected error type %T (%v)", err, err)
			}
		})
	}
}

func openAIServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 10, "total_tokens": 40},
	}
}

func TestOpenAIProvider_StructuredOutput(t *testing.T) {
	var body map[string]any
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"headline":"Keep going"}`, "stop"))
	})

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Generate(context.Background(), Request{
		System:    "sys",
		Messages:  []Message{{Role: RoleUser, Content: "advise"}},
		Schema:    adviceSchema(),
		MaxTokens: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Usage.TotalTokens != 40 {
		t.Errorf("total tokens = %d, want 40", resp.Usage.TotalTokens)
	}

	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("sent %d messages, want system + user", len(msgs))
	}
	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format.type = %v, want json_schema", format["type"])
	}
}

func TestOpenAIProvider_LengthFinish(t *testing.T) {
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"head`, "length"))
	})

	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
	_, err := p.Generate(context.Background(), UserPrompt("", "advise"))
	if KindOf(err) != KindTruncated {
		t.Fatalf("expected KindTruncated, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "slow down", "type": "rate_limit"},
		})
	})

	p, _ := NewOpenAIProvider(OpenAIConfig{APIKey: "k", BaseURL: url})
	_, err := p.Generate(context.Background(), UserPrompt("", "advise"))
	if KindOf(err) != KindRateLimited {
		t.Fatalf("expected KindRateLimited, got %T (%v)", err, err)
	}
}

func TestOpenRouterProvider_UsesBaseURLAndModel(t *testing.T) {
	var model, auth string
	url := openAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		var body struct{ Model string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		model = body.Model
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{}`, "stop"))
	})

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "or-key", Model: "google/gemini-2.0-flash-001", BaseURL: url})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Generate(context.Background(), UserPrompt("", "hi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if model != "google/gemini-2.0-flash-001" {
		t.Errorf("model = %q, want pass-through name", model)
	}
	if !strings.HasSuffix(auth, "or-key") {
		t.Errorf("authorization header = %q", auth)
	}
}

func TestProviderConstructors_RequireKey(t *testing.T) {
	if _, err := NewAnthropicProvider(AnthropicConfig{}); err == nil {
		t.Error("anthropic: expected error without key")
	}
	if _, err := NewOpenAIProvider(OpenAIConfig{}); err == nil {
		t.Error("openai: expected error without key")
	}
	if _, err := NewOpenRouterProvider(OpenRouterConfig{}); err == nil {
		t.Error("openrouter: expected error without key")
	}
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Error("gemini: expected error without key")
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name   string
		models map[string]string
		want   string
	}{
		{"claude-haiku", anthropicModels, "claude-haiku-4-5-20251001"},
		{"gpt-4o-mini", openaiModels, "gpt-4o-mini"},
		{"gemini-flash", geminiModels, "gemini-2.0-flash"},
		{"some-custom-model", geminiModels, "some-custom-model"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.name, tt.models); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(adviceSchema().Definition)

	if s.Type != genai.TypeObject {
		t.Fatalf("type = %v, want object", s.Type)
	}
	if len(s.Properties) != 2 {
		t.Fatalf("properties = %d, want 2", len(s.Properties))
	}
	focus := s.Properties["focus"]
	if focus == nil || focus.Type != genai.TypeString || len(focus.Enum) != 4 {
		t.Errorf("focus schema not converted: %+v", focus)
	}
	if len(s.Required) != 1 || s.Required[0] != "headline" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestGeminiSchema_DecodedJSON(t *testing.T) {
	var def map[string]any
	_ = json.Unmarshal([]byte(`{"type":"array","items":{"type":"integer"},"required":["x"]}`), &def)

	s := geminiSchema(def)
	if s.Type != genai.TypeArray || s.Items == nil || s.Items.Type != genai.TypeInteger {
		t.Errorf("array schema not converted: %+v", s)
	}
	if len(s.Required) != 1 {
		t.Errorf("required = %v", s.Required)
	}
}
