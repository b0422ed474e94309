package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
)

// mockLLM implements ports.TextGenerator for testing.
type mockLLM struct {
	response string
	err      error
	block    bool // wait for ctx cancellation instead of answering
	prompt   string
}

func (m *mockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.err != nil {
		return "", m.err
	}
	if m.response == "" {
		return "mocked answer", nil
	}
	return m.response, nil
}

func newTestChat(llm *mockLLM, timeout time.Duration) *ChatUseCase {
	store := newTestStore()
	return NewChatUseCase(NewResolver(store), NewContextBuilder(store, 10, 30), llm, timeout)
}

func TestChatUseCase_GroundedAnswer(t *testing.T) {
	llm := &mockLLM{response: "NYA closed at 16555."}
	uc := newTestChat(llm, 0)

	result := uc.Answer(context.Background(), &entities.ChatRequest{Message: "Tell me about NYA index"})

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Response != "NYA closed at 16555." {
		t.Errorf("unexpected response: %s", result.Response)
	}
	if result.Data == nil {
		t.Fatal("expected grounding data to be attached")
	}
	if len(result.Data.Stats) != 1 || result.Data.Stats[0].Symbol != "NYA" {
		t.Errorf("unexpected data stats: %+v", result.Data.Stats)
	}
	if !strings.Contains(llm.prompt, "Market data:") {
		t.Error("backend prompt should carry the grounding block")
	}
}

func TestChatUseCase_NoGrounding(t *testing.T) {
	llm := &mockLLM{response: "Markets in general go up and down."}
	uc := newTestChat(llm, 0)

	result := uc.Answer(context.Background(), &entities.ChatRequest{Message: "What about ZZZ999 made up"})

	if !result.Success {
		t.Fatalf("ungrounded answers should still succeed, got %q", result.Error)
	}
	if result.Data != nil {
		t.Errorf("expected no data, got %+v", result.Data)
	}
	if strings.Contains(llm.prompt, "Market data:") {
		t.Error("prompt should have no grounding block")
	}
}

func TestChatUseCase_BackendFailure(t *testing.T) {
	llm := &mockLLM{err: errors.New("quota exceeded")}
	uc := newTestChat(llm, 0)

	result := uc.Answer(context.Background(), &entities.ChatRequest{Message: "Tell me about NYA index"})

	if result.Success {
		t.Fatal("expected failure")
	}
	if result.Error != "quota exceeded" {
		t.Errorf("expected error %q, got %q", "quota exceeded", result.Error)
	}
	if result.Response != fallbackResponse {
		t.Errorf("expected fallback response, got %q", result.Response)
	}
	if result.Data == nil || len(result.Data.Stats) != 1 {
		t.Error("already-built grounding data should survive a backend failure")
	}
}

func TestChatUseCase_BackendTimeout(t *testing.T) {
	llm := &mockLLM{block: true}
	uc := newTestChat(llm, 20*time.Millisecond)

	result := uc.Answer(context.Background(), &entities.ChatRequest{Message: "Tell me about NYA index"})

	if result.Success {
		t.Fatal("expected timeout failure")
	}
	if result.Error == "" {
		t.Error("expected a timeout error message")
	}
	if result.Data == nil {
		t.Error("grounding data should still be returned on timeout")
	}
}

func TestChatUseCase_Direct(t *testing.T) {
	llm := &mockLLM{response: "direct answer"}
	uc := newTestChat(llm, 0)

	result := uc.Direct(context.Background(), &entities.ChatRequest{Message: "Tell me about NYA index"})

	if !result.Success || result.Response != "direct answer" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Data != nil {
		t.Error("direct queries carry no data")
	}
	if strings.Contains(llm.prompt, "Market data:") {
		t.Error("direct queries must not be grounded")
	}
}

func TestChatUseCase_CallerContextForwarded(t *testing.T) {
	llm := &mockLLM{}
	uc := newTestChat(llm, 0)

	uc.Answer(context.Background(), &entities.ChatRequest{
		Message: "What about ZZZ999 made up",
		Context: "the user holds index funds",
	})

	if !strings.Contains(llm.prompt, "the user holds index funds") {
		t.Error("caller context should reach the backend prompt")
	}
}
