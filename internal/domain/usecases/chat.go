package usecases

import (
	"context"
	"time"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
	"github.com/Pahinithi/stock-market-chatbot/internal/domain/ports"
)

const defaultBackendTimeout = 60 * time.Second

// fallbackResponse is returned when the language backend fails; the
// structured data that was already built is still attached to the result.
const fallbackResponse = "Sorry, I could not generate an answer right now. " +
	"Any matching market data is included below."

// ChatUseCase runs the query pipeline: resolve entities, build grounding
// context, compose the prompt, call the language backend once, and
// assemble the unified result.
type ChatUseCase struct {
	resolver *Resolver
	builder  *ContextBuilder
	llm      ports.TextGenerator
	timeout  time.Duration
}

// NewChatUseCase creates a ChatUseCase with injected dependencies.
// timeout bounds the single language-backend call per query.
func NewChatUseCase(resolver *Resolver, builder *ContextBuilder, llm ports.TextGenerator, timeout time.Duration) *ChatUseCase {
	if timeout <= 0 {
		timeout = defaultBackendTimeout
	}
	return &ChatUseCase{
		resolver: resolver,
		builder:  builder,
		llm:      llm,
		timeout:  timeout,
	}
}

// Answer processes one chat message end to end. It never returns a Go
// error: backend failures degrade to a fallback response with
// Success=false and the error message in the result, while any grounding
// data that was built is still returned.
func (uc *ChatUseCase) Answer(ctx context.Context, req *entities.ChatRequest) *entities.ChatResult {
	// 1. Resolve the message against the known vocabulary.
	match := uc.resolver.Resolve(req.Message)

	// 2. Build the bounded grounding context.
	qc := uc.builder.Build(match)
	var data *entities.QueryContext
	if !qc.Empty() {
		data = &qc
	}

	// 3. Compose the prompt.
	prompt := ComposePrompt(req.Message, req.Context, qc)

	// 4. Single bounded backend call, no retry.
	callCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	answer, err := uc.llm.Generate(callCtx, prompt)
	if err != nil {
		return &entities.ChatResult{
			Response: fallbackResponse,
			Data:     data,
			Success:  false,
			Error:    err.Error(),
		}
	}

	return &entities.ChatResult{
		Response: answer,
		Data:     data,
		Success:  true,
	}
}

// Direct sends the message to the language backend without any grounding
// data, for callers that want an ungrounded answer.
func (uc *ChatUseCase) Direct(ctx context.Context, req *entities.ChatRequest) *entities.ChatResult {
	prompt := ComposePrompt(req.Message, req.Context, entities.QueryContext{})

	callCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	answer, err := uc.llm.Generate(callCtx, prompt)
	if err != nil {
		return &entities.ChatResult{
			Response: fallbackResponse,
			Success:  false,
			Error:    err.Error(),
		}
	}
	return &entities.ChatResult{Response: answer, Success: true}
}
