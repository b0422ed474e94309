package usecases

import (
	"fmt"
	"strings"

	"github.com/Pahinithi/stock-market-chatbot/internal/domain/entities"
)

const promptRole = "You are a stock market analysis assistant. Answer the question " +
	"using the market data below when it is relevant. If the question asks about data " +
	"that is not provided, say so and answer with general stock market knowledge.\n\n"

// ComposePrompt merges the user message, optional caller-supplied context
// and the grounding data into a single payload for the language backend.
// The ordering is deliberate: role framing first, grounding data next,
// free-form context, user question last, so the backend treats the
// grounding data as authoritative. Caller context is appended verbatim;
// no sanitization is performed.
func ComposePrompt(message, callerContext string, qc entities.QueryContext) string {
	var sb strings.Builder
	sb.WriteString(promptRole)

	if !qc.Empty() {
		sb.WriteString("Market data:\n")
		for _, st := range qc.Stats {
			fmt.Fprintf(&sb, "%s: %d records from %s to %s, latest close %.2f\n",
				st.Symbol, st.RecordCount,
				st.FirstDate.Format("2006-01-02"), st.LastDate.Format("2006-01-02"),
				st.LatestClose)
		}
		if len(qc.Records) > 0 {
			sb.WriteString("Recent records (newest first):\n")
			for _, rec := range qc.Records {
				fmt.Fprintf(&sb, "%s %s open %.2f high %.2f low %.2f close %.2f volume %d\n",
					rec.Symbol, rec.Date.Format("2006-01-02"),
					rec.Open, rec.High, rec.Low, rec.Close, rec.Volume)
			}
		}
		sb.WriteString("\n")
	}

	if callerContext != "" {
		sb.WriteString("Additional context:\n")
		sb.WriteString(callerContext)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(message)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}
