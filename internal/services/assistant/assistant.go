// Package assistant answers shop administrators' questions using Gemini, grounded
// on a snapshot of the current dashboard and stock figures.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/malabro/eshop-backend/internal/models"
	"google.golang.org/api/option"
)

var ErrDisabled = errors.New("assistant is not configured")

// Snapshot is the shop state the model is allowed to reason about.
type Snapshot struct {
	Dashboard     models.DashboardStats
	Inventory     models.InventorySummary
	LowStock      []models.StockAlert
	PendingOrders []models.Order
}

type Assistant interface {
	Ask(ctx context.Context, question string, snapshot Snapshot) (string, error)
}

type GeminiAssistant struct {
	client *genai.Client
	model  string
}

func NewGeminiAssistant(ctx context.Context, apiKey, model string) (*GeminiAssistant, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiAssistant{client: client, model: model}, nil
}

func (a *GeminiAssistant) Close() error {
	return a.client.Close()
}

func (a *GeminiAssistant) Ask(ctx context.Context, question string, snapshot Snapshot) (string, error) {
	model := a.client.GenerativeModel(a.model)
	model.SetTemperature(0.2)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := model.GenerateContent(ctx, genai.Text(BuildPrompt(question, snapshot)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var answer strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				answer.WriteString(string(text))
			}
		}
		break
	}
	if answer.Len() == 0 {
		return "", errors.New("empty response from model")
	}
	return answer.String(), nil
}

// Disabled is used when no API key is configured.
type Disabled struct{}

func (Disabled) Ask(context.Context, string, Snapshot) (string, error) {
	return "", ErrDisabled
}

const systemPrompt = `You are the back-office assistant of MALABRO, a grocery shop in Senegal.
Answer in the language of the question. Only use the figures provided in the shop data.
Amounts are in FCFA. Be brief and concrete.`

// BuildPrompt renders the snapshot as plain text followed by the question.
func BuildPrompt(question string, s Snapshot) string {
	var b strings.Builder
	b.WriteString("Shop data:\n")
	fmt.Fprintf(&b, "- Orders: %d total, %d pending, %d paid\n",
		s.Dashboard.TotalOrders, s.Dashboard.PendingOrders, s.Dashboard.CompletedOrders)
	fmt.Fprintf(&b, "- Revenue from paid orders: %.0f FCFA\n", s.Dashboard.TotalRevenue)
	fmt.Fprintf(&b, "- Customers: %d\n", s.Dashboard.TotalUsers)
	fmt.Fprintf(&b, "- Active products: %d, stock value %.0f FCFA, %d low on stock, %d out of stock\n",
		s.Inventory.TotalProducts, s.Inventory.TotalStockValue, s.Inventory.LowStockCount, s.Inventory.OutOfStockCount)

	if len(s.LowStock) > 0 {
		b.WriteString("Low stock:\n")
		for _, a := range s.LowStock {
			fmt.Fprintf(&b, "  * %s: %d left (threshold %d)\n", a.ProductName, a.StockQuantity, a.LowStockThreshold)
		}
	}
	if len(s.PendingOrders) > 0 {
		b.WriteString("Orders awaiting payment:\n")
		for _, o := range s.PendingOrders {
			fmt.Fprintf(&b, "  * %s by %s, %.0f FCFA, %s\n",
				o.OrderReference, o.CustomerName, o.TotalAmount, o.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}
