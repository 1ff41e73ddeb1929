// Package alerts sends screening event notifications to Telegram.
// A nil *Telegram notifier is safe to use and sends nothing, so callers
// never need to branch on whether alerting is configured.
package alerts

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"rugscreen/internal/domain"
)

// Telegram sends alert messages to a single chat.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram connects the bot. Returns nil (and no error) when token or
// chat ID is unset, which disables alerting.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	log.Info().Str("username", api.Self.UserName).Msg("telegram bot connected")
	return &Telegram{api: api, chatID: chatID}, nil
}

// TokenGraduated announces a token that completed its pass streak.
func (t *Telegram) TokenGraduated(token *domain.Token, analysis domain.LiquidityAnalysis) {
	text := fmt.Sprintf(`🎓 *Token graduated*

*Address:* `+"`%s`"+`
*Chain:* %s
*Composite score:* %d/100 (%s)
*Consecutive passes:* %d

%s`,
		token.Address,
		token.ChainID,
		analysis.TotalScore,
		analysis.Recommendation,
		token.ConsecutivePasses,
		escapeMarkdown(token.DexscreenerURL),
	)
	t.send(text)
}

// TokenDemoted announces a graduated token that failed a filter.
func (t *Telegram) TokenDemoted(token *domain.Token, reasons []string) {
	text := fmt.Sprintf(`⚠️ *Graduated token demoted*

*Address:* `+"`%s`"+`
*Chain:* %s
*Failed filters:*
%s`,
		token.Address,
		token.ChainID,
		formatReasons(reasons),
	)
	t.send(text)
}

// CycleSummary posts the outcome of one full screening cycle. Quiet
// cycles (nothing graduated or demoted) are not announced.
func (t *Telegram) CycleSummary(evaluated, graduated, demoted, failed int) {
	if graduated == 0 && demoted == 0 {
		return
	}

	text := fmt.Sprintf(`📊 *Screening cycle complete*

*Evaluated:* %d
*Graduated:* %d
*Demoted:* %d
*Errors:* %d`,
		evaluated,
		graduated,
		demoted,
		failed,
	)
	t.send(text)
}

// PositionClosed announces a paper position exit.
func (t *Telegram) PositionClosed(pos *domain.Position) {
	emoji := "🔴"
	if pos.PnLUSD != nil && pos.PnLUSD.IsPositive() {
		emoji = "🟢"
	}

	pnl := "n/a"
	if pos.PnLUSD != nil {
		pnl = "$" + pos.PnLUSD.StringFixed(2)
	}

	text := fmt.Sprintf(`%s *Paper position closed*

*Token:* %s (`+"`%s`"+`)
*Reason:* %s
*P/L:* %s`,
		emoji,
		escapeMarkdown(pos.Symbol),
		pos.TokenAddress,
		pos.ExitReason,
		pnl,
	)
	t.send(text)
}

func (t *Telegram) send(text string) {
	if t == nil {
		return
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		// Alert failures never interrupt a screening cycle.
		log.Warn().Err(err).Msg("telegram send failed")
	}
}

func formatReasons(reasons []string) string {
	if len(reasons) == 0 {
		return "• (none recorded)"
	}
	var b strings.Builder
	for _, r := range reasons {
		b.WriteString("• ")
		b.WriteString(escapeMarkdown(r))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
