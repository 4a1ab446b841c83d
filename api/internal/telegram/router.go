// Package telegram is the bot front end: send a document photo, get the
// converted text back.
package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docling-web/api/internal/engine"
)

type Router struct {
	Bot        *tgbotapi.BotAPI
	EngManager *engine.Manager
	Engines    *engine.Engines
	Prompt     string
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	cid := upd.Message.Chat.ID

	if upd.Message.IsCommand() {
		r.handleCommand(upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
		return
	}

	r.send(cid, "Send a photo of a document page and I will convert it. Commands: /start, /health, /engine")
}

func (r *Router) handleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send a photo of a document page — you get back its text as DocTags, Markdown and plain text.\nCommands: /health, /engine")
	case "health":
		r.send(cid, "✅ OK: "+strings.Join(r.Engines.Names(), " | "))
	case "engine":
		args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(upd.Message.Text, "/engine")))
		if len(args) == 0 {
			cur := r.EngManager.Get(cid)
			r.send(cid, "Current engine: "+cur.Name()+" ("+cur.GetModel()+")\nUsage: /engine gemini | openai | tesseract")
			return
		}
		eng, err := r.Engines.GetEngine(args[0])
		if err != nil {
			r.send(cid, err.Error())
			return
		}
		r.EngManager.Set(cid, eng)
		r.send(cid, "Switched to: "+eng.Name()+" ("+eng.GetModel()+")")
	default:
		r.send(cid, "Unknown command")
	}
}

func (r *Router) send(chatID int64, text string) {
	_, _ = r.Bot.Send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendError(chatID int64, err error) {
	r.send(chatID, "⚠️ "+err.Error())
}
