package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docling-web/api/internal/pipeline"
	"docling-web/api/internal/source"
)

const replyLimit = 3900 // telegram messages cap at 4096 chars

var httpc = &http.Client{Timeout: 60 * time.Second}

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.sendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	imgBytes, err := download(url)
	if err != nil {
		r.sendError(cid, err)
		return
	}
	r.send(cid, "Got the photo, converting…")

	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	p := pipeline.New(r.EngManager.Get(cid), 10*time.Second)
	out, err := p.Process(ctx, source.ImageSource{Kind: source.KindUpload, Data: imgBytes}, r.Prompt)
	if err != nil {
		r.sendError(cid, err)
		return
	}

	text := out.PlainText
	if text == "" {
		text = "(empty)"
	}
	if len(text) > replyLimit {
		text = text[:replyLimit] + "…"
	}
	r.send(cid, "📝 Converted text:\n\n"+text)

	doc := tgbotapi.NewDocument(cid, tgbotapi.FileBytes{
		Name:  "document.md",
		Bytes: []byte(out.Markdown),
	})
	doc.Caption = "Markdown export"
	if _, err := r.Bot.Send(doc); err != nil {
		r.sendError(cid, err)
	}
}

func download(url string) ([]byte, error) {
	resp, err := httpc.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
