package bot

import (
	"log"
	"strings"
	"time"

	"Vibella/core"
	"Vibella/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const saveFailedNote = "\n\n(could not save this conversation)"

// TgBot is an optional chat gateway: it forwards private messages to the
// same generator the HTTP API uses and persists the exchange.
type TgBot struct {
	conf        *core.Config
	api         *tgbotapi.BotAPI
	chat        core.ChatService
	store       storage.ConversationStorage
	botUsername string
}

func NewTgBot(conf *core.Config, chat core.ChatService, store storage.ConversationStorage) (*TgBot, error) {
	tgBot := &TgBot{
		conf:        conf,
		chat:        chat,
		store:       store,
		botUsername: conf.Telegram.Username,
	}

	api, err := tgbotapi.NewBotAPI(conf.Telegram.ApiKey)
	if err != nil {
		return nil, err
	}
	tgBot.api = api

	return tgBot, nil
}

func (t *TgBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := t.api.GetUpdatesChan(u)
	if err != nil {
		log.Fatal(err)
	}

	for update := range updates {
		if update.Message == nil {
			continue
		}

		incoming := update.Message
		chat := incoming.Chat
		message := incoming.Text

		if !incoming.IsCommand() && !chat.IsPrivate() && !t.isMentioned(incoming.Text) && !t.isReplyToBot(incoming) {
			continue
		}
		if incoming.IsCommand() {
			switch incoming.Command() {
			case "start", "help":
				text := "Hi, I'm Vibella. Send me a photo idea or a mood and I'll suggest a caption, hashtags and songs for your post.\n"
				text += "Ask for \"only captions\", \"only hashtags\" or \"only songs\" to get just that part."
				t.plainResponse(chat.ID, text)
			}
			continue
		}

		logText := message
		if len(logText) > 50 {
			logText = logText[:50] + "..."
		}
		log.Printf("[%s] %s", incoming.From.UserName, logText)

		go t.SendResponse(chat.ID, message)
	}
}

func (t *TgBot) Stop() {
	t.api.StopReceivingUpdates()
}

func (t *TgBot) composeReply(request string) string {
	// telegram messages are text only, no image attached
	response := t.chat.GenerateResponse(request, "")

	if _, err := t.store.SaveExchange(request, response, ""); err != nil {
		log.Printf("error saving exchange: %v", err)
		response += saveFailedNote
	}
	return response
}

func (t *TgBot) SendResponse(chatId int64, request string) {
	stopTicker := make(chan bool)
	replyReady := make(chan string)

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				t.sendChatAction(chatId, "typing")
			case <-stopTicker:
				return
			}
		}
	}()

	go func() {
		replyReady <- t.composeReply(request)
	}()

	reply := <-replyReady
	stopTicker <- true

	t.plainResponse(chatId, reply)
}

func (t *TgBot) sendChatAction(chatId int64, action string) {
	msg := tgbotapi.NewChatAction(chatId, action)
	if _, err := t.api.Send(msg); err != nil {
		log.Printf("error sending chat action: %v", err)
	}
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	msg := tgbotapi.NewMessage(chatId, text)
	if _, err := t.api.Send(msg); err != nil {
		log.Printf("error sending message: %v", err)
	}
}

// detect if we are mentioned in the message
func (t *TgBot) isMentioned(text string) bool {
	if t.botUsername != "" {
		return strings.Contains(text, "@"+t.botUsername)
	}
	return false
}

// detect if message is a reply to a message from the bot
func (t *TgBot) isReplyToBot(message *tgbotapi.Message) bool {
	if message.ReplyToMessage != nil {
		return message.ReplyToMessage.From.UserName == t.botUsername
	}
	return false
}
