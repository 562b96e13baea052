package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linchiahui/vocalchat/internal/audio"
	"github.com/linchiahui/vocalchat/internal/client"
	"github.com/linchiahui/vocalchat/internal/config"
	"github.com/linchiahui/vocalchat/internal/conversation"
	model "github.com/linchiahui/vocalchat/internal/model/conversation"
	"github.com/linchiahui/vocalchat/internal/orchestrator"
	"github.com/linchiahui/vocalchat/internal/translate"
)

const usage = `commands:
  <text>              送出訊息
  /list               列出對話
  /lang <n> <code>    為第 n 則訊息選擇翻譯語言 (空 code 取消選擇)
  /play <n>           播放第 n 則訊息的語音
  /playtr <n> <code>  播放第 n 則訊息的翻譯語音
  /langs              列出支援的語言
  /quit               離開`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	api := client.New(cfg.Client.ServerURL)
	store := conversation.NewStore()
	catalog := model.NewMemoryCatalog(model.Seed())
	player := audio.NewController(audio.CommandDevice{Command: cfg.Client.PlayerCmd}, logger.Named("audio"))
	orch := orchestrator.New(store, api, api, player, logger.Named("orchestrator"))
	coord := translate.NewCoordinator(store, catalog, api, logger.Named("translate"))

	fmt.Println("vocalchat —", cfg.Client.ServerURL)
	fmt.Println(usage)

	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !strings.HasPrefix(line, "/") {
			submit(ctx, orch, line)
			printConversation(store, orch, coord)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "/quit":
			return
		case "/list":
			printConversation(store, orch, coord)
		case "/langs":
			for _, lang := range catalog.List() {
				fmt.Printf("  %s  %s (%s)\n", lang.Code, lang.Name, lang.PromptName)
			}
		case "/lang":
			if len(fields) < 2 {
				fmt.Println(usage)
				continue
			}
			code := ""
			if len(fields) > 2 {
				code = fields[2]
			}
			id, ok := resolveMessage(store, fields[1])
			if !ok {
				continue
			}
			if err := coord.SelectLanguage(ctx, id, code); err != nil {
				fmt.Println("翻譯失敗:", err)
				continue
			}
			printConversation(store, orch, coord)
		case "/play":
			if len(fields) < 2 {
				fmt.Println(usage)
				continue
			}
			id, ok := resolveMessage(store, fields[1])
			if !ok {
				continue
			}
			go func() {
				if err := orch.PlayMessage(ctx, id); err != nil {
					fmt.Println("播放失敗:", err)
				}
			}()
		case "/playtr":
			if len(fields) < 3 {
				fmt.Println(usage)
				continue
			}
			id, ok := resolveMessage(store, fields[1])
			if !ok {
				continue
			}
			code := fields[2]
			go func() {
				if err := orch.PlayTranslation(ctx, id, code); err != nil {
					fmt.Println("播放翻譯失敗:", err)
				}
			}()
		default:
			fmt.Println(usage)
		}
	}
}

func submit(ctx context.Context, orch *orchestrator.Orchestrator, text string) {
	fmt.Println("處理中...")
	if _, err := orch.Submit(ctx, text); err != nil {
		fmt.Println("錯誤:", err)
	}
}

// resolveMessage maps a 1-based display index (newest first) to a message ID.
func resolveMessage(store *conversation.Store, arg string) (string, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		fmt.Println("無效的訊息編號:", arg)
		return "", false
	}
	snapshot := store.Snapshot()
	if n > len(snapshot) {
		fmt.Println("訊息不存在:", arg)
		return "", false
	}
	return snapshot[n-1].ID, true
}

func printConversation(store *conversation.Store, orch *orchestrator.Orchestrator, coord *translate.Coordinator) {
	snapshot := store.Snapshot()
	for i, msg := range snapshot {
		who := "AI"
		if msg.IsUser {
			who = "你"
		}
		marks := ""
		if msg.Audio != nil {
			marks += " ♪"
		}
		if orch.Synthesizing(msg.ID) {
			marks += " (語音生成中)"
		}
		if coord.Translating(msg.ID) {
			marks += " (翻譯中)"
		}
		fmt.Printf("%2d. [%s] %s%s\n    %s\n", i+1, who, msg.Timestamp, marks, msg.Text)
		if code, ok := store.SelectedLanguage(msg.ID); ok {
			if text, cached := msg.Translation(code); cached {
				fmt.Printf("    (%s) %s\n", code, text)
			}
		}
	}
}
